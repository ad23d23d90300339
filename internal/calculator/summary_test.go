package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/budgetkeeper/internal/models"
)

func item(name string, amount string, c models.Category) models.Item {
	return models.NewItem{Name: name, Amount: decimal.RequireFromString(amount), Category: c}.WithID(name)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateSummary(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.Item
		validateFunc func(t *testing.T, s Summary)
	}{
		{
			name:  "empty input is all zero",
			items: nil,
			validateFunc: func(t *testing.T, s Summary) {
				for _, c := range models.Categories {
					assert.True(t, s.Total(c).IsZero(), "%s total", c)
				}
				assert.True(t, s.TotalOut.IsZero())
				assert.True(t, s.Net.IsZero())
				assert.False(t, s.IsNegative)
				assert.Zero(t, s.Skipped)
			},
		},
		{
			name: "income 1000 and bills 400",
			items: []models.Item{
				item("Salary", "1000", models.CategoryIncome),
				item("Rent", "400", models.CategoryBills),
			},
			validateFunc: func(t *testing.T, s Summary) {
				assert.True(t, s.TotalIncome.Equal(dec("1000")))
				assert.True(t, s.TotalOut.Equal(dec("400")))
				assert.True(t, s.Net.Equal(dec("600")))
				assert.False(t, s.IsNegative)
			},
		},
		{
			name: "every category with cents",
			items: []models.Item{
				item("DVA", "1300", models.CategoryIncome),
				item("Lyft", "100.10", models.CategoryIncome),
				item("Car Note", "390", models.CategoryBills),
				item("Gas", "60.25", models.CategoryExpenses),
				item("Emergency", "50", models.CategorySavings),
				item("Card", "125.5", models.CategoryDebt),
			},
			validateFunc: func(t *testing.T, s Summary) {
				assert.True(t, s.TotalIncome.Equal(dec("1400.10")))
				assert.True(t, s.TotalBills.Equal(dec("390")))
				assert.True(t, s.TotalExpenses.Equal(dec("60.25")))
				assert.True(t, s.TotalSavings.Equal(dec("50")))
				assert.True(t, s.TotalDebt.Equal(dec("125.5")))
				assert.True(t, s.TotalOut.Equal(dec("625.75")))
				assert.True(t, s.Net.Equal(dec("774.35")))
			},
		},
		{
			name: "outgoing exceeds income",
			items: []models.Item{
				item("Salary", "100", models.CategoryIncome),
				item("Rent", "150", models.CategoryBills),
			},
			validateFunc: func(t *testing.T, s Summary) {
				assert.True(t, s.Net.Equal(dec("-50")))
				assert.True(t, s.IsNegative)
			},
		},
		{
			name: "unknown categories are excluded and counted",
			items: []models.Item{
				item("Salary", "100", models.CategoryIncome),
				{ID: "g", Name: "Gift", Amount: dec("999"), Category: "gifts"},
				{ID: "h", Name: "Blank", Amount: dec("1"), Category: ""},
			},
			validateFunc: func(t *testing.T, s Summary) {
				assert.True(t, s.TotalIncome.Equal(dec("100")))
				assert.True(t, s.TotalOut.IsZero())
				assert.True(t, s.Net.Equal(dec("100")))
				assert.Equal(t, 2, s.Skipped)
			},
		},
		{
			name: "negative amounts are summed as-is",
			items: []models.Item{
				{ID: "r", Name: "Refund", Amount: dec("-20"), Category: models.CategoryExpenses},
			},
			validateFunc: func(t *testing.T, s Summary) {
				assert.True(t, s.TotalExpenses.Equal(dec("-20")))
				assert.True(t, s.Net.Equal(dec("20")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := CalculateSummary(tt.items)

			// Derived fields always hold.
			out := s.TotalBills.Add(s.TotalExpenses).Add(s.TotalSavings).Add(s.TotalDebt)
			assert.True(t, s.TotalOut.Equal(out), "TotalOut = %s, want %s", s.TotalOut, out)
			assert.True(t, s.Net.Equal(s.TotalIncome.Sub(s.TotalOut)))
			assert.Equal(t, s.Net.IsNegative(), s.IsNegative)

			tt.validateFunc(t, s)
		})
	}
}

func TestCalculateSummaryDoesNotMutateInput(t *testing.T) {
	items := []models.Item{item("Salary", "10", models.CategoryIncome)}
	before := items[0]

	CalculateSummary(items)

	assert.Equal(t, before.ID, items[0].ID)
	assert.True(t, before.Amount.Equal(items[0].Amount))
}

func TestGroupByCategory(t *testing.T) {
	items := []models.Item{
		item("Rent", "800", models.CategoryBills),
		item("Salary", "2000", models.CategoryIncome),
		{ID: "x", Name: "Mystery", Amount: dec("3"), Category: "other"},
		item("Phone", "50", models.CategoryBills),
	}

	groups := GroupByCategory(items)

	if assert.Len(t, groups, 3) {
		assert.Equal(t, models.CategoryIncome, groups[0].Category)
		assert.Equal(t, models.CategoryBills, groups[1].Category)
		assert.Equal(t, []string{"Rent", "Phone"}, []string{groups[1].Items[0].Name, groups[1].Items[1].Name})
		assert.True(t, groups[1].Total.Equal(dec("850")))
		assert.Equal(t, models.Category("other"), groups[2].Category)
	}

	assert.True(t, CategoryTotal(items, models.CategoryBills).Equal(dec("850")))
	assert.True(t, CategoryTotal(items, models.CategoryDebt).IsZero())
}
