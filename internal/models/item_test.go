package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr error
	}{
		{
			name: "valid income",
			item: Item{ID: "1", Name: "Salary", Amount: decimal.NewFromInt(1000), Category: CategoryIncome},
		},
		{
			name: "valid bill with details",
			item: Item{ID: "1", Name: "Rent", Amount: decimal.NewFromInt(800), Category: CategoryBills,
				Details: BillDetails{DueDate: "08/01", Frequency: BillMonthly}},
		},
		{
			name:    "empty id",
			item:    Item{Name: "Rent", Amount: decimal.NewFromInt(1), Category: CategoryBills},
			wantErr: ErrEmptyID,
		},
		{
			name:    "blank name",
			item:    Item{ID: "1", Name: "  ", Amount: decimal.NewFromInt(1), Category: CategoryBills},
			wantErr: ErrEmptyName,
		},
		{
			name:    "negative amount",
			item:    Item{ID: "1", Name: "Rent", Amount: decimal.NewFromInt(-5), Category: CategoryBills},
			wantErr: ErrNegativeAmount,
		},
		{
			name:    "unknown category",
			item:    Item{ID: "1", Name: "Gift", Amount: decimal.NewFromInt(5), Category: "gifts"},
			wantErr: ErrUnknownCategory,
		},
		{
			name: "details of another category",
			item: Item{ID: "1", Name: "Rent", Amount: decimal.NewFromInt(5), Category: CategoryIncome,
				Details: BillDetails{}},
			wantErr: ErrDetailsMismatch,
		},
		{
			name: "bad bill frequency",
			item: Item{ID: "1", Name: "Rent", Amount: decimal.NewFromInt(5), Category: CategoryBills,
				Details: BillDetails{Frequency: "fortnightly"}},
			wantErr: ErrInvalidFrequency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestItemPaid(t *testing.T) {
	bill := NewItem{Name: "Car", Amount: decimal.NewFromInt(390), Category: CategoryBills}.WithID("b")
	paid, ok := bill.Paid()
	assert.True(t, ok)
	assert.False(t, paid)

	bill, ok = bill.WithPaid(true)
	require.True(t, ok)
	paid, _ = bill.Paid()
	assert.True(t, paid)

	income := NewItem{Name: "Job", Amount: decimal.NewFromInt(1), Category: CategoryIncome}.WithID("i")
	_, ok = income.WithPaid(true)
	assert.False(t, ok, "income has no paid flag")

	expense := NewItem{Name: "Food", Amount: decimal.NewFromInt(1), Category: CategoryExpenses}.WithID("e")
	_, ok = expense.Paid()
	assert.False(t, ok, "expenses have no paid flag")
}

func TestApplyUpdate(t *testing.T) {
	base := Item{
		ID:       "x",
		Name:     "Phone",
		Amount:   decimal.NewFromInt(50),
		Category: CategoryBills,
		Details:  BillDetails{Paid: true, DueDate: "08/20", Frequency: BillMonthly},
	}

	t.Run("merges only set fields", func(t *testing.T) {
		got := base.ApplyUpdate(ItemUpdate{Amount: ptr(decimal.NewFromInt(55)), Notes: ptr("new plan")})
		assert.Equal(t, "x", got.ID)
		assert.Equal(t, "Phone", got.Name)
		assert.True(t, got.Amount.Equal(decimal.NewFromInt(55)))
		assert.Equal(t, "new plan", got.Notes)
		assert.Equal(t, BillDetails{Paid: true, DueDate: "08/20", Frequency: BillMonthly}, got.Details)
	})

	t.Run("category change reshapes details and keeps paid", func(t *testing.T) {
		got := base.ApplyUpdate(ItemUpdate{Category: ptr(CategoryDebt)})
		assert.Equal(t, CategoryDebt, got.Category)
		assert.Equal(t, DebtDetails{Paid: true}, got.Details)
	})

	t.Run("fields outside the category are ignored", func(t *testing.T) {
		got := base.ApplyUpdate(ItemUpdate{ExpenseFrequency: ptr(ExpenseDaily)})
		assert.Equal(t, base.Details, got.Details)
	})

	t.Run("does not modify the receiver", func(t *testing.T) {
		_ = base.ApplyUpdate(ItemUpdate{Name: ptr("Other"), Paid: ptr(false)})
		assert.Equal(t, "Phone", base.Name)
		paid, _ := base.Paid()
		assert.True(t, paid)
	})
}

func TestItemJSON(t *testing.T) {
	t.Run("flat encoding", func(t *testing.T) {
		it := Item{
			ID:       "1",
			Name:     "Geico",
			Amount:   decimal.RequireFromString("335.50"),
			Category: CategoryBills,
			Details:  BillDetails{DueDate: "08/11", Frequency: BillMonthly},
		}
		data, err := json.Marshal(it)
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"id":"1","name":"Geico","amount":335.5,"category":"bills","paid":false,"dueDate":"08/11","frequency":"monthly"}`,
			string(data))
	})

	t.Run("decode ignores fields of other categories", func(t *testing.T) {
		var it Item
		err := json.Unmarshal([]byte(`{"id":"2","name":"Salary","amount":1300,"category":"income","paid":true,"dueDate":"01/01"}`), &it)
		require.NoError(t, err)
		assert.Nil(t, it.Details)
		_, ok := it.Paid()
		assert.False(t, ok)
	})

	t.Run("decode accepts quoted amounts", func(t *testing.T) {
		var it Item
		err := json.Unmarshal([]byte(`{"id":"3","name":"Food","amount":"12.25","category":"expenses","expenseFrequency":"weekly"}`), &it)
		require.NoError(t, err)
		assert.True(t, it.Amount.Equal(decimal.RequireFromString("12.25")))
		assert.Equal(t, ExpenseDetails{Frequency: ExpenseWeekly}, it.Details)
	})

	t.Run("decode rejects garbage amounts", func(t *testing.T) {
		var it Item
		err := json.Unmarshal([]byte(`{"id":"3","name":"Food","amount":"lots","category":"expenses"}`), &it)
		assert.Error(t, err)
	})
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Bills ")
	require.NoError(t, err)
	assert.Equal(t, CategoryBills, c)

	_, err = ParseCategory("gifts")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, 1, 15)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-15"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, d.Equal(back.Time))

	require.NoError(t, json.Unmarshal([]byte(`"2024-01-15T10:30:00.000Z"`), &back))
	assert.Equal(t, "2024-01-15", back.String())

	assert.Error(t, json.Unmarshal([]byte(`"15/01/2024"`), &back))
}

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange(NewDate(2024, 1, 1), NewDate(2024, 1, 1)))
	assert.NoError(t, ValidateRange(NewDate(2024, 1, 1), NewDate(2024, 1, 15)))
	assert.ErrorIs(t, ValidateRange(NewDate(2024, 1, 15), NewDate(2024, 1, 1)), ErrInvalidRange)
	assert.ErrorIs(t, ValidateRange(Date{}, NewDate(2024, 1, 1)), ErrInvalidDate)
}
