package templatefile

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetkeeper/internal/calculator"
	"github.com/mmynk/budgetkeeper/internal/models"
)

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(`{
		"name": "Paycheck",
		"description": "Semi-monthly",
		"items": [
			{"name": "Salary", "amount": 2000, "category": "income"},
			{"name": "Rent", "amount": 950.5, "category": "bills", "dueDate": "08/01", "frequency": "monthly", "paid": true},
			{"name": "Food", "amount": 300, "category": "expenses", "expenseFrequency": "weekly"},
			{"name": "Card", "amount": 40, "category": "debt", "balance": 1200}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Paycheck", f.Name)
	assert.Equal(t, "Semi-monthly", f.Description)
	require.Len(t, f.Items, 4)
	assert.True(t, f.Items[1].Amount.Equal(decimal.RequireFromString("950.5")))
	assert.Equal(t, models.BillDetails{Paid: true, DueDate: "08/01", Frequency: models.BillMonthly}, f.Items[1].Details)
	assert.Equal(t, models.ExpenseDetails{Frequency: models.ExpenseWeekly}, f.Items[2].Details)
	assert.Equal(t, models.DebtDetails{}, f.Items[3].Details)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{name: "not json", payload: "{"},
		{name: "missing description", payload: `{"name": "x", "items": []}`, wantErr: ErrInvalidTemplate},
		{name: "missing items", payload: `{"name": "x", "description": "y"}`, wantErr: ErrInvalidTemplate},
		{name: "items not an array", payload: `{"name": "x", "description": "y", "items": {}}`, wantErr: ErrInvalidTemplate},
		{name: "item without name", payload: `{"name": "x", "description": "y", "items": [{"amount": 1, "category": "income"}]}`, wantErr: models.ErrEmptyName},
		{name: "quoted amount", payload: `{"name": "x", "description": "y", "items": [{"name": "a", "amount": "1", "category": "income"}]}`, wantErr: ErrInvalidTemplate},
		{name: "unknown category", payload: `{"name": "x", "description": "y", "items": [{"name": "a", "amount": 1, "category": "gifts"}]}`, wantErr: models.ErrUnknownCategory},
		{name: "negative amount", payload: `{"name": "x", "description": "y", "items": [{"name": "a", "amount": -1, "category": "bills"}]}`, wantErr: models.ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.payload))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestExample(t *testing.T) {
	f := Example()
	assert.Equal(t, "Personal Budget Template", f.Name)
	require.Len(t, f.Items, 25)
	assert.Equal(t, "DVA2", f.Items[0].Name)

	var items []models.Item
	for i, it := range f.Items {
		items = append(items, it.WithID(string(rune('a'+i))))
	}
	summary := calculator.CalculateSummary(items)
	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(1500)))
	assert.True(t, summary.TotalBills.Equal(decimal.NewFromInt(1321)))
	assert.Equal(t, 0, summary.Skipped)
}

func TestParseYAML(t *testing.T) {
	f, err := ParseYAML(strings.NewReader(`
name: Paycheck
description: From YAML
items:
  - name: Salary
    amount: 2000
    category: income
  - name: Rent
    amount: 950.50
    category: bills
    dueDate: "08/01"
    frequency: monthly
`))
	require.NoError(t, err)
	require.Len(t, f.Items, 2)
	assert.True(t, f.Items[1].Amount.Equal(decimal.RequireFromString("950.5")))
	assert.Equal(t, models.BillDetails{DueDate: "08/01", Frequency: models.BillMonthly}, f.Items[1].Details)

	_, err = ParseYAML(strings.NewReader("name: x\ndescription: y\nitems:\n  - name: a\n    amount: \"12\"\n    category: income\n"))
	assert.ErrorIs(t, err, ErrInvalidTemplate, "quoted amounts are rejected in YAML too")
}
