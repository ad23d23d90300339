package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetkeeper/internal/models"
)

func testData() Data {
	now := time.Date(2024, 8, 1, 9, 30, 0, 0, time.UTC)
	items := []models.Item{
		models.NewItem{Name: "Salary", Amount: decimal.NewFromInt(1000), Category: models.CategoryIncome}.WithID("i1"),
		models.NewItem{Name: "Rent, downtown", Amount: decimal.NewFromInt(400), Category: models.CategoryBills,
			Details: models.BillDetails{DueDate: "08/01", Frequency: models.BillMonthly}}.WithID("i2"),
		models.NewItem{Name: "Groceries", Amount: decimal.RequireFromString("120.5"), Category: models.CategoryExpenses,
			Details: models.ExpenseDetails{Frequency: models.ExpenseWeekly}}.WithID("i3"),
	}
	return Data{
		Template: models.Template{ID: "t", Name: "Paycheck", Items: items, CreatedAt: now, UpdatedAt: now},
		Periods: []models.Period{{
			ID:        "p1",
			Name:      "August 1-15",
			StartDate: models.NewDate(2024, 8, 1),
			EndDate:   models.NewDate(2024, 8, 15),
			Items:     models.CloneItems(items),
		}},
		GeneratedAt: now,
	}
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, testData()))
	out := buf.String()

	for _, want := range []string{
		"# Budget Export",
		"**Generated:** 2024-08-01",
		"## 📋 Template: Paycheck",
		"### 💰 Income",
		"| Rent, downtown | $400.00 | - | 08/01 | monthly |",
		"| Groceries | $120.50 | - | - | weekly |",
		"**Bills Total:** $400.00",
		"### 1. August 1-15",
		"**Period:** 2024-08-01 to 2024-08-15",
		"| Rent, downtown | $400.00 | - | Due: 08/01 |",
		"| Groceries | $120.50 | - | Frequency: weekly |",
		"| **Net Balance** | **$479.50** |",
		"✅ **Status:** Positive Balance",
		"- 📋 **Template:** 3 items",
		"- 📅 **Periods:** 1 periods",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "No budget periods created yet")
}

func TestMarkdownWithoutPeriods(t *testing.T) {
	data := testData()
	data.Periods = nil
	data.Template.Items = append(data.Template.Items,
		models.NewItem{Name: "Car | loan", Amount: decimal.NewFromInt(5000), Category: models.CategoryDebt}.WithID("d1"))

	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, data))
	out := buf.String()

	assert.Contains(t, out, "*No budget periods created yet*")
	assert.Contains(t, out, `| Car \| loan | $5,000.00 |`)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5.5", "$5.50"},
		{"1234.567", "$1,234.57"},
		{"1000000", "$1,000,000.00"},
		{"-1234.5", "-$1,234.50"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, testData()))

	r := csv.NewReader(strings.NewReader(buf.String()))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	var rows []string
	for _, rec := range records {
		rows = append(rows, strings.Join(rec, "|"))
	}

	assert.Equal(t, "Budget Export - 2024-08-01", rows[0])
	assert.Contains(t, rows, "TEMPLATE: Paycheck")
	assert.Contains(t, rows, "Category|Name|Amount|Notes|Due Date|Frequency|Expense Frequency")
	assert.Contains(t, rows, "--- BILLS ---")
	assert.Contains(t, rows, "bills|Rent, downtown|400||08/01|monthly|")
	assert.Contains(t, rows, "expenses|Groceries|120.5||||weekly")
	assert.Contains(t, rows, "PERIOD: August 1-15 (2024-08-01 to 2024-08-15)")
	assert.Contains(t, rows, "Total Income|1000")
	assert.Contains(t, rows, "Net Balance|479.5")

	// The comma in the name is quoted, not split.
	assert.Contains(t, buf.String(), `"Rent, downtown"`)
}
