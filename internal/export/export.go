// Package export renders the budget as human-readable Markdown or CSV.
// Totals always come from the calculator package.
package export

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mmynk/budgetkeeper/internal/calculator"
	"github.com/mmynk/budgetkeeper/internal/models"
)

// Data is everything an export covers.
type Data struct {
	Template    models.Template
	Periods     []models.Period
	GeneratedAt time.Time
}

//go:embed markdown.tmpl
var templates embed.FS

var markdownTemplate = template.Must(
	template.New("markdown.tmpl").Funcs(funcMap()).ParseFS(templates, "markdown.tmpl"),
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"groups":    calculator.GroupByCategory,
		"summary":   calculator.CalculateSummary,
		"money":     FormatMoney,
		"date":      func(t time.Time) string { return t.Format("2006-01-02") },
		"title":     title,
		"emoji":     categoryEmoji,
		"cell":      cell,
		"dueDate":   dueDate,
		"frequency": frequency,
		"details":   details,
		"inc":       func(i int) int { return i + 1 },
	}
}

// Markdown writes a report with one table per category for the template
// and every period, followed by a summary per period.
func Markdown(w io.Writer, data Data) error {
	if err := markdownTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	return nil
}

// FormatMoney formats a decimal value as dollars with thousand separators.
// Example: -1234.5 -> "-$1,234.50"
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return sign + "$" + result.String() + "." + parts[1]
}

func categoryEmoji(c models.Category) string {
	switch c {
	case models.CategoryIncome:
		return "💰"
	case models.CategoryBills:
		return "📄"
	case models.CategoryExpenses:
		return "🛒"
	case models.CategorySavings:
		return "🏦"
	case models.CategoryDebt:
		return "💳"
	}
	return "📋"
}

// title capitalizes a category name. Casers keep state, so each call
// gets its own.
func title(c models.Category) string {
	return cases.Title(language.English).String(string(c))
}

// cell makes s safe inside a table cell; empty becomes "-".
func cell(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func dueDate(it models.Item) string {
	if d, ok := it.Details.(models.BillDetails); ok {
		return cell(d.DueDate)
	}
	return "-"
}

func frequency(it models.Item) string {
	switch d := it.Details.(type) {
	case models.BillDetails:
		return cell(string(d.Frequency))
	case models.ExpenseDetails:
		return cell(string(d.Frequency))
	}
	return "-"
}

func details(it models.Item) string {
	if d := dueDate(it); d != "-" {
		return "Due: " + d
	}
	if f := frequency(it); f != "-" {
		return "Frequency: " + f
	}
	return "-"
}
