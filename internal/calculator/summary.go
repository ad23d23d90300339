// Package calculator derives budget totals from item lists.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetkeeper/internal/models"
)

// Summary holds the totals computed from a list of items.
// It is derived on demand and never persisted.
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalBills    decimal.Decimal
	TotalExpenses decimal.Decimal
	TotalSavings  decimal.Decimal
	TotalDebt     decimal.Decimal

	// TotalOut = TotalBills + TotalExpenses + TotalSavings + TotalDebt
	TotalOut decimal.Decimal

	// Net = TotalIncome - TotalOut
	Net        decimal.Decimal
	IsNegative bool

	// Skipped counts items whose category is not one of the five known
	// ones. Their amounts are excluded from every total.
	Skipped int
}

// CalculateSummary totals items per category and derives the outgoing sum
// and net balance.
//
// Algorithm:
// - Single pass: add each amount to the bucket of its category
// - Unknown categories are skipped and counted, never an error
// - Negative amounts are summed as-is; validation happens at item creation
//
// The input is not modified. An empty list yields an all-zero summary.
func CalculateSummary(items []models.Item) Summary {
	s := Summary{
		TotalIncome:   decimal.Zero,
		TotalBills:    decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalSavings:  decimal.Zero,
		TotalDebt:     decimal.Zero,
	}

	for _, item := range items {
		switch item.Category {
		case models.CategoryIncome:
			s.TotalIncome = s.TotalIncome.Add(item.Amount)
		case models.CategoryBills:
			s.TotalBills = s.TotalBills.Add(item.Amount)
		case models.CategoryExpenses:
			s.TotalExpenses = s.TotalExpenses.Add(item.Amount)
		case models.CategorySavings:
			s.TotalSavings = s.TotalSavings.Add(item.Amount)
		case models.CategoryDebt:
			s.TotalDebt = s.TotalDebt.Add(item.Amount)
		default:
			s.Skipped++
		}
	}

	s.TotalOut = s.TotalBills.Add(s.TotalExpenses).Add(s.TotalSavings).Add(s.TotalDebt)
	s.Net = s.TotalIncome.Sub(s.TotalOut)
	s.IsNegative = s.Net.IsNegative()
	return s
}

// Total returns the summary bucket for one category, or zero for unknown
// categories.
func (s Summary) Total(c models.Category) decimal.Decimal {
	switch c {
	case models.CategoryIncome:
		return s.TotalIncome
	case models.CategoryBills:
		return s.TotalBills
	case models.CategoryExpenses:
		return s.TotalExpenses
	case models.CategorySavings:
		return s.TotalSavings
	case models.CategoryDebt:
		return s.TotalDebt
	}
	return decimal.Zero
}
