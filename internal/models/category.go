package models

import (
	"fmt"
	"strings"
)

// Category classifies an item. It is a closed set of five values.
type Category string

const (
	CategoryIncome   Category = "income"
	CategoryBills    Category = "bills"
	CategoryExpenses Category = "expenses"
	CategorySavings  Category = "savings"
	CategoryDebt     Category = "debt"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryIncome,
	CategoryBills,
	CategoryExpenses,
	CategorySavings,
	CategoryDebt,
}

var categoryLabels = map[Category]string{
	CategoryIncome:   "Income",
	CategoryBills:    "Bills",
	CategoryExpenses: "Expenses",
	CategorySavings:  "Savings",
	CategoryDebt:     "Debt Allocation",
}

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human readable name of the category.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Payable reports whether items of this category carry a paid flag.
func (c Category) Payable() bool {
	return c == CategoryBills || c == CategorySavings || c == CategoryDebt
}

// ParseCategory converts user input into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// BillFrequency is how often a bill recurs.
type BillFrequency string

const (
	BillMonthly   BillFrequency = "monthly"
	BillWeekly    BillFrequency = "weekly"
	BillBiweekly  BillFrequency = "biweekly"
	BillQuarterly BillFrequency = "quarterly"
	BillYearly    BillFrequency = "yearly"
	BillOneTime   BillFrequency = "one-time"
)

// Valid reports whether f is empty or a known bill frequency.
func (f BillFrequency) Valid() bool {
	switch f {
	case "", BillMonthly, BillWeekly, BillBiweekly, BillQuarterly, BillYearly, BillOneTime:
		return true
	}
	return false
}

// ExpenseFrequency is how often an expense occurs.
type ExpenseFrequency string

const (
	ExpenseDaily   ExpenseFrequency = "daily"
	ExpenseWeekly  ExpenseFrequency = "weekly"
	ExpenseMonthly ExpenseFrequency = "monthly"
	ExpenseYearly  ExpenseFrequency = "yearly"
	ExpenseOneTime ExpenseFrequency = "one-time"
)

// Valid reports whether f is empty or a known expense frequency.
func (f ExpenseFrequency) Valid() bool {
	switch f {
	case "", ExpenseDaily, ExpenseWeekly, ExpenseMonthly, ExpenseYearly, ExpenseOneTime:
		return true
	}
	return false
}
