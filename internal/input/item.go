package input

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetkeeper/internal/models"
)

// Item is the raw form data of one budget item.
type Item struct {
	Name             string `json:"name" validate:"required,max=200"`
	Amount           string `json:"amount" validate:"required,amount"`
	Category         string `json:"category" validate:"required,category"`
	Notes            string `json:"notes" validate:"max=1000"`
	Date             string `json:"date"`
	DueDate          string `json:"dueDate" validate:"max=32"`
	Frequency        string `json:"frequency" validate:"omitempty,oneof=monthly weekly biweekly quarterly yearly one-time"`
	ExpenseFrequency string `json:"expenseFrequency" validate:"omitempty,oneof=daily weekly monthly yearly one-time"`
	Paid             bool   `json:"paid"`
}

func (in Item) trimmed() Item {
	in.Name = strings.TrimSpace(in.Name)
	in.Amount = strings.TrimSpace(in.Amount)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	in.Notes = strings.TrimSpace(in.Notes)
	in.Date = strings.TrimSpace(in.Date)
	in.DueDate = strings.TrimSpace(in.DueDate)
	return in
}

// NewItem validates the form and builds the item. Bills and expenses
// default to a monthly frequency. Fields that do not belong to the
// category are dropped.
func (in Item) NewItem() (models.NewItem, error) {
	in = in.trimmed()
	if err := check(in); err != nil {
		return models.NewItem{}, err
	}

	category := models.Category(in.Category)
	item := models.NewItem{
		Name:     in.Name,
		Amount:   decimal.RequireFromString(in.Amount),
		Category: category,
		Notes:    in.Notes,
		Date:     in.Date,
	}
	switch category {
	case models.CategoryBills:
		freq := models.BillFrequency(in.Frequency)
		if freq == "" {
			freq = models.BillMonthly
		}
		item.Details = models.BillDetails{Paid: in.Paid, DueDate: in.DueDate, Frequency: freq}
	case models.CategoryExpenses:
		freq := models.ExpenseFrequency(in.ExpenseFrequency)
		if freq == "" {
			freq = models.ExpenseMonthly
		}
		item.Details = models.ExpenseDetails{Frequency: freq}
	case models.CategorySavings:
		item.Details = models.SavingsDetails{Paid: in.Paid}
	case models.CategoryDebt:
		item.Details = models.DebtDetails{Paid: in.Paid}
	}
	return item, nil
}

// ItemUpdate is a partial edit. Nil fields are left unchanged.
type ItemUpdate struct {
	Name             *string `json:"name" validate:"omitempty,max=200"`
	Amount           *string `json:"amount" validate:"omitempty,amount"`
	Category         *string `json:"category" validate:"omitempty,category"`
	Notes            *string `json:"notes" validate:"omitempty,max=1000"`
	Date             *string `json:"date"`
	DueDate          *string `json:"dueDate" validate:"omitempty,max=32"`
	Frequency        *string `json:"frequency" validate:"omitempty,oneof=monthly weekly biweekly quarterly yearly one-time"`
	ExpenseFrequency *string `json:"expenseFrequency" validate:"omitempty,oneof=daily weekly monthly yearly one-time"`
	Paid             *bool   `json:"paid"`
}

// ItemUpdate validates the edit and converts it. A name that is present
// but blank is rejected.
func (in ItemUpdate) ItemUpdate() (models.ItemUpdate, error) {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	in.Name = trim(in.Name)
	in.Amount = trim(in.Amount)
	in.Category = trim(in.Category)

	if err := check(in); err != nil {
		return models.ItemUpdate{}, err
	}
	if in.Name != nil && *in.Name == "" {
		return models.ItemUpdate{}, &ValidationError{Fields: []FieldError{{Field: "name", Message: "This field is required"}}}
	}

	u := models.ItemUpdate{
		Name:    in.Name,
		Notes:   in.Notes,
		Date:    in.Date,
		DueDate: in.DueDate,
		Paid:    in.Paid,
	}
	if in.Amount != nil {
		d := decimal.RequireFromString(*in.Amount)
		u.Amount = &d
	}
	if in.Category != nil {
		c := models.Category(*in.Category)
		u.Category = &c
	}
	if in.Frequency != nil {
		f := models.BillFrequency(*in.Frequency)
		u.Frequency = &f
	}
	if in.ExpenseFrequency != nil {
		f := models.ExpenseFrequency(*in.ExpenseFrequency)
		u.ExpenseFrequency = &f
	}
	return u, nil
}
