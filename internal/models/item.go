package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Details holds the fields that only exist for one category.
// The set of implementations is closed: BillDetails, ExpenseDetails,
// SavingsDetails and DebtDetails. Income items have no details.
type Details interface {
	detailsCategory() Category
}

// BillDetails are the bill-only fields of an item.
type BillDetails struct {
	Paid      bool
	DueDate   string // free-form, e.g. "08/16"
	Frequency BillFrequency
}

// ExpenseDetails are the expense-only fields of an item.
type ExpenseDetails struct {
	Frequency ExpenseFrequency
}

// SavingsDetails are the savings-only fields of an item.
type SavingsDetails struct {
	Paid bool
}

// DebtDetails are the debt-only fields of an item.
type DebtDetails struct {
	Paid bool
}

func (BillDetails) detailsCategory() Category    { return CategoryBills }
func (ExpenseDetails) detailsCategory() Category { return CategoryExpenses }
func (SavingsDetails) detailsCategory() Category { return CategorySavings }
func (DebtDetails) detailsCategory() Category    { return CategoryDebt }

// DefaultDetails returns the empty details value for a category, or nil
// for income and unknown categories.
func DefaultDetails(c Category) Details {
	switch c {
	case CategoryBills:
		return BillDetails{}
	case CategoryExpenses:
		return ExpenseDetails{}
	case CategorySavings:
		return SavingsDetails{}
	case CategoryDebt:
		return DebtDetails{}
	}
	return nil
}

// Item is a single budget line in a Template or a Period.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	// A new ID is assigned whenever an item is added to a container.
	ID string

	// Name is the display name (e.g., "Rent", "Salary").
	Name string

	// Amount is the non-negative value of the line.
	Amount decimal.Decimal

	// Category decides which summary bucket the amount lands in.
	Category Category

	// Notes is an optional free-text annotation.
	Notes string

	// Date is an optional free-form date for the line.
	Date string

	// Details carries the category-specific fields; nil for income.
	Details Details
}

// NewItem is an item that has not been assigned an ID yet.
type NewItem struct {
	Name     string
	Amount   decimal.Decimal
	Category Category
	Notes    string
	Date     string
	Details  Details
}

// WithID turns n into an Item. Missing details are filled with the
// category default.
func (n NewItem) WithID(id string) Item {
	details := n.Details
	if details == nil {
		details = DefaultDetails(n.Category)
	}
	return Item{
		ID:       id,
		Name:     n.Name,
		Amount:   n.Amount,
		Category: n.Category,
		Notes:    n.Notes,
		Date:     n.Date,
		Details:  details,
	}
}

// Validate checks the invariants of a new item.
func (n NewItem) Validate() error {
	return n.WithID("pending").Validate()
}

// Validate checks the item invariants: non-empty id and name, a known
// category, a non-negative amount and details matching the category.
func (it Item) Validate() error {
	if strings.TrimSpace(it.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(it.Name) == "" {
		return ErrEmptyName
	}
	if !it.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, it.Category)
	}
	if it.Amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeAmount, it.Amount)
	}
	if it.Details == nil {
		return nil
	}
	if it.Details.detailsCategory() != it.Category {
		return fmt.Errorf("%w: %s item with %s details", ErrDetailsMismatch, it.Category, it.Details.detailsCategory())
	}
	switch d := it.Details.(type) {
	case BillDetails:
		if !d.Frequency.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidFrequency, d.Frequency)
		}
	case ExpenseDetails:
		if !d.Frequency.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidFrequency, d.Frequency)
		}
	}
	return nil
}

// Paid returns the paid flag and whether the item's category has one.
func (it Item) Paid() (paid bool, ok bool) {
	switch d := it.Details.(type) {
	case BillDetails:
		return d.Paid, true
	case SavingsDetails:
		return d.Paid, true
	case DebtDetails:
		return d.Paid, true
	}
	return false, false
}

// WithPaid returns a copy of the item with the paid flag set. Items
// without a paid flag are returned unchanged with ok=false.
func (it Item) WithPaid(paid bool) (Item, bool) {
	switch d := it.Details.(type) {
	case BillDetails:
		d.Paid = paid
		it.Details = d
	case SavingsDetails:
		d.Paid = paid
		it.Details = d
	case DebtDetails:
		d.Paid = paid
		it.Details = d
	default:
		if it.Category.Payable() && it.Details == nil {
			it.Details = DefaultDetails(it.Category)
			return it.WithPaid(paid)
		}
		return it, false
	}
	return it, true
}

// Clone returns an independent copy of the item. Details are value types,
// so a struct copy is deep.
func (it Item) Clone() Item {
	return it
}

// ItemUpdate is a partial update. Nil fields are left untouched; fields
// that do not belong to the item's (possibly new) category are ignored.
type ItemUpdate struct {
	Name     *string
	Amount   *decimal.Decimal
	Category *Category
	Notes    *string
	Date     *string

	Paid             *bool
	DueDate          *string
	Frequency        *BillFrequency
	ExpenseFrequency *ExpenseFrequency
}

// ApplyUpdate merges u into a copy of the item. The ID never changes.
func (it Item) ApplyUpdate(u ItemUpdate) Item {
	out := it
	if u.Name != nil {
		out.Name = *u.Name
	}
	if u.Amount != nil {
		out.Amount = *u.Amount
	}
	if u.Notes != nil {
		out.Notes = *u.Notes
	}
	if u.Date != nil {
		out.Date = *u.Date
	}
	if u.Category != nil && *u.Category != out.Category {
		paid, hadPaid := out.Paid()
		out.Category = *u.Category
		out.Details = DefaultDetails(out.Category)
		if hadPaid {
			out, _ = out.WithPaid(paid)
		}
	}

	switch d := out.Details.(type) {
	case BillDetails:
		if u.DueDate != nil {
			d.DueDate = *u.DueDate
		}
		if u.Frequency != nil {
			d.Frequency = *u.Frequency
		}
		out.Details = d
	case ExpenseDetails:
		if u.ExpenseFrequency != nil {
			d.Frequency = *u.ExpenseFrequency
		}
		out.Details = d
	}
	if u.Paid != nil {
		out, _ = out.WithPaid(*u.Paid)
	}
	return out
}

// itemJSON is the flat wire shape of an Item.
type itemJSON struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Amount           json.Number `json:"amount"`
	Category         Category    `json:"category"`
	Notes            string      `json:"notes,omitempty"`
	Date             string      `json:"date,omitempty"`
	Paid             *bool       `json:"paid,omitempty"`
	DueDate          string      `json:"dueDate,omitempty"`
	Frequency        string      `json:"frequency,omitempty"`
	ExpenseFrequency string      `json:"expenseFrequency,omitempty"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	w := itemJSON{
		ID:       it.ID,
		Name:     it.Name,
		Amount:   json.Number(it.Amount.String()),
		Category: it.Category,
		Notes:    it.Notes,
		Date:     it.Date,
	}
	if paid, ok := it.Paid(); ok {
		w.Paid = &paid
	}
	switch d := it.Details.(type) {
	case BillDetails:
		w.DueDate = d.DueDate
		w.Frequency = string(d.Frequency)
	case ExpenseDetails:
		w.ExpenseFrequency = string(d.Frequency)
	}
	return json.Marshal(w)
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var w itemJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	amount := decimal.Zero
	if w.Amount != "" {
		parsed, err := decimal.NewFromString(string(w.Amount))
		if err != nil {
			return fmt.Errorf("item %q: invalid amount %q: %w", w.ID, w.Amount, err)
		}
		amount = parsed
	}

	out := Item{
		ID:       w.ID,
		Name:     w.Name,
		Amount:   amount,
		Category: w.Category,
		Notes:    w.Notes,
		Date:     w.Date,
	}
	paid := w.Paid != nil && *w.Paid
	switch w.Category {
	case CategoryBills:
		out.Details = BillDetails{Paid: paid, DueDate: w.DueDate, Frequency: BillFrequency(w.Frequency)}
	case CategoryExpenses:
		out.Details = ExpenseDetails{Frequency: ExpenseFrequency(w.ExpenseFrequency)}
	case CategorySavings:
		out.Details = SavingsDetails{Paid: paid}
	case CategoryDebt:
		out.Details = DebtDetails{Paid: paid}
	}
	*it = out
	return nil
}

// CloneItems deep-copies a slice of items. A nil slice stays nil.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// IndexOfItem returns the position of the item with the given id, or -1.
func IndexOfItem(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
