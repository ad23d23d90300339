package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/budgetkeeper/internal/input"
	"github.com/mmynk/budgetkeeper/internal/models"
)

// itemFlags are the flags shared by every command that creates or edits
// an item.
type itemFlags struct {
	name             string
	amount           string
	category         string
	notes            string
	date             string
	dueDate          string
	frequency        string
	expenseFrequency string
	paid             bool
}

func (f *itemFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.name, "name", "n", "", "item name")
	fs.StringVarP(&f.amount, "amount", "a", "", "amount, e.g. 1200.50")
	fs.StringVarP(&f.category, "category", "c", "", "income, bills, expenses, savings or debt")
	fs.StringVar(&f.notes, "notes", "", "free-text notes")
	fs.StringVar(&f.date, "date", "", "optional date for the line")
	fs.StringVar(&f.dueDate, "due-date", "", "bill due date, e.g. 08/16")
	fs.StringVar(&f.frequency, "frequency", "", "bill frequency: monthly, weekly, biweekly, quarterly, yearly, one-time")
	fs.StringVar(&f.expenseFrequency, "expense-frequency", "", "expense frequency: daily, weekly, monthly, yearly, one-time")
	fs.BoolVar(&f.paid, "paid", false, "mark a bill, savings or debt line as paid")
}

func (f *itemFlags) newItem() (models.NewItem, error) {
	return input.Item{
		Name:             f.name,
		Amount:           f.amount,
		Category:         f.category,
		Notes:            f.notes,
		Date:             f.date,
		DueDate:          f.dueDate,
		Frequency:        f.frequency,
		ExpenseFrequency: f.expenseFrequency,
		Paid:             f.paid,
	}.NewItem()
}

// update builds a partial update from the flags the user actually set.
func (f *itemFlags) update(cmd *cobra.Command) (models.ItemUpdate, error) {
	changed := cmd.Flags().Changed
	str := func(flag string, v string) *string {
		if !changed(flag) {
			return nil
		}
		return &v
	}
	in := input.ItemUpdate{
		Name:             str("name", f.name),
		Amount:           str("amount", f.amount),
		Category:         str("category", f.category),
		Notes:            str("notes", f.notes),
		Date:             str("date", f.date),
		DueDate:          str("due-date", f.dueDate),
		Frequency:        str("frequency", f.frequency),
		ExpenseFrequency: str("expense-frequency", f.expenseFrequency),
	}
	if changed("paid") {
		paid := f.paid
		in.Paid = &paid
	}
	return in.ItemUpdate()
}
