package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/mmynk/budgetkeeper/internal/calculator"
	"github.com/mmynk/budgetkeeper/internal/models"
)

var csvHeader = []string{"Category", "Name", "Amount", "Notes", "Due Date", "Frequency", "Expense Frequency"}

// CSV writes the template and every period as category-grouped sections,
// each period followed by its summary rows.
func CSV(w io.Writer, data Data) error {
	cw := csv.NewWriter(w)
	// Write errors are sticky and reported by cw.Error after Flush.
	write := func(record ...string) {
		_ = cw.Write(record)
	}

	write("Budget Export - " + data.GeneratedAt.Format("2006-01-02"))
	write("Generated from budgetkeeper")
	write()

	write("TEMPLATE: " + data.Template.Name)
	writeItems(write, data.Template.Items)

	for _, p := range data.Periods {
		write()
		write(fmt.Sprintf("PERIOD: %s (%s to %s)", p.Name, p.StartDate, p.EndDate))
		writeItems(write, p.Items)

		s := calculator.CalculateSummary(p.Items)
		write()
		write("--- PERIOD SUMMARY ---")
		write("Total Income", s.TotalIncome.String())
		write("Total Bills", s.TotalBills.String())
		write("Total Expenses", s.TotalExpenses.String())
		write("Total Savings", s.TotalSavings.String())
		write("Total Debt", s.TotalDebt.String())
		write("Net Balance", s.Net.String())
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeItems(write func(...string), items []models.Item) {
	write(csvHeader...)
	for _, g := range calculator.GroupByCategory(items) {
		write()
		write("--- " + strings.ToUpper(string(g.Category)) + " ---")
		for _, it := range g.Items {
			var due, freq, expenseFreq string
			switch d := it.Details.(type) {
			case models.BillDetails:
				due, freq = d.DueDate, string(d.Frequency)
			case models.ExpenseDetails:
				expenseFreq = string(d.Frequency)
			}
			write(string(it.Category), it.Name, it.Amount.String(), it.Notes, due, freq, expenseFreq)
		}
	}
}
