package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/mmynk/budgetkeeper/internal/calculator"
	"github.com/mmynk/budgetkeeper/internal/export"
	"github.com/mmynk/budgetkeeper/internal/models"
	"github.com/mmynk/budgetkeeper/internal/service"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// resolveID matches ref against ids, either exactly or as a unique prefix.
func resolveID(kind, ref string, ids []string) (string, error) {
	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if ref != "" && strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, ref, service.ErrNotFound)
	}
	return "", fmt.Errorf("%s %q is ambiguous: matches %d ids", kind, ref, len(matches))
}

func itemIDs(items []models.Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func periodIDs(periods []models.Period) []string {
	ids := make([]string, len(periods))
	for i, p := range periods {
		ids[i] = p.ID
	}
	return ids
}

var errNoCurrentPeriod = errors.New("no current period: create one with 'budget period create' or pass --period")

func detailsText(it models.Item) string {
	switch d := it.Details.(type) {
	case models.BillDetails:
		var parts []string
		if d.DueDate != "" {
			parts = append(parts, "due "+d.DueDate)
		}
		if d.Frequency != "" {
			parts = append(parts, string(d.Frequency))
		}
		return strings.Join(parts, ", ")
	case models.ExpenseDetails:
		return string(d.Frequency)
	}
	return ""
}

func paidText(it models.Item) string {
	paid, ok := it.Paid()
	switch {
	case !ok:
		return ""
	case paid:
		return "[x]"
	}
	return "[ ]"
}

// printItems writes items grouped by category, one table per group.
func printItems(w io.Writer, items []models.Item, showPaid bool) {
	if len(items) == 0 {
		fmt.Fprintln(w, "  (no items)")
		return
	}
	for _, g := range calculator.GroupByCategory(items) {
		fmt.Fprintf(w, "\n%s (%s)\n", g.Category.Label(), export.FormatMoney(g.Total))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, it := range g.Items {
			row := []string{"  " + shortID(it.ID), it.Name, export.FormatMoney(it.Amount), detailsText(it)}
			if showPaid {
				row = append(row, paidText(it))
			}
			if it.Notes != "" {
				row = append(row, "# "+it.Notes)
			}
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		tw.Flush()
	}
}

func printSummary(w io.Writer, s calculator.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Income\t"+export.FormatMoney(s.TotalIncome)+"\t")
	fmt.Fprintln(tw, "Bills\t"+export.FormatMoney(s.TotalBills)+"\t")
	fmt.Fprintln(tw, "Expenses\t"+export.FormatMoney(s.TotalExpenses)+"\t")
	fmt.Fprintln(tw, "Savings\t"+export.FormatMoney(s.TotalSavings)+"\t")
	fmt.Fprintln(tw, models.CategoryDebt.Label()+"\t"+export.FormatMoney(s.TotalDebt)+"\t")
	fmt.Fprintln(tw, "Total out\t"+export.FormatMoney(s.TotalOut)+"\t")
	fmt.Fprintln(tw, "Net\t"+export.FormatMoney(s.Net)+"\t")
	tw.Flush()
	if s.IsNegative {
		fmt.Fprintln(w, "Warning: spending exceeds income for this budget.")
	}
	if s.Skipped > 0 {
		fmt.Fprintf(w, "Note: %d item(s) with an unknown category were left out.\n", s.Skipped)
	}
}

func printPeriodHeader(w io.Writer, p models.Period, current bool) {
	marker := ""
	if current {
		marker = " (current)"
	}
	fmt.Fprintf(w, "%s%s  [%s]\n", p.Name, marker, shortID(p.ID))
	fmt.Fprintf(w, "%s to %s, created %s\n", p.StartDate, p.EndDate, humanize.Time(p.CreatedAt))
}
