package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mmynk/budgetkeeper/internal/calculator"
	"github.com/mmynk/budgetkeeper/internal/export"
	"github.com/mmynk/budgetkeeper/internal/input"
)

// ─── period ─────────────────────────────────────────────────────────────────

func (a *app) periodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "period",
		Aliases: []string{"periods"},
		Short:   "Manage budget periods",
		Long: `A period is a dated copy of the template, usually one pay cycle.
Most item commands act on the current period unless --period is given.`,
	}
	cmd.AddCommand(
		a.periodCreateCmd(),
		a.periodListCmd(),
		a.periodShowCmd(),
		a.periodUpdateCmd(),
		a.periodRemoveCmd(),
		a.periodUseCmd(),
		a.periodAddItemCmd(),
		a.periodUpdateItemCmd(),
		a.periodRemoveItemCmd(),
		a.periodTogglePaidCmd(),
		a.periodPickCmd(),
	)
	return cmd
}

// periodID resolves --period, falling back to the current period.
func (a *app) periodID(ref string) (string, error) {
	if ref == "" {
		id := a.svc.CurrentPeriodID()
		if id == "" {
			return "", errNoCurrentPeriod
		}
		return id, nil
	}
	return resolveID("period", ref, periodIDs(a.svc.Periods()))
}

// periodItemID resolves an item reference inside a period.
func (a *app) periodItemID(periodID, ref string) (string, error) {
	p, ok := a.svc.Period(periodID)
	if !ok {
		return "", fmt.Errorf("period %q not found", periodID)
	}
	return resolveID("item", ref, itemIDs(p.Items))
}

func (a *app) periodCreateCmd() *cobra.Command {
	var form input.Period
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a period from the template and make it current",
		Example: `  budget period create -n "August 1-15" --start 2024-08-01 --end 2024-08-15`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, start, end, err := form.Parse()
			if err != nil {
				return err
			}
			id, err := a.svc.CreatePeriod(cmd.Context(), name, start, end)
			if err != nil {
				return err
			}
			p, _ := a.svc.Period(id)
			fmt.Fprintf(a.out, "Created period %q [%s] with %d items\n", name, shortID(id), len(p.Items))
			return nil
		},
	}
	cmd.Flags().StringVarP(&form.Name, "name", "n", "", "period name")
	cmd.Flags().StringVar(&form.StartDate, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&form.EndDate, "end", "", "last day, YYYY-MM-DD")
	return cmd
}

func (a *app) periodListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List periods",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			periods := a.svc.Periods()
			if len(periods) == 0 {
				fmt.Fprintln(a.out, "No budget periods created yet.")
				fmt.Fprintln(a.out, "Use 'budget period create' to start one from the template.")
				return nil
			}
			current := a.svc.CurrentPeriodID()
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\tID\tNAME\tSTART\tEND\tITEMS\tNET\tCREATED")
			for _, p := range periods {
				marker := ""
				if p.ID == current {
					marker = "*"
				}
				s := calculator.CalculateSummary(p.Items)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					marker, shortID(p.ID), p.Name, p.StartDate, p.EndDate, len(p.Items),
					export.FormatMoney(s.Net), humanize.Time(p.CreatedAt))
			}
			return tw.Flush()
		},
	}
}

func (a *app) periodShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [PERIOD_ID]",
		Short: "Show a period (default: the current one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			id, err := a.periodID(ref)
			if err != nil {
				return err
			}
			p, _ := a.svc.Period(id)
			printPeriodHeader(a.out, p, id == a.svc.CurrentPeriodID())
			printItems(a.out, p.Items, true)
			fmt.Fprintln(a.out)
			printSummary(a.out, calculator.CalculateSummary(p.Items))
			return nil
		},
	}
}

func (a *app) periodUpdateCmd() *cobra.Command {
	var form input.Period
	cmd := &cobra.Command{
		Use:   "update PERIOD_ID",
		Short: "Rename a period or change its dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.periodID(args[0])
			if err != nil {
				return err
			}
			p, _ := a.svc.Period(id)
			if !cmd.Flags().Changed("name") {
				form.Name = p.Name
			}
			if !cmd.Flags().Changed("start") {
				form.StartDate = p.StartDate.String()
			}
			if !cmd.Flags().Changed("end") {
				form.EndDate = p.EndDate.String()
			}
			name, start, end, err := form.Parse()
			if err != nil {
				return err
			}
			if err := a.svc.UpdatePeriod(cmd.Context(), id, name, start, end); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated period %q [%s]\n", name, shortID(id))
			return nil
		},
	}
	cmd.Flags().StringVarP(&form.Name, "name", "n", "", "new name")
	cmd.Flags().StringVar(&form.StartDate, "start", "", "new first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&form.EndDate, "end", "", "new last day, YYYY-MM-DD")
	return cmd
}

func (a *app) periodRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm PERIOD_ID",
		Aliases: []string{"remove"},
		Short:   "Delete a period",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.periodID(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.DeletePeriod(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted period [%s]\n", shortID(id))
			return nil
		},
	}
}

func (a *app) periodUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use PERIOD_ID",
		Short: "Make a period the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.periodID(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.SetCurrentPeriod(cmd.Context(), id); err != nil {
				return err
			}
			p, _ := a.svc.Period(id)
			fmt.Fprintf(a.out, "Current period is now %q [%s]\n", p.Name, shortID(id))
			return nil
		},
	}
}

func (a *app) periodAddItemCmd() *cobra.Command {
	var flags itemFlags
	var periodRef string
	cmd := &cobra.Command{
		Use:   "add-item",
		Short: "Add a one-off line to a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			periodID, err := a.periodID(periodRef)
			if err != nil {
				return err
			}
			item, err := flags.newItem()
			if err != nil {
				return err
			}
			id, err := a.svc.AddPeriodItem(cmd.Context(), periodID, item)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %q [%s]\n", item.Name, shortID(id))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&periodRef, "period", "", "period id (default: current period)")
	return cmd
}

func (a *app) periodUpdateItemCmd() *cobra.Command {
	var flags itemFlags
	var periodRef string
	cmd := &cobra.Command{
		Use:   "update-item ITEM_ID",
		Short: "Change a line in a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			periodID, err := a.periodID(periodRef)
			if err != nil {
				return err
			}
			itemID, err := a.periodItemID(periodID, args[0])
			if err != nil {
				return err
			}
			u, err := flags.update(cmd)
			if err != nil {
				return err
			}
			if err := a.svc.UpdatePeriodItem(cmd.Context(), periodID, itemID, u); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated item [%s]\n", shortID(itemID))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&periodRef, "period", "", "period id (default: current period)")
	return cmd
}

func (a *app) periodRemoveItemCmd() *cobra.Command {
	var periodRef string
	cmd := &cobra.Command{
		Use:   "rm-item ITEM_ID",
		Short: "Remove a line from a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			periodID, err := a.periodID(periodRef)
			if err != nil {
				return err
			}
			itemID, err := a.periodItemID(periodID, args[0])
			if err != nil {
				return err
			}
			if err := a.svc.DeletePeriodItem(cmd.Context(), periodID, itemID); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed item [%s]\n", shortID(itemID))
			return nil
		},
	}
	cmd.Flags().StringVar(&periodRef, "period", "", "period id (default: current period)")
	return cmd
}

func (a *app) periodTogglePaidCmd() *cobra.Command {
	var periodRef string
	cmd := &cobra.Command{
		Use:     "toggle-paid ITEM_ID",
		Aliases: []string{"paid"},
		Short:   "Flip the paid flag of a bill, savings or debt line",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			periodID, err := a.periodID(periodRef)
			if err != nil {
				return err
			}
			itemID, err := a.periodItemID(periodID, args[0])
			if err != nil {
				return err
			}
			paid, err := a.svc.ToggleItemPaid(cmd.Context(), periodID, itemID)
			if err != nil {
				return err
			}
			state := "unpaid"
			if paid {
				state = "paid"
			}
			fmt.Fprintf(a.out, "Marked [%s] %s\n", shortID(itemID), state)
			return nil
		},
	}
	cmd.Flags().StringVar(&periodRef, "period", "", "period id (default: current period)")
	return cmd
}

func (a *app) periodPickCmd() *cobra.Command {
	var periodRef string
	cmd := &cobra.Command{
		Use:   "pick TEMPLATE_ITEM_ID...",
		Short: "Copy selected template lines into a period",
		Long: `Copy template lines into a period, for example after adding them to the
template once the period already exists. Copies start unpaid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			periodID, err := a.periodID(periodRef)
			if err != nil {
				return err
			}
			templateIDs := itemIDs(a.svc.Template().Items)
			picked := make([]string, len(args))
			for i, ref := range args {
				if picked[i], err = resolveID("template item", ref, templateIDs); err != nil {
					return err
				}
			}
			ids, err := a.svc.AddTemplateItemsToPeriod(cmd.Context(), periodID, picked)
			if err != nil {
				return err
			}
			short := make([]string, len(ids))
			for i, id := range ids {
				short[i] = shortID(id)
			}
			fmt.Fprintf(a.out, "Copied %d item(s): %s\n", len(ids), strings.Join(short, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&periodRef, "period", "", "period id (default: current period)")
	return cmd
}
