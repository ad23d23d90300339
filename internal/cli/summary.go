package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ─── summary ────────────────────────────────────────────────────────────────

func (a *app) summaryCmd() *cobra.Command {
	var (
		periodRef   string
		useTemplate bool
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals per category and the net balance",
		Long: `Show the totals of the current period. Use --template for the
template's planned totals or --period for another period.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if useTemplate {
				tpl := a.svc.Template()
				fmt.Fprintf(a.out, "%s (template)\n\n", tpl.Name)
				printSummary(a.out, a.svc.Summary(tpl.Items))
				return nil
			}
			id, err := a.periodID(periodRef)
			if err != nil {
				return err
			}
			s, err := a.svc.PeriodSummary(id)
			if err != nil {
				return err
			}
			p, _ := a.svc.Period(id)
			printPeriodHeader(a.out, p, id == a.svc.CurrentPeriodID())
			fmt.Fprintln(a.out)
			printSummary(a.out, s)
			return nil
		},
	}
	cmd.Flags().StringVar(&periodRef, "period", "", "period id (default: current period)")
	cmd.Flags().BoolVar(&useTemplate, "template", false, "summarize the template instead of a period")
	cmd.MarkFlagsMutuallyExclusive("period", "template")
	return cmd
}
