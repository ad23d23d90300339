package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/budgetkeeper/internal/export"
)

// ─── export / import / clear ────────────────────────────────────────────────

const (
	formatJSON     = "json"
	formatMarkdown = "md"
	formatCSV      = "csv"
)

func (a *app) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export [json|md|csv]",
		Short: "Export all budget data",
		Long: `Export the template and every period.

json is a full backup that 'budget import' can restore. md and csv are
reports for reading or spreadsheets.`,
		Example:   "  budget export json -o budget-backup.json\n  budget export md > budget.md",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{formatJSON, formatMarkdown, formatCSV},
		RunE: func(cmd *cobra.Command, args []string) error {
			format := formatJSON
			if len(args) == 1 {
				format = args[0]
			}

			var buf bytes.Buffer
			switch format {
			case formatJSON:
				data, err := a.svc.ExportData(cmd.Context())
				if err != nil {
					return err
				}
				buf.Write(data)
				buf.WriteByte('\n')
			case formatMarkdown, formatCSV:
				data := export.Data{
					Template:    a.svc.Template(),
					Periods:     a.svc.Periods(),
					GeneratedAt: a.now(),
				}
				render := export.Markdown
				if format == formatCSV {
					render = export.CSV
				}
				if err := render(&buf, data); err != nil {
					return err
				}
			}

			if output == "" || output == "-" {
				_, err := io.Copy(a.out, &buf)
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Fprintf(a.out, "Exported %s to %s\n", format, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all budget data with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}
			if err := a.svc.ImportData(cmd.Context(), data); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Imported %d period(s) from %s\n", len(a.svc.Periods()), args[0])
			return nil
		},
	}
}

var errClearNotConfirmed = errors.New("refusing to delete all data without --yes")

func (a *app) clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the template, every period and the current selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errClearNotConfirmed
			}
			if err := a.svc.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "All budget data cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deleting all data")
	return cmd
}
