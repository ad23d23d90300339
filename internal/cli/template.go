package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/budgetkeeper/internal/calculator"
	"github.com/mmynk/budgetkeeper/internal/templatefile"
)

// ─── template ───────────────────────────────────────────────────────────────

func (a *app) templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage the budget template",
		Long: `The template is the list of recurring lines every new period starts from.
Editing it never changes periods that already exist.`,
	}
	cmd.AddCommand(
		a.templateShowCmd(),
		a.templateRenameCmd(),
		a.templateAddCmd(),
		a.templateUpdateCmd(),
		a.templateRemoveCmd(),
		a.templateLoadCmd(),
		a.templateExampleCmd(),
	)
	return cmd
}

func (a *app) templateShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the template and its projected totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tpl := a.svc.Template()
			fmt.Fprintf(a.out, "%s  [%s]\n", tpl.Name, shortID(tpl.ID))
			printItems(a.out, tpl.Items, false)
			fmt.Fprintln(a.out)
			printSummary(a.out, calculator.CalculateSummary(tpl.Items))
			return nil
		},
	}
}

func (a *app) templateRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename NAME",
		Short: "Rename the template",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			if err := a.svc.RenameTemplate(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Template renamed to %q\n", name)
			return nil
		},
	}
}

func (a *app) templateAddCmd() *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a line to the template",
		Example: `  budget template add -n Salary -a 2000 -c income
  budget template add -n Rent -a 950 -c bills --due-date 08/01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			item, err := flags.newItem()
			if err != nil {
				return err
			}
			id, err := a.svc.AddTemplateItem(cmd.Context(), item)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %q to the template [%s]\n", item.Name, shortID(id))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) templateUpdateCmd() *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "update ITEM_ID",
		Short: "Change a template line",
		Long:  `Only the flags that are given are changed. ITEM_ID may be a unique prefix.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID("template item", args[0], itemIDs(a.svc.Template().Items))
			if err != nil {
				return err
			}
			u, err := flags.update(cmd)
			if err != nil {
				return err
			}
			if err := a.svc.UpdateTemplateItem(cmd.Context(), id, u); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated template item [%s]\n", shortID(id))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) templateRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ITEM_ID",
		Aliases: []string{"remove"},
		Short:   "Remove a template line",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID("template item", args[0], itemIDs(a.svc.Template().Items))
			if err != nil {
				return err
			}
			if err := a.svc.DeleteTemplateItem(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed template item [%s]\n", shortID(id))
			return nil
		},
	}
}

func (a *app) templateLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Append the items of a template file (.json, .yaml or .yml)",
		Long: `Load a template file and append its items to the current template.

The file holds a name, a description and a list of items, each with a
name, a numeric amount and a category.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to read template file: %w", err)
			}
			defer f.Close()

			var file *templatefile.File
			switch strings.ToLower(filepath.Ext(args[0])) {
			case ".yaml", ".yml":
				file, err = templatefile.ParseYAML(f)
			default:
				file, err = templatefile.Parse(f)
			}
			if err != nil {
				return err
			}
			if _, err := a.svc.AddTemplateItems(cmd.Context(), file.Items); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Template %q loaded successfully with %d items.\n", file.Name, len(file.Items))
			return nil
		},
	}
}

func (a *app) templateExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Append the built-in example items to the template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file := templatefile.Example()
			if _, err := a.svc.AddTemplateItems(cmd.Context(), file.Items); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Example template loaded successfully with %d items.\n", len(file.Items))
			return nil
		},
	}
}
