package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bkoetsier/tenderplan/internal/cli/formatter"
)

// newTemplatesCmd lists the bureau's standard template catalog.
func newTemplatesCmd(app *App) *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the bureau's standard planning templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			names, err := app.Gateway.TemplateNames(ctx)
			if err != nil {
				return err
			}
			if !detailed {
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			tasks, err := app.Gateway.PlanningTemplates(ctx)
			if err != nil {
				return err
			}
			items, err := app.Gateway.ChecklistTemplates(ctx)
			if err != nil {
				return err
			}

			taskCount := make(map[string]int)
			for _, t := range tasks {
				taskCount[t.TemplateName]++
			}
			itemCount := make(map[string]int)
			for _, i := range items {
				itemCount[i.TemplateName]++
			}

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{
					name,
					strconv.Itoa(taskCount[name]),
					strconv.Itoa(itemCount[name]),
				})
			}
			out := formatter.RenderTable([]string{"TEMPLATE", "TAKEN", "CHECKLIST"}, rows)
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "include per-template item counts")
	return cmd
}
