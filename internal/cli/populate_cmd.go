package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bkoetsier/tenderplan/internal/cli/formatter"
	"github.com/bkoetsier/tenderplan/internal/domain"
	"github.com/bkoetsier/tenderplan/internal/planning"
)

// newPopulateCmd copies a standard template into a tender. Overwriting
// existing items always requires an explicit confirmation: interactively via
// a prompt, non-interactively via --yes. This is the only destructive bulk
// operation in the tool and it never runs silently.
func newPopulateCmd(app *App) *cobra.Command {
	var (
		templateName string
		overwrite    bool
		assumeYes    bool
	)

	cmd := &cobra.Command{
		Use:   "populate <tender-id>",
		Short: "Copy a standard template into a tender",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tenderID := args[0]
			interactive := app.IsInteractive != nil && app.IsInteractive()

			if templateName == "" {
				if !interactive {
					return fmt.Errorf("--template is required in non-interactive mode")
				}
				names, err := app.Gateway.TemplateNames(ctx)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					return fmt.Errorf("no templates available for this bureau")
				}
				options := make([]huh.Option[string], 0, len(names))
				for _, n := range names {
					options = append(options, huh.NewOption(n, n))
				}
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewSelect[string]().
							Title("Which template?").
							Options(options...).
							Value(&templateName),
					),
				).WithTheme(planHuhTheme()).WithShowHelp(false)
				if err := form.Run(); err != nil {
					return err
				}
			}

			tender, err := app.Gateway.GetTender(ctx, tenderID)
			if err != nil {
				return err
			}

			ctrl := app.NewController()
			if err := ctrl.Open(ctx, *tender); err != nil {
				return err
			}
			defer ctrl.Close()

			confirmed := assumeYes
			result, err := ctrl.LoadTemplate(ctx, templateName, overwrite, confirmed)
			if errors.Is(err, planning.ErrConfirmationRequired) && interactive {
				warn := fmt.Sprintf(
					"Tender %q already has %d plan tasks and %d checklist items. Replace them with template %q?",
					tender.Name, len(ctrl.Tasks()), len(ctrl.ChecklistItems()), templateName)
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewConfirm().
							Title(warn).
							Affirmative("Replace").
							Negative("Cancel").
							Value(&confirmed),
					),
				).WithTheme(planHuhTheme()).WithShowHelp(false)
				if err := form.Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled; nothing was changed.")
					return nil
				}
				result, err = ctrl.LoadTemplate(ctx, templateName, overwrite, true)
			}
			if err != nil {
				return err
			}

			printPopulateResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "", "template name (e.g. Standaard)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace existing items")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the overwrite confirmation prompt")
	return cmd
}

func printPopulateResult(cmd *cobra.Command, result *domain.PopulateResult) {
	if result.Skipped {
		msg := result.Message
		if msg == "" {
			msg = "tender already has items; use --overwrite to replace them"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Skipped: %s\n", formatter.StyleYellow.Render("!"), msg)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Created %d plan tasks and %d checklist items\n",
		formatter.StyleGreen.Render("✔"),
		result.PlanningTasksCreated,
		result.ChecklistItemsCreated)
}
