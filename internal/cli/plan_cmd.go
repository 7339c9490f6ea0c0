package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// newPlanCmd opens the interactive planning dialog for one tender.
func newPlanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <tender-id>",
		Short: "Open the planning dialog for a tender",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("the planning dialog requires an interactive terminal")
			}

			tender, err := app.Gateway.GetTender(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			view := newPlanView(app.NewController(), *tender)
			program := tea.NewProgram(view, tea.WithAltScreen())
			finished, err := program.Run()
			if err != nil {
				return err
			}
			if v, ok := finished.(*planView); ok && v.fatal != nil {
				return v.fatal
			}
			return nil
		},
	}
}
