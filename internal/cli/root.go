package cli

import (
	"github.com/spf13/cobra"

	"github.com/bkoetsier/tenderplan/internal/gateway"
	"github.com/bkoetsier/tenderplan/internal/planning"
	"github.com/bkoetsier/tenderplan/internal/roster"
)

// App holds references to the core components used by CLI commands.
type App struct {
	Gateway gateway.Gateway
	Roster  *roster.Index
	Logger  gateway.Logger

	// IsInteractive reports whether stdin is a terminal; non-interactive
	// invocations refuse to open the planning dialog or run wizards.
	IsInteractive func() bool
}

// NewController returns a fresh session controller wired against the app's
// gateway and roster index.
func (a *App) NewController() *planning.Controller {
	return planning.NewController(a.Gateway, a.Roster, a.Logger)
}

// NewRootCmd creates the top-level "tenderplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "tenderplan",
		Short: "Planning, checklist and milestone tracking for tenders",
	}

	root.AddCommand(
		newPlanCmd(app),
		newCountsCmd(app),
		newTemplatesCmd(app),
		newPopulateCmd(app),
	)

	return root
}
