package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bkoetsier/tenderplan/internal/cli/formatter"
)

// newCountsCmd prints the cached aggregate done/total counts for all
// tenders visible to the caller.
func newCountsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show planning and checklist progress per tender",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := app.Gateway.AggregateCounts(cmd.Context())
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(counts))
			for id := range counts {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				c := counts[id]
				rows = append(rows, []string{
					id,
					strconv.Itoa(c.PlanningDone) + "/" + strconv.Itoa(c.PlanningTotal),
					strconv.Itoa(c.ChecklistDone) + "/" + strconv.Itoa(c.ChecklistTotal),
				})
			}
			out := formatter.RenderTable([]string{"TENDER", "PLANNING", "CHECKLIST"}, rows)
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
