package commands

import (
	"encoding/json"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gridhub-labs/gridhub/internal/ingest"
)

// NewRegionsCommand creates the regions command, which lists the grid
// regions GridHub tracks.
func NewRegionsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the tracked US grid regions",
		RunE: func(cmd *cobra.Command, args []string) error {
			regions := ingest.Regions()

			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(regions)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Name", "Type", "Timezone", "States"})
			for _, r := range regions {
				t.AppendRow(table.Row{r.ID, r.Name, r.Type, r.Timezone, strings.Join(r.CoverageStates, ", ")})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format (table, json)")

	return cmd
}
