package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridhub-labs/gridhub/internal/cli/config"
	"github.com/gridhub-labs/gridhub/internal/ingest"
)

// NewIngestCommand creates the ingest command, which runs a single
// collection cycle from all sources and refreshes energy estimates.
func NewIngestCommand() *cobra.Command {
	var skipEstimates bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion cycle from all data sources",
		Long: `Fetch grid data once from the EIA API and ISO feeds, store it,
and refresh data center energy estimates. Useful for backfilling a
fresh database or for cron-driven setups without the built-in
scheduler.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			logger := config.GetLogger(cmd.Context())

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			sched := buildScheduler(cfg, st, logger)
			if err := sched.RunOnce(cmd.Context()); err != nil {
				return fmt.Errorf("ingestion failed: %w", err)
			}

			if !skipEstimates {
				n, err := ingest.RefreshEstimates(cmd.Context(), st, logger)
				if err != nil {
					return fmt.Errorf("estimate refresh failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d energy estimates\n", n)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Ingestion complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipEstimates, "skip-estimates", false, "skip refreshing data center energy estimates")

	return cmd
}
