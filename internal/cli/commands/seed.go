package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridhub-labs/gridhub/internal/cli/config"
	"github.com/gridhub-labs/gridhub/internal/seed"
)

// NewSeedCommand creates the seed command, which loads the bundled
// data center catalog into the database.
func NewSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with known US data centers",
		Long: `Load the bundled catalog of major US data centers into the
database. Existing entries are left untouched, so running seed twice
is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			logger := config.GetLogger(cmd.Context())

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := seed.Run(cmd.Context(), st, logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d data centers\n", n)
			return nil
		},
	}

	return cmd
}
