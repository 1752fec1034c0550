// Package cli provides the command-line interface for GridHub.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridhub-labs/gridhub/internal/cli/commands"
	"github.com/gridhub-labs/gridhub/internal/cli/config"
	"github.com/gridhub-labs/gridhub/internal/version"
)

var cfgFile string

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridhub",
		Short: "GridHub - AI and Energy Grid Intelligence",
		Long: `GridHub monitors power grid regions, tracks data center energy
consumption, and exposes grid intelligence as MCP tools.

It ingests hourly demand, fuel mix, and interchange data from the EIA
API plus real-time ISO feeds, derives carbon intensity and AI compute
KPIs, and serves them over a REST API and the Model Context Protocol.`,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
AI and Energy Grid Intelligence
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./gridhub.yaml)")
	rootCmd.PersistentFlags().String("db-path", "", "Path to the SQLite database")
	rootCmd.PersistentFlags().Int("port", 0, "API server port (default: 7860)")
	rootCmd.PersistentFlags().String("eia-api-key", "", "EIA API key")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(commands.NewIngestCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewRegionsCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(version.Version))

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
