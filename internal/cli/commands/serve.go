package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gridhub-labs/gridhub/internal/cli/config"
	"github.com/gridhub-labs/gridhub/internal/mcptools"
	"github.com/gridhub-labs/gridhub/internal/web"
)

// NewServeCommand creates the serve command, which runs the REST API,
// dashboard, and ingestion scheduler.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the GridHub API server and ingestion scheduler",
		Long: `Start the GridHub HTTP server.

Serves the REST API, the dashboard at /ui, and the MCP tool endpoints
under /mcp. Unless disabled, the background scheduler polls ISO feeds
and runs the daily EIA batch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			logger := config.GetLogger(cmd.Context())

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			sched := buildScheduler(cfg, st, logger)
			if cfg.SchedulerEnabled {
				if err := sched.Start(); err != nil {
					return err
				}
				defer sched.Stop()
			} else {
				logger.Info("scheduler disabled by configuration")
			}

			srv := web.NewServer(web.Config{
				Store:     st,
				DB:        st,
				Scheduler: sched,
				Tools:     mcptools.NewService(st, logger),
				Port:      cfg.Port,
				Logger:    logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Serve(ctx)
		},
	}

	return cmd
}
