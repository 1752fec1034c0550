package commands

import (
	"github.com/spf13/cobra"

	"github.com/gridhub-labs/gridhub/internal/cli/config"
	"github.com/gridhub-labs/gridhub/internal/mcptools"
)

// NewMCPCommand creates the mcp command, which serves the MCP tools
// over stdio for direct client integration.
func NewMCPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: `Run the GridHub MCP server on stdin/stdout.

Exposes the grid intelligence tools to MCP clients such as Claude
Desktop. Logs go to stderr so stdout stays clean for the protocol.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			logger := config.GetLogger(cmd.Context())

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			return mcptools.NewService(st, logger).ServeStdio()
		},
	}

	return cmd
}
