// Package mcpapi exposes the MCP tool catalogue over plain HTTP as an
// alternative to the stdio transport.
package mcpapi

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/gridhub-labs/gridhub/internal/mcptools"
)

// SetupRoutes registers the MCP HTTP routes.
func SetupRoutes(router chi.Router, svc *mcptools.Service, logger *slog.Logger) {
	handlers := NewHandlers(svc, logger)

	router.Route("/mcp", func(r chi.Router) {
		r.Get("/info", handlers.Info)
		r.Get("/tools", handlers.ListTools)
		r.Post("/tools/call", handlers.CallTool)
		r.Get("/tools/{toolName}/schema", handlers.ToolSchema)
	})
}
