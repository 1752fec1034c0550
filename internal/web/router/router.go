// Package router sets up HTTP routes for the web server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gridhub-labs/gridhub/internal/ingest"
	"github.com/gridhub-labs/gridhub/internal/mcptools"
	"github.com/gridhub-labs/gridhub/internal/version"
	aiimpactFeature "github.com/gridhub-labs/gridhub/internal/web/features/aiimpact"
	"github.com/gridhub-labs/gridhub/internal/web/features/common"
	dashboardFeature "github.com/gridhub-labs/gridhub/internal/web/features/dashboard"
	datacentersFeature "github.com/gridhub-labs/gridhub/internal/web/features/datacenters"
	gridFeature "github.com/gridhub-labs/gridhub/internal/web/features/grid"
	healthFeature "github.com/gridhub-labs/gridhub/internal/web/features/health"
	ingestctlFeature "github.com/gridhub-labs/gridhub/internal/web/features/ingestctl"
	mcpapiFeature "github.com/gridhub-labs/gridhub/internal/web/features/mcpapi"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

// Deps carries everything the route handlers need.
type Deps struct {
	Store     core.Store
	DB        healthFeature.Pinger
	Scheduler *ingest.Scheduler
	Tools     *mcptools.Service
	Logger    *slog.Logger
}

// SetupRoutes configures all routes for the web server.
func SetupRoutes(router chi.Router, deps Deps) {
	healthFeature.SetupRoutes(router, deps.DB, deps.Logger)
	gridFeature.SetupRoutes(router, deps.Store, deps.Logger)
	datacentersFeature.SetupRoutes(router, deps.Store, deps.Logger)
	aiimpactFeature.SetupRoutes(router, deps.Store, deps.Logger)
	ingestctlFeature.SetupRoutes(router, deps.Store, deps.Scheduler, deps.Logger)
	mcpapiFeature.SetupRoutes(router, deps.Tools, deps.Logger)
	dashboardFeature.SetupRoutes(router, deps.Store, deps.Logger)

	router.Get("/", index)
	router.Get("/docs", docs)
}

// index is the root endpoint describing the service surface.
func index(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{
		"name":        "GridHub",
		"version":     version.Version,
		"description": "Real-time grid monitoring, data center energy tracking, and AI compute impact analytics",
		"ui":          "/ui",
		"docs":        "/docs",
		"mcp_tools":   "/mcp/tools",
		"health":      "/health",
	})
}

const docsHTML = `<!DOCTYPE html>
<html>
<head><title>GridHub API</title></head>
<body>
<h1>GridHub API</h1>
<h2>Grid Monitoring</h2>
<ul>
<li>GET /grid/regions</li>
<li>GET /grid/{region_id}/realtime</li>
<li>GET /grid/{region_id}/history?hours=24</li>
<li>GET /grid/{region_id}/forecast?horizon_hours=48</li>
<li>GET /grid/{region_id}/carbon</li>
</ul>
<h2>Data Centers</h2>
<ul>
<li>GET /data-centers?region_id=&amp;operator=&amp;ai_only=&amp;limit=&amp;offset=</li>
<li>POST /data-centers</li>
<li>GET /data-centers/{dc_id}</li>
<li>GET /data-centers/{dc_id}/energy?hours=24</li>
<li>GET /data-centers/by-region/{region_id}</li>
</ul>
<h2>AI Impact</h2>
<ul>
<li>GET /ai-impact/{region_id}</li>
<li>GET /ai-impact/{region_id}/corridor</li>
<li>GET /ai-impact/{region_id}/history?hours=24</li>
<li>GET /ai-impact/summary/all-regions</li>
</ul>
<h2>Ingestion</h2>
<ul>
<li>POST /ingest/trigger/eia</li>
<li>POST /ingest/trigger/iso/{iso_name}</li>
<li>POST /ingest/trigger/all</li>
<li>GET /ingest/status</li>
<li>GET /ingest/logs?limit=20</li>
<li>POST /ingest/scheduler/start</li>
<li>POST /ingest/scheduler/stop</li>
</ul>
<h2>MCP</h2>
<ul>
<li>GET /mcp/info</li>
<li>GET /mcp/tools</li>
<li>POST /mcp/tools/call</li>
<li>GET /mcp/tools/{tool_name}/schema</li>
</ul>
<h2>Health</h2>
<ul>
<li>GET /health</li>
<li>GET /health/ready</li>
<li>GET /health/live</li>
</ul>
</body>
</html>
`

// docs serves a plain HTML catalogue of the API surface.
func docs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(docsHTML))
}
