package mcptools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tools returns the tool definitions paired with handlers dispatching
// into the service.
func (s *Service) Tools() []server.ServerTool {
	defs := []mcp.Tool{
		mcp.NewTool("get_grid_realtime",
			mcp.WithDescription("Get real-time grid metrics for a specific region including load, generation, carbon intensity, and renewable fraction"),
			mcp.WithString("region_id",
				mcp.Required(),
				mcp.Description("Grid region ID (e.g., ERCOT, CAISO, PJM, NYISO, MISO, SPP, ISONE)"),
				mcp.Enum(regionIDs...),
			),
		),
		mcp.NewTool("get_grid_carbon",
			mcp.WithDescription("Get current carbon intensity for a grid region. Useful for carbon-aware compute scheduling."),
			mcp.WithString("region_id",
				mcp.Required(),
				mcp.Description("Grid region ID"),
				mcp.Enum(regionIDs...),
			),
		),
		mcp.NewTool("get_grid_forecast",
			mcp.WithDescription("Get load and carbon intensity forecast for a region"),
			mcp.WithString("region_id",
				mcp.Required(),
				mcp.Description("Grid region ID"),
				mcp.Enum(regionIDs...),
			),
			mcp.WithNumber("horizon_hours",
				mcp.Description("Forecast horizon in hours (1-168)"),
				mcp.DefaultNumber(48),
				mcp.Min(1),
				mcp.Max(168),
			),
		),
		mcp.NewTool("list_grid_regions",
			mcp.WithDescription("List all available grid regions with their metadata"),
		),
		mcp.NewTool("get_data_centers",
			mcp.WithDescription("List data centers, optionally filtered by region or operator"),
			mcp.WithString("region_id", mcp.Description("Filter by grid region ID")),
			mcp.WithString("operator", mcp.Description("Filter by operator name (e.g., AWS, Google, Microsoft)")),
			mcp.WithBoolean("ai_only",
				mcp.Description("Only return AI-focused data centers"),
				mcp.DefaultBool(false),
			),
		),
		mcp.NewTool("get_data_center_energy",
			mcp.WithDescription("Get energy consumption estimates for a specific data center"),
			mcp.WithString("dc_id", mcp.Required(), mcp.Description("Data center ID")),
		),
		mcp.NewTool("get_ai_impact",
			mcp.WithDescription("Get AI compute impact KPIs for a region including AI share of load, renewable coverage, and grid stress"),
			mcp.WithString("region_id",
				mcp.Required(),
				mcp.Description("Grid region ID"),
				mcp.Enum(regionIDs...),
			),
		),
		mcp.NewTool("get_best_region_for_compute",
			mcp.WithDescription("Find the best region for running compute workloads based on carbon intensity and grid conditions"),
			mcp.WithString("optimize_for",
				mcp.Description("What to optimize for"),
				mcp.Enum("carbon", "cost", "reliability"),
				mcp.DefaultString("carbon"),
			),
		),
	}

	tools := make([]server.ServerTool, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, server.ServerTool{Tool: def, Handler: s.handler(def.Name)})
	}
	return tools
}

// ToolDefs returns just the tool schemas, for the REST listing.
func (s *Service) ToolDefs() []mcp.Tool {
	serverTools := s.Tools()
	defs := make([]mcp.Tool, 0, len(serverTools))
	for _, t := range serverTools {
		defs = append(defs, t.Tool)
	}
	return defs
}

func (s *Service) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.Call(ctx, name, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		body, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}
