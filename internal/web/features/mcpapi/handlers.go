package mcpapi

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gridhub-labs/gridhub/internal/mcptools"
	"github.com/gridhub-labs/gridhub/internal/web/features/common"
)

// Handlers provides HTTP handlers for the MCP feature.
type Handlers struct {
	svc    *mcptools.Service
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *mcptools.Service, logger *slog.Logger) *Handlers {
	return &Handlers{svc: svc, logger: logger}
}

// toolCallRequest is the body for POST /mcp/tools/call.
type toolCallRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// toolCallResponse wraps a tool result or error.
type toolCallResponse struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Info returns the MCP server identity and capabilities.
func (h *Handlers) Info(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, mcptools.Info())
}

// ListTools returns every tool definition.
func (h *Handlers) ListTools(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"tools": h.svc.ToolDefs()})
}

// CallTool executes a tool by name with the given arguments.
func (h *Handlers) CallTool(w http.ResponseWriter, r *http.Request) {
	var req toolCallRequest
	if err := common.Decode(r, &req); err != nil {
		common.Error(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Name == "" {
		common.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	result, err := h.svc.Call(r.Context(), req.Name, req.Arguments)
	if err != nil {
		h.logger.Warn("tool call failed", "tool", req.Name, "error", err)
		common.JSON(w, http.StatusOK, toolCallResponse{Success: false, Error: err.Error()})
		return
	}
	common.JSON(w, http.StatusOK, toolCallResponse{Success: true, Result: result})
}

// ToolSchema returns the definition of one tool.
func (h *Handlers) ToolSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "toolName")

	for _, tool := range h.svc.ToolDefs() {
		if tool.Name == name {
			common.JSON(w, http.StatusOK, tool)
			return
		}
	}
	common.Error(w, http.StatusNotFound, fmt.Sprintf("Tool %s not found", name))
}
