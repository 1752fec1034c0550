package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/gridhub-labs/gridhub/internal/version"
)

// ServerName identifies this MCP server in the handshake.
const ServerName = "gridhub"

// ProtocolVersion is the MCP protocol revision this server speaks.
const ProtocolVersion = "2024-11-05"

// ServerInfo is the handshake metadata, also served on /mcp/info.
type ServerInfo struct {
	Name            string       `json:"name"`
	Version         string       `json:"version"`
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
}

type Capabilities struct {
	Tools     ToolCapabilities     `json:"tools"`
	Resources ResourceCapabilities `json:"resources"`
}

type ToolCapabilities struct {
	ListChanged bool `json:"listChanged"`
}

type ResourceCapabilities struct {
	Subscribe   bool `json:"subscribe"`
	ListChanged bool `json:"listChanged"`
}

// Info returns the server handshake metadata.
func Info() ServerInfo {
	return ServerInfo{
		Name:            ServerName,
		Version:         version.Version,
		ProtocolVersion: ProtocolVersion,
	}
}

// NewMCPServer builds the MCP server with all tools registered, ready
// for server.ServeStdio.
func (s *Service) NewMCPServer() *server.MCPServer {
	srv := server.NewMCPServer(
		ServerName,
		version.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	srv.AddTools(s.Tools()...)
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout until the client
// disconnects.
func (s *Service) ServeStdio() error {
	return server.ServeStdio(s.NewMCPServer())
}
