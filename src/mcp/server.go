// Package mcp exposes the live build status to MCP clients.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"buildbeacon-agent/src/buildname"
	"buildbeacon-agent/src/contracts"
	"buildbeacon-agent/src/nodes"
	"buildbeacon-agent/src/pipeline"
)

// Server is the MCP server for buildbeacon.
type Server struct {
	mcpServer *server.MCPServer
	source    pipeline.Source
	interp    *buildname.Interpreter
}

// NewServer creates a new MCP server. Every get_build_status call builds a fresh
// snapshot from source.
func NewServer(source pipeline.Source, interp *buildname.Interpreter, version string) *Server {
	s := server.NewMCPServer(
		"buildbeacon",
		version,
		server.WithToolCapabilities(true),
	)

	srv := &Server{
		mcpServer: s,
		source:    source,
		interp:    interp,
	}
	srv.registerTools()

	return srv
}

// registerTools registers all available tools.
func (s *Server) registerTools() {
	statusTool := mcp.NewTool("get_build_status",
		mcp.WithDescription("Query the CI server now and return the status shown on the build display: each monitored machine (online state, current build, changelist, active stage, seconds running) plus the most recent failed and successful builds."),
		mcp.WithString("machine",
			mcp.Description("Optional short machine id (e.g. N1) or full node name to return a single machine"),
		),
	)

	interpretTool := mcp.NewTool("interpret_build_name",
		mcp.WithDescription("Convert a raw CI build display name into the short label and changelist the display shows. Changelist -1 means the name did not match the project format."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Raw build display name, e.g. \"Health Check of PX-trunk-PS5 @24876 (Node 1)\""),
		),
	)

	s.mcpServer.AddTool(statusTool, s.handleGetBuildStatus)
	s.mcpServer.AddTool(interpretTool, s.handleInterpretBuildName)
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// handleGetBuildStatus handles the get_build_status tool call.
func (s *Server) handleGetBuildStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot, err := s.source.BuildSnapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status query failed: %v", err)), nil
	}

	var payload interface{} = snapshot
	if machine := request.GetString("machine", ""); machine != "" {
		status, ok := findMachine(snapshot, machine)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown machine %q", machine)), nil
		}
		payload = status
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleInterpretBuildName handles the interpret_build_name tool call.
func (s *Server) handleInterpretBuildName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	friendly := s.interp.Interpret(name)
	jsonBytes, err := json.Marshal(InterpretedName{
		Label:      friendly.Label,
		Changelist: friendly.Changelist,
		Parsed:     friendly.Valid(),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// InterpretedName is the interpret_build_name response.
type InterpretedName struct {
	Label      string `json:"label"`
	Changelist int    `json:"changelist"`
	Parsed     bool   `json:"parsed"`
}

// findMachine accepts either the short id ("N1") or the configured node name.
func findMachine(snapshot *contracts.StateSnapshot, machine string) (contracts.NodeStatus, bool) {
	for _, candidate := range []string{machine, nodes.ShortID(machine)} {
		for _, m := range snapshot.Machines {
			if m.Machine == candidate {
				return m, true
			}
		}
	}
	return contracts.NodeStatus{}, false
}
