// Package mcpserver exposes the extraction pipeline as a single MCP
// tool, extract_record, over the modelcontextprotocol/go-sdk.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/ramihatou97/DCS-sub011/internal/api"
	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/orchestrate"
)

// Server wraps the go-sdk MCP server around the orchestrator.
type Server struct {
	configManager domain.ConfigManager
	orchestrator  *orchestrate.Orchestrator
	mcpServer     *mcp.Server
	log           *logrus.Entry
}

// ExtractRecordInput is the extract_record tool's argument shape,
// mirroring the programmatic contract's {notes, options}.
type ExtractRecordInput struct {
	Notes   api.NoteList        `json:"notes"`
	Options *api.RequestOptions `json:"options,omitempty"`
}

// NewServer builds the MCP server and registers the extract_record tool.
func NewServer(configManager domain.ConfigManager, orchestrator *orchestrate.Orchestrator) *Server {
	cfg := configManager.GetConfig()
	impl := &mcp.Implementation{
		Name:    cfg.MCP.ServerName,
		Version: cfg.MCP.ServerVersion,
	}

	s := &Server{
		configManager: configManager,
		orchestrator:  orchestrator,
		mcpServer:     mcp.NewServer(impl, nil),
		log:           logrus.WithField("component", "mcpserver"),
	}

	s.mcpServer.AddTool(&mcp.Tool{
		Name:        "extract_record",
		Description: "Extracts a structured neurosurgical record from one or more free-text clinical notes.",
	}, s.handleExtractRecord)

	return s
}

// Start runs the server over stdio until ctx is cancelled or the
// transport closes.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("starting MCP server over stdio")
	return s.mcpServer.Run(ctx, mcp.NewStdioTransport())
}

func (s *Server) handleExtractRecord(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ExtractRecordInput
	if err := json.Unmarshal(req.Params.Arguments, &input); err != nil {
		return errorResult("invalid arguments", err), nil
	}
	if len(input.Notes) == 0 {
		return errorResult("missing required argument", fmt.Errorf("notes is required")), nil
	}

	opts := input.Options.ApplyTo(orchestrate.DefaultOptions())
	result := s.orchestrator.Run(ctx, input.Notes, nil, opts)

	summary := fmt.Sprintf("extraction %s (quality %.2f, %d refinement iterations)",
		successLabel(result.Success), result.QualityMetrics.Overall, result.RefinementIterations)
	if !result.Success {
		summary = fmt.Sprintf("extraction failed: %s", result.Error)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: summary}},
		IsError: !result.Success,
		Meta:    map[string]interface{}{"result": result},
	}, nil
}

func successLabel(ok bool) string {
	if ok {
		return "succeeded"
	}
	return "failed"
}

func errorResult(message string, err error) *mcp.CallToolResult {
	text := fmt.Sprintf("Error: %s", message)
	if err != nil {
		text += fmt.Sprintf(" - %v", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
