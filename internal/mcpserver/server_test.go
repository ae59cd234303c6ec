package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramihatou97/DCS-sub011/internal/coordinator"
	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/orchestrate"
)

type fakeConfigManager struct {
	cfg domain.Config
}

func newFakeConfigManager() *fakeConfigManager {
	return &fakeConfigManager{cfg: domain.Config{
		MCP: domain.MCPConfig{ServerName: "neuro-extract", ServerVersion: "v0.1.0"},
	}}
}

func (f *fakeConfigManager) GetConfig() *domain.Config                         { return &f.cfg }
func (f *fakeConfigManager) GetServerConfig() *domain.ServerConfig             { return &f.cfg.Server }
func (f *fakeConfigManager) GetPatternStoreConfig() *domain.PatternStoreConfig { return &f.cfg.PatternStore }
func (f *fakeConfigManager) Reload() error                                    { return nil }
func (f *fakeConfigManager) Validate() error                                  { return nil }
func (f *fakeConfigManager) IsProduction() bool                               { return false }

func newTestServer() *Server {
	orch := orchestrate.New(coordinator.New(nil))
	return NewServer(newFakeConfigManager(), orch)
}

func TestNewServer(t *testing.T) {
	s := newTestServer()

	require.NotNil(t, s)
	assert.NotNil(t, s.mcpServer)
	assert.NotNil(t, s.log)
}

func TestHandleExtractRecord_MissingNotes(t *testing.T) {
	s := newTestServer()

	result, err := s.handleExtractRecord(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParams{Arguments: json.RawMessage(`{}`)},
	})

	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleExtractRecord_InvalidArguments(t *testing.T) {
	s := newTestServer()

	result, err := s.handleExtractRecord(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParams{Arguments: json.RawMessage(`{"notes": 42}`)},
	})

	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleExtractRecord_Success(t *testing.T) {
	s := newTestServer()

	args, err := json.Marshal(ExtractRecordInput{
		Notes: []string{"55M, MRN: 12345678. Admission Date: October 10, 2025."},
	})
	require.NoError(t, err)

	result, err := s.handleExtractRecord(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParams{Arguments: args},
	})

	require.NoError(t, err)
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "succeeded")
}
