package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ramihatou97/DCS-sub011/internal/coordinator"
	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/orchestrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfigManager struct {
	cfg domain.Config
}

func newFakeConfigManager() *fakeConfigManager {
	return &fakeConfigManager{cfg: domain.Config{
		Server: domain.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Logging: domain.LoggingConfig{Level: "error"},
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

func TestHandleHealth(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleExtract_SingleStringNote(t *testing.T) {
	s := newTestServer()
	body := `{"notes":"55M, MRN: 12345678. Admission Date: October 10, 2025."}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestHandleExtract_EmptyInputDegrades(t *testing.T) {
	s := newTestServer()
	body := `{"notes":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "No valid input provided")
}

func TestHandleExtract_NoteArray(t *testing.T) {
	s := newTestServer()
	body := `{"notes":["note one","note two"],"options":{"enableFeedbackLoops":false}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleExtract_MalformedBody(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", bytes.NewBufferString(`{"notes":123}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
