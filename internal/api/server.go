// Package api is the gin HTTP boundary: a single extraction endpoint and
// a health check. The orchestrator is indifferent to transport, so this
// package's only job is decoding the external contract's request shape,
// calling orchestrate.Orchestrator.Run, and returning its result verbatim.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ramihatou97/DCS-sub011/internal/domain"
	"github.com/ramihatou97/DCS-sub011/internal/orchestrate"
)

// Server wraps a gin.Engine with the orchestrator it dispatches to.
type Server struct {
	configManager domain.ConfigManager
	orchestrator  *orchestrate.Orchestrator
	router        *gin.Engine
	server        *http.Server
}

// NewServer builds the router and registers routes and middleware.
func NewServer(configManager domain.ConfigManager, orchestrator *orchestrate.Orchestrator) *Server {
	cfg := configManager.GetConfig()
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())

	s := &Server{
		configManager: configManager,
		orchestrator:  orchestrator,
		router:        router,
	}
	s.setupRoutes()
	return s
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully with a bounded timeout.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/extract", s.handleExtract)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}

// handleExtract decodes {notes, options}, runs the orchestrator, and
// returns its Result verbatim. A malformed body is the only case this
// handler rejects before reaching the orchestrator; every other failure
// (empty notes, deadline exceeded, ...) is the orchestrator's own
// success=false path, still returned as the full Result body per the
// contract's "same shape on failure" rule, under HTTP 422 for clients
// that key off HTTP status rather than the body.
func (s *Server) handleExtract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, orchestrate.Result{
			Success: false,
			Error:   "No valid input provided",
		})
		return
	}

	opts := req.Options.ApplyTo(orchestrate.DefaultOptions())
	result := s.orchestrator.Run(c.Request.Context(), req.Notes, nil, opts)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}
