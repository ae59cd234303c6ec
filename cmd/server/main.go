package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ramihatou97/DCS-sub011/internal/api"
	"github.com/ramihatou97/DCS-sub011/internal/bootstrap"
	"github.com/ramihatou97/DCS-sub011/internal/config"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	app, err := bootstrap.New(configManager)
	if err != nil {
		log.Fatalf("Failed to build extraction backend: %v", err)
	}
	defer app.Close()

	cfg := configManager.GetConfig()
	log.Printf("Starting extraction HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)

	server := api.NewServer(configManager, app.Orchestrator)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
