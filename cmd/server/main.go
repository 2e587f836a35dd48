// cmd/server/main.go
package main

import (
	"log"
	"log/slog"

	"github.com/sozercan/ticket-dashboard/internal/backend"
	"github.com/sozercan/ticket-dashboard/internal/config"
	"github.com/sozercan/ticket-dashboard/internal/dashboard"
	"github.com/sozercan/ticket-dashboard/internal/logging"
	"github.com/sozercan/ticket-dashboard/internal/server"
	"github.com/sozercan/ticket-dashboard/internal/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logFile, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer logFile.Close()

	backendClient, err := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
	if err != nil {
		log.Fatalf("failed to create backend client: %v", err)
	}

	sessions := session.NewStore(cfg.Session.TTL, cfg.Session.CleanupInterval)
	controller := dashboard.New(backendClient)

	srv, err := server.New(*cfg, controller, sessions)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port, "backend", cfg.Backend.URL)
	if err := srv.Run(); err != nil {
		slog.Error("server failed", "error", err)
		logFile.Close()
		log.Fatalf("server failed: %v", err)
	}
}
