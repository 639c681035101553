// Package main is the entry point for the yogabook API server.
//
// main stays minimal: read configuration, create the logger, start the
// server. All actual logic lives in the internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sroche/yogabook/internal/config"
	"github.com/sroche/yogabook/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ensure the data directory exists for a file-based database.
	if cfg.Database.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", filepath.Dir(cfg.Database.Path)),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
