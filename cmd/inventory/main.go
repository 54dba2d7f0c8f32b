// Package main implements an interactive terminal tool for managing a product inventory.
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/product/app"
)

func main() {
	// Load configuration
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		log.Fatalf("Error loading configuration: %v", cfgErr)
	}

	// Set up structured logging on stderr, stdout belongs to the menu
	logLevel, logger := newLogger(cfg)
	logger.Info("Inventory starting...", "config", cfg.String(), "actual_slog_level", logLevel.String())

	menu, err := app.SetupApplication(cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		logger.Error("Error setting up application", "error", err)
		os.Exit(1)
	}

	if err := menu.Run(); err != nil {
		logger.Error("Menu stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (slog.Level, *slog.Logger) {
	logLevel := toLevel(cfg.Log.Level)
	loggerOpts := &slog.HandlerOptions{
		AddSource: logLevel == slog.LevelDebug,
		Level:     logLevel,
	}
	logHandler := slog.NewJSONHandler(os.Stderr, loggerOpts)
	logger := slog.New(logHandler)
	return logLevel, logger
}

// toLevel converts a string representation of a log level to slog.Level.
func toLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
