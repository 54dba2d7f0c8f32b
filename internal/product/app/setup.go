// Package app contains the application setup for the inventory console.
package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/product/handler"
	"github.com/abgdnv/inventory/internal/product/service"
	"github.com/abgdnv/inventory/internal/product/store"
)

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
}

// SetupDependencies selects the store for the configured driver and loads the inventory.
func SetupDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	pService := service.NewService(NewStore(cfg, logger), logger)
	if err := pService.Load(); err != nil {
		return nil, err
	}

	return &Dependencies{
		ProductService: pService,
		Logger:         logger,
	}, nil
}

// NewStore creates the ProductStore for the configured driver.
func NewStore(cfg *config.Config, logger *slog.Logger) store.ProductStore {
	if cfg.Store.Driver == config.DriverMemory {
		logger.Warn("Using in-memory store, changes will not be persisted")
		return store.NewInMemoryStore()
	}
	codec := store.NewCodec(cfg.Store.Delimiter, cfg.Store.Strict)
	return store.NewFileStore(cfg.Store.Path, codec, logger)
}

// SetupMenu wires the console commands to in and out.
// Used by tests to drive the whole application through its menu.
func SetupMenu(deps *Dependencies, in io.Reader, out io.Writer) *handler.Menu {
	console := handler.NewConsole(deps.ProductService, in, out, deps.Logger)
	return handler.NewMenu(console, deps.Logger)
}

// SetupApplication builds the interactive menu for the given configuration.
func SetupApplication(cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) (*handler.Menu, error) {
	deps, err := SetupDependencies(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("error setting up dependencies: %w", err)
	}
	return SetupMenu(deps, in, out), nil
}
