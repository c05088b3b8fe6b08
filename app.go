package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"cotizador/catalog"
	"cotizador/config"
	"cotizador/db"
	"cotizador/web"
)

// App is the central orchestrator for the application's business logic.
// It coordinates configuration, the database, the product catalog and the
// web server.
type App struct {
	logger *charmlog.Logger
}

// New creates and returns a new App instance.
func New() *App {
	return &App{
		logger: charmlog.NewWithOptions(os.Stderr, charmlog.Options{
			ReportTimestamp: true,
			Prefix:          "cotizador",
		}),
	}
}

// openDB loads the configuration and opens the database.
func (a *App) openDB(cfgPath string) (*config.Config, *db.DB, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	database, err := db.NewConnection(cfg.DatabasePath, slog.New(a.logger))
	if err != nil {
		return nil, nil, fmt.Errorf("database setup error: %w", err)
	}
	return cfg, database, nil
}

// Serve runs the web server, optionally syncing the product catalog at
// startup and resyncing on catalog file writes.
func (a *App) Serve(ctx context.Context, cfgPath string) error {
	cfg, database, err := a.openDB(cfgPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.CatalogPath != "" {
		result, err := catalog.Sync(ctx, database, cfg.CatalogPath)
		if err != nil {
			a.logger.Warn("catalog sync failed", "path", cfg.CatalogPath, "err", err)
		} else {
			a.logger.Info("catalog synced", "path", cfg.CatalogPath, "result", result.String())
		}
	}

	webApp, err := web.New(a.logger.StandardLog(), cfg, database)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.WatchCatalog {
		watcher, err := catalog.NewWatcher(cfg.CatalogPath)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return watcher.Watch(ctx)
		})
		g.Go(func() error {
			for range watcher.Update() {
				result, err := catalog.Sync(ctx, database, cfg.CatalogPath)
				if err != nil {
					a.logger.Warn("catalog resync failed", "err", err)
					continue
				}
				a.logger.Info("catalog resynced", "result", result.String())
			}
			return nil
		})
	}

	g.Go(func() error {
		return webApp.StartServer()
	})
	return g.Wait()
}

// InitDB creates the database file and its schema.
func (a *App) InitDB(ctx context.Context, cfgPath string) error {
	cfg, database, err := a.openDB(cfgPath)
	if err != nil {
		return err
	}
	defer database.Close()
	a.logger.Info("database initialised", "path", cfg.DatabasePath)
	return nil
}

// ImportCatalog syncs products from a catalog file. An empty path falls
// back to the configured catalog_path.
func (a *App) ImportCatalog(ctx context.Context, cfgPath, path string) error {
	cfg, database, err := a.openDB(cfgPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if path == "" {
		path = cfg.CatalogPath
	}
	if path == "" {
		return fmt.Errorf("no catalog file given and no catalog_path configured")
	}
	result, err := catalog.Sync(ctx, database, path)
	if err != nil {
		return err
	}
	a.logger.Info("catalog synced", "path", path, "result", result.String())
	return nil
}

// SampleCatalog writes a starter catalog file.
func (a *App) SampleCatalog(ctx context.Context, path string) error {
	if err := catalog.WriteSample(path); err != nil {
		return err
	}
	a.logger.Info("sample catalog written", "path", path)
	return nil
}

// ExportCatalog writes the stored product catalog to a csv or xlsx file.
func (a *App) ExportCatalog(ctx context.Context, cfgPath, path string) error {
	_, database, err := a.openDB(cfgPath)
	if err != nil {
		return err
	}
	defer database.Close()

	products, err := database.Products(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export file create error: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = catalog.ExportCSV(f, products)
	case ".xlsx":
		err = catalog.ExportExcel(f, products)
	default:
		err = fmt.Errorf("unsupported export file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	a.logger.Info("catalog exported", "path", path, "products", len(products))
	return nil
}
