// services/import_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gewnthar/tzimport/config"
	"github.com/gewnthar/tzimport/database"
	"github.com/gewnthar/tzimport/metrics"
	"github.com/gewnthar/tzimport/timezonedb"
)

// Run performs a full import: schema setup, zone list, then zone details.
func (imp *Importer) Run(ctx context.Context) error {
	if err := imp.store.SetupSchema(ctx); err != nil {
		return err
	}
	if err := imp.PopulateZoneList(ctx); err != nil {
		return fmt.Errorf("zone list population failed: %w", err)
	}
	if err := imp.PopulateZoneDetails(ctx); err != nil {
		return fmt.Errorf("zone detail population failed: %w", err)
	}
	imp.metrics.MarkSuccess(imp.now().Unix())
	return nil
}

// NewImporterFromConfig wires an Importer for store from cfg, using the live API.
func NewImporterFromConfig(cfg *config.Config, store *database.Store, m *metrics.ImportMetrics, logger *zap.Logger) *Importer {
	client := timezonedb.NewClient(cfg.API.BaseURL, cfg.API.Key, cfg.API.Timeout, logger)
	return NewImporter(store, client, Options{
		MaxAttempts: cfg.Import.MaxAttempts,
		Backoff:     cfg.Import.Backoff,
		MergePolicy: database.MergePolicy(cfg.Import.MergePolicy),
		Location:    cfg.Import.Location(),
		Metrics:     m,
	}, logger)
}

// RunImport opens the store described by cfg, runs one import and closes the store.
// When a metrics textfile is configured it is written whatever the outcome.
func RunImport(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	store, err := database.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.New()
	defer func() {
		if werr := m.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.Error("failed to write metrics", zap.Error(werr))
		}
	}()

	start := time.Now()
	if err := NewImporterFromConfig(cfg, store, m, logger).Run(ctx); err != nil {
		return err
	}
	logger.Info("import completed", zap.Duration("elapsed", time.Since(start)))
	return nil
}
