package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/statement-engine/internal/domain/categorization"
	"github.com/FACorreiaa/statement-engine/internal/domain/learning"
	"github.com/FACorreiaa/statement-engine/internal/domain/statement/normalizer"
	"github.com/FACorreiaa/statement-engine/internal/domain/statement/service"
	"github.com/FACorreiaa/statement-engine/pkg/config"
	"github.com/FACorreiaa/statement-engine/pkg/cron"
	"github.com/FACorreiaa/statement-engine/pkg/db"
	"github.com/FACorreiaa/statement-engine/pkg/doctext"
	"github.com/FACorreiaa/statement-engine/pkg/metrics"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *db.DB // only set for the postgres store backend

	Store     *learning.Store
	Metrics   *metrics.Metrics
	Suggest   *categorization.SuggestIndex
	Scheduler *cron.Scheduler

	StatementService *service.Service
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initStore(ctx); err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	if err := deps.initBackground(); err != nil {
		return nil, fmt.Errorf("failed to init background jobs: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initStore selects the persistence backend and loads the learned store.
func (d *Dependencies) initStore(ctx context.Context) error {
	var backend learning.Backend

	switch d.Config.Store.Backend {
	case config.StoreBackendPostgres:
		database, err := db.New(db.Config{
			DSN:             d.Config.Database.DSN(),
			MaxConns:        10,
			MinConns:        2,
			MaxConnLifetime: 5 * time.Minute,
			MaxConnIdleTime: 10 * time.Minute,
		}, d.Logger)
		if err != nil {
			return err
		}
		if err := database.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		d.DB = database
		backend = learning.NewPostgresBackend(database.Pool)
	default:
		backend = learning.NewFileBackend(d.Config.Store.Path)
	}

	d.Store = learning.NewStore(ctx, backend, d.Logger)
	d.Logger.Info("learned store loaded", slog.String("backend", d.Config.Store.Backend))
	return nil
}

// initServices wires the parsing service and its collaborators.
func (d *Dependencies) initServices() error {
	suggest, err := categorization.NewSuggestIndex(
		normalizer.CanonicalNames(),
		d.Store.MerchantMappingTargets(),
	)
	if err != nil {
		return fmt.Errorf("failed to build suggestion index: %w", err)
	}
	d.Suggest = suggest

	d.Metrics = metrics.New()

	d.StatementService = service.NewService(doctext.New(), d.Store, d.Logger).
		WithSuggestions(suggest).
		WithMetrics(d.Metrics).
		WithMaxTextBytes(d.Config.Engine.MaxTextBytes)

	d.Logger.Info("services initialized")
	return nil
}

// initBackground starts the learned-store backup job when enabled. The
// job copies the store file, so it only applies to the file backend.
func (d *Dependencies) initBackground() error {
	if !d.Config.Store.BackupEnabled || d.Config.Store.Backend != config.StoreBackendFile {
		return nil
	}

	d.Scheduler = cron.NewScheduler(
		d.Config.Store.Path,
		d.Config.Store.BackupDir,
		d.Config.Store.BackupSchedule,
		d.Logger,
	)
	return d.Scheduler.Start()
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		d.Scheduler.Stop()
	}
	if d.Suggest != nil {
		if err := d.Suggest.Close(); err != nil {
			d.Logger.Warn("failed to close suggestion index", slog.Any("error", err))
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
