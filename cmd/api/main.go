package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	accounts "vespera_backend/internal/accounts/module"
	"vespera_backend/internal/consumption"
	"vespera_backend/internal/dataset"
	"vespera_backend/internal/events"
	apphttp "vespera_backend/internal/http"
	"vespera_backend/internal/http/router"
	"vespera_backend/internal/recommend"
	"vespera_backend/internal/trading"
	"vespera_backend/migrations"
	"vespera_backend/platform/cache"
	"vespera_backend/platform/config"
	"vespera_backend/platform/db"
	"vespera_backend/platform/logger"
	"vespera_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	events.RegisterLogging(eventBus, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// The project dataset is mandatory: without it nothing can be
	// recommended or traded, so a load failure is fatal.
	tariffs, err := dataset.LoadTariffs(cfg.GetTariffsPath())
	if err != nil {
		log.Error("failed to load tariff table", "error", err)
		panic("failed to load tariff table: " + err.Error())
	}

	table, err := dataset.Load(cfg.GetDatasetPath(), tariffs)
	if err != nil {
		log.Error("failed to load project dataset", "error", err, "path", cfg.GetDatasetPath())
		panic("failed to load project dataset: " + err.Error())
	}
	snap := dataset.NewSnapshot(table)
	log.Info("project dataset loaded", "projects", len(table.Projects), "path", cfg.GetDatasetPath())

	// Redis cache for recommendation responses; optional.
	cacheClient, err := cache.New(ctx, cfg.GetRedisURL())
	if err != nil {
		log.Warn("redis cache unavailable, responses will not be cached", "error", err)
		cacheClient = nil
	}
	defer func() { _ = cacheClient.Close() }()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	recommendModule := recommend.NewModule(snap, cfg.GetDatasetPath(), cfg.GetTariffsPath(), cacheClient, cfg.GetRecommendationCacheTTL(), val, log)
	accountsModule := accounts.NewModule(pool, cfg, eventBus, log, val)
	tradingModule := trading.NewModule(pool, recommendModule.Service(), eventBus, log, val)
	consumptionModule := consumption.NewModule(val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			accountsModule,
			recommendModule,
			tradingModule,
			consumptionModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
