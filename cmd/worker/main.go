package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vespera_backend/internal/dataset"
	"vespera_backend/internal/events"
	recommendservice "vespera_backend/internal/recommend/service"
	"vespera_backend/internal/scheduler"
	tradingrepo "vespera_backend/internal/trading/repository"
	tradingservice "vespera_backend/internal/trading/service"
	"vespera_backend/platform/config"
	"vespera_backend/platform/db"
	"vespera_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)
	events.RegisterLogging(eventBus, log)

	// The worker prices revenue off the same derived dataset the API
	// serves, loaded once at startup.
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
	log.Info("project dataset loaded", "projects", len(table.Projects))

	projects := recommendservice.New(snap, cfg.GetDatasetPath(), cfg.GetTariffsPath(), nil, 0, log)
	trading := tradingservice.New(tradingrepo.New(pool), projects, eventBus, log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	dispatcher := scheduler.NewAccrualDispatcher(client, cfg.GetAccrualInterval(), log)
	go dispatcher.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, trading, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
