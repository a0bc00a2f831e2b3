package scheduler

import (
	"context"
	"fmt"

	tradingservice "vespera_backend/internal/trading/service"
	"vespera_backend/platform/config"
	"vespera_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	trading *tradingservice.Service
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, trading *tradingservice.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		trading: trading,
		log:     log,
	}

	mux.HandleFunc(TaskRevenueAccrue, w.handleRevenueAccrue)

	return w, nil
}

func (w *Worker) handleRevenueAccrue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRevenueAccruePayload(task)
	if err != nil {
		return err
	}

	result, err := w.trading.AccrueRevenue(ctx)
	if err != nil {
		return err
	}

	w.log.Info("revenue accrual sweep complete",
		"scheduledAt", payload.ScheduledAt,
		"credited", result.HoldingsCredited,
		"skipped", result.HoldingsSkipped,
		"totalAmount", result.TotalAmount,
	)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
