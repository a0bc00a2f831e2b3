package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"vespera_backend/platform/config"
	"vespera_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueRevenueAccrual schedules one revenue sweep for immediate processing.
func (c *Client) EnqueueRevenueAccrual(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewRevenueAccrueTask(RevenueAccruePayload{ScheduledAt: time.Now()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// AccrualDispatcher periodically enqueues the revenue accrual task.
type AccrualDispatcher struct {
	client   *Client
	interval time.Duration
	log      *logger.Logger
}

func NewAccrualDispatcher(client *Client, interval time.Duration, log *logger.Logger) *AccrualDispatcher {
	if interval <= 0 {
		interval = 30 * 24 * time.Hour
	}
	return &AccrualDispatcher{client: client, interval: interval, log: log}
}

func (d *AccrualDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.client.EnqueueRevenueAccrual(ctx); err != nil {
				d.log.Warn("revenue accrual enqueue failed", "error", err)
			}
		}
	}
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
