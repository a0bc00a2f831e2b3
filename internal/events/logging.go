package events

import (
	"context"

	"vespera_backend/platform/logger"
)

// RegisterLogging subscribes an audit-log handler for every domain
// event so each published event leaves a structured log line.
func RegisterLogging(bus Bus, log *logger.Logger) {
	names := []string{
		UserRegistered{}.EventName(),
		FundsAdded{}.EventName(),
		SharesPurchased{}.EventName(),
		SharesSold{}.EventName(),
		RevenueAccrued{}.EventName(),
	}

	handler := HandlerFunc(func(ctx context.Context, event Event) error {
		log.Info("domain event", "event", event.EventName(), "occurredAt", event.OccurredAt())
		return nil
	})

	for _, name := range names {
		bus.Subscribe(name, handler)
	}
}
