// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"vespera_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Accounts Domain Events
// =============================================================================

// UserRegistered is published when a new user successfully registers.
type UserRegistered struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Phone  string    `json:"phone"`
}

func (e UserRegistered) EventName() string { return "accounts.user.registered" }

// FundsAdded is published when a user tops up their wallet balance.
type FundsAdded struct {
	BaseEvent
	UserID  uuid.UUID `json:"userId"`
	Amount  float64   `json:"amount"`
	Balance float64   `json:"balance"`
}

func (e FundsAdded) EventName() string { return "accounts.funds.added" }

// =============================================================================
// Trading Domain Events
// =============================================================================

// SharesPurchased is published when a buy order settles.
type SharesPurchased struct {
	BaseEvent
	UserID     uuid.UUID `json:"userId"`
	ProjectKey string    `json:"projectKey"`
	Shares     int64     `json:"shares"`
	Amount     float64   `json:"amount"`
}

func (e SharesPurchased) EventName() string { return "trading.shares.purchased" }

// SharesSold is published when a sell order settles.
type SharesSold struct {
	BaseEvent
	UserID     uuid.UUID `json:"userId"`
	ProjectKey string    `json:"projectKey"`
	Shares     int64     `json:"shares"`
	Amount     float64   `json:"amount"`
}

func (e SharesSold) EventName() string { return "trading.shares.sold" }

// RevenueAccrued is published when the scheduler credits monthly
// generation revenue to a holder.
type RevenueAccrued struct {
	BaseEvent
	UserID     uuid.UUID `json:"userId"`
	ProjectKey string    `json:"projectKey"`
	Amount     float64   `json:"amount"`
}

func (e RevenueAccrued) EventName() string { return "trading.revenue.accrued" }
