package repository

import (
	"context"

	"github.com/google/uuid"
)

// TradeRepository defines the interface for holding and settlement operations.
// This allows services to depend on an abstraction rather than concrete implementation,
// improving testability and modularity.
type TradeRepository interface {
	Buy(ctx context.Context, userID uuid.UUID, projectKey string, shares int64, amount float64, supply int64) (float64, error)
	Sell(ctx context.Context, userID uuid.UUID, projectKey string, shares int64, amount float64) (float64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Holding, error)
	ListAll(ctx context.Context) ([]Holding, error)
	CreditRevenue(ctx context.Context, userID uuid.UUID, amount float64) error
}

// Ensure Repository implements TradeRepository
var _ TradeRepository = (*Repository)(nil)
