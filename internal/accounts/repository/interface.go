package repository

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account data operations.
// This allows services to depend on an abstraction rather than concrete implementation,
// improving testability and modularity.
type AccountRepository interface {
	CreateUser(ctx context.Context, phone, name, passwordHash string, monthlyConsumptionKWh float64) (User, error)
	GetUserByPhone(ctx context.Context, phone string) (User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
	AddFunds(ctx context.Context, userID uuid.UUID, amount float64) (float64, error)
	UpdateConsumption(ctx context.Context, userID uuid.UUID, monthlyConsumptionKWh float64) (User, error)
}

// Ensure Repository implements AccountRepository
var _ AccountRepository = (*Repository)(nil)
