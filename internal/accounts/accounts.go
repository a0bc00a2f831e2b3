// Package accounts provides the user account bounded context.
// This file defines the public API of the accounts bounded context.
// Only types defined here should be imported by other domains.
package accounts

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents user information that can be shared with other domains.
type Profile struct {
	ID                    uuid.UUID
	Phone                 string
	Name                  string
	MonthlyConsumptionKWh float64
	BalanceINR            float64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
