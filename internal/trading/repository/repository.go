package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrInsufficientShares = errors.New("insufficient shares")
var ErrSupplyExhausted = errors.New("project share supply exhausted")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Holding struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ProjectKey  string
	Shares      int64
	InvestedINR float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Buy settles a purchase in one transaction: the wallet row is locked,
// the debit is checked against the balance and the project's issued
// supply, and the holding is created or merged.
func (r *Repository) Buy(ctx context.Context, userID uuid.UUID, projectKey string, shares int64, amount float64, supply int64) (float64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance float64
	err = tx.QueryRow(ctx, `
		SELECT balance_inr FROM users WHERE id = $1 FOR UPDATE
	`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if balance < amount {
		return 0, ErrInsufficientFunds
	}

	var issued int64
	if err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(shares), 0) FROM holdings WHERE project_key = $1
	`, projectKey).Scan(&issued); err != nil {
		return 0, err
	}
	if issued+shares > supply {
		return 0, ErrSupplyExhausted
	}

	if err := tx.QueryRow(ctx, `
		UPDATE users SET balance_inr = balance_inr - $2, updated_at = now()
		WHERE id = $1
		RETURNING balance_inr
	`, userID, amount).Scan(&balance); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO holdings (user_id, project_key, shares, invested_inr)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, project_key) DO UPDATE
		SET shares = holdings.shares + EXCLUDED.shares,
		    invested_inr = holdings.invested_inr + EXCLUDED.invested_inr,
		    updated_at = now()
	`, userID, projectKey, shares, amount); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return balance, nil
}

// Sell settles a sale in one transaction: the holding is locked and
// decremented, and the proceeds are credited to the wallet.
func (r *Repository) Sell(ctx context.Context, userID uuid.UUID, projectKey string, shares int64, amount float64) (float64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var held int64
	var invested float64
	err = tx.QueryRow(ctx, `
		SELECT shares, invested_inr FROM holdings
		WHERE user_id = $1 AND project_key = $2 FOR UPDATE
	`, userID, projectKey).Scan(&held, &invested)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrInsufficientShares
	}
	if err != nil {
		return 0, err
	}
	if held < shares {
		return 0, ErrInsufficientShares
	}

	if held == shares {
		if _, err := tx.Exec(ctx, `
			DELETE FROM holdings WHERE user_id = $1 AND project_key = $2
		`, userID, projectKey); err != nil {
			return 0, err
		}
	} else {
		// Cost basis shrinks proportionally to the shares sold.
		soldBasis := invested * float64(shares) / float64(held)
		if _, err := tx.Exec(ctx, `
			UPDATE holdings
			SET shares = shares - $3, invested_inr = invested_inr - $4, updated_at = now()
			WHERE user_id = $1 AND project_key = $2
		`, userID, projectKey, shares, soldBasis); err != nil {
			return 0, err
		}
	}

	var balance float64
	err = tx.QueryRow(ctx, `
		UPDATE users SET balance_inr = balance_inr + $2, updated_at = now()
		WHERE id = $1
		RETURNING balance_inr
	`, userID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Holding, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, project_key, shares, invested_inr, created_at, updated_at
		FROM holdings WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHoldings(rows)
}

// ListAll returns every holding, for the revenue accrual sweep.
func (r *Repository) ListAll(ctx context.Context) ([]Holding, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, project_key, shares, invested_inr, created_at, updated_at
		FROM holdings
		ORDER BY project_key, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHoldings(rows)
}

// CreditRevenue adds accrued generation revenue to a holder's wallet.
func (r *Repository) CreditRevenue(ctx context.Context, userID uuid.UUID, amount float64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET balance_inr = balance_inr + $2, updated_at = now()
		WHERE id = $1
	`, userID, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanHoldings(rows pgx.Rows) ([]Holding, error) {
	var holdings []Holding
	for rows.Next() {
		var h Holding
		if err := rows.Scan(&h.ID, &h.UserID, &h.ProjectKey, &h.Shares, &h.InvestedINR, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}
