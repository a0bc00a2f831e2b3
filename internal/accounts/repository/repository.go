package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")
var ErrPhoneTaken = errors.New("phone already registered")

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type User struct {
	ID                    uuid.UUID
	Phone                 string
	Name                  string
	PasswordHash          string
	MonthlyConsumptionKWh float64
	BalanceINR            float64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

const userColumns = `id, phone, name, password_hash, monthly_consumption_kwh, balance_inr, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Phone,
		&user.Name,
		&user.PasswordHash,
		&user.MonthlyConsumptionKWh,
		&user.BalanceINR,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (r *Repository) CreateUser(ctx context.Context, phone, name, passwordHash string, monthlyConsumptionKWh float64) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (phone, name, password_hash, monthly_consumption_kwh)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns+`
	`, phone, name, passwordHash, monthlyConsumptionKWh))

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return User{}, ErrPhoneTaken
	}
	return user, err
}

func (r *Repository) GetUserByPhone(ctx context.Context, phone string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE phone = $1
	`, phone))
}

func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, userID))
}

// AddFunds atomically credits the wallet and returns the new balance.
func (r *Repository) AddFunds(ctx context.Context, userID uuid.UUID, amount float64) (float64, error) {
	var balance float64
	err := r.pool.QueryRow(ctx, `
		UPDATE users SET balance_inr = balance_inr + $2, updated_at = now()
		WHERE id = $1
		RETURNING balance_inr
	`, userID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return balance, err
}

func (r *Repository) UpdateConsumption(ctx context.Context, userID uuid.UUID, monthlyConsumptionKWh float64) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET monthly_consumption_kwh = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, userID, monthlyConsumptionKWh))
}
