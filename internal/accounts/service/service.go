package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"vespera_backend/internal/accounts"
	"vespera_backend/internal/accounts/password"
	"vespera_backend/internal/accounts/repository"
	"vespera_backend/internal/events"
	"vespera_backend/platform/apperr"
	"vespera_backend/platform/config"
	"vespera_backend/platform/logger"
	"vespera_backend/platform/phone"
	"vespera_backend/platform/sanitize"
)

const accessTokenType = "access"

type Service struct {
	repo repository.AccountRepository
	cfg  config.AuthServiceConfig
	bus  events.Bus
	log  *logger.Logger
}

func New(repo repository.AccountRepository, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus, log: log}
}

// Register creates an account keyed by the normalized E.164 phone number.
func (s *Service) Register(ctx context.Context, rawPhone, name, plainPassword string, monthlyConsumptionKWh float64) (accounts.Profile, error) {
	if !phone.IsValid(rawPhone) {
		s.log.AuthEvent("register", rawPhone, false, "invalid phone number")
		return accounts.Profile{}, apperr.Validation("invalid phone number")
	}
	normalized := phone.NormalizeE164(rawPhone)

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return accounts.Profile{}, apperr.Wrap(apperr.KindInternal, "password hashing failed", err)
	}

	user, err := s.repo.CreateUser(ctx, normalized, sanitize.Text(name), hash, monthlyConsumptionKWh)
	if errors.Is(err, repository.ErrPhoneTaken) {
		s.log.AuthEvent("register", normalized, false, "phone already registered")
		return accounts.Profile{}, apperr.Conflict("phone already registered")
	}
	if err != nil {
		s.log.DatabaseError("create user", err)
		return accounts.Profile{}, apperr.Wrap(apperr.KindInternal, "account creation failed", err)
	}

	s.log.AuthEvent("register", normalized, true, "")
	s.bus.Publish(ctx, events.UserRegistered{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID,
		Phone:     user.Phone,
	})

	return toProfile(user), nil
}

// Login verifies credentials and issues a signed access token.
func (s *Service) Login(ctx context.Context, rawPhone, plainPassword string) (string, error) {
	normalized := phone.NormalizeE164(rawPhone)

	user, err := s.repo.GetUserByPhone(ctx, normalized)
	if err != nil {
		s.log.AuthEvent("login", normalized, false, "unknown phone")
		return "", apperr.Unauthorized("invalid credentials")
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", normalized, false, "wrong password")
		return "", apperr.Unauthorized("invalid credentials")
	}

	token, err := s.signJWT(user.ID)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "token signing failed", err)
	}

	s.log.AuthEvent("login", normalized, true, "")
	return token, nil
}

// Me returns the caller's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (accounts.Profile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return accounts.Profile{}, apperr.NotFound("account not found")
	}
	if err != nil {
		return accounts.Profile{}, apperr.Wrap(apperr.KindInternal, "account lookup failed", err)
	}
	return toProfile(user), nil
}

// AddFunds credits the wallet and returns the new balance.
func (s *Service) AddFunds(ctx context.Context, userID uuid.UUID, amount float64) (float64, error) {
	balance, err := s.repo.AddFunds(ctx, userID, amount)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, apperr.NotFound("account not found")
	}
	if err != nil {
		s.log.DatabaseError("add funds", err)
		return 0, apperr.Wrap(apperr.KindInternal, "wallet credit failed", err)
	}

	s.bus.Publish(ctx, events.FundsAdded{
		BaseEvent: events.NewBaseEvent(),
		UserID:    userID,
		Amount:    amount,
		Balance:   balance,
	})
	return balance, nil
}

// UpdateConsumption stores a new monthly consumption figure for the caller.
func (s *Service) UpdateConsumption(ctx context.Context, userID uuid.UUID, monthlyConsumptionKWh float64) (accounts.Profile, error) {
	user, err := s.repo.UpdateConsumption(ctx, userID, monthlyConsumptionKWh)
	if errors.Is(err, repository.ErrNotFound) {
		return accounts.Profile{}, apperr.NotFound("account not found")
	}
	if err != nil {
		return accounts.Profile{}, apperr.Wrap(apperr.KindInternal, "consumption update failed", err)
	}
	return toProfile(user), nil
}

func (s *Service) signJWT(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"type": accessTokenType,
		"exp":  time.Now().Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":  time.Now().Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func toProfile(user repository.User) accounts.Profile {
	return accounts.Profile{
		ID:                    user.ID,
		Phone:                 user.Phone,
		Name:                  user.Name,
		MonthlyConsumptionKWh: user.MonthlyConsumptionKWh,
		BalanceINR:            user.BalanceINR,
		CreatedAt:             user.CreatedAt,
		UpdatedAt:             user.UpdatedAt,
	}
}
