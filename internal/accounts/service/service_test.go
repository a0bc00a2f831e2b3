package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"vespera_backend/internal/accounts/password"
	"vespera_backend/internal/accounts/repository"
	"vespera_backend/internal/events"
	"vespera_backend/platform/apperr"
	"vespera_backend/platform/logger"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[string]repository.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]repository.User)}
}

func (f *fakeRepo) CreateUser(_ context.Context, phone, name, passwordHash string, monthlyConsumptionKWh float64) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[phone]; ok {
		return repository.User{}, repository.ErrPhoneTaken
	}
	user := repository.User{
		ID:                    uuid.New(),
		Phone:                 phone,
		Name:                  name,
		PasswordHash:          passwordHash,
		MonthlyConsumptionKWh: monthlyConsumptionKWh,
		CreatedAt:             time.Now(),
		UpdatedAt:             time.Now(),
	}
	f.users[phone] = user
	return user, nil
}

func (f *fakeRepo) GetUserByPhone(_ context.Context, phone string) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[phone]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, userID uuid.UUID) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeRepo) AddFunds(_ context.Context, userID uuid.UUID, amount float64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for phone, user := range f.users {
		if user.ID == userID {
			user.BalanceINR += amount
			f.users[phone] = user
			return user.BalanceINR, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (f *fakeRepo) UpdateConsumption(_ context.Context, userID uuid.UUID, monthlyConsumptionKWh float64) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for phone, user := range f.users {
		if user.ID == userID {
			user.MonthlyConsumptionKWh = monthlyConsumptionKWh
			f.users[phone] = user
			return user, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) last() events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) == 0 {
		return nil
	}
	return b.events[len(b.events)-1]
}

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration { return 15 * time.Minute }

func newTestService(repo repository.AccountRepository, bus *recordingBus) *Service {
	return New(repo, testConfig{}, bus, logger.New("development"))
}

func TestRegister_NormalizesPhone(t *testing.T) {
	bus := &recordingBus{}
	svc := newTestService(newFakeRepo(), bus)

	profile, err := svc.Register(context.Background(), "98765 43210", "Asha Rao", "s3cretpass", 420)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Phone != "+919876543210" {
		t.Fatalf("expected normalized phone, got %s", profile.Phone)
	}
	if profile.MonthlyConsumptionKWh != 420 {
		t.Fatalf("unexpected consumption %v", profile.MonthlyConsumptionKWh)
	}

	event, ok := bus.last().(events.UserRegistered)
	if !ok {
		t.Fatalf("expected UserRegistered event, got %T", bus.last())
	}
	if event.UserID != profile.ID {
		t.Fatal("event carries wrong user ID")
	}
}

func TestRegister_InvalidPhone(t *testing.T) {
	svc := newTestService(newFakeRepo(), &recordingBus{})

	_, err := svc.Register(context.Background(), "12", "Asha Rao", "s3cretpass", 420)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegister_DuplicatePhone(t *testing.T) {
	svc := newTestService(newFakeRepo(), &recordingBus{})

	if _, err := svc.Register(context.Background(), "9876543210", "Asha Rao", "s3cretpass", 420); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Register(context.Background(), "+91 98765 43210", "Asha Rao", "s3cretpass", 420)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLogin_IssuesAccessToken(t *testing.T) {
	svc := newTestService(newFakeRepo(), &recordingBus{})

	profile, err := svc.Register(context.Background(), "9876543210", "Asha Rao", "s3cretpass", 420)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := svc.Login(context.Background(), "9876543210", "s3cretpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != profile.ID.String() {
		t.Fatalf("unexpected sub claim %v", claims["sub"])
	}
	if claims["type"] != "access" {
		t.Fatalf("unexpected type claim %v", claims["type"])
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(newFakeRepo(), &recordingBus{})

	if _, err := svc.Register(context.Background(), "9876543210", "Asha Rao", "s3cretpass", 420); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Login(context.Background(), "9876543210", "wrong")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogin_UnknownPhone(t *testing.T) {
	svc := newTestService(newFakeRepo(), &recordingBus{})

	_, err := svc.Login(context.Background(), "9876543210", "s3cretpass")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAddFunds_PublishesEvent(t *testing.T) {
	bus := &recordingBus{}
	svc := newTestService(newFakeRepo(), bus)

	profile, err := svc.Register(context.Background(), "9876543210", "Asha Rao", "s3cretpass", 420)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	balance, err := svc.AddFunds(context.Background(), profile.ID, 2500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 2500 {
		t.Fatalf("expected balance 2500, got %v", balance)
	}

	event, ok := bus.last().(events.FundsAdded)
	if !ok {
		t.Fatalf("expected FundsAdded event, got %T", bus.last())
	}
	if event.Amount != 2500 || event.Balance != 2500 {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestUpdateConsumption(t *testing.T) {
	svc := newTestService(newFakeRepo(), &recordingBus{})

	profile, err := svc.Register(context.Background(), "9876543210", "Asha Rao", "s3cretpass", 420)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.UpdateConsumption(context.Background(), profile.ID, 610)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.MonthlyConsumptionKWh != 610 {
		t.Fatalf("expected 610, got %v", updated.MonthlyConsumptionKWh)
	}

	if _, err := svc.UpdateConsumption(context.Background(), uuid.New(), 700); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := password.Hash("s3cretpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := password.Compare(hash, "s3cretpass"); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
	if err := password.Compare(hash, "other"); err == nil {
		t.Fatal("wrong password must not verify")
	}
}
