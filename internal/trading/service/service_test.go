package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"vespera_backend/internal/dataset"
	"vespera_backend/internal/events"
	"vespera_backend/internal/recommend/engine"
	"vespera_backend/internal/trading/repository"
	"vespera_backend/platform/apperr"
	"vespera_backend/platform/logger"
)

type fakeRepo struct {
	mu       sync.Mutex
	balances map[uuid.UUID]float64
	holdings map[string]repository.Holding
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		balances: make(map[uuid.UUID]float64),
		holdings: make(map[string]repository.Holding),
	}
}

func holdingKey(userID uuid.UUID, projectKey string) string {
	return userID.String() + "|" + projectKey
}

func (f *fakeRepo) Buy(_ context.Context, userID uuid.UUID, projectKey string, shares int64, amount float64, supply int64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	balance, ok := f.balances[userID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if balance < amount {
		return 0, repository.ErrInsufficientFunds
	}

	var issued int64
	for _, h := range f.holdings {
		if h.ProjectKey == projectKey {
			issued += h.Shares
		}
	}
	if issued+shares > supply {
		return 0, repository.ErrSupplyExhausted
	}

	f.balances[userID] = balance - amount
	key := holdingKey(userID, projectKey)
	h := f.holdings[key]
	h.UserID = userID
	h.ProjectKey = projectKey
	h.Shares += shares
	h.InvestedINR += amount
	f.holdings[key] = h
	return f.balances[userID], nil
}

func (f *fakeRepo) Sell(_ context.Context, userID uuid.UUID, projectKey string, shares int64, amount float64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := holdingKey(userID, projectKey)
	h, ok := f.holdings[key]
	if !ok || h.Shares < shares {
		return 0, repository.ErrInsufficientShares
	}

	if h.Shares == shares {
		delete(f.holdings, key)
	} else {
		h.InvestedINR -= h.InvestedINR * float64(shares) / float64(h.Shares)
		h.Shares -= shares
		f.holdings[key] = h
	}

	f.balances[userID] += amount
	return f.balances[userID], nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]repository.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Holding
	for _, h := range f.holdings {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]repository.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Holding
	for _, h := range f.holdings {
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeRepo) CreditRevenue(_ context.Context, userID uuid.UUID, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.balances[userID]; !ok {
		return repository.ErrNotFound
	}
	f.balances[userID] += amount
	return nil
}

type fakeProjects struct {
	records map[string]*dataset.ProjectRecord
}

func (f *fakeProjects) ProjectByKey(key string) (*dataset.ProjectRecord, error) {
	rec, ok := f.records[key]
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("project %s not found", key))
	}
	return rec, nil
}

type countingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *countingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *countingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *countingBus) Subscribe(string, events.Handler) {}

// testProject has capacity 5 kW, so a supply of 10000 shares, and a
// share price of 240000/10000 = 24.
func testProject() *dataset.ProjectRecord {
	rec := &dataset.ProjectRecord{
		Company:              "SunCo",
		Location:             "Gujarat",
		PanelCapacityKW:      5,
		TotalAnnualEnergyKWh: 12000,
		EnergySaleRate:       6.0,
		TotalCost:            240000,
		AnnualRevenue:        72000,
	}
	for i := range rec.MonthlyEnergyKWh {
		rec.MonthlyEnergyKWh[i] = 1000
	}
	return rec
}

func newTestService(repo repository.TradeRepository) (*Service, *countingBus) {
	bus := &countingBus{}
	projects := &fakeProjects{records: map[string]*dataset.ProjectRecord{
		"SunCo/Gujarat": testProject(),
	}}
	return New(repo, projects, bus, logger.New("development")), bus
}

func TestBuy_DebitsWalletAtSharePrice(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo)

	userID := uuid.New()
	repo.balances[userID] = 1000

	result, err := svc.Buy(context.Background(), userID, "SunCo/Gujarat", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PricePerShare != 24 {
		t.Fatalf("expected share price 24, got %v", result.PricePerShare)
	}
	if result.Amount != 240 {
		t.Fatalf("expected amount 240, got %v", result.Amount)
	}
	if result.BalanceINR != 760 {
		t.Fatalf("expected balance 760, got %v", result.BalanceINR)
	}

	if len(bus.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.events))
	}
	if _, ok := bus.events[0].(events.SharesPurchased); !ok {
		t.Fatalf("expected SharesPurchased, got %T", bus.events[0])
	}
}

func TestBuy_InsufficientFunds(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	userID := uuid.New()
	repo.balances[userID] = 100

	_, err := svc.Buy(context.Background(), userID, "SunCo/Gujarat", 10)
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestBuy_UnknownProject(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	userID := uuid.New()
	repo.balances[userID] = 1000

	_, err := svc.Buy(context.Background(), userID, "Nope/Nowhere", 10)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBuy_SupplyExhausted(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	userID := uuid.New()
	repo.balances[userID] = 10_000_000

	// Supply is 10000 shares.
	if _, err := svc.Buy(context.Background(), userID, "SunCo/Gujarat", 10000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Buy(context.Background(), userID, "SunCo/Gujarat", 1)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSell_CreditsWalletAndReducesHolding(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo)

	userID := uuid.New()
	repo.balances[userID] = 1000

	if _, err := svc.Buy(context.Background(), userID, "SunCo/Gujarat", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Sell(context.Background(), userID, "SunCo/Gujarat", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Amount != 96 {
		t.Fatalf("expected proceeds 96, got %v", result.Amount)
	}
	if result.BalanceINR != 856 {
		t.Fatalf("expected balance 856, got %v", result.BalanceINR)
	}

	holdings, _ := repo.ListByUser(context.Background(), userID)
	if len(holdings) != 1 || holdings[0].Shares != 6 {
		t.Fatalf("expected 6 shares held, got %+v", holdings)
	}

	last := bus.events[len(bus.events)-1]
	if _, ok := last.(events.SharesSold); !ok {
		t.Fatalf("expected SharesSold, got %T", last)
	}
}

func TestSell_InsufficientShares(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	userID := uuid.New()
	repo.balances[userID] = 1000

	_, err := svc.Sell(context.Background(), userID, "SunCo/Gujarat", 1)
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestListHoldings_ValuesAtCurrentPrice(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	userID := uuid.New()
	repo.balances[userID] = 1000

	if _, err := svc.Buy(context.Background(), userID, "SunCo/Gujarat", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := svc.ListHoldings(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("expected 1 holding, got %d", list.Total)
	}
	if list.Items[0].CurrentValueINR != 240 {
		t.Fatalf("expected current value 240, got %v", list.Items[0].CurrentValueINR)
	}
}

func TestAccrueRevenue_CreditsHoldersProportionally(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo)

	alice := uuid.New()
	bob := uuid.New()
	repo.balances[alice] = 1000
	repo.balances[bob] = 1000

	if _, err := svc.Buy(context.Background(), alice, "SunCo/Gujarat", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Buy(context.Background(), bob, "SunCo/Gujarat", 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	balanceAfterBuy := repo.balances[alice]

	result, err := svc.AccrueRevenue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.HoldingsCredited != 2 {
		t.Fatalf("expected 2 holdings credited, got %d", result.HoldingsCredited)
	}

	// 72000 annual revenue over 10000 shares is 0.6 per share per month.
	perShare := 72000.0 / 10000.0 / 12.0
	wantAlice := balanceAfterBuy + perShare*10
	if math.Abs(repo.balances[alice]-wantAlice) > 1e-9 {
		t.Fatalf("expected alice balance %v, got %v", wantAlice, repo.balances[alice])
	}
	if math.Abs(result.TotalAmount-perShare*30) > 1e-9 {
		t.Fatalf("expected total %v, got %v", perShare*30, result.TotalAmount)
	}

	var accrued int
	bus.mu.Lock()
	for _, e := range bus.events {
		if _, ok := e.(events.RevenueAccrued); ok {
			accrued++
		}
	}
	bus.mu.Unlock()
	if accrued != 2 {
		t.Fatalf("expected 2 RevenueAccrued events, got %d", accrued)
	}
}

func TestAccrueRevenue_SkipsMissingProjects(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	userID := uuid.New()
	repo.balances[userID] = 1000
	repo.holdings[holdingKey(userID, "Gone/City")] = repository.Holding{
		UserID:     userID,
		ProjectKey: "Gone/City",
		Shares:     5,
		CreatedAt:  time.Now(),
	}

	result, err := svc.AccrueRevenue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.HoldingsSkipped != 1 || result.HoldingsCredited != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if repo.balances[userID] != 1000 {
		t.Fatalf("balance must be untouched, got %v", repo.balances[userID])
	}
}

func TestMonthlyRevenuePerShare(t *testing.T) {
	rec := testProject()
	want := 72000.0 / 10000.0 / 12.0
	if got := engine.MonthlyRevenuePerShare(rec); math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
