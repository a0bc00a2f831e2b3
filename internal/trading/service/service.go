package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"vespera_backend/internal/dataset"
	"vespera_backend/internal/events"
	"vespera_backend/internal/recommend/engine"
	"vespera_backend/internal/trading/repository"
	"vespera_backend/internal/trading/transport"
	"vespera_backend/platform/apperr"
	"vespera_backend/platform/logger"
)

// accrualWorkers bounds the concurrent wallet credits during a revenue sweep.
const accrualWorkers = 8

// ProjectReader resolves derived project records for pricing.
type ProjectReader interface {
	ProjectByKey(key string) (*dataset.ProjectRecord, error)
}

type Service struct {
	repo     repository.TradeRepository
	projects ProjectReader
	bus      events.Bus
	log      *logger.Logger
}

func New(repo repository.TradeRepository, projects ProjectReader, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, projects: projects, bus: bus, log: log}
}

// Buy purchases shares in a project at the current share price.
func (s *Service) Buy(ctx context.Context, userID uuid.UUID, projectKey string, shares int64) (transport.TradeResponse, error) {
	rec, price, err := s.priceShares(projectKey)
	if err != nil {
		return transport.TradeResponse{}, err
	}
	amount := price * float64(shares)

	balance, err := s.repo.Buy(ctx, userID, projectKey, shares, amount, engine.ProjectShareSupply(rec))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return transport.TradeResponse{}, apperr.NotFound("account not found")
	case errors.Is(err, repository.ErrInsufficientFunds):
		return transport.TradeResponse{}, apperr.BadRequest("insufficient funds")
	case errors.Is(err, repository.ErrSupplyExhausted):
		return transport.TradeResponse{}, apperr.Conflict("project share supply exhausted")
	case err != nil:
		s.log.DatabaseError("buy shares", err)
		return transport.TradeResponse{}, apperr.Wrap(apperr.KindInternal, "trade settlement failed", err)
	}

	s.log.Trade("buy", userID.String(), projectKey, shares, amount)
	s.bus.Publish(ctx, events.SharesPurchased{
		BaseEvent:  events.NewBaseEvent(),
		UserID:     userID,
		ProjectKey: projectKey,
		Shares:     shares,
		Amount:     amount,
	})

	return transport.TradeResponse{
		ProjectKey:    projectKey,
		Shares:        shares,
		PricePerShare: price,
		Amount:        amount,
		BalanceINR:    balance,
	}, nil
}

// Sell liquidates shares at the current share price.
func (s *Service) Sell(ctx context.Context, userID uuid.UUID, projectKey string, shares int64) (transport.TradeResponse, error) {
	_, price, err := s.priceShares(projectKey)
	if err != nil {
		return transport.TradeResponse{}, err
	}
	amount := price * float64(shares)

	balance, err := s.repo.Sell(ctx, userID, projectKey, shares, amount)
	switch {
	case errors.Is(err, repository.ErrInsufficientShares):
		return transport.TradeResponse{}, apperr.BadRequest("insufficient shares")
	case errors.Is(err, repository.ErrNotFound):
		return transport.TradeResponse{}, apperr.NotFound("account not found")
	case err != nil:
		s.log.DatabaseError("sell shares", err)
		return transport.TradeResponse{}, apperr.Wrap(apperr.KindInternal, "trade settlement failed", err)
	}

	s.log.Trade("sell", userID.String(), projectKey, shares, amount)
	s.bus.Publish(ctx, events.SharesSold{
		BaseEvent:  events.NewBaseEvent(),
		UserID:     userID,
		ProjectKey: projectKey,
		Shares:     shares,
		Amount:     amount,
	})

	return transport.TradeResponse{
		ProjectKey:    projectKey,
		Shares:        shares,
		PricePerShare: price,
		Amount:        amount,
		BalanceINR:    balance,
	}, nil
}

// ListHoldings returns the caller's portfolio valued at current prices.
func (s *Service) ListHoldings(ctx context.Context, userID uuid.UUID) (transport.HoldingListResponse, error) {
	holdings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.log.DatabaseError("list holdings", err)
		return transport.HoldingListResponse{}, apperr.Wrap(apperr.KindInternal, "holdings lookup failed", err)
	}

	items := make([]transport.HoldingResponse, 0, len(holdings))
	for _, h := range holdings {
		item := transport.HoldingResponse{
			ProjectKey:  h.ProjectKey,
			Shares:      h.Shares,
			InvestedINR: h.InvestedINR,
			CreatedAt:   h.CreatedAt,
			UpdatedAt:   h.UpdatedAt,
		}
		// Holdings in projects that left the dataset keep a zero value.
		if rec, err := s.projects.ProjectByKey(h.ProjectKey); err == nil {
			item.CurrentValueINR = engine.SharePrice(rec) * float64(h.Shares)
		}
		items = append(items, item)
	}

	return transport.HoldingListResponse{Items: items, Total: len(items)}, nil
}

// AccrualResult summarizes one revenue sweep.
type AccrualResult struct {
	HoldingsCredited int
	HoldingsSkipped  int
	TotalAmount      float64
}

// AccrueRevenue credits one month of generation revenue to every holder,
// proportional to their share count. Holdings whose project is no longer
// in the dataset are skipped.
func (s *Service) AccrueRevenue(ctx context.Context) (AccrualResult, error) {
	holdings, err := s.repo.ListAll(ctx)
	if err != nil {
		return AccrualResult{}, err
	}

	var mu sync.Mutex
	var result AccrualResult

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(accrualWorkers)

	for _, h := range holdings {
		g.Go(func() error {
			rec, err := s.projects.ProjectByKey(h.ProjectKey)
			if err != nil {
				s.log.Warn("revenue accrual skipped, project missing", "projectKey", h.ProjectKey)
				mu.Lock()
				result.HoldingsSkipped++
				mu.Unlock()
				return nil
			}

			amount := engine.MonthlyRevenuePerShare(rec) * float64(h.Shares)
			if amount <= 0 {
				mu.Lock()
				result.HoldingsSkipped++
				mu.Unlock()
				return nil
			}

			if err := s.repo.CreditRevenue(ctx, h.UserID, amount); err != nil {
				return err
			}

			s.bus.Publish(ctx, events.RevenueAccrued{
				BaseEvent:  events.NewBaseEvent(),
				UserID:     h.UserID,
				ProjectKey: h.ProjectKey,
				Amount:     amount,
			})

			mu.Lock()
			result.HoldingsCredited++
			result.TotalAmount += amount
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func (s *Service) priceShares(projectKey string) (*dataset.ProjectRecord, float64, error) {
	rec, err := s.projects.ProjectByKey(projectKey)
	if err != nil {
		return nil, 0, err
	}
	price := engine.SharePrice(rec)
	if price <= 0 {
		return nil, 0, apperr.Conflict("project shares are not priced")
	}
	return rec, price, nil
}
