// Package service provides the recommendation service: it owns the
// dataset snapshot, runs the engine, and caches responses.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vespera_backend/internal/dataset"
	"vespera_backend/internal/recommend/engine"
	"vespera_backend/internal/recommend/transport"
	"vespera_backend/platform/apperr"
	"vespera_backend/platform/cache"
	"vespera_backend/platform/logger"
)

const cacheKeyPrefix = "recommend:v1:"

// Service runs recommendations against the current dataset snapshot.
// The snapshot is read-only between reloads, so concurrent requests
// need no locking.
type Service struct {
	snap        *dataset.Snapshot
	weights     engine.Weights
	datasetPath string
	tariffsPath string
	cache       *cache.Cache
	cacheTTL    time.Duration
	log         *logger.Logger
}

// New creates the recommendation service around an already-loaded
// snapshot. The cache may be nil.
func New(snap *dataset.Snapshot, datasetPath, tariffsPath string, c *cache.Cache, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		snap:        snap,
		weights:     engine.DefaultWeights(),
		datasetPath: datasetPath,
		tariffsPath: tariffsPath,
		cache:       c,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

// Recommend returns the best project and share allocation for the given
// monthly consumption. Identical requests against an unchanged dataset
// are served from cache.
func (s *Service) Recommend(ctx context.Context, monthlyConsumptionKWh float64) (engine.Recommendation, error) {
	key := cacheKey(monthlyConsumptionKWh)

	var cached engine.Recommendation
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	}

	result, err := engine.Recommend(s.snap.Current(), monthlyConsumptionKWh, s.weights)
	if err != nil {
		return engine.Recommendation{}, mapEngineError(err)
	}

	s.log.Recommendation(result.Project.Company, result.Project.Location, monthlyConsumptionKWh, result.Score.Final)

	if err := s.cache.SetJSON(ctx, key, result, s.cacheTTL); err != nil {
		s.log.Warn("recommendation cache write failed", "error", err)
	}

	return result, nil
}

// ListProjects returns the derived project table.
func (s *Service) ListProjects(_ context.Context) transport.ProjectListResponse {
	table := s.snap.Current()

	items := make([]transport.ProjectResponse, 0, len(table.Projects))
	for i := range table.Projects {
		items = append(items, toProjectResponse(&table.Projects[i]))
	}

	return transport.ProjectListResponse{
		Items:    items,
		Total:    len(items),
		LoadedAt: table.LoadedAt.Format(time.RFC3339),
	}
}

// Reload re-reads the dataset source and atomically swaps the snapshot.
// On failure the previous snapshot stays in place and cached responses
// remain valid.
func (s *Service) Reload(ctx context.Context) (transport.ReloadResponse, error) {
	tariffs, err := dataset.LoadTariffs(s.tariffsPath)
	if err != nil {
		return transport.ReloadResponse{}, apperr.Wrap(apperr.KindInternal, "tariff table reload failed", err)
	}

	table, err := dataset.Load(s.datasetPath, tariffs)
	if err != nil {
		var loadErr *dataset.LoadError
		if errors.As(err, &loadErr) {
			return transport.ReloadResponse{}, apperr.Wrap(apperr.KindInternal, "dataset reload failed", err).
				WithDetails(loadErr.Error())
		}
		return transport.ReloadResponse{}, apperr.Wrap(apperr.KindInternal, "dataset reload failed", err)
	}

	s.snap.Swap(table)

	if err := s.cache.DeletePrefix(ctx, cacheKeyPrefix); err != nil {
		s.log.Warn("recommendation cache invalidation failed", "error", err)
	}

	s.log.Info("dataset reloaded", "projects", len(table.Projects))

	return transport.ReloadResponse{
		Projects: len(table.Projects),
		LoadedAt: table.LoadedAt.Format(time.RFC3339),
	}, nil
}

// ProjectByKey exposes a derived record to other modules (trading needs
// share pricing and revenue figures).
func (s *Service) ProjectByKey(key string) (*dataset.ProjectRecord, error) {
	rec := s.snap.Current().FindByKey(key)
	if rec == nil {
		return nil, apperr.NotFound(fmt.Sprintf("project %s not found", key))
	}
	return rec, nil
}

func cacheKey(monthlyConsumptionKWh float64) string {
	return cacheKeyPrefix + strconv.FormatFloat(monthlyConsumptionKWh, 'g', -1, 64)
}

func mapEngineError(err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidConsumption):
		return apperr.Validation(err.Error())
	case errors.Is(err, engine.ErrNoCandidates):
		return apperr.NotFound(err.Error())
	case errors.Is(err, engine.ErrAllocationInfeasible):
		return apperr.BadRequest(err.Error())
	default:
		return apperr.Wrap(apperr.KindInternal, "recommendation failed", err)
	}
}

func toProjectResponse(rec *dataset.ProjectRecord) transport.ProjectResponse {
	return transport.ProjectResponse{
		Company:               rec.Company,
		Location:              rec.Location,
		PanelCapacityKW:       rec.PanelCapacityKW,
		PanelEfficiencyPct:    rec.PanelEfficiencyPct,
		InverterEfficiencyPct: rec.InverterEfficiencyPct,
		TotalAnnualEnergyKWh:  rec.TotalAnnualEnergyKWh,
		MonthlyEnergyKWh:      rec.MonthlyEnergyKWh,
		SummerGenerationKWh:   rec.SummerGenerationKWh,
		WinterGenerationKWh:   rec.WinterGenerationKWh,
		GenerationVariance:    rec.GenerationVariance,
		EnergySaleRate:        rec.EnergySaleRate,
		CostPerKW:             rec.CostPerKW,
		TotalCost:             rec.TotalCost,
		AnnualRevenue:         rec.AnnualRevenue,
		ROIPct:                rec.ROIPct,
	}
}
