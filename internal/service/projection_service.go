package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/wealth-planner/internal/logging"
	"github.com/wealth-planner/internal/models"
	"github.com/wealth-planner/internal/types"
)

// ProjectionRunRepository interface for the append-only projection audit trail
type ProjectionRunRepository interface {
	Insert(ctx context.Context, run *models.ProjectionRun) error
	ListBySimulation(ctx context.Context, simulationID string, limit int) ([]*models.ProjectionRun, error)
}

// ProjectionService orchestrates wealth projections: it validates parameters,
// serves cached results when possible, loads the simulation snapshot, runs the
// pure projection engine, and records an audit row for each computed run.
type ProjectionService struct {
	provider SnapshotProvider
	cache    Cache
	runRepo  ProjectionRunRepository
	engine   *ProjectionEngine
}

// NewProjectionService creates a new projection service
func NewProjectionService(provider SnapshotProvider, cache Cache, runRepo ProjectionRunRepository) *ProjectionService {
	return &ProjectionService{
		provider: provider,
		cache:    cache,
		runRepo:  runRepo,
		engine:   NewProjectionEngine(),
	}
}

// RunProjection computes the year-by-year wealth projection for a simulation.
// Parameters are validated before any I/O happens, so invalid requests never
// touch the store or the cache.
func (s *ProjectionService) RunProjection(ctx context.Context, params *ProjectionParameters) (*ProjectionResult, error) {
	startTime := time.Now()

	if serr := ValidateProjectionParameters(params); serr != nil {
		return nil, serr
	}

	cacheKey := projectionCacheKey(params)
	if s.cache != nil {
		var cached ProjectionResult
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil && found {
			return &cached, nil
		}
	}

	snapshot, err := s.provider.Snapshot(ctx, params.SimulationID)
	if err != nil {
		var serr *types.ServiceError
		if errors.As(err, &serr) {
			return nil, serr
		}
		return nil, fmt.Errorf("failed to load simulation snapshot: %w", err)
	}

	result, err := s.engine.Project(params, snapshot)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result); err != nil {
			logging.FromContext(ctx).WithError(err).WithField("cacheKey", cacheKey).Warn("failed to cache projection result")
		}
	}

	s.recordRun(ctx, params, result, time.Since(startTime))

	return result, nil
}

// History returns the most recent audit rows for a simulation, newest first.
// Rows survive simulation deletion; an unknown simulation yields an empty list.
func (s *ProjectionService) History(ctx context.Context, simulationID string, limit int) ([]*models.ProjectionRun, error) {
	if simulationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "simulationId is required",
		}
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	runs, err := s.runRepo.ListBySimulation(ctx, simulationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list projection runs: %w", err)
	}

	return runs, nil
}

// recordRun appends an audit row for a computed projection. Auditing is
// best-effort: failures are logged and never fail the projection request.
func (s *ProjectionService) recordRun(ctx context.Context, params *ProjectionParameters, result *ProjectionResult, elapsed time.Duration) {
	if s.runRepo == nil {
		return
	}

	var finalTotal float64
	if len(result.Total) > 0 {
		finalTotal = result.Total[len(result.Total)-1]
	}

	run := &models.ProjectionRun{
		SimulationID:     params.SimulationID,
		LifeStatus:       params.LifeStatus,
		AnnualRealRate:   params.AnnualRealRate,
		HorizonYears:     params.HorizonYears,
		IncludeInsurance: params.IncludeInsurance,
		FinalTotal:       finalTotal,
		DurationMs:       elapsed.Milliseconds(),
		CreatedAt:        time.Now(),
	}
	if err := s.runRepo.Insert(ctx, run); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("simulationId", params.SimulationID).Warn("failed to record projection run")
	}
}

// projectionCacheKey builds the cache key for a projection request.
// Format: projection:<simulationID>:<status>:<rate>:<horizon>:<includeInsurance>
func projectionCacheKey(params *ProjectionParameters) string {
	rate := strconv.FormatFloat(params.AnnualRealRate, 'g', -1, 64)
	return fmt.Sprintf("projection:%s:%s:%s:%d:%t",
		params.SimulationID, params.LifeStatus, rate, params.HorizonYears, params.IncludeInsurance)
}
