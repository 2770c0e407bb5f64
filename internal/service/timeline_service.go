package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wealth-planner/internal/logging"
	"github.com/wealth-planner/internal/types"
)

// TimelineService expands a simulation's recurring movements into a flat,
// date-ordered cash-flow ledger for a requested year window.
type TimelineService struct {
	provider SnapshotProvider
	cache    Cache
	expander *TimelineExpander
}

// NewTimelineService creates a new timeline service
func NewTimelineService(provider SnapshotProvider, cache Cache) *TimelineService {
	return &TimelineService{
		provider: provider,
		cache:    cache,
		expander: NewTimelineExpander(),
	}
}

// TimelineResult represents an expanded cash-flow timeline
type TimelineResult struct {
	SimulationID string          `json:"simulationId"`
	FromYear     int             `json:"fromYear"`
	ToYear       int             `json:"toYear"`
	Entries      []TimelineEntry `json:"entries"`
	Count        int             `json:"count"`
}

// ExpandTimeline produces the dated ledger entries for a simulation's
// movements within [fromYear, toYear], both inclusive.
func (s *TimelineService) ExpandTimeline(ctx context.Context, simulationID string, fromYear, toYear int) (*TimelineResult, error) {
	if simulationID == "" {
		return nil, &types.ServiceError{
			Code:    "INVALID_INPUT",
			Message: "simulationId is required",
		}
	}
	if serr := validateTimelineWindow(fromYear, toYear); serr != nil {
		return nil, serr
	}

	cacheKey := timelineCacheKey(simulationID, fromYear, toYear)
	if s.cache != nil {
		var cached TimelineResult
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil && found {
			return &cached, nil
		}
	}

	snapshot, err := s.provider.Snapshot(ctx, simulationID)
	if err != nil {
		var serr *types.ServiceError
		if errors.As(err, &serr) {
			return nil, serr
		}
		return nil, fmt.Errorf("failed to load simulation snapshot: %w", err)
	}

	entries := s.expander.Expand(snapshot.Movements, fromYear, toYear)

	result := &TimelineResult{
		SimulationID: simulationID,
		FromYear:     fromYear,
		ToYear:       toYear,
		Entries:      entries,
		Count:        len(entries),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result); err != nil {
			logging.FromContext(ctx).WithError(err).WithField("cacheKey", cacheKey).Warn("failed to cache timeline result")
		}
	}

	return result, nil
}

func validateTimelineWindow(fromYear, toYear int) *types.ServiceError {
	if fromYear <= 0 {
		return &types.ServiceError{
			Code:    "VALIDATION_ERROR",
			Message: "from year must be positive",
			Details: map[string]interface{}{"field": "from"},
		}
	}
	if toYear <= 0 {
		return &types.ServiceError{
			Code:    "VALIDATION_ERROR",
			Message: "to year must be positive",
			Details: map[string]interface{}{"field": "to"},
		}
	}
	if fromYear > toYear {
		return &types.ServiceError{
			Code:    "VALIDATION_ERROR",
			Message: "from year cannot exceed to year",
			Details: map[string]interface{}{"field": "from"},
		}
	}
	return nil
}

// timelineCacheKey builds the cache key for a timeline expansion.
// Format: timeline:<simulationID>:<from>:<to>
func timelineCacheKey(simulationID string, fromYear, toYear int) string {
	return fmt.Sprintf("timeline:%s:%d:%d", simulationID, fromYear, toYear)
}
