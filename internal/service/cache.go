package service

import (
	"context"

	"github.com/wealth-planner/internal/logging"
)

// Cache is the read-through cache used by the projection and timeline
// services. Get reports whether the key was present and decodes into dest.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	InvalidatePattern(ctx context.Context, pattern string) error
}

// invalidateSimulationCaches drops every cached projection and timeline of a
// simulation. Invalidation is best-effort: failures are logged and the write
// that triggered it still succeeds.
func invalidateSimulationCaches(ctx context.Context, cache Cache, simulationID string) {
	if cache == nil {
		return
	}

	patterns := []string{
		"projection:" + simulationID + ":*",
		"timeline:" + simulationID + ":*",
	}
	for _, pattern := range patterns {
		if err := cache.InvalidatePattern(ctx, pattern); err != nil {
			logging.FromContext(ctx).
				WithError(err).
				WithField("pattern", pattern).
				Warn("cache invalidation failed")
		}
	}
}
