// Package cache provides request-level caching of computed match scores.
//
// A cache is always injected into the service explicitly; nothing in this
// package holds process-wide state. Lookups are best-effort: a backend
// failure reads as a miss and never fails the scoring path.
package cache

import (
	"context"
	"time"

	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
)

// Default cache configuration constants.
const (
	defaultTTL        = 15 * time.Minute
	defaultMaxEntries = 10_000
)

// Cache stores recently computed match scores keyed by pair.
type Cache interface {
	// Get returns the cached score for a pair and whether it was present.
	Get(ctx context.Context, key model.PairKey) (model.MatchScore, bool)

	// Set stores a score, replacing any previous entry for its pair.
	Set(ctx context.Context, score model.MatchScore)

	// Invalidate drops the entry for a pair, if any.
	Invalidate(ctx context.Context, key model.PairKey)
}

// Nop is a Cache that stores nothing. Useful when callers want every read to
// go through the score store.
type Nop struct{}

// Get always reports a miss.
func (Nop) Get(_ context.Context, _ model.PairKey) (model.MatchScore, bool) {
	return model.MatchScore{}, false
}

// Set discards the score.
func (Nop) Set(_ context.Context, _ model.MatchScore) {}

// Invalidate does nothing.
func (Nop) Invalidate(_ context.Context, _ model.PairKey) {}
