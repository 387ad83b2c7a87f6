package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/metrics"
)

// Default memory store configuration constants.
const (
	defaultInitialCapacity = 1024
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithInitialCapacity pre-sizes the underlying map.
func WithInitialCapacity(capacity int) Option {
	return func(s *MemoryStore) {
		if capacity > 0 {
			s.initialCapacity = capacity
		}
	}
}

// MemoryStore implements Store with a mutex-guarded map. Suitable for tests
// and single-process deployments; PostgresStore covers everything else.
type MemoryStore struct {
	mu              sync.RWMutex
	scores          map[model.PairKey]model.MatchScore
	initialCapacity int
}

// NewMemoryStore creates a new in-memory score store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		initialCapacity: defaultInitialCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.scores = make(map[model.PairKey]model.MatchScore, s.initialCapacity)
	return s
}

// Upsert creates or overwrites the score for its pair.
func (s *MemoryStore) Upsert(ctx context.Context, score model.MatchScore) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	if score.CandidateID == "" || score.JobID == "" {
		return fmt.Errorf("candidate and job ids are required: %w", ErrInvalidKey)
	}

	s.mu.Lock()
	s.scores[score.Key()] = score
	size := len(s.scores)
	s.mu.Unlock()

	metrics.RecordStoreUpsert()
	metrics.UpdateStoredPairs(size)
	return nil
}

// Get returns the current score for a pair.
func (s *MemoryStore) Get(ctx context.Context, candidateID, jobID string) (model.MatchScore, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := ctx.Err(); err != nil {
		return model.MatchScore{}, fmt.Errorf("context cancelled: %w", err)
	}

	s.mu.RLock()
	score, ok := s.scores[model.PairKey{CandidateID: candidateID, JobID: jobID}]
	s.mu.RUnlock()

	if !ok {
		return model.MatchScore{}, fmt.Errorf("pair (%s, %s): %w", candidateID, jobID, ErrNotFound)
	}
	return score, nil
}

// ListInWindow returns all scores calculated within [from, to).
func (s *MemoryStore) ListInWindow(ctx context.Context, from, to time.Time) ([]model.MatchScore, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.MatchScore
	for _, score := range s.scores {
		if score.CalculatedAt.Before(from) || !score.CalculatedAt.Before(to) {
			continue
		}
		out = append(out, score)
	}
	return out, nil
}

// Count returns the number of pairs with a current score.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scores)
}
