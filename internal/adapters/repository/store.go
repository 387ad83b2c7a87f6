// Package repository defines the match score store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
)

// Store provides read/write access to computed match scores. Writes are
// whole-record upserts keyed by (candidate_id, job_id); concurrent writers
// for the same pair resolve as last-write-wins, which is safe because
// recomputation is deterministic and idempotent.
type Store interface {
	// Upsert creates or overwrites the score for its pair.
	Upsert(ctx context.Context, score model.MatchScore) error

	// Get returns the current score for a pair.
	// Returns ErrNotFound if the pair has never been scored.
	Get(ctx context.Context, candidateID, jobID string) (model.MatchScore, error)

	// ListInWindow returns all scores calculated within [from, to).
	ListInWindow(ctx context.Context, from, to time.Time) ([]model.MatchScore, error)

	// Count returns the number of pairs with a current score.
	Count(ctx context.Context) int
}
