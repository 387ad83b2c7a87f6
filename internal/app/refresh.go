package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	workerpool "github.com/BrainTwoPoint0/nexus-sub002/internal/adapters/mq/worker"
	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/logger"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/metrics"
)

// errQueueFull marks pairs that could not be enqueued for a refresh batch.
var errQueueFull = errors.New("refresh queue full")

// RefreshAnchor names the entity whose pairs should be rescored. Set
// CandidateID to refresh all of a candidate's job pairs, JobID to refresh
// all of a job's candidate pairs, or both to refresh the single pair.
type RefreshAnchor struct {
	CandidateID string
	JobID       string
}

// RefreshSummary reports the outcome of a refresh batch. Skipped counts
// pairs whose recomputation failed; they keep their previous stored score.
type RefreshSummary struct {
	Updated int
	Skipped int
}

// RefreshScores recomputes every pair for the anchor through the worker
// pool and blocks until the batch drains. One pair's failure never fails
// the batch: it is counted as skipped and the rest proceed.
//
// Completion signals come from the workers, so the pool started by Start
// must still be running on a live context; if it is not, the call can only
// return through its own ctx.
func (s *Service) RefreshScores(ctx context.Context, anchor RefreshAnchor) (RefreshSummary, error) {
	if err := s.requireStarted(); err != nil {
		return RefreshSummary{}, err
	}

	batchID := uuid.NewString()
	pairs, err := s.resolvePairs(ctx, anchor, batchID)
	if err != nil {
		return RefreshSummary{}, err
	}
	if len(pairs) == 0 {
		return RefreshSummary{}, nil
	}

	metrics.RecordRefreshBatch()
	s.logger.Info(ctx, "starting refresh batch",
		logger.String("batchID", batchID),
		logger.Int("pairs", len(pairs)),
	)

	state := s.batches.register(batchID, len(pairs))
	defer s.batches.remove(batchID)

	for _, p := range pairs {
		if !s.pairQueue.Enqueue(ctx, p) {
			// Rejected pairs still count toward batch completion.
			s.batches.Done(p, errQueueFull)
		}
	}

	select {
	case <-state.finished:
	case <-ctx.Done():
		summary := s.batches.summary(batchID)
		return summary, fmt.Errorf("refresh batch %s interrupted: %w", batchID, ctx.Err())
	}

	summary := s.batches.summary(batchID)
	s.logger.Info(ctx, "refresh batch complete",
		logger.String("batchID", batchID),
		logger.Int("updated", summary.Updated),
		logger.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// resolvePairs expands the anchor into concrete candidate/job pairs tagged
// with the batch id.
func (s *Service) resolvePairs(ctx context.Context, anchor RefreshAnchor, batchID string) ([]model.ScorePair, error) {
	switch {
	case anchor.CandidateID != "" && anchor.JobID != "":
		return []model.ScorePair{{
			BatchID:     batchID,
			CandidateID: anchor.CandidateID,
			JobID:       anchor.JobID,
		}}, nil

	case anchor.CandidateID != "":
		jobIDs, err := s.jobs.JobIDsForCandidate(ctx, anchor.CandidateID)
		if err != nil {
			return nil, fmt.Errorf("list jobs for candidate %s: %w", anchor.CandidateID, err)
		}
		pairs := make([]model.ScorePair, 0, len(jobIDs))
		for _, jobID := range jobIDs {
			pairs = append(pairs, model.ScorePair{
				BatchID:     batchID,
				CandidateID: anchor.CandidateID,
				JobID:       jobID,
			})
		}
		return pairs, nil

	case anchor.JobID != "":
		candidateIDs, err := s.candidates.CandidateIDsForJob(ctx, anchor.JobID)
		if err != nil {
			return nil, fmt.Errorf("list candidates for job %s: %w", anchor.JobID, err)
		}
		pairs := make([]model.ScorePair, 0, len(candidateIDs))
		for _, candidateID := range candidateIDs {
			pairs = append(pairs, model.ScorePair{
				BatchID:     batchID,
				CandidateID: candidateID,
				JobID:       anchor.JobID,
			})
		}
		return pairs, nil

	default:
		return nil, ErrEmptyAnchor
	}
}

// batchTracker accounts per-batch pair completions coming back from the
// worker pool. It implements the worker Sink contract.
type batchTracker struct {
	mu      sync.Mutex
	batches map[string]*batchState
}

type batchState struct {
	remaining int
	updated   int
	skipped   int
	finished  chan struct{}
}

func newBatchTracker() *batchTracker {
	return &batchTracker{
		batches: make(map[string]*batchState),
	}
}

func (t *batchTracker) register(batchID string, pairCount int) *batchState {
	state := &batchState{
		remaining: pairCount,
		finished:  make(chan struct{}),
	}

	t.mu.Lock()
	t.batches[batchID] = state
	t.mu.Unlock()

	return state
}

// Done records one pair's outcome. Completions for unknown batches are
// dropped; they belong to a refresh that already gave up.
func (t *batchTracker) Done(p workerpool.Pair, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.batches[p.BatchID]
	if !ok {
		return
	}

	if err != nil {
		state.skipped++
		metrics.RecordRefreshPairSkipped()
	} else {
		state.updated++
		metrics.RecordRefreshPairUpdated()
	}

	state.remaining--
	if state.remaining == 0 {
		close(state.finished)
	}
}

func (t *batchTracker) summary(batchID string) RefreshSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.batches[batchID]
	if !ok {
		return RefreshSummary{}
	}
	return RefreshSummary{Updated: state.updated, Skipped: state.skipped}
}

func (t *batchTracker) remove(batchID string) {
	t.mu.Lock()
	delete(t.batches, batchID)
	t.mu.Unlock()
}
