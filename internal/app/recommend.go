package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	repository "github.com/BrainTwoPoint0/nexus-sub002/internal/adapters/repository"
	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/logger"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/metrics"
)

// RecommendOptions tunes a recommendation query. Zero values fall back to
// the service defaults.
type RecommendOptions struct {
	// MinScore filters out pairs with a lower overall score.
	MinScore int

	// MaxResults caps the number of recommendations returned.
	MaxResults int

	// ForceRecalculate bypasses cached and stored scores.
	ForceRecalculate bool
}

// Recommendation pairs a counterpart entity with its match score.
type Recommendation struct {
	EntityID string           `json:"entity_id"`
	Score    model.MatchScore `json:"score"`
}

// RecommendCandidates returns candidates for a job, ranked by overall
// score. Pairs that fail to score are skipped, not fatal.
func (s *Service) RecommendCandidates(ctx context.Context, jobID string, opts RecommendOptions) ([]Recommendation, error) {
	if err := s.requireStarted(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.RecordRecommendationLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordRecommendationRequest("candidates")

	candidateIDs, err := s.candidates.CandidateIDsForJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list candidates for job %s: %w", jobID, err)
	}

	recs := make([]Recommendation, 0, len(candidateIDs))
	for _, candidateID := range candidateIDs {
		score, err := s.scoreFor(ctx, candidateID, jobID, opts.ForceRecalculate)
		if err != nil {
			s.logger.Warn(ctx, "skipping pair in recommendations",
				logger.String("candidateID", candidateID),
				logger.String("jobID", jobID),
				logger.Error(err),
			)
			continue
		}
		recs = append(recs, Recommendation{EntityID: candidateID, Score: score})
	}

	return s.rank(recs, opts), nil
}

// RecommendJobs returns jobs for a candidate, ranked by overall score.
func (s *Service) RecommendJobs(ctx context.Context, candidateID string, opts RecommendOptions) ([]Recommendation, error) {
	if err := s.requireStarted(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.RecordRecommendationLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordRecommendationRequest("jobs")

	jobIDs, err := s.jobs.JobIDsForCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list jobs for candidate %s: %w", candidateID, err)
	}

	recs := make([]Recommendation, 0, len(jobIDs))
	for _, jobID := range jobIDs {
		score, err := s.scoreFor(ctx, candidateID, jobID, opts.ForceRecalculate)
		if err != nil {
			s.logger.Warn(ctx, "skipping pair in recommendations",
				logger.String("candidateID", candidateID),
				logger.String("jobID", jobID),
				logger.Error(err),
			)
			continue
		}
		recs = append(recs, Recommendation{EntityID: jobID, Score: score})
	}

	return s.rank(recs, opts), nil
}

// scoreFor resolves a pair's score through the cache, then the store, then
// a fresh computation. ForceRecalculate skips straight to recomputing.
func (s *Service) scoreFor(ctx context.Context, candidateID, jobID string, force bool) (model.MatchScore, error) {
	key := model.PairKey{CandidateID: candidateID, JobID: jobID}

	if !force {
		if score, ok := s.scoreCache.Get(ctx, key); ok {
			return score, nil
		}

		score, err := s.store.Get(ctx, candidateID, jobID)
		if err == nil {
			s.scoreCache.Set(ctx, score)
			return score, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn(ctx, "store read failed, recomputing",
				logger.String("candidateID", candidateID),
				logger.String("jobID", jobID),
				logger.Error(err),
			)
		}
	}

	return s.computeAndStore(ctx, candidateID, jobID)
}

// rank filters, orders, and truncates recommendations. Ties on overall
// score break toward the lexicographically smaller entity id so repeated
// queries return a stable order.
func (s *Service) rank(recs []Recommendation, opts RecommendOptions) []Recommendation {
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = s.defaultMinScore
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	filtered := recs[:0]
	for _, rec := range recs {
		if rec.Score.OverallScore >= minScore {
			filtered = append(filtered, rec)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Score.OverallScore != filtered[j].Score.OverallScore {
			return filtered[i].Score.OverallScore > filtered[j].Score.OverallScore
		}
		return filtered[i].EntityID < filtered[j].EntityID
	})

	if len(filtered) > maxResults {
		filtered = filtered[:maxResults]
	}
	return filtered
}
