// Package service provides the matching service that computes, stores, and
// serves candidate/job match scores.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	pairqueue "github.com/BrainTwoPoint0/nexus-sub002/internal/adapters/mq/queue"
	workerpool "github.com/BrainTwoPoint0/nexus-sub002/internal/adapters/mq/worker"
	repository "github.com/BrainTwoPoint0/nexus-sub002/internal/adapters/repository"
	"github.com/BrainTwoPoint0/nexus-sub002/internal/cache"
	"github.com/BrainTwoPoint0/nexus-sub002/internal/config"
	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/scoring"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/logger"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/metrics"
)

// CandidateSource supplies candidate records. Implementations should return
// ErrCandidateNotFound for unknown ids.
type CandidateSource interface {
	Candidate(ctx context.Context, id string) (model.CandidateProfile, error)
	CandidateIDsForJob(ctx context.Context, jobID string) ([]string, error)
}

// JobSource supplies job records. Implementations should return
// ErrJobNotFound for unknown ids.
type JobSource interface {
	Job(ctx context.Context, id string) (model.JobPosting, error)
	JobIDsForCandidate(ctx context.Context, candidateID string) ([]string, error)
}

// Service implements match scoring, recommendations, batch refreshes, and
// analytics over injected candidate and job sources.
type Service struct {
	mu sync.RWMutex

	// Data sources
	candidates CandidateSource
	jobs       JobSource

	// Core components
	store      repository.Store
	scoreCache cache.Cache
	scorer     scoring.Scorer
	pairQueue  pairqueue.Queue
	workerPool *workerpool.Pool
	batches    *batchTracker

	// Configuration
	workerCount         int
	queueSize           int
	defaultMinScore     int
	maxResults          int
	analyticsWindowDays int
	cacheTTL            time.Duration

	// Config-driven settings, applied at Start when set
	logLevel    string
	postgresDSN string
	redisAddr   string

	// Clock, overridable in tests
	now func() time.Time

	// State
	started   bool
	ownsStore bool
	ownsCache bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCandidateSource sets the candidate source. Required.
func WithCandidateSource(src CandidateSource) Option {
	return func(s *Service) {
		s.candidates = src
	}
}

// WithJobSource sets the job source. Required.
func WithJobSource(src JobSource) Option {
	return func(s *Service) {
		s.jobs = src
	}
}

// WithStore sets the score store. Defaults to the in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCache sets the score cache. Defaults to the in-memory cache.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.scoreCache = c
		}
	}
}

// WithScorer sets the scoring engine.
func WithScorer(sc scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithWorkerCount sets the number of refresh worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the refresh pair queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDefaultMinScore sets the minimum overall score applied to
// recommendations when the caller does not provide one.
func WithDefaultMinScore(score int) Option {
	return func(s *Service) {
		if score >= 0 {
			s.defaultMinScore = score
		}
	}
}

// WithMaxResults caps recommendation result sizes when the caller does not
// provide a limit.
func WithMaxResults(max int) Option {
	return func(s *Service) {
		if max > 0 {
			s.maxResults = max
		}
	}
}

// WithAnalyticsWindow sets the default analytics lookback in days.
func WithAnalyticsWindow(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.analyticsWindowDays = days
		}
	}
}

// WithCacheTTL sets the freshness window for the default score cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:         runtime.NumCPU() * 2,
		queueSize:           10_000,
		defaultMinScore:     0,
		maxResults:          50,
		analyticsWindowDays: 30,
		cacheTTL:            15 * time.Minute,
		now:                 time.Now,
		batches:             newBatchTracker(),
		logger:              nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewFromConfig builds a Service from loaded configuration. Data sources
// are still injected through opts; the Postgres store and Redis cache are
// connected at Start when their addresses are configured.
func NewFromConfig(cfg *config.Config, opts ...Option) *Service {
	base := []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithDefaultMinScore(cfg.DefaultMinScore),
		WithMaxResults(cfg.MaxResults),
		WithAnalyticsWindow(cfg.AnalyticsWindowDays),
		WithCacheTTL(time.Duration(cfg.CacheTTLSeconds) * time.Second),
	}

	s := New(append(base, opts...)...)
	s.logLevel = cfg.LogLevel
	s.postgresDSN = cfg.PostgresDSN
	s.redisAddr = cfg.RedisAddr
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.candidates == nil || s.jobs == nil {
		return ErrMissingSource
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get().Named("matching")
	}
	if s.logLevel != "" {
		if err := logger.SetLevelString(s.logLevel); err != nil {
			return fmt.Errorf("apply log level: %w", err)
		}
	}

	s.logger.Info(ctx, "starting matching service...")

	// Initialize components not supplied via options
	if s.store == nil {
		if s.postgresDSN != "" {
			store, err := repository.NewPostgresStore(ctx, s.postgresDSN)
			if err != nil {
				return fmt.Errorf("connect postgres store: %w", err)
			}
			s.store = store
			s.logger.Info(ctx, "using postgres score store")
		} else {
			s.store = repository.NewMemoryStore()
			s.logger.Info(ctx, "using in-memory score store")
		}
		s.ownsStore = true
	}
	if s.scoreCache == nil {
		if s.redisAddr != "" {
			client := redis.NewClient(&redis.Options{Addr: s.redisAddr})
			s.scoreCache = cache.NewRedisCache(client, cache.WithRedisTTL(s.cacheTTL))
			s.logger.Info(ctx, "using redis score cache",
				logger.String("addr", s.redisAddr),
			)
		} else {
			s.scoreCache = cache.NewMemoryCache(cache.WithTTL(s.cacheTTL))
		}
		s.ownsCache = true
	}
	if s.scorer == nil {
		s.scorer = scoring.NewEngine()
	}
	s.pairQueue = pairqueue.NewInMemoryQueue(
		pairqueue.WithCapacity(s.queueSize),
	)

	// Create and start the worker pool that drains refresh batches
	s.workerPool = workerpool.NewPool(
		s.workerCount,
		s.pairQueue,
		&pairScorer{svc: s},
		&scoreWriter{svc: s},
		s.batches,
	)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxResults", s.maxResults),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping matching service...")

	// Shut down the worker pool; this closes the pair queue and drains it
	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}

	// Release backends the service created itself; injected ones stay open
	// and stay wired, so the service can be started again. A closed store
	// left in place would make every operation after a restart fail.
	if s.ownsStore {
		if closer, ok := s.store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		s.store = nil
		s.ownsStore = false
	}
	if s.ownsCache {
		s.scoreCache = nil
		s.ownsCache = false
	}

	s.started = false
	s.logger.Info(ctx, "matching service stopped")
}

// ComputeScore scores a single candidate/job pair, persists the result, and
// returns it. Source lookup failures and storage failures are surfaced.
func (s *Service) ComputeScore(ctx context.Context, candidateID, jobID string) (model.MatchScore, error) {
	if err := s.requireStarted(); err != nil {
		return model.MatchScore{}, err
	}
	return s.computeAndStore(ctx, candidateID, jobID)
}

// computeAndStore loads both records, scores the pair, upserts the result,
// and refreshes the cache entry.
func (s *Service) computeAndStore(ctx context.Context, candidateID, jobID string) (model.MatchScore, error) {
	score, err := s.scorePair(ctx, candidateID, jobID)
	if err != nil {
		return model.MatchScore{}, err
	}

	if err := s.store.Upsert(ctx, score); err != nil {
		return model.MatchScore{}, fmt.Errorf("store score for pair %s/%s: %w", candidateID, jobID, err)
	}
	s.scoreCache.Set(ctx, score)

	return score, nil
}

// scorePair loads both records and computes a score without persisting it.
func (s *Service) scorePair(ctx context.Context, candidateID, jobID string) (model.MatchScore, error) {
	cand, err := s.candidates.Candidate(ctx, candidateID)
	if err != nil {
		return model.MatchScore{}, fmt.Errorf("load candidate %s: %w", candidateID, err)
	}

	job, err := s.jobs.Job(ctx, jobID)
	if err != nil {
		return model.MatchScore{}, fmt.Errorf("load job %s: %w", jobID, err)
	}

	score, err := s.scorer.Score(ctx, cand, job)
	if err != nil {
		return model.MatchScore{}, fmt.Errorf("score pair %s/%s: %w", candidateID, jobID, err)
	}
	return score, nil
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"maxResults":  s.maxResults,
	}

	if s.started {
		queueLen := s.pairQueue.Len(ctx)
		storedPairs := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["storedPairs"] = storedPairs

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoredPairs(storedPairs)
	}

	return stats
}

func (s *Service) requireStarted() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// pairScorer adapts the service's sources and scoring engine to the
// worker's Scorer contract.
type pairScorer struct {
	svc *Service
}

func (a *pairScorer) ScorePair(ctx context.Context, candidateID, jobID string) (model.MatchScore, error) {
	return a.svc.scorePair(ctx, candidateID, jobID)
}

// scoreWriter adapts the store and cache to the worker's Upserter contract.
type scoreWriter struct {
	svc *Service
}

func (w *scoreWriter) Upsert(ctx context.Context, score model.MatchScore) error {
	if err := w.svc.store.Upsert(ctx, score); err != nil {
		return err
	}
	w.svc.scoreCache.Set(ctx, score)
	return nil
}
