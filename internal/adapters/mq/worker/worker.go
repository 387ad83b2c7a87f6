// Package worker defines worker contracts for asynchronous pair scoring
// during batch refreshes.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/BrainTwoPoint0/nexus-sub002/internal/adapters/mq/queue"
	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/logger"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Pair abstracts what workers read off the queue.
type Pair = queue.Pair

// Scorer computes a match score for one pair, loading whatever records it
// needs. It must not persist anything.
type Scorer interface {
	ScorePair(ctx context.Context, candidateID, jobID string) (model.MatchScore, error)
}

// Upserter persists a computed score.
type Upserter interface {
	Upsert(ctx context.Context, score model.MatchScore) error
}

// Queue defines how workers receive pairs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Pair
}

// Sink receives per-pair completion notifications for batch accounting.
// A nil error means the pair's score was computed and stored.
type Sink interface {
	Done(p Pair, err error)
}

// Worker processes pairs from the queue until stopped. Each pair is scored
// and upserted independently: one pair's failure never aborts the rest.
type Worker struct {
	queue    Queue
	scorer   Scorer
	upserter Upserter
	sink     Sink
	name     string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewWorker creates a new worker with configuration options.
func NewWorker(q Queue, scorer Scorer, upserter Upserter, sink Sink, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		scorer:   scorer,
		upserter: upserter,
		sink:     sink,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop until ctx is canceled or the worker shuts down.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	pairChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case p, ok := <-pairChan:
			if !ok {
				// Channel closed, worker should stop.
				return
			}
			w.processPair(ctx, p)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processPair scores and persists a single pair, reporting the outcome to
// the sink.
func (w *Worker) processPair(ctx context.Context, p Pair) {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	scoreStart := time.Now()
	score, err := w.scorer.ScorePair(ctx, p.CandidateID, p.JobID)
	metrics.RecordScoringLatency(float64(time.Since(scoreStart).Milliseconds()))

	if err != nil {
		metrics.RecordScoringError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "scoring_error")
		w.logger.Error(ctx, "scoring failed for pair",
			logger.String("batchID", p.BatchID),
			logger.String("candidateID", p.CandidateID),
			logger.String("jobID", p.JobID),
			logger.Error(err),
		)
		w.report(p, err)
		return
	}

	if err := w.upserter.Upsert(ctx, score); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		w.logger.Error(ctx, "score upsert failed for pair",
			logger.String("batchID", p.BatchID),
			logger.String("candidateID", p.CandidateID),
			logger.String("jobID", p.JobID),
			logger.Error(err),
		)
		w.report(p, err)
		return
	}

	metrics.RecordScoreComputed()
	w.report(p, nil)
}

func (w *Worker) report(p Pair, err error) {
	if w.sink != nil {
		w.sink.Done(p, err)
	}
}

// Pool manages multiple workers draining a shared queue.
type Pool struct {
	workers []*Worker
	queue   Queue

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, scorer Scorer, upserter Upserter, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*Worker, workerCount),
		queue:    q,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewWorker(
			q,
			scorer,
			upserter,
			sink,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerActiveCount(0)
}

// Shutdown closes the queue and waits for all workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new pairs.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerActiveCount(0)
	return nil
}
