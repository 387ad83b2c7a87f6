package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/metrics"
)

// Expected table, managed outside this engine:
//
//	CREATE TABLE match_scores (
//	    candidate_id     text        NOT NULL,
//	    job_id           text        NOT NULL,
//	    skills_score     integer     NOT NULL,
//	    experience_score integer     NOT NULL,
//	    sector_score     integer     NOT NULL,
//	    location_score   integer     NOT NULL,
//	    overall_score    integer     NOT NULL,
//	    explanation      text        NOT NULL,
//	    calculated_at    timestamptz NOT NULL,
//	    PRIMARY KEY (candidate_id, job_id)
//	);

const (
	upsertQuery = `
INSERT INTO match_scores (
    candidate_id, job_id, skills_score, experience_score,
    sector_score, location_score, overall_score, explanation, calculated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (candidate_id, job_id) DO UPDATE SET
    skills_score     = EXCLUDED.skills_score,
    experience_score = EXCLUDED.experience_score,
    sector_score     = EXCLUDED.sector_score,
    location_score   = EXCLUDED.location_score,
    overall_score    = EXCLUDED.overall_score,
    explanation      = EXCLUDED.explanation,
    calculated_at    = EXCLUDED.calculated_at`

	selectColumns = `candidate_id, job_id, skills_score, experience_score,
    sector_score, location_score, overall_score, explanation, calculated_at`
)

// PostgresStore implements Store on PostgreSQL with whole-record upserts on
// the (candidate_id, job_id) primary key.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool for the given DSN and verifies it.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrStorage, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrStorage, err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromDB wraps an existing connection pool.
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Upsert creates or overwrites the score for its pair.
func (s *PostgresStore) Upsert(ctx context.Context, score model.MatchScore) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if score.CandidateID == "" || score.JobID == "" {
		return fmt.Errorf("candidate and job ids are required: %w", ErrInvalidKey)
	}

	_, err := s.db.ExecContext(ctx, upsertQuery,
		score.CandidateID, score.JobID,
		score.SkillsScore, score.ExperienceScore,
		score.SectorScore, score.LocationScore,
		score.OverallScore, score.Explanation, score.CalculatedAt,
	)
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("%w: upsert pair (%s, %s): %v", ErrStorage, score.CandidateID, score.JobID, err)
	}

	metrics.RecordStoreUpsert()
	return nil
}

// Get returns the current score for a pair.
func (s *PostgresStore) Get(ctx context.Context, candidateID, jobID string) (model.MatchScore, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM match_scores WHERE candidate_id = $1 AND job_id = $2`,
		candidateID, jobID,
	)

	score, err := scanScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MatchScore{}, fmt.Errorf("pair (%s, %s): %w", candidateID, jobID, ErrNotFound)
	}
	if err != nil {
		metrics.RecordStoreError()
		return model.MatchScore{}, fmt.Errorf("%w: get pair (%s, %s): %v", ErrStorage, candidateID, jobID, err)
	}
	return score, nil
}

// ListInWindow returns all scores calculated within [from, to).
func (s *PostgresStore) ListInWindow(ctx context.Context, from, to time.Time) ([]model.MatchScore, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM match_scores WHERE calculated_at >= $1 AND calculated_at < $2`,
		from, to,
	)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: list window: %v", ErrStorage, err)
	}
	defer rows.Close()

	var out []model.MatchScore
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("%w: scan row: %v", ErrStorage, err)
		}
		out = append(out, score)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: iterate rows: %v", ErrStorage, err)
	}
	return out, nil
}

// Count returns the number of pairs with a current score, or 0 when the
// query fails (Count is advisory, used for monitoring only).
func (s *PostgresStore) Count(ctx context.Context) int {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM match_scores`).Scan(&count); err != nil {
		metrics.RecordStoreError()
		return 0
	}
	return count
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanScore(sc scanner) (model.MatchScore, error) {
	var score model.MatchScore
	err := sc.Scan(
		&score.CandidateID, &score.JobID,
		&score.SkillsScore, &score.ExperienceScore,
		&score.SectorScore, &score.LocationScore,
		&score.OverallScore, &score.Explanation, &score.CalculatedAt,
	)
	return score, err
}
