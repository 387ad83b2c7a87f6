package model

import "time"

// MatchScore is the engine's output for one (candidate, job) pair.
// At most one current score exists per pair; recomputation overwrites it
// wholesale, never field by field.
type MatchScore struct {
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`

	// Sub-scores, each an integer in [0,100].
	SkillsScore     int `json:"skills_score"`
	ExperienceScore int `json:"experience_score"`
	SectorScore     int `json:"sector_score"`
	LocationScore   int `json:"location_score"`

	// OverallScore is the weighted combination of the four sub-scores,
	// also in [0,100].
	OverallScore int `json:"overall_score"`

	// Explanation is a short human-readable rendering of the sub-scores.
	Explanation string `json:"explanation"`

	CalculatedAt time.Time `json:"calculated_at"`
}

// Key returns the composite natural key for this score.
func (s MatchScore) Key() PairKey {
	return PairKey{CandidateID: s.CandidateID, JobID: s.JobID}
}

// PairKey identifies a (candidate, job) pair in the store and cache.
type PairKey struct {
	CandidateID string
	JobID       string
}

// ScorePair is a unit of batch work: one pair to (re)score, tagged with the
// refresh batch it belongs to.
type ScorePair struct {
	BatchID     string
	CandidateID string
	JobID       string
}
