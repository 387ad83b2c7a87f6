// Package scoring computes match scores between candidate profiles and job
// postings.
//
// All comparisons are lowercased substring checks. That tolerates phrasing
// differences ("Python" matches "Python 3") but also produces known false
// positives ("Java" matches "JavaScript"); the behavior is kept as-is so
// freshly computed scores stay comparable with historical ones.
package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
)

// Scorer computes a match score for a (candidate, job) pair. Implementations
// must be deterministic: identical inputs always yield identical scores.
type Scorer interface {
	// Score computes all sub-scores and the weighted overall score,
	// honoring ctx for cancellation.
	Score(ctx context.Context, candidate model.CandidateProfile, job model.JobPosting) (model.MatchScore, error)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source used for CalculatedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine implements Scorer as a pure function of its two input records plus
// the fixed weight constants. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	now func() time.Time
}

// NewEngine creates a scoring engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the four factor scores and aggregates them.
func (e *Engine) Score(ctx context.Context, candidate model.CandidateProfile, job model.JobPosting) (model.MatchScore, error) {
	if err := ctx.Err(); err != nil {
		return model.MatchScore{}, fmt.Errorf("context cancelled: %w", err)
	}
	if err := validateYears(candidate.YearsExperience); err != nil {
		return model.MatchScore{}, fmt.Errorf("candidate %s: %w", candidate.ID, err)
	}
	if err := validateYears(job.RequiredYears); err != nil {
		return model.MatchScore{}, fmt.Errorf("job %s: %w", job.ID, err)
	}

	skills := SkillsScore(candidate.Skills, job.RequiredSkills)
	experience := ExperienceScore(candidate.YearsExperience, job.RequiredYears)
	sector := SectorScore(candidate.Sectors, job.Sector)
	location := LocationScore(candidate.Location, job.Location)

	return model.MatchScore{
		CandidateID:     candidate.ID,
		JobID:           job.ID,
		SkillsScore:     skills,
		ExperienceScore: experience,
		SectorScore:     sector,
		LocationScore:   location,
		OverallScore:    OverallScore(skills, experience, sector, location),
		Explanation:     Explain(skills, experience, sector, location),
		CalculatedAt:    e.now().UTC(),
	}, nil
}

// validateYears rejects values that no clamp can make sense of.
func validateYears(v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return fmt.Errorf("years of experience is not a finite number: %w", ErrInvalidInput)
	}
	return nil
}

// SkillsScore rates how many of the job's required skills the candidate
// covers. A required skill counts as matched when it is a case-insensitive
// substring of any candidate skill, or vice versa.
//
// A nil list on either side scores 0 (no data, no credit); a job that
// requires no skills scores the neutral default rather than rewarding the
// absence of requirements.
func SkillsScore(candidateSkills, requiredSkills []string) int {
	if candidateSkills == nil || requiredSkills == nil {
		return minScore
	}
	if len(requiredSkills) == 0 {
		return neutralScore
	}

	matched := 0
	for _, required := range requiredSkills {
		req := strings.ToLower(strings.TrimSpace(required))
		if req == "" {
			continue
		}
		for _, have := range candidateSkills {
			skill := strings.ToLower(strings.TrimSpace(have))
			if skill == "" {
				continue
			}
			if strings.Contains(skill, req) || strings.Contains(req, skill) {
				matched++
				break
			}
		}
	}

	return clamp(math.Round(float64(matched) / float64(len(requiredSkills)) * maxScore))
}

// ExperienceScore compares candidate years of experience against the job's
// requirement. Meeting the requirement earns the base score plus a small
// bonus per extra year; falling short scales the base linearly.
func ExperienceScore(candidateYears, requiredYears *float64) int {
	if candidateYears == nil || requiredYears == nil {
		return neutralScore
	}

	have := math.Max(0, *candidateYears)
	want := math.Max(0, *requiredYears)

	if have >= want {
		bonus := math.Min(experienceBonusCap, (have-want)*experienceBonusPerYear)
		return clamp(math.Round(math.Min(maxScore, experienceBase+bonus)))
	}

	// want > have >= 0, so want is strictly positive here.
	return clamp(math.Round(have / want * experienceBase))
}

// SectorScore checks the candidate's sector preferences against the job's
// sector. The outcome is deliberately binary: a hit is a strong signal, a
// miss is weak but not zero.
func SectorScore(preferences []string, jobSector string) int {
	if len(preferences) == 0 || strings.TrimSpace(jobSector) == "" {
		return neutralScore
	}

	sector := strings.ToLower(strings.TrimSpace(jobSector))
	for _, preference := range preferences {
		pref := strings.ToLower(strings.TrimSpace(preference))
		if pref == "" {
			continue
		}
		if strings.Contains(sector, pref) || strings.Contains(pref, sector) {
			return sectorMatchScore
		}
	}
	return sectorMissScore
}

// LocationScore compares free-text locations. Remote jobs match everyone;
// otherwise a containment hit means same city or region, a shared
// after-the-last-comma suffix means same country, and anything else is the
// weakest signal since relocation remains possible.
func LocationScore(candidateLocation, jobLocation string) int {
	cand := strings.ToLower(strings.TrimSpace(candidateLocation))
	job := strings.ToLower(strings.TrimSpace(jobLocation))
	if cand == "" || job == "" {
		return neutralScore
	}

	if strings.Contains(job, "remote") || strings.Contains(job, "anywhere") {
		return locationExactScore
	}
	if strings.Contains(cand, job) || strings.Contains(job, cand) {
		return locationExactScore
	}
	if region(cand) == region(job) {
		return locationRegionScore
	}
	return locationMissScore
}

// region returns the text after the last comma, interpreted as the country
// or region part of a free-text location.
func region(location string) string {
	if idx := strings.LastIndex(location, ","); idx >= 0 {
		return strings.TrimSpace(location[idx+1:])
	}
	return strings.TrimSpace(location)
}

// OverallScore combines the four sub-scores using the fixed weights.
func OverallScore(skills, experience, sector, location int) int {
	weighted := float64(skills)*skillsWeight +
		float64(experience)*experienceWeight +
		float64(sector)*sectorWeight +
		float64(location)*locationWeight
	return clamp(math.Round(weighted))
}

// Explain renders one descriptive phrase per factor from fixed score bands.
// It is pure presentation over already-computed sub-scores.
func Explain(skills, experience, sector, location int) string {
	phrases := []string{
		skillsPhrase(skills),
		experiencePhrase(experience),
		sectorPhrase(sector),
		locationPhrase(location),
	}
	return strings.Join(phrases, ". ")
}

func skillsPhrase(score int) string {
	switch {
	case score >= bandHigh:
		return "Excellent skills match"
	case score >= bandGood:
		return "Strong skills match"
	case score >= bandModerate:
		return "Moderate skills match"
	default:
		return "Limited skills overlap"
	}
}

func experiencePhrase(score int) string {
	switch {
	case score >= bandHigh:
		return "Experience exceeds requirements"
	case score >= bandGood:
		return "Experience close to requirements"
	default:
		return "Less experience than required"
	}
}

func sectorPhrase(score int) string {
	switch {
	case score >= bandHigh:
		return "Preferred sector"
	case score >= bandGood:
		return "Adjacent sector"
	default:
		return "Outside preferred sectors"
	}
}

func locationPhrase(score int) string {
	switch {
	case score >= bandHigh:
		return "Location is a match"
	case score >= bandGood:
		return "Same country or region"
	default:
		return "Relocation likely required"
	}
}

// clamp bounds a rounded score to the valid range.
func clamp(v float64) int {
	return int(math.Max(minScore, math.Min(maxScore, v)))
}
