// Package model contains domain models passed between layers.
package model

import "time"

// CandidateProfile is the candidate record as produced by the
// profile-management subsystem. The engine only reads it.
type CandidateProfile struct {
	ID              string
	Skills          []string
	YearsExperience *float64 // nil when the profile never captured it
	Sectors         []string // sector preferences, free text
	Location        string   // free text, e.g. "London, UK"

	// Compensation expectations and board history are stored alongside the
	// profile but carry no weight in scoring.
	CompensationMin *int
	CompensationMax *int
	BoardRoles      []BoardRole
}

// BoardRole records a prior board or advisory position.
type BoardRole struct {
	Organisation string
	Title        string
	From         time.Time
	To           *time.Time // nil while the role is current
}

// JobPosting is the job record as produced by the job-posting subsystem.
type JobPosting struct {
	ID              string
	RequiredSkills  []string
	RequiredYears   *float64 // nil when the posting does not state a requirement
	Sector          string
	Location        string
	CompensationMin *int
	CompensationMax *int
}
