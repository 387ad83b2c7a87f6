package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrNotStarted is returned when an operation is invoked before Start.
	ErrNotStarted = errors.New("service not started")

	// ErrMissingSource is returned by Start when either data source is unset.
	ErrMissingSource = errors.New("candidate and job sources are required")

	// ErrEmptyAnchor is returned when a refresh names neither side of a pair.
	ErrEmptyAnchor = errors.New("refresh anchor is empty")

	// ErrCandidateNotFound should be returned by CandidateSource
	// implementations for unknown candidate ids.
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrJobNotFound should be returned by JobSource implementations for
	// unknown job ids.
	ErrJobNotFound = errors.New("job not found")
)
