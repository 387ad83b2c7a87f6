package repository

import "errors"

// Sentinel kinds for score store errors.
var (
	ErrNotFound   = errors.New("score not found")
	ErrStorage    = errors.New("score storage failed")
	ErrInvalidKey = errors.New("invalid pair key")
)
