package model

import "errors"

var (
	// ErrValidation is returned when an input is rejected before any write.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound is returned when an id does not resolve to a record or asset.
	ErrNotFound = errors.New("not found")
	// ErrSynthesis is returned when the remote synthesis call fails.
	ErrSynthesis = errors.New("synthesis failed")
	// ErrStorage is returned when file or database I/O fails.
	ErrStorage = errors.New("storage failure")
	// ErrConflict is returned when a write collides with a unique key.
	ErrConflict = errors.New("conflict")
)
