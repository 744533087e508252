package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidJob signals a job record that fails validation.
	ErrInvalidJob = errors.New("invalid job")
	// ErrSearchFailed signals a search backend execution failure.
	// Wrapped errors carry the backend detail; the failure is surfaced to
	// the caller unchanged and never retried.
	ErrSearchFailed = errors.New("search execution failed")
)
