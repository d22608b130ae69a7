package service

import "errors"

// Sentinel kinds for service errors. Store errors (repository.ErrNotFound and
// friends) pass through unchanged.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrBackpressure = errors.New("ingestion queue full")
	ErrUnavailable  = errors.New("ingestion unavailable")
	ErrInvalidInput = errors.New("invalid input")
)
