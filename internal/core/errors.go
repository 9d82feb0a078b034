package core

import "errors"

// Sentinel errors shared across packages.
var (
	// ErrNoSnapshot indicates no observation snapshot exists for the
	// requested date.
	ErrNoSnapshot = errors.New("no snapshot for date")

	// ErrNoReport indicates no end-of-day report has been stored yet.
	ErrNoReport = errors.New("no report available")

	// ErrNotConfigured indicates an optional external service (LLM,
	// Google APIs) has no credentials configured.
	ErrNotConfigured = errors.New("service not configured")
)
