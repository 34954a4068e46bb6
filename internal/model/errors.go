package model

import "errors"

// Failure kinds. Per-event and per-entity failures are local: they degrade
// a single result row to missing. Only ErrConfigInvalid aborts a run, and it
// does so before any computation starts.
var (
	// ErrMalformedEvent marks an input row missing required fields; the row
	// is skipped with a diagnostic.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrBaselineInsufficient marks an entity with no or degenerate
	// historical data (too few frames, singular covariance).
	ErrBaselineInsufficient = errors.New("insufficient baseline data")

	// ErrInsufficientWindow marks an event too close to a match boundary to
	// yield a usable segment.
	ErrInsufficientWindow = errors.New("insufficient temporal window")

	// ErrConfigInvalid marks configuration that invalidates every result.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrCategoryMismatch marks a calculator invoked on an event outside its
	// category. This is a programming-contract violation, not a data error.
	ErrCategoryMismatch = errors.New("event category mismatch")
)
