package entity

import (
	"errors"
	"fmt"
)

// Domain errors for insight reports
var (
	// Validation errors: fail fast, no provider call is made
	ErrAccountRequired     = errors.New("account reference is required")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrInvalidMaxItems     = errors.New("max items must be a positive integer")
	ErrInvalidConcurrency  = errors.New("concurrency must be a positive integer")

	// ErrNoData marks an explicit empty/absent provider result. It is an
	// expected outcome and is surfaced as a structured no-data response,
	// not as a failure.
	ErrNoData = errors.New("no data for this account")

	// ErrPaginationStalled signals a provider contract violation: the same
	// non-empty cursor was returned on two consecutive pages.
	ErrPaginationStalled = errors.New("pagination stalled: provider repeated cursor")
)

// ProviderError wraps an upstream failure with enough context to diagnose
// which platform and pipeline stage failed
type ProviderError struct {
	Platform    Platform
	AccountRef  string
	Stage       string // profile, page, detail
	RateLimited bool
	Err         error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider failed at %s stage for %q: %v", e.Platform, e.Stage, e.AccountRef, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err carries an upstream rate-limit signal
func IsRateLimited(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.RateLimited
}
