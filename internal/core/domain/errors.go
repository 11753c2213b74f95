package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidQuery indicates a missing or empty query field.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrBuildInProgress indicates an index build is already running.
	// It is a normal status for a concurrent rebuild trigger, not a fault.
	ErrBuildInProgress = errors.New("index build in progress")

	// ErrRootNotFound indicates the configured root container does not
	// exist or is not accessible.
	ErrRootNotFound = errors.New("root container not found")

	// ErrProviderUnavailable indicates an external provider (document
	// source, embedding, query understanding) is unreachable.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrMalformedProviderResponse indicates a provider response did not
	// match its typed contract (absent vector, non-JSON understanding).
	// It is converted to a fallback at the boundary, never surfaced.
	ErrMalformedProviderResponse = errors.New("malformed provider response")
)

// BuildReason classifies why a build pass failed.
type BuildReason string

const (
	// BuildReasonMissingRoot means the root container could not be listed.
	BuildReasonMissingRoot BuildReason = "missing_root"

	// BuildReasonProviderUnavailable means a collaborator was unreachable.
	BuildReasonProviderUnavailable BuildReason = "provider_unavailable"

	// BuildReasonPartialFailure means every chunked document failed
	// embedding, so the previous snapshot was left in place.
	BuildReasonPartialFailure BuildReason = "partial_failure"
)

// BuildError is a failed build pass. The previous snapshot is always
// left untouched when a BuildError is returned.
type BuildError struct {
	Reason BuildReason
	Err    error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("index build failed: %s", e.Reason)
	}
	return fmt.Sprintf("index build failed (%s): %v", e.Reason, e.Err)
}

// Unwrap returns the underlying cause.
func (e *BuildError) Unwrap() error {
	return e.Err
}
