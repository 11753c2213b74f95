package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildError(t *testing.T) {
	t.Run("formats reason and cause", func(t *testing.T) {
		err := &BuildError{Reason: BuildReasonMissingRoot, Err: ErrRootNotFound}
		assert.Contains(t, err.Error(), "missing_root")
		assert.Contains(t, err.Error(), ErrRootNotFound.Error())
	})

	t.Run("formats reason without cause", func(t *testing.T) {
		err := &BuildError{Reason: BuildReasonPartialFailure}
		assert.Contains(t, err.Error(), "partial_failure")
	})

	t.Run("unwraps to the cause", func(t *testing.T) {
		err := &BuildError{Reason: BuildReasonProviderUnavailable, Err: ErrProviderUnavailable}
		assert.ErrorIs(t, err, ErrProviderUnavailable)
	})

	t.Run("matches errors.As through wrapping", func(t *testing.T) {
		inner := &BuildError{Reason: BuildReasonMissingRoot, Err: ErrRootNotFound}
		wrapped := fmt.Errorf("rebuild: %w", inner)

		var buildErr *BuildError
		assert.True(t, errors.As(wrapped, &buildErr))
		assert.Equal(t, BuildReasonMissingRoot, buildErr.Reason)
	})
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidQuery,
		ErrBuildInProgress,
		ErrRootNotFound,
		ErrProviderUnavailable,
		ErrMalformedProviderResponse,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b)
		}
	}
}
