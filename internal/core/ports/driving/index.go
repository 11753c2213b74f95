package driving

import (
	"context"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
)

// IndexService manages the in-memory index lifecycle.
type IndexService interface {
	// Rebuild forces a full build pass over the configured root container.
	// A concurrent trigger returns domain.ErrBuildInProgress; callers
	// combine it with Status for the in-flight state.
	Rebuild(ctx context.Context) (*domain.BuildStats, error)

	// Status reports whether a snapshot exists, when it was built,
	// its size, and whether a build is currently running.
	Status(ctx context.Context) (*domain.BuildStatus, error)
}
