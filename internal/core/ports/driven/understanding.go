package driven

import (
	"context"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
)

// QueryUnderstandingService classifies query intent and rewrites queries
// for better recall. This is an optional service - when nil or failing,
// the orchestrator falls back to searching the raw query literally with
// the default threshold.
//
// Implementations may include:
//   - An LLM-backed provider (OpenAI chat completions with JSON output)
//   - A deterministic local heuristic (no network)
type QueryUnderstandingService interface {
	// Understand resolves the intent of a raw query.
	// A response that does not parse into the expected shape is reported
	// as domain.ErrMalformedProviderResponse; no string surgery is
	// attempted on malformed output.
	Understand(ctx context.Context, query string) (*domain.Understanding, error)

	// Close releases resources.
	Close() error
}
