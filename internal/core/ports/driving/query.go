package driving

import (
	"context"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
)

// QueryService answers natural-language queries against the indexed corpus.
type QueryService interface {
	// Answer runs the full query pipeline: intent resolution, staleness
	// check, retrieval and ranking. It always produces a response for a
	// non-empty query; internal failures degrade to zero results with a
	// recorded reason. The only error returned is domain.ErrInvalidQuery
	// for an empty query.
	Answer(ctx context.Context, rawQuery string) (*domain.QueryResponse, error)
}
