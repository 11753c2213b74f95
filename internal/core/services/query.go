package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
	"github.com/LuisVera22/service-gcp/internal/core/ports/driven"
	"github.com/LuisVera22/service-gcp/internal/core/ports/driving"
	"github.com/LuisVera22/service-gcp/internal/index"
	"github.com/LuisVera22/service-gcp/internal/logger"
)

// Ensure QueryOrchestrator implements the interface.
var _ driving.QueryService = (*QueryOrchestrator)(nil)

// Ensure IndexBuilder implements the interface.
var _ driving.IndexService = (*IndexBuilder)(nil)

// RetrievalParams bounds a query's retrieval stage.
type RetrievalParams struct {
	// TopKChunks is how many chunks the index search returns.
	TopKChunks int

	// TopKDocs is how many documents a response may carry.
	TopKDocs int

	// DefaultThreshold is used when the understanding provider suggests none.
	DefaultThreshold float64

	// MinThreshold and MaxThreshold clamp any suggested threshold.
	MinThreshold float64
	MaxThreshold float64

	// SnapshotTTL is how old the active snapshot may grow before a
	// query triggers a rebuild.
	SnapshotTTL time.Duration
}

// QueryOrchestrator runs the per-request pipeline:
// intent resolution, staleness-triggered rebuild, retrieval, response.
// No request path lets an error escape past it; internal failures become
// a zero-results response with the reason recorded.
type QueryOrchestrator struct {
	understanding driven.QueryUnderstandingService // optional, may be nil
	embedder      driven.EmbeddingService
	builder       *IndexBuilder
	retrieval     *RetrievalEngine
	store         *index.Store
	params        RetrievalParams
}

// NewQueryOrchestrator creates the orchestrator.
// The understanding service is optional (can be nil).
func NewQueryOrchestrator(
	understanding driven.QueryUnderstandingService,
	embedder driven.EmbeddingService,
	builder *IndexBuilder,
	retrieval *RetrievalEngine,
	store *index.Store,
	params RetrievalParams,
) *QueryOrchestrator {
	return &QueryOrchestrator{
		understanding: understanding,
		embedder:      embedder,
		builder:       builder,
		retrieval:     retrieval,
		store:         store,
		params:        params,
	}
}

// Rebuild implements driving.IndexService on behalf of the builder.
func (b *IndexBuilder) Rebuild(ctx context.Context) (*domain.BuildStats, error) {
	return b.Build(ctx)
}

// Answer runs the full query pipeline and always produces a response
// for a non-empty query.
func (o *QueryOrchestrator) Answer(ctx context.Context, rawQuery string) (*domain.QueryResponse, error) {
	logger.Section("Query")

	rawQuery = strings.TrimSpace(rawQuery)
	if rawQuery == "" {
		return nil, domain.ErrInvalidQuery
	}
	logger.Debug("Query: %q", rawQuery)

	u := o.resolveIntent(ctx, rawQuery)
	threshold := o.resolveThreshold(u)

	resp := &domain.QueryResponse{
		Documents: []domain.ScoredDocument{},
		Understanding: domain.QueryUnderstanding{
			Original:      rawQuery,
			ResolvedQuery: u.RewrittenQuery,
			UsedThreshold: threshold,
		},
	}

	if !u.ShouldSearch {
		logger.Debug("Query: not a search intent, short-circuiting")
		return resp, nil
	}

	o.ensureFresh(ctx)

	snap := o.store.Snapshot()
	if snap == nil || snap.Len() == 0 {
		// Never call the embedding provider for an empty index.
		logger.Debug("Query: index empty, returning no results")
		resp.Understanding.Reason = "index empty"
		return resp, nil
	}

	vector, err := o.embedder.Embed(ctx, u.RewrittenQuery)
	if err != nil {
		logger.Warn("Query: embedding failed, degrading to zero results: %v", err)
		resp.Understanding.Reason = "embedding unavailable"
		return resp, nil
	}

	docs := o.retrieval.Retrieve(vector, o.params.TopKChunks, o.params.TopKDocs, threshold)
	resp.Documents = docs
	resp.Total = len(docs)
	resp.Understanding.Searched = true
	logger.Info("Query answered: %d documents, threshold %.2f", resp.Total, threshold)

	return resp, nil
}

// resolveIntent calls the understanding provider, falling back to
// "search everything literally" on any failure or malformed output.
func (o *QueryOrchestrator) resolveIntent(ctx context.Context, rawQuery string) *domain.Understanding {
	fallback := &domain.Understanding{ShouldSearch: true, RewrittenQuery: rawQuery}

	if o.understanding == nil {
		return fallback
	}

	u, err := o.understanding.Understand(ctx, rawQuery)
	if err != nil || u == nil {
		logger.Warn("Query understanding failed, using literal fallback: %v", err)
		return fallback
	}
	if u.RewrittenQuery == "" {
		u.RewrittenQuery = rawQuery
	}
	logger.Debug("Intent resolved: shouldSearch=%t rewritten=%q", u.ShouldSearch, u.RewrittenQuery)
	return u
}

// resolveThreshold clamps the provider's suggestion into the configured
// interval, defaulting when absent.
func (o *QueryOrchestrator) resolveThreshold(u *domain.Understanding) float64 {
	if u.SuggestedThreshold == nil {
		return o.params.DefaultThreshold
	}
	t := *u.SuggestedThreshold
	if t < o.params.MinThreshold {
		return o.params.MinThreshold
	}
	if t > o.params.MaxThreshold {
		return o.params.MaxThreshold
	}
	return t
}

// ensureFresh triggers a rebuild when no snapshot exists or the active
// one has outlived its TTL. A build failure here never fails the
// request: the query proceeds against whatever snapshot is active.
// When the snapshot is still empty and another request's build is in
// flight, this request waits for that build instead of racing it.
func (o *QueryOrchestrator) ensureFresh(ctx context.Context) {
	snap := o.store.Snapshot()
	if snap != nil && time.Since(snap.BuiltAt()) <= o.params.SnapshotTTL {
		return
	}

	if snap == nil {
		logger.Debug("Query: no snapshot, triggering build")
	} else {
		logger.Debug("Query: snapshot age %s exceeds TTL %s, triggering build",
			time.Since(snap.BuiltAt()).Round(time.Second), o.params.SnapshotTTL)
	}

	_, err := o.builder.Build(ctx)
	switch {
	case err == nil:
		return
	case errors.Is(err, domain.ErrBuildInProgress):
		if snap == nil {
			// Nothing to serve yet; await the pass already running.
			if waitErr := o.builder.WaitIdle(ctx); waitErr != nil {
				logger.Warn("Query: wait for in-flight build interrupted: %v", waitErr)
			}
		}
	default:
		logger.Warn("Query: rebuild failed, continuing with current snapshot: %v", err)
	}
}
