package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/LuisVera22/service-gcp/internal/chunker"
	"github.com/LuisVera22/service-gcp/internal/core/domain"
	"github.com/LuisVera22/service-gcp/internal/core/ports/driven"
	"github.com/LuisVera22/service-gcp/internal/index"
	"github.com/LuisVera22/service-gcp/internal/logger"
)

// DefaultEmbedConcurrency caps concurrent embedding calls per document.
const DefaultEmbedConcurrency = 4

// IndexBuilder orchestrates one full build pass: enumerate documents,
// extract text, chunk, embed, and atomically install the new snapshot.
//
// Exactly one build runs at a time. A concurrent trigger observes the
// in-flight pass and returns domain.ErrBuildInProgress instead of
// starting a redundant one.
type IndexBuilder struct {
	source   driven.DocumentSource
	embedder driven.EmbeddingService
	splitter *chunker.Chunker
	store    *index.Store
	rootID   string

	embedConcurrency int

	mu       sync.Mutex
	inFlight chan struct{} // closed when the running pass finishes, nil when idle
}

// NewIndexBuilder creates a builder for the given root container.
func NewIndexBuilder(
	source driven.DocumentSource,
	embedder driven.EmbeddingService,
	splitter *chunker.Chunker,
	store *index.Store,
	rootID string,
	embedConcurrency int,
) *IndexBuilder {
	if embedConcurrency <= 0 {
		embedConcurrency = DefaultEmbedConcurrency
	}
	return &IndexBuilder{
		source:           source,
		embedder:         embedder,
		splitter:         splitter,
		store:            store,
		rootID:           rootID,
		embedConcurrency: embedConcurrency,
	}
}

// InProgress reports whether a build pass is currently running.
func (b *IndexBuilder) InProgress() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inFlight != nil
}

// WaitIdle blocks until the in-flight build pass (if any) finishes or the
// context is cancelled. It does not wait for passes started afterwards.
func (b *IndexBuilder) WaitIdle(ctx context.Context) error {
	b.mu.Lock()
	ch := b.inFlight
	b.mu.Unlock()

	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Build runs one full pass over the root container and installs the
// resulting snapshot. On any returned error the previous snapshot is
// left untouched: stale-but-present results beat none.
//
// Per-document policy: extraction failures and empty text skip the
// document; an embedding failure discards every chunk of that document
// so no partially-embedded document can bias retrieval.
func (b *IndexBuilder) Build(ctx context.Context) (*domain.BuildStats, error) {
	b.mu.Lock()
	if b.inFlight != nil {
		b.mu.Unlock()
		return nil, domain.ErrBuildInProgress
	}
	done := make(chan struct{})
	b.inFlight = done
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.inFlight = nil
		b.mu.Unlock()
		close(done)
	}()

	logger.Section("Index Build")

	stats := &domain.BuildStats{
		BuildID:   uuid.NewString(),
		RootID:    b.rootID,
		StartedAt: time.Now(),
	}
	logger.Info("Build %s: enumerating root %s", stats.BuildID, b.rootID)

	refs, err := b.source.ListAll(ctx, b.rootID)
	if err != nil {
		logger.Warn("Build %s: list failed: %v", stats.BuildID, err)
		reason := domain.BuildReasonProviderUnavailable
		if errors.Is(err, domain.ErrRootNotFound) {
			reason = domain.BuildReasonMissingRoot
		}
		return nil, &domain.BuildError{Reason: reason, Err: err}
	}

	var chunks []domain.Chunk
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, &domain.BuildError{Reason: domain.BuildReasonProviderUnavailable, Err: err}
		}
		stats.DocumentsSeen++

		text, err := b.source.ExtractText(ctx, ref)
		if err != nil {
			// An unreadable document must not abort the pass.
			logger.Debug("Build: extract %s failed, skipping: %v", ref.ID, err)
			stats.SkippedNoText++
			continue
		}

		pieces := b.splitter.Split(text)
		if len(pieces) == 0 {
			logger.Debug("Build: %s has no indexable text, skipping", ref.ID)
			stats.SkippedNoText++
			continue
		}

		docChunks, err := b.embedDocument(ctx, ref, pieces)
		if err != nil {
			logger.Warn("Build: embedding failed for %s, document excluded this pass: %v", ref.ID, err)
			stats.SkippedEmbedFailed++
			continue
		}

		chunks = append(chunks, docChunks...)
		stats.DocumentsIndexed++
	}

	// When every chunked document failed embedding the provider is down,
	// not the corpus empty; keep whatever snapshot is active.
	if stats.DocumentsIndexed == 0 && stats.SkippedEmbedFailed > 0 {
		return nil, &domain.BuildError{
			Reason: domain.BuildReasonPartialFailure,
			Err:    fmt.Errorf("all %d documents with text failed embedding", stats.SkippedEmbedFailed),
		}
	}

	stats.ChunksIndexed = len(chunks)
	stats.FinishedAt = time.Now()
	b.store.Replace(chunks, stats.FinishedAt)

	logger.Info("Build %s complete: %d/%d documents indexed, %d chunks, %d skipped (no text), %d skipped (embed failed)",
		stats.BuildID, stats.DocumentsIndexed, stats.DocumentsSeen, stats.ChunksIndexed,
		stats.SkippedNoText, stats.SkippedEmbedFailed)

	return stats, nil
}

// Status reports the index lifecycle state.
func (b *IndexBuilder) Status(_ context.Context) (*domain.BuildStatus, error) {
	status := &domain.BuildStatus{InProgress: b.InProgress()}
	if snap := b.store.Snapshot(); snap != nil {
		status.Exists = true
		status.BuiltAt = snap.BuiltAt()
		status.ChunkCount = snap.Len()
	}
	return status, nil
}

// embedDocument embeds a document's windows with bounded concurrency.
// Either every chunk is returned with its vector, or the whole document
// is rejected.
func (b *IndexBuilder) embedDocument(
	ctx context.Context, ref domain.DocumentRef, pieces []string,
) ([]domain.Chunk, error) {
	chunks := make([]domain.Chunk, len(pieces))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.embedConcurrency)

	for i, piece := range pieces {
		g.Go(func() error {
			vector, err := b.embedder.Embed(gctx, piece)
			if err != nil {
				return fmt.Errorf("embed chunk %d: %w", i, err)
			}
			chunks[i] = domain.Chunk{
				ID:            domain.ChunkID(ref.ID, i),
				DocumentID:    ref.ID,
				SequenceIndex: i,
				Document:      ref,
				Text:          piece,
				Vector:        vector,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chunks, nil
}
