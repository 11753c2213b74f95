package services

import (
	"sort"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
	"github.com/LuisVera22/service-gcp/internal/index"
	"github.com/LuisVera22/service-gcp/internal/logger"
)

// DefaultSnippetLength is the preview length for a result's best snippet.
const DefaultSnippetLength = 200

// RetrievalEngine turns a query vector into a ranked document list:
// top-K chunk search, per-document aggregation, threshold filtering.
type RetrievalEngine struct {
	store      *index.Store
	snippetLen int
}

// NewRetrievalEngine creates a retrieval engine over the given store.
func NewRetrievalEngine(store *index.Store, snippetLen int) *RetrievalEngine {
	if snippetLen <= 0 {
		snippetLen = DefaultSnippetLength
	}
	return &RetrievalEngine{store: store, snippetLen: snippetLen}
}

// Retrieve searches the active snapshot and aggregates chunk hits into
// ranked documents.
//
// A document's score is the MAX similarity across its retrieved chunks,
// not the average: one strongly-matching passage should surface the
// whole document even when the rest of it is irrelevant. The chunk that
// produced the max becomes the document's snippet. Documents scoring
// below minSimilarity are dropped; the rest are sorted descending
// (stable) and truncated to topKDocs.
//
// The output is exactly reproducible for identical snapshot and inputs.
func (e *RetrievalEngine) Retrieve(
	queryVector []float32, topKChunks, topKDocs int, minSimilarity float64,
) []domain.ScoredDocument {
	snap := e.store.Snapshot()
	if snap == nil || snap.Len() == 0 {
		logger.Debug("Retrieve: index empty, nothing to search")
		return []domain.ScoredDocument{}
	}

	hits := snap.Search(queryVector, topKChunks)
	logger.Debug("Retrieve: %d chunk hits from %d chunks", len(hits), snap.Len())

	// Hits arrive sorted descending, so the first hit per document is
	// already that document's max-similarity chunk.
	seen := make(map[string]bool, len(hits))
	docs := make([]domain.ScoredDocument, 0, len(hits))
	for _, hit := range hits {
		if seen[hit.Chunk.DocumentID] {
			continue
		}
		seen[hit.Chunk.DocumentID] = true

		if hit.Similarity < minSimilarity {
			continue
		}

		docs = append(docs, domain.ScoredDocument{
			DocumentID:  hit.Chunk.DocumentID,
			DisplayName: hit.Chunk.Document.DisplayName,
			ViewURL:     hit.Chunk.Document.ViewURL,
			ModifiedAt:  hit.Chunk.Document.ModifiedAt,
			Score:       hit.Similarity,
			BestSnippet: truncate(hit.Chunk.Text, e.snippetLen),
		})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Score > docs[j].Score
	})

	if len(docs) > topKDocs {
		docs = docs[:topKDocs]
	}

	logger.Debug("Retrieve: %d documents above threshold %.2f", len(docs), minSimilarity)
	return docs
}

// truncate shortens a snippet to the preview length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
