package services

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
	"github.com/LuisVera22/service-gcp/internal/index"
)

// vectorForScore builds a unit vector whose cosine similarity against
// the query vector {1, 0} is exactly the given score.
func vectorForScore(score float64) []float32 {
	other := 1 - score*score
	if other < 0 {
		other = 0
	}
	return []float32{float32(score), float32(math.Sqrt(other))}
}

func indexedChunk(docID string, seq int, score float64, text string) domain.Chunk {
	return domain.Chunk{
		ID:            domain.ChunkID(docID, seq),
		DocumentID:    docID,
		SequenceIndex: seq,
		Document: domain.DocumentRef{
			ID:          docID,
			DisplayName: docID + ".txt",
			ViewURL:     "https://example.test/" + docID,
		},
		Text:   text,
		Vector: vectorForScore(score),
	}
}

var queryVector = []float32{1, 0}

func TestRetrievalEngine_Retrieve(t *testing.T) {
	t.Run("empty index yields empty slice", func(t *testing.T) {
		engine := NewRetrievalEngine(index.NewStore(), 0)

		docs := engine.Retrieve(queryVector, 10, 5, 0.1)

		require.NotNil(t, docs)
		assert.Empty(t, docs)
	})

	t.Run("threshold drops weak documents entirely", func(t *testing.T) {
		// doc-a: chunks at 0.5 and 0.4; doc-b: chunk at 0.9;
		// doc-c: chunks at 0.3 and 0.2. With threshold 0.6 only doc-b
		// survives, scored by its best chunk.
		store := index.NewStore()
		store.Replace([]domain.Chunk{
			indexedChunk("doc-a", 0, 0.5, "a first"),
			indexedChunk("doc-a", 1, 0.4, "a second"),
			indexedChunk("doc-b", 0, 0.9, "b best"),
			indexedChunk("doc-c", 0, 0.3, "c first"),
			indexedChunk("doc-c", 1, 0.2, "c second"),
		}, time.Now())
		engine := NewRetrievalEngine(store, 0)

		docs := engine.Retrieve(queryVector, 6, 3, 0.6)

		require.Len(t, docs, 1)
		assert.Equal(t, "doc-b", docs[0].DocumentID)
		assert.InDelta(t, 0.9, docs[0].Score, 1e-6)
		assert.Equal(t, "b best", docs[0].BestSnippet)
	})

	t.Run("document score is its best chunk, not the average", func(t *testing.T) {
		// doc-peaky has one 0.95 chunk among weak ones; doc-steady has
		// three 0.6 chunks. Max aggregation must rank doc-peaky first.
		store := index.NewStore()
		store.Replace([]domain.Chunk{
			indexedChunk("doc-peaky", 0, 0.1, "noise"),
			indexedChunk("doc-peaky", 1, 0.95, "the one passage that matters"),
			indexedChunk("doc-peaky", 2, 0.1, "more noise"),
			indexedChunk("doc-steady", 0, 0.6, "steady one"),
			indexedChunk("doc-steady", 1, 0.6, "steady two"),
			indexedChunk("doc-steady", 2, 0.6, "steady three"),
		}, time.Now())
		engine := NewRetrievalEngine(store, 0)

		docs := engine.Retrieve(queryVector, 10, 5, 0.0)

		require.Len(t, docs, 2)
		assert.Equal(t, "doc-peaky", docs[0].DocumentID)
		assert.InDelta(t, 0.95, docs[0].Score, 1e-6)
		assert.Equal(t, "the one passage that matters", docs[0].BestSnippet)
		assert.Equal(t, "doc-steady", docs[1].DocumentID)
		assert.InDelta(t, 0.6, docs[1].Score, 1e-6)
	})

	t.Run("truncates to topKDocs", func(t *testing.T) {
		store := index.NewStore()
		store.Replace([]domain.Chunk{
			indexedChunk("doc-a", 0, 0.9, "a"),
			indexedChunk("doc-b", 0, 0.8, "b"),
			indexedChunk("doc-c", 0, 0.7, "c"),
		}, time.Now())
		engine := NewRetrievalEngine(store, 0)

		docs := engine.Retrieve(queryVector, 10, 2, 0.0)

		require.Len(t, docs, 2)
		assert.Equal(t, "doc-a", docs[0].DocumentID)
		assert.Equal(t, "doc-b", docs[1].DocumentID)
	})

	t.Run("topKChunks bounds the chunk search before aggregation", func(t *testing.T) {
		// With topKChunks 2 only the two strongest chunks are seen, so
		// doc-c never surfaces even with a zero threshold.
		store := index.NewStore()
		store.Replace([]domain.Chunk{
			indexedChunk("doc-a", 0, 0.9, "a"),
			indexedChunk("doc-b", 0, 0.8, "b"),
			indexedChunk("doc-c", 0, 0.7, "c"),
		}, time.Now())
		engine := NewRetrievalEngine(store, 0)

		docs := engine.Retrieve(queryVector, 2, 5, 0.0)

		require.Len(t, docs, 2)
		for _, doc := range docs {
			assert.NotEqual(t, "doc-c", doc.DocumentID)
		}
	})

	t.Run("raising the threshold never adds documents", func(t *testing.T) {
		store := index.NewStore()
		store.Replace([]domain.Chunk{
			indexedChunk("doc-a", 0, 0.9, "a"),
			indexedChunk("doc-b", 0, 0.55, "b"),
			indexedChunk("doc-c", 0, 0.2, "c"),
		}, time.Now())
		engine := NewRetrievalEngine(store, 0)

		prev := len(engine.Retrieve(queryVector, 10, 10, 0.0))
		for _, threshold := range []float64{0.1, 0.3, 0.5, 0.7, 0.95} {
			cur := len(engine.Retrieve(queryVector, 10, 10, threshold))
			assert.LessOrEqual(t, cur, prev, "threshold %.2f", threshold)
			prev = cur
		}
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		store := index.NewStore()
		store.Replace([]domain.Chunk{
			indexedChunk("doc-a", 0, 0.8, "a"),
			indexedChunk("doc-b", 0, 0.8, "b"),
			indexedChunk("doc-c", 0, 0.8, "c"),
		}, time.Now())
		engine := NewRetrievalEngine(store, 0)

		first := engine.Retrieve(queryVector, 10, 10, 0.0)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, engine.Retrieve(queryVector, 10, 10, 0.0))
		}
	})

	t.Run("snippets are truncated to the preview length", func(t *testing.T) {
		long := strings.Repeat("w", 500)
		store := index.NewStore()
		store.Replace([]domain.Chunk{
			indexedChunk("doc-a", 0, 0.9, long),
		}, time.Now())
		engine := NewRetrievalEngine(store, 100)

		docs := engine.Retrieve(queryVector, 10, 5, 0.0)

		require.Len(t, docs, 1)
		assert.Equal(t, long[:100]+"...", docs[0].BestSnippet)
	})

	t.Run("carries document metadata into results", func(t *testing.T) {
		store := index.NewStore()
		store.Replace([]domain.Chunk{
			indexedChunk("doc-a", 0, 0.9, "body"),
		}, time.Now())
		engine := NewRetrievalEngine(store, 0)

		docs := engine.Retrieve(queryVector, 10, 5, 0.0)

		require.Len(t, docs, 1)
		assert.Equal(t, "doc-a.txt", docs[0].DisplayName)
		assert.Equal(t, "https://example.test/doc-a", docs[0].ViewURL)
	})
}
