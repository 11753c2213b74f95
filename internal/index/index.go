// Package index provides the in-memory vector index: immutable chunk
// snapshots with atomic replacement and brute-force cosine search.
//
// A linear scan is the right structure at this scale (one repository
// folder's worth of documents held in memory); approximate nearest
// neighbour indexes are an explicit non-goal.
package index

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
)

// Hit is a similarity search result.
type Hit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Similarity is the cosine similarity against the query vector.
	Similarity float64
}

// Snapshot is one immutable, fully-built generation of the index.
// All chunks in a snapshot were produced by the same build pass; a
// snapshot is either fully present or fully absent.
type Snapshot struct {
	chunks  []domain.Chunk
	builtAt time.Time
}

// NewSnapshot creates a snapshot from a completed build pass.
// The caller hands over ownership of the chunk slice.
func NewSnapshot(chunks []domain.Chunk, builtAt time.Time) *Snapshot {
	return &Snapshot{chunks: chunks, builtAt: builtAt}
}

// BuiltAt returns when the snapshot was installed.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Len returns the number of chunks in the snapshot.
func (s *Snapshot) Len() int { return len(s.chunks) }

// Search returns the topK chunks by cosine similarity, descending.
// Ties keep insertion order (stable sort) so identical inputs always
// produce identical output.
func (s *Snapshot) Search(query []float32, topK int) []Hit {
	if topK <= 0 || len(s.chunks) == 0 {
		return nil
	}

	hits := make([]Hit, len(s.chunks))
	for i := range s.chunks {
		hits[i] = Hit{
			Chunk:      s.chunks[i],
			Similarity: Cosine(query, s.chunks[i].Vector),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// Store holds the active snapshot behind a single atomic reference.
// Replace swaps the reference; it never mutates chunk storage in place,
// so searches in flight at swap time run to completion against the
// snapshot they started with.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewStore creates an empty store. A search against an empty store
// returns no hits.
func NewStore() *Store {
	return &Store{}
}

// Replace atomically installs a new, fully-formed snapshot.
func (s *Store) Replace(chunks []domain.Chunk, builtAt time.Time) {
	snap := NewSnapshot(chunks, builtAt)
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
}

// Snapshot returns the active snapshot, nil when none has been installed.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Search runs a topK search against the active snapshot.
func (s *Store) Search(query []float32, topK int) []Hit {
	snap := s.Snapshot()
	if snap == nil {
		return nil
	}
	return snap.Search(query, topK)
}

// Cosine computes cosine similarity dot(a,b) / (‖a‖·‖b‖).
//
// If either norm is zero the similarity is 0, never NaN. Vectors of
// mismatched length are compared over their shared prefix; a consistent
// embedding provider never produces them, so this is a documented
// defensive policy rather than an error.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
