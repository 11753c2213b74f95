package domain

import (
	"fmt"
	"time"
)

// DocumentRef identifies a document enumerated from the remote repository.
// It is immutable once listed; every build pass re-fetches the full set.
type DocumentRef struct {
	// ID is the repository's unique identifier for the document.
	ID string

	// DisplayName is the human-readable title.
	DisplayName string

	// MIMEType is the document's content type as reported by the repository.
	MIMEType string

	// ViewURL is a link a user can open to view the document.
	ViewURL string

	// ModifiedAt is the document's last modification time.
	ModifiedAt time.Time
}

// Chunk is a fixed-size, overlapping text window derived from one document.
// It is the unit of embedding and retrieval. Chunks are created during a
// build pass and never mutated; a changed document produces new Chunk
// instances and the old ones are discarded with their snapshot.
type Chunk struct {
	// ID is derived deterministically from (DocumentID, SequenceIndex)
	// so re-indexing the same document produces stable identifiers.
	ID string

	// DocumentID links to the source document.
	DocumentID string

	// SequenceIndex is the ordinal position of this window in the document.
	SequenceIndex int

	// Document carries the source metadata needed to present results
	// without a separate document lookup.
	Document DocumentRef

	// Text is the window's content.
	Text string

	// Vector is the embedding of Text.
	Vector []float32
}

// ChunkID derives the stable identifier for a chunk of a document.
func ChunkID(documentID string, sequenceIndex int) string {
	return fmt.Sprintf("%s#%04d", documentID, sequenceIndex)
}
