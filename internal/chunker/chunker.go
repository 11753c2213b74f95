// Package chunker splits normalised document text into overlapping
// fixed-size windows for embedding.
package chunker

import (
	"fmt"
	"strings"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultOverlap = 200

// DefaultMaxChars is the default per-document character ceiling.
// Text beyond it is clipped before windowing to bound embedding cost.
const DefaultMaxChars = 100_000

// Chunker produces overlapping fixed-size windows from document text.
type Chunker struct {
	chunkSize int
	overlap   int
	maxChars  int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between windows in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithMaxChars sets the per-document character ceiling.
func WithMaxChars(maxChars int) Option {
	return func(c *Chunker) {
		if maxChars > 0 {
			c.maxChars = maxChars
		}
	}
}

// New creates a chunker with the given options.
// It fails when overlap >= chunkSize: that configuration would loop
// forever at request time, so it is rejected at startup instead.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
		maxChars:  DefaultMaxChars,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("chunker: overlap %d must be smaller than chunk size %d", c.overlap, c.chunkSize)
	}

	return c, nil
}

// ChunkSize returns the configured window size.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured window overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split produces the overlapping windows for a document's text.
//
// The text is whitespace-normalised (runs collapsed to single spaces,
// trimmed) before being clipped to the character ceiling. Each window
// starts `overlap` characters before the previous window's end, so
// information at a window boundary appears in both neighbours. The final
// window may be shorter than the chunk size.
//
// Empty or whitespace-only input yields zero chunks; the caller treats
// that as "document not indexable", not as an error.
func (c *Chunker) Split(text string) []string {
	text = NormalizeWhitespace(text)
	if text == "" {
		return nil
	}
	if len(text) > c.maxChars {
		text = text[:c.maxChars]
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + c.chunkSize
		if end > len(text) {
			end = len(text)
		}

		if piece := strings.TrimSpace(text[start:end]); piece != "" {
			chunks = append(chunks, piece)
		}

		if end == len(text) {
			break
		}
		// New() guarantees overlap < chunkSize, so start always advances.
		start = end - c.overlap
	}

	return chunks
}

// NormalizeWhitespace collapses runs of whitespace to single spaces
// and trims the result.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
