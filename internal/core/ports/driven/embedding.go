package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations validate the provider response at the boundary: an
// absent or empty vector is reported as domain.ErrMalformedProviderResponse
// rather than probed for alternative shapes.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used by the health endpoint.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
