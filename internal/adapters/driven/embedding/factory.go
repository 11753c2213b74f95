// Package embedding selects and constructs the configured embedding adapter.
package embedding

import (
	"fmt"
	"time"

	"github.com/LuisVera22/service-gcp/internal/adapters/driven/embedding/ollama"
	"github.com/LuisVera22/service-gcp/internal/adapters/driven/embedding/openai"
	"github.com/LuisVera22/service-gcp/internal/core/ports/driven"
)

// Provider identifiers accepted in configuration.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Options carries provider-independent construction parameters.
type Options struct {
	// Provider selects the adapter: "openai" or "ollama".
	Provider string

	// APIKey authenticates hosted providers (required for openai).
	APIKey string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// Model is the embedding model name.
	Model string

	// Timeout bounds each embedding request.
	Timeout time.Duration
}

// New constructs the embedding service for the configured provider.
func New(opts Options) (driven.EmbeddingService, error) {
	switch opts.Provider {
	case ProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:  opts.APIKey,
			BaseURL: opts.BaseURL,
			Model:   opts.Model,
			Timeout: opts.Timeout,
		})
	case ProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: opts.BaseURL,
			Model:   opts.Model,
			Timeout: opts.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", opts.Provider)
	}
}
