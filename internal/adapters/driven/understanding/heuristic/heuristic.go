// Package heuristic provides a deterministic, local query-understanding
// service. It is the no-network fallback used when no LLM provider is
// configured, and the reference behaviour the orchestrator degrades to
// when a configured provider fails.
package heuristic

import (
	"context"
	"strings"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
	"github.com/LuisVera22/service-gcp/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.QueryUnderstandingService = (*Service)(nil)

// nonSearchInputs are exact inputs (lowercased, trimmed) that carry no
// search intent.
var nonSearchInputs = map[string]bool{
	"hi":           true,
	"hello":        true,
	"hey":          true,
	"yo":           true,
	"thanks":       true,
	"thank you":    true,
	"ok":           true,
	"okay":         true,
	"bye":          true,
	"goodbye":      true,
	"good morning": true,
	"good evening": true,
	"how are you":  true,
	"help":         true,
}

// Service classifies intent with fixed local rules. It never rewrites
// the query and never suggests a threshold.
type Service struct{}

// New creates the heuristic understanding service.
func New() *Service {
	return &Service{}
}

// Understand labels greetings and trivially short inputs as non-search
// intents; everything else is searched literally.
func (s *Service) Understand(_ context.Context, query string) (*domain.Understanding, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	normalized = strings.TrimRight(normalized, "!.?")

	if len(normalized) < 2 || nonSearchInputs[normalized] {
		return &domain.Understanding{ShouldSearch: false, RewrittenQuery: query}, nil
	}

	return &domain.Understanding{ShouldSearch: true, RewrittenQuery: query}, nil
}

// Close releases resources.
func (s *Service) Close() error {
	return nil
}
