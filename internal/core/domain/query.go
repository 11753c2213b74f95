package domain

import "time"

// Understanding is the query-understanding provider's verdict on a raw query.
type Understanding struct {
	// ShouldSearch is false for inputs that are not search intents
	// (greetings, small talk). The index is never touched for those.
	ShouldSearch bool

	// RewrittenQuery is the query that is actually embedded.
	// Falls back to the raw query when the provider offers no rewrite.
	RewrittenQuery string

	// SuggestedThreshold is the provider's similarity threshold suggestion,
	// nil when absent. It is clamped to the configured range before use.
	SuggestedThreshold *float64
}

// ScoredDocument is one ranked result in a query response.
// It is derived per query and never persisted.
type ScoredDocument struct {
	// DocumentID identifies the matched document.
	DocumentID string `json:"document_id"`

	// DisplayName is the document's title.
	DisplayName string `json:"display_name"`

	// ViewURL is a link a user can open to view the document.
	ViewURL string `json:"view_url"`

	// ModifiedAt is the document's last modification time.
	ModifiedAt time.Time `json:"modified_at"`

	// Score is the document's best chunk similarity.
	Score float64 `json:"score"`

	// BestSnippet is the text of the chunk that produced Score,
	// truncated to a preview length.
	BestSnippet string `json:"best_snippet"`
}

// QueryUnderstanding reports how a query was interpreted in a response.
type QueryUnderstanding struct {
	// Original is the raw query as received.
	Original string `json:"original"`

	// ResolvedQuery is the query that was (or would have been) embedded.
	ResolvedQuery string `json:"resolved_query"`

	// UsedThreshold is the similarity threshold applied after clamping.
	UsedThreshold float64 `json:"used_threshold"`

	// Searched is false when the index was never consulted, either
	// because the input was not a search intent or retrieval degraded.
	Searched bool `json:"searched"`

	// Reason records why a degraded response carries zero results.
	// Empty on the happy path.
	Reason string `json:"reason,omitempty"`
}

// QueryResponse is the terminal result of one query. Every request
// produces one; internal failures degrade to zero results with a reason.
type QueryResponse struct {
	Total         int                `json:"total"`
	Documents     []ScoredDocument   `json:"documents"`
	Understanding QueryUnderstanding `json:"understanding"`
}
