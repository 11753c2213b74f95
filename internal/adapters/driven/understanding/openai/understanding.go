// Package openai provides a query-understanding adapter using the OpenAI
// chat completions API. The model classifies search intent, rewrites the
// query, and may suggest a similarity threshold as strict JSON.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
	"github.com/LuisVera22/service-gcp/internal/core/ports/driven"
)

// Ensure Service implements the interface.
var _ driven.QueryUnderstandingService = (*Service)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 15 * time.Second
)

// systemPrompt instructs the model to emit the exact contract shape.
const systemPrompt = `You classify user inputs for a document search system.
Respond with a single JSON object and nothing else:
{"should_search": bool, "rewritten_query": string, "suggested_threshold": number or null}
should_search is false for greetings, small talk, or inputs that are not
document queries. rewritten_query expands abbreviations and fixes typos
while preserving meaning. suggested_threshold is a cosine similarity in
[0,1] or null when you have no opinion.`

// Config holds configuration for the OpenAI understanding service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Service resolves query intent via OpenAI chat completions.
type Service struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// chatRequest is the OpenAI /chat/completions request format.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

// chatResponse is the OpenAI /chat/completions response format.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// verdict is the contract shape the model must produce.
type verdict struct {
	ShouldSearch       bool     `json:"should_search"`
	RewrittenQuery     string   `json:"rewritten_query"`
	SuggestedThreshold *float64 `json:"suggested_threshold"`
}

// NewService creates a new OpenAI understanding service.
func NewService(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Service{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Understand resolves the intent of a raw query.
//
// The model output is parsed with a single strict json.Unmarshal. No
// fence stripping or brace scanning is attempted: a response that does
// not parse is domain.ErrMalformedProviderResponse and the caller uses
// its deterministic fallback instead.
func (s *Service) Understand(ctx context.Context, query string) (*domain.Understanding, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: query},
		},
		ResponseFormat: &respFormat{Type: "json_object"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("%w: openai status %d", domain.ErrProviderUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: openai status %d: %s", domain.ErrProviderUnavailable, resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("%w: decode completion: %v", domain.ErrMalformedProviderResponse, err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("%w: openai: %s", domain.ErrProviderUnavailable, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: completion has no choices", domain.ErrMalformedProviderResponse)
	}

	var v verdict
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &v); err != nil {
		return nil, fmt.Errorf("%w: intent not valid JSON: %v", domain.ErrMalformedProviderResponse, err)
	}

	return &domain.Understanding{
		ShouldSearch:       v.ShouldSearch,
		RewrittenQuery:     v.RewrittenQuery,
		SuggestedThreshold: v.SuggestedThreshold,
	}, nil
}

// Close releases resources.
func (s *Service) Close() error {
	return nil
}
