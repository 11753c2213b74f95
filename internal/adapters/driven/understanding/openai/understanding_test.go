package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
)

// newChatServer serves a canned chat completion whose message content is
// the given string.
func newChatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		fmt.Fprintf(w, `{"choices":[{"message":{"content":%s}}]}`, mustJSONString(content))
	}))
}

func mustJSONString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newTestService(t *testing.T, baseURL string) *Service {
	t.Helper()
	svc, err := NewService(Config{APIKey: "test-key", BaseURL: baseURL})
	require.NoError(t, err)
	return svc
}

func TestNewService(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		_, err := NewService(Config{})
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		svc, err := NewService(Config{APIKey: "test-key"})
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, svc.baseURL)
		assert.Equal(t, DefaultModel, svc.model)
	})
}

func TestUnderstand(t *testing.T) {
	t.Run("parses a well-formed verdict", func(t *testing.T) {
		server := newChatServer(t, `{"should_search": true, "rewritten_query": "quarterly report 2025", "suggested_threshold": 0.4}`)
		defer server.Close()
		svc := newTestService(t, server.URL)

		u, err := svc.Understand(context.Background(), "q report")

		require.NoError(t, err)
		assert.True(t, u.ShouldSearch)
		assert.Equal(t, "quarterly report 2025", u.RewrittenQuery)
		require.NotNil(t, u.SuggestedThreshold)
		assert.Equal(t, 0.4, *u.SuggestedThreshold)
	})

	t.Run("null threshold stays nil", func(t *testing.T) {
		server := newChatServer(t, `{"should_search": true, "rewritten_query": "anything", "suggested_threshold": null}`)
		defer server.Close()
		svc := newTestService(t, server.URL)

		u, err := svc.Understand(context.Background(), "anything")

		require.NoError(t, err)
		assert.Nil(t, u.SuggestedThreshold)
	})

	t.Run("non-JSON content is malformed, not repaired", func(t *testing.T) {
		// A model that wraps its JSON in a code fence has violated the
		// contract; the adapter must not attempt to salvage it.
		server := newChatServer(t, "```json\n{\"should_search\": true}\n```")
		defer server.Close()
		svc := newTestService(t, server.URL)

		_, err := svc.Understand(context.Background(), "anything")

		assert.ErrorIs(t, err, domain.ErrMalformedProviderResponse)
	})

	t.Run("prose content is malformed", func(t *testing.T) {
		server := newChatServer(t, `Sure! Here is the JSON you asked for: {"should_search": true}`)
		defer server.Close()
		svc := newTestService(t, server.URL)

		_, err := svc.Understand(context.Background(), "anything")

		assert.ErrorIs(t, err, domain.ErrMalformedProviderResponse)
	})

	t.Run("empty choices is malformed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"choices":[]}`)
		}))
		defer server.Close()
		svc := newTestService(t, server.URL)

		_, err := svc.Understand(context.Background(), "anything")

		assert.ErrorIs(t, err, domain.ErrMalformedProviderResponse)
	})

	t.Run("non-200 status is provider unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()
		svc := newTestService(t, server.URL)

		_, err := svc.Understand(context.Background(), "anything")

		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	})

	t.Run("unreachable server is provider unavailable", func(t *testing.T) {
		server := httptest.NewServer(nil)
		server.Close()
		svc := newTestService(t, server.URL)

		_, err := svc.Understand(context.Background(), "anything")

		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	})
}
