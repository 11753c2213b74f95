package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
)

// --- Mock implementations ---

// mockDocumentSource implements driven.DocumentSource for testing.
type mockDocumentSource struct {
	refs    []domain.DocumentRef
	texts   map[string]string // document ID -> extracted text
	listErr error
	// extractErr fails ExtractText for the given document IDs.
	extractErr map[string]error

	listCalls atomic.Int32
	// listStarted is closed on the first ListAll call when set,
	// letting a test observe that a build pass is underway.
	listStarted chan struct{}
	// listRelease blocks ListAll until closed when set.
	listRelease chan struct{}
}

func (m *mockDocumentSource) ListAll(ctx context.Context, _ string) ([]domain.DocumentRef, error) {
	if m.listCalls.Add(1) == 1 && m.listStarted != nil {
		close(m.listStarted)
	}
	if m.listRelease != nil {
		select {
		case <-m.listRelease:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.refs, nil
}

func (m *mockDocumentSource) ExtractText(_ context.Context, ref domain.DocumentRef) (string, error) {
	if err := m.extractErr[ref.ID]; err != nil {
		return "", err
	}
	return m.texts[ref.ID], nil
}

func (m *mockDocumentSource) Ping(_ context.Context) error {
	return nil
}

func (m *mockDocumentSource) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	mu       sync.Mutex
	vectors  map[string][]float32 // text -> vector, fallback below when absent
	embedErr error
	// failTexts fails Embed for the given chunk texts only.
	failTexts map[string]bool

	embedCalls int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++

	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.failTexts[text] {
		return nil, domain.ErrProviderUnavailable
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbeddingService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedCalls
}

func (m *mockEmbeddingService) Dimensions() int {
	return 3
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embedder"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockUnderstandingService implements driven.QueryUnderstandingService
// for testing.
type mockUnderstandingService struct {
	result *domain.Understanding
	err    error

	lastQuery string
}

func (m *mockUnderstandingService) Understand(_ context.Context, query string) (*domain.Understanding, error) {
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockUnderstandingService) Close() error {
	return nil
}

func floatPtr(f float64) *float64 {
	return &f
}
