package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Texts found in vectors get that vector; anything else gets fallback.
type mockEmbeddingService struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	embedErr error
	calls    int
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.fallback)
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockAnswerGenerator implements driven.AnswerGenerator for testing.
type mockAnswerGenerator struct {
	answer      string
	answerErr   error
	maxChars    int
	system      string
	calls       int
	lastContext string
	lastQuery   string
}

func (m *mockAnswerGenerator) Prompt(contextBlock, question string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, question)
}

func (m *mockAnswerGenerator) PromptChars(contextBlock, question string) int {
	return utf8.RuneCountInString(m.Prompt(contextBlock, question)) + utf8.RuneCountInString(m.system)
}

func (m *mockAnswerGenerator) MaxPromptChars() int {
	return m.maxChars
}

func (m *mockAnswerGenerator) Answer(_ context.Context, contextBlock, question string) (string, error) {
	m.calls++
	m.lastContext = contextBlock
	m.lastQuery = question
	if m.answerErr != nil {
		return "", m.answerErr
	}
	return m.answer, nil
}

// failingIndex wraps a VectorIndex and fails every Add.
type failingIndex struct {
	driven.VectorIndex
	addErr error
}

func (f *failingIndex) Add(_ domain.DocumentID, _ []float32) error {
	return f.addErr
}

// failingStore wraps a DocumentStore and fails the configured calls.
type failingStore struct {
	driven.DocumentStore
	insertErr   error
	getErr      error
	snapshotErr error
	countErr    error
	eachErr     error
}

func (f *failingStore) InsertIfAbsent(ctx context.Context, content string, vector []float32) (domain.InsertResult, error) {
	if f.insertErr != nil {
		return domain.InsertResult{}, f.insertErr
	}
	return f.DocumentStore.InsertIfAbsent(ctx, content, vector)
}

func (f *failingStore) GetByIDs(ctx context.Context, ids []domain.DocumentID) (map[domain.DocumentID]string, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.DocumentStore.GetByIDs(ctx, ids)
}

func (f *failingStore) GetAllIDsAndVectors(ctx context.Context) ([]domain.IndexEntry, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	return f.DocumentStore.GetAllIDsAndVectors(ctx)
}

func (f *failingStore) Count(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.DocumentStore.Count(ctx)
}

func (f *failingStore) Each(ctx context.Context, fn func(domain.Document) error) error {
	if f.eachErr != nil {
		return f.eachErr
	}
	return f.DocumentStore.Each(ctx, fn)
}

// flakyConfigStore wraps a ConfigStore and fails every Set after the
// first okSets calls.
type flakyConfigStore struct {
	driven.ConfigStore
	okSets int
	setErr error
}

func (f *flakyConfigStore) Set(key string, value any) error {
	if f.okSets == 0 {
		return f.setErr
	}
	f.okSets--
	return f.ConfigStore.Set(key, value)
}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	embedErr error
	llmErr   error
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	return m.embedErr
}

func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error {
	return m.llmErr
}

// mockSource implements driven.DocumentSource for testing.
type mockSource struct {
	items []driven.SourceItem
	err   error
}

func (m *mockSource) Items(_ context.Context, fn func(driven.SourceItem) error) error {
	for _, item := range m.items {
		if err := fn(item); err != nil {
			return err
		}
	}
	return m.err
}

var errBoom = errors.New("boom")
