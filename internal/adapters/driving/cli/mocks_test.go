package cli

import (
	"context"
	"fmt"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

type mockIngestion struct {
	result   domain.IngestResult
	err      error
	contents []string
}

func (m *mockIngestion) Ingest(_ context.Context, content string) (domain.IngestResult, error) {
	m.contents = append(m.contents, content)
	return m.result, m.err
}

type mockRetrieval struct {
	result *domain.RetrievalResult
	err    error
	gotK   int
}

func (m *mockRetrieval) Retrieve(_ context.Context, query string, k int) (*domain.RetrievalResult, error) {
	m.gotK = k
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.RetrievalResult{Query: query}, nil
}

// mockDocuments streams docs, then fails with err if set. visited counts
// the documents handed to Each callbacks.
type mockDocuments struct {
	docs    []domain.Document
	err     error
	visited int
}

func (m *mockDocuments) Count(context.Context) (int, error) { return len(m.docs), m.err }

func (m *mockDocuments) List(context.Context) ([]domain.Document, error) { return m.docs, m.err }

func (m *mockDocuments) Each(_ context.Context, fn func(domain.Document) error) error {
	for _, d := range m.docs {
		m.visited++
		if err := fn(d); err != nil {
			return err
		}
	}
	return m.err
}

func (m *mockDocuments) GetContent(_ context.Context, id domain.DocumentID) (string, error) {
	for _, d := range m.docs {
		if d.ID == id {
			return d.Content, nil
		}
	}
	return "", fmt.Errorf("%w: document %d", domain.ErrNotFound, id)
}

type mockSync struct {
	n   int
	err error
}

func (m *mockSync) Resync(context.Context) (int, error) { return m.n, m.err }

// mockLoader walks the source and counts every item as created.
type mockLoader struct {
	names []string
}

func (m *mockLoader) Load(ctx context.Context, source driven.DocumentSource) (driving.LoadReport, error) {
	report := driving.LoadReport{Failed: map[string]error{}}
	err := source.Items(ctx, func(item driven.SourceItem) error {
		m.names = append(m.names, item.Name)
		if item.Content == "fail" {
			report.Failed[item.Name] = domain.ErrProvider
			return nil
		}
		report.Created++
		return nil
	})
	return report, err
}

func (m *mockLoader) LoadItem(_ context.Context, item driven.SourceItem) (domain.IngestResult, error) {
	m.names = append(m.names, item.Name)
	return domain.IngestResult{Created: true, ID: 1}, nil
}

type mockSettings struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error
	setCalls    map[string]string
	apiKeys     map[domain.AIProvider]string
	setErr      error
}

func newMockSettings() *mockSettings {
	return &mockSettings{
		settings: domain.DefaultAppSettings(),
		setCalls: map[string]string{},
		apiKeys:  map[domain.AIProvider]string{},
	}
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setCalls[key] = value
	return nil
}

func (m *mockSettings) SetAPIKey(provider domain.AIProvider, apiKey string) error {
	m.apiKeys[provider] = apiKey
	return nil
}

func (m *mockSettings) Validate() error { return m.validateErr }

func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettings) ValidateEmbeddingConfig() error { return nil }

func (m *mockSettings) ValidateLLMConfig() error { return m.pingErr }
