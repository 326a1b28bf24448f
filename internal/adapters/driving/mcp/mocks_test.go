package mcp

import (
	"context"
	"fmt"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	result *domain.RetrievalResult
	err    error
	gotK   int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query string, k int) (*domain.RetrievalResult, error) {
	m.gotK = k
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.RetrievalResult{Query: query}, nil
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	result domain.IngestResult
	err    error
}

func (m *mockIngestionService) Ingest(_ context.Context, _ string) (domain.IngestResult, error) {
	return m.result, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	err       error
}

func (m *mockDocumentService) Count(_ context.Context) (int, error) {
	return len(m.documents), m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Each(_ context.Context, fn func(domain.Document) error) error {
	if m.err != nil {
		return m.err
	}
	for _, d := range m.documents {
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockDocumentService) GetContent(_ context.Context, id domain.DocumentID) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	for _, d := range m.documents {
		if d.ID == id {
			return d.Content, nil
		}
	}
	return "", fmt.Errorf("%w: document %d", domain.ErrNotFound, id)
}
