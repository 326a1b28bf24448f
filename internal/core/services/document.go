package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService gives read access to stored documents.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// Count returns the number of stored documents.
func (s *DocumentService) Count(ctx context.Context) (int, error) {
	n, err := s.docStore.Count(ctx)
	if err != nil {
		return 0, storageErr("count documents", err)
	}
	return n, nil
}

// List returns every stored document ordered by ID.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.docStore.List(ctx)
	if err != nil {
		return nil, storageErr("list documents", err)
	}
	return docs, nil
}

// Each streams stored documents ordered by ID. An error from fn is
// returned as is; store failures are classified as storage errors.
func (s *DocumentService) Each(ctx context.Context, fn func(domain.Document) error) error {
	var fnErr error
	err := s.docStore.Each(ctx, func(doc domain.Document) error {
		fnErr = fn(doc)
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return storageErr("list documents", err)
	}
	return nil
}

// GetContent returns the content of one document.
func (s *DocumentService) GetContent(ctx context.Context, id domain.DocumentID) (string, error) {
	contents, err := s.docStore.GetByIDs(ctx, []domain.DocumentID{id})
	if err != nil {
		return "", storageErr("get document", err)
	}
	content, ok := contents[id]
	if !ok {
		return "", fmt.Errorf("%w: document %d", domain.ErrNotFound, id)
	}
	return content, nil
}
