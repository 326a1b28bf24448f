package driving

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// DocumentService gives read access to stored documents.
type DocumentService interface {
	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// List returns every stored document ordered by ID.
	List(ctx context.Context) ([]domain.Document, error)

	// Each streams stored documents ordered by ID to fn, stopping at the
	// first error fn returns.
	Each(ctx context.Context, fn func(domain.Document) error) error

	// GetContent returns the content of one document, or domain.ErrNotFound.
	GetContent(ctx context.Context, id domain.DocumentID) (string, error)
}
