package driven

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// DocumentStore is the durable source of truth for documents.
// Implementations must wrap I/O failures with domain.ErrStorage.
type DocumentStore interface {
	// InsertIfAbsent stores a new document unless one with byte-identical
	// content exists, in which case the existing document is left untouched
	// and Created is false. The uniqueness check and the insert are atomic.
	InsertIfAbsent(ctx context.Context, content string, vector []float32) (domain.InsertResult, error)

	// GetByIDs returns the content of every requested document that exists.
	// Unknown IDs are omitted.
	GetByIDs(ctx context.Context, ids []domain.DocumentID) (map[domain.DocumentID]string, error)

	// GetAllIDsAndVectors returns a consistent snapshot of every document's
	// (id, vector) pair ordered by ascending id.
	GetAllIDsAndVectors(ctx context.Context) ([]domain.IndexEntry, error)

	// List returns every document ordered by ascending id.
	List(ctx context.Context) ([]domain.Document, error)

	// Each calls fn for every document in ascending id order without
	// loading them all at once. It stops at the first error fn returns
	// and returns that error unchanged. fn must not call back into the store.
	Each(ctx context.Context, fn func(domain.Document) error) error

	// Count returns the total number of documents.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
