package driven

import "github.com/custodia-labs/recall/internal/core/domain"

// VectorIndex provides exact cosine similarity search over document vectors.
// It is a derived cache of the DocumentStore and is never persisted.
type VectorIndex interface {
	// Add inserts the vector for a document. Adding an ID that is already
	// present replaces its entry. Returns domain.ErrDimensionMismatch if the
	// vector length differs from the established dimension.
	Add(id domain.DocumentID, vector []float32) error

	// CheckDimension returns domain.ErrDimensionMismatch if Add would reject
	// vector because of its length. It does not modify the index.
	CheckDimension(vector []float32) error

	// Search returns at most k matches ordered by descending score, ties
	// broken by ascending ID. An empty index or k <= 0 yields no matches.
	Search(query []float32, k int) ([]domain.Match, error)

	// Replace atomically discards every entry and loads the given ones.
	// Concurrent searches observe either the old or the new contents.
	// Entries whose length differs from the first entry's are not loaded;
	// their IDs are returned.
	Replace(entries []domain.IndexEntry) []domain.DocumentID

	// Reset discards every entry and forgets the established dimension.
	Reset()

	// Len returns the number of indexed documents.
	Len() int

	// Dimension returns the established vector length, or 0 when empty.
	Dimension() int

	// Close releases resources.
	Close() error
}
