package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DataDir selects the in-memory document store in place of a data directory.
const DataDir = ":memory:"

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// It is used by tests and by `--data-dir :memory:` runs; nothing survives
// a restart.
type DocumentStore struct {
	mu        sync.RWMutex
	nextID    domain.DocumentID
	documents map[domain.DocumentID]domain.Document
	byContent map[string]domain.DocumentID
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		nextID:    1,
		documents: make(map[domain.DocumentID]domain.Document),
		byContent: make(map[string]domain.DocumentID),
	}
}

// InsertIfAbsent stores content unless identical content already exists.
func (s *DocumentStore) InsertIfAbsent(
	ctx context.Context, content string, vector []float32,
) (domain.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.InsertResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byContent[content]; ok {
		return domain.InsertResult{Created: false, ID: id}, nil
	}

	id := s.nextID
	s.nextID++

	vec := make([]float32, len(vector))
	copy(vec, vector)
	s.documents[id] = domain.Document{
		ID:        id,
		Content:   content,
		Vector:    vec,
		CreatedAt: time.Now(),
	}
	s.byContent[content] = id

	return domain.InsertResult{Created: true, ID: id}, nil
}

// GetByIDs returns the content of the requested documents that exist.
func (s *DocumentStore) GetByIDs(_ context.Context, ids []domain.DocumentID) (map[domain.DocumentID]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[domain.DocumentID]string, len(ids))
	for _, id := range ids {
		if doc, ok := s.documents[id]; ok {
			result[id] = doc.Content
		}
	}
	return result, nil
}

// GetAllIDsAndVectors returns every (id, vector) pair ordered by id.
func (s *DocumentStore) GetAllIDsAndVectors(_ context.Context) ([]domain.IndexEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.IndexEntry, 0, len(s.documents))
	for id, doc := range s.documents {
		vec := make([]float32, len(doc.Vector))
		copy(vec, doc.Vector)
		entries = append(entries, domain.IndexEntry{ID: id, Vector: vec})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// List returns every document ordered by id.
func (s *DocumentStore) List(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Each calls fn over a sorted copy, so fn runs without the lock held.
func (s *DocumentStore) Each(ctx context.Context, fn func(domain.Document) error) error {
	docs, _ := s.List(ctx)
	for _, doc := range docs {
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of stored documents.
func (s *DocumentStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}

// Close is a no-op.
func (s *DocumentStore) Close() error {
	return nil
}
