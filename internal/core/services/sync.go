package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.Synchronizer = (*SyncService)(nil)

// SyncService rebuilds the vector index from the document store.
type SyncService struct {
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
	writeLock   sync.Locker
}

// NewSyncService creates a new sync service.
func NewSyncService(docStore driven.DocumentStore, vectorIndex driven.VectorIndex) *SyncService {
	return &SyncService{
		docStore:    docStore,
		vectorIndex: vectorIndex,
	}
}

// SetWriteLock makes Resync wait for in-flight ingestions.
// Pass IngestionService.WriteLock when both run in the same process.
func (s *SyncService) SetWriteLock(l sync.Locker) {
	s.writeLock = l
}

// Resync replaces the index contents with a snapshot of the store.
func (s *SyncService) Resync(ctx context.Context) (int, error) {
	logger.Section("Resync")

	if s.writeLock != nil {
		s.writeLock.Lock()
		defer s.writeLock.Unlock()
	}

	entries, err := s.docStore.GetAllIDsAndVectors(ctx)
	if err != nil {
		return 0, storageErr("read index snapshot", err)
	}
	logger.Debug("Store snapshot: %d documents", len(entries))

	skipped := s.vectorIndex.Replace(entries)
	dim := s.vectorIndex.Dimension()
	for _, id := range skipped {
		logger.Error("document %d not indexed: its vector does not have %d dimensions "+
			"(was it embedded with another model?)", id, dim)
	}

	n := len(entries) - len(skipped)
	logger.Info("Index rebuilt: %d entries, dimension %d, %d skipped", n, dim, len(skipped))
	return n, nil
}
