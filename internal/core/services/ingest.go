package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestionService validates, embeds and stores documents, then adds them
// to the vector index.
type IngestionService struct {
	docStore         driven.DocumentStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	timeout          time.Duration

	// mu serialises the store write and index add so that concurrent
	// ingestions of identical content yield exactly one Created result and
	// a resync never observes a half-finished write.
	mu *sync.Mutex
}

// NewIngestionService creates a new ingestion service.
// timeout bounds each embedding call; zero disables the bound.
func NewIngestionService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	timeout time.Duration,
) *IngestionService {
	return &IngestionService{
		docStore:         docStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		timeout:          timeout,
		mu:               &sync.Mutex{},
	}
}

// WithEmbedder returns a copy that embeds with e but shares the write lock,
// store and index of s. Bulk loading uses it to add rate limiting.
func (s *IngestionService) WithEmbedder(e driven.EmbeddingService) *IngestionService {
	cp := *s
	cp.embeddingService = e
	return &cp
}

// WriteLock returns the lock held across the store write and index add.
func (s *IngestionService) WriteLock() sync.Locker {
	return s.mu
}

// Ingest embeds and stores content.
func (s *IngestionService) Ingest(ctx context.Context, content string) (domain.IngestResult, error) {
	logger.Section("Ingest")

	if domain.IsBlank(content) {
		return domain.IngestResult{}, fmt.Errorf("%w: document content is empty", domain.ErrValidation)
	}
	logger.Debug("Content: %d bytes", len(content))

	vector, err := s.embed(ctx, content)
	if err != nil {
		logger.Warn("Embedding failed: %v", err)
		return domain.IngestResult{}, err
	}
	logger.Debug("Embedded with %s: %d dimensions", s.embeddingService.ModelName(), len(vector))

	s.mu.Lock()
	defer s.mu.Unlock()

	// A cancelled call must never write.
	if err := ctx.Err(); err != nil {
		return domain.IngestResult{}, err
	}

	// A vector the index would refuse is never stored.
	if err := s.vectorIndex.CheckDimension(vector); err != nil {
		logger.Warn("Rejected before storing: %v", err)
		return domain.IngestResult{}, fmt.Errorf("index document: %w", err)
	}

	res, err := s.docStore.InsertIfAbsent(ctx, content, vector)
	if err != nil {
		return domain.IngestResult{}, storageErr("insert document", err)
	}
	if !res.Created {
		logger.Info("Document already exists: %d", res.ID)
		return res, nil
	}

	if err := s.vectorIndex.Add(res.ID, vector); err != nil {
		logger.Error("document %d stored but not indexed: %v", res.ID, err)
		return domain.IngestResult{}, fmt.Errorf("index document %d: %w", res.ID, err)
	}

	logger.Info("Document added: %d", res.ID)
	return res, nil
}

func (s *IngestionService) embed(ctx context.Context, content string) ([]float32, error) {
	if s.embeddingService == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProvider, domain.ErrEmbeddingUnavailable)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	vector, err := s.embeddingService.Embed(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("%w: embed document: %w", domain.ErrProvider, err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: embedding provider returned an empty vector", domain.ErrProvider)
	}
	return vector, nil
}
