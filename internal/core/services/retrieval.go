package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService answers questions from the stored documents.
// Calls may run concurrently; they only take the index read lock.
type RetrievalService struct {
	docStore         driven.DocumentStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	answerGenerator  driven.AnswerGenerator
	timeout          time.Duration
	defaultK         int
}

// NewRetrievalService creates a new retrieval service.
// timeout bounds each embedding and answer call; defaultK is used when a
// caller passes k == 0.
func NewRetrievalService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	answerGenerator driven.AnswerGenerator,
	timeout time.Duration,
	defaultK int,
) *RetrievalService {
	if defaultK <= 0 {
		defaultK = 3
	}
	return &RetrievalService{
		docStore:         docStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		answerGenerator:  answerGenerator,
		timeout:          timeout,
		defaultK:         defaultK,
	}
}

// Retrieve runs the query pipeline. Any failure is a *domain.StageError
// naming the stage that failed.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) (*domain.RetrievalResult, error) {
	logger.Section("Retrieve")
	logger.Debug("Query: %q, k: %d", query, k)

	// Validating
	if domain.IsBlank(query) {
		return nil, fail(domain.StageValidating, fmt.Errorf("%w: query is empty", domain.ErrValidation))
	}
	if k < 0 {
		return nil, fail(domain.StageValidating, fmt.Errorf("%w: k must not be negative, got %d", domain.ErrValidation, k))
	}
	if k == 0 {
		k = s.defaultK
	}

	// Embedding
	vector, err := s.embed(ctx, query)
	if err != nil {
		return nil, fail(domain.StageEmbedding, err)
	}

	// Searching
	matches, err := s.vectorIndex.Search(vector, k)
	if err != nil {
		return nil, fail(domain.StageSearching, err)
	}
	logger.Debug("Index matches: %d of %d entries", len(matches), s.vectorIndex.Len())

	// Hydrating
	contents, err := s.hydrate(ctx, matches)
	if err != nil {
		return nil, fail(domain.StageHydrating, err)
	}

	// PromptBuilding
	contextBlock := BuildContext(matches, contents)
	if s.answerGenerator == nil {
		return nil, fail(domain.StagePromptBuilding, fmt.Errorf("%w: %w", domain.ErrProvider, domain.ErrLLMUnavailable))
	}
	promptLen := s.answerGenerator.PromptChars(contextBlock, query)
	budget := s.answerGenerator.MaxPromptChars()
	logger.Debug("Prompt: %d characters, budget %d", promptLen, budget)
	if budget > 0 && promptLen > budget {
		return nil, fail(domain.StagePromptBuilding,
			fmt.Errorf("%w: %d characters exceeds budget of %d", domain.ErrPromptTooLong, promptLen, budget))
	}

	// Answering
	answer, err := s.answer(ctx, contextBlock, query)
	if err != nil {
		return nil, fail(domain.StageAnswering, err)
	}

	logger.Debug("Stage: %s", domain.StageDone)
	return &domain.RetrievalResult{
		Query:   query,
		Answer:  answer,
		Context: contextBlock,
		Matches: matches,
	}, nil
}

// BuildContext renders matches as "<rank>. <content>" lines joined by a
// newline. Matches without content are skipped and do not consume a rank.
func BuildContext(matches []domain.Match, contents map[domain.DocumentID]string) string {
	var b strings.Builder
	rank := 0
	for _, m := range matches {
		content, ok := contents[m.ID]
		if !ok {
			logger.Warn("Document %d is indexed but missing from the store", m.ID)
			continue
		}
		rank++
		if rank > 1 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(rank))
		b.WriteString(". ")
		b.WriteString(content)
	}
	return b.String()
}

func (s *RetrievalService) embed(ctx context.Context, query string) ([]float32, error) {
	if s.embeddingService == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProvider, domain.ErrEmbeddingUnavailable)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	vector, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrProvider, err)
	}
	return vector, nil
}

func (s *RetrievalService) hydrate(ctx context.Context, matches []domain.Match) (map[domain.DocumentID]string, error) {
	if len(matches) == 0 {
		return map[domain.DocumentID]string{}, nil
	}
	ids := make([]domain.DocumentID, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	contents, err := s.docStore.GetByIDs(ctx, ids)
	if err != nil {
		return nil, storageErr("hydrate matches", err)
	}
	return contents, nil
}

func (s *RetrievalService) answer(ctx context.Context, contextBlock, query string) (string, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.answerGenerator.Answer(ctx, contextBlock, query)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return "", err
		}
		return "", providerErr("generate answer", err)
	}
	return answer, nil
}

func fail(stage domain.Stage, err error) error {
	logger.Warn("Retrieval failed at %s: %v", stage, err)
	return &domain.StageError{Stage: stage, Err: err}
}
