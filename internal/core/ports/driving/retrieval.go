package driving

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// RetrievalService answers questions from the stored documents.
type RetrievalService interface {
	// Retrieve finds the k documents most similar to query, builds a numbered
	// context from them and asks the answer generator. Failures are returned
	// as *domain.StageError.
	Retrieve(ctx context.Context, query string, k int) (*domain.RetrievalResult, error)
}
