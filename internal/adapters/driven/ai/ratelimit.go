package ai

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// RateLimitedEmbedding throttles calls to another embedding service.
// It is used during bulk loading so a large corpus does not exhaust a
// provider's request quota.
type RateLimitedEmbedding struct {
	driven.EmbeddingService
	limiter *rate.Limiter
}

// WithRateLimit wraps svc so Embed runs at most perSecond times per second.
// A non-positive rate returns svc unchanged.
func WithRateLimit(svc driven.EmbeddingService, perSecond float64) driven.EmbeddingService {
	if perSecond <= 0 || svc == nil {
		return svc
	}
	return &RateLimitedEmbedding{
		EmbeddingService: svc,
		limiter:          rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Embed waits for the limiter before delegating.
func (r *RateLimitedEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return r.EmbeddingService.Embed(ctx, text)
}
