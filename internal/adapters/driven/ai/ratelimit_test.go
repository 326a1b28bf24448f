package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hashembed "github.com/custodia-labs/recall/internal/adapters/driven/embedding/hash"
)

func TestWithRateLimit_Disabled(t *testing.T) {
	svc := hashembed.NewEmbeddingService(8)
	assert.Same(t, svc, WithRateLimit(svc, 0))
	assert.Nil(t, WithRateLimit(nil, 5))
}

func TestWithRateLimit_Throttles(t *testing.T) {
	svc := WithRateLimit(hashembed.NewEmbeddingService(8), 20)
	assert.Equal(t, 8, svc.Dimensions())

	start := time.Now()
	for range 3 {
		_, err := svc.Embed(context.Background(), "cats")
		require.NoError(t, err)
	}
	// Burst of one: the second and third calls each wait ~50ms.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestWithRateLimit_ContextCancelled(t *testing.T) {
	svc := WithRateLimit(hashembed.NewEmbeddingService(8), 0.001)
	_, err := svc.Embed(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Embed(ctx, "second")
	assert.ErrorContains(t, err, "rate limit")
}
