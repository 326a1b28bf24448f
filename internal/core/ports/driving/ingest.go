package driving

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// IngestionService adds documents to the store and the vector index.
type IngestionService interface {
	// Ingest embeds and stores content. Content that is already stored is
	// reported with Created false and the existing ID.
	Ingest(ctx context.Context, content string) (domain.IngestResult, error)
}
