package driving

import (
	"context"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// LoadReport summarises a bulk load.
type LoadReport struct {
	// Created counts items that produced a new document.
	Created int

	// Existing counts items whose content was already stored.
	Existing int

	// Failed maps item names to the error that stopped them.
	Failed map[string]error
}

// Total returns the number of items seen.
func (r LoadReport) Total() int {
	return r.Created + r.Existing + len(r.Failed)
}

// LoaderService ingests every item of a document source.
type LoaderService interface {
	// Load calls Ingest once per item. Per-item failures are recorded in the
	// report; only source errors and cancellation abort the load.
	Load(ctx context.Context, source driven.DocumentSource) (LoadReport, error)

	// LoadItem ingests a single item, e.g. a file that appeared while watching.
	LoadItem(ctx context.Context, item driven.SourceItem) (domain.IngestResult, error)
}
