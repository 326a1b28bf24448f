package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure LoaderService implements the interface.
var _ driving.LoaderService = (*LoaderService)(nil)

// LoaderService ingests every item a DocumentSource yields.
type LoaderService struct {
	ingestion driving.IngestionService
}

// NewLoaderService creates a new loader service.
func NewLoaderService(ingestion driving.IngestionService) *LoaderService {
	return &LoaderService{ingestion: ingestion}
}

// Load calls Ingest once per item and reports the outcome.
func (s *LoaderService) Load(ctx context.Context, source driven.DocumentSource) (driving.LoadReport, error) {
	logger.Section("Load")

	report := driving.LoadReport{Failed: make(map[string]error)}
	err := source.Items(ctx, func(item driven.SourceItem) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.LoadItem(ctx, item)
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			if ctx.Err() != nil {
				return err
			}
			report.Failed[item.Name] = err
		case err != nil:
			report.Failed[item.Name] = err
		case res.Created:
			report.Created++
		default:
			report.Existing++
		}
		return nil
	})

	logger.Info("Load finished: %d created, %d existing, %d failed",
		report.Created, report.Existing, len(report.Failed))
	return report, err
}

// LoadItem ingests a single item.
func (s *LoaderService) LoadItem(ctx context.Context, item driven.SourceItem) (domain.IngestResult, error) {
	res, err := s.ingestion.Ingest(ctx, item.Content)
	if err != nil {
		logger.Warn("Skipping %s: %v", item.Name, err)
		return domain.IngestResult{}, err
	}
	logger.Debug("Loaded %s as document %d (created=%t)", item.Name, res.ID, res.Created)
	return res, nil
}
