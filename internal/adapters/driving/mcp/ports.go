package mcp

import (
	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers questions. Required.
	Retrieval driving.RetrievalService

	// Ingestion adds documents. Without it the add_document tool is not offered.
	Ingestion driving.IngestionService

	// Document gives read access to stored documents. Without it the
	// count_documents tool and the document resources are not offered.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
