// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The write path (IngestionService) stores a document and then adds it to
// the vector index. The read path (RetrievalService) embeds a query, searches
// the index, hydrates content from the store and asks the answer generator.
// SyncService rebuilds the index from the store and is the only repair for
// a store write whose index add failed.
//
// Services are pure Go with no external dependencies.
package services
