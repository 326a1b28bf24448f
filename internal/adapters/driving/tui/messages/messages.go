// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/recall/internal/core/domain"
)

// RetrievalCompleted carries the outcome of a question back to the model.
type RetrievalCompleted struct {
	Query  string
	Result *domain.RetrievalResult

	// Previews holds the content of each hydrated match, keyed by document.
	Previews map[domain.DocumentID]string

	Err error
}

// DocumentLoaded carries the full content of one document.
type DocumentLoaded struct {
	ID      domain.DocumentID
	Content string
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
