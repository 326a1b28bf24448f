package domain

import (
	"strings"
	"time"
)

// DocumentID identifies a stored document.
// IDs are assigned by the document store on first insert, increase
// monotonically and are never reused.
type DocumentID int64

// Document is the unit of storage.
type Document struct {
	// ID is assigned by the document store.
	ID DocumentID

	// Content is the text payload. No two documents hold identical content.
	Content string

	// Vector is the embedding of Content.
	// All vectors in a deployment share the same length.
	Vector []float32

	// CreatedAt is when the document was first stored.
	CreatedAt time.Time
}

// IndexEntry is an (id, vector) pair held by the vector index.
type IndexEntry struct {
	ID     DocumentID
	Vector []float32
}

// InsertResult reports the outcome of an insert-if-absent write.
type InsertResult struct {
	// Created is false when a document with identical content already existed.
	Created bool

	// ID is the identifier of the new document, or of the existing one.
	ID DocumentID
}

// IngestResult is returned by the ingestion pipeline.
type IngestResult = InsertResult

// IsBlank reports whether s contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
