package driven

import "context"

// SourceItem is a single document supplied by a DocumentSource.
type SourceItem struct {
	// Name identifies the item for reporting, e.g. a relative file path.
	Name string

	// Content is the extracted text.
	Content string
}

// DocumentSource supplies documents for bulk loading.
type DocumentSource interface {
	// Items calls fn once per document. Returning an error from fn stops
	// the walk and is returned to the caller.
	Items(ctx context.Context, fn func(SourceItem) error) error
}
