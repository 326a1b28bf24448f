package driving

import "context"

// Synchronizer rebuilds the vector index from the document store.
type Synchronizer interface {
	// Resync replaces the index contents with a snapshot of the store and
	// returns the number of entries loaded. Rows whose vector length differs
	// from the first row's are logged and left out rather than failing.
	Resync(ctx context.Context) (int, error)
}
