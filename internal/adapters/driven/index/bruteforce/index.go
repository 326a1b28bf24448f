package bruteforce

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	vec []float32
	mag float64
}

// Index provides exact cosine similarity search.
// It is safe for concurrent use: searches share a read lock, while Add,
// Replace and Reset take the write lock.
type Index struct {
	mu         sync.RWMutex
	projection Projection
	entries    map[domain.DocumentID]entry
	dimension  int
}

// New creates an empty index. A nil projection means Identity.
func New(projection Projection) *Index {
	if projection == nil {
		projection = Identity{}
	}
	return &Index{
		projection: projection,
		entries:    make(map[domain.DocumentID]entry),
	}
}

// Projection returns the projection applied to vectors.
func (idx *Index) Projection() Projection {
	return idx.projection
}

// CheckDimension reports whether vector, once projected, could be added.
func (idx *Index) CheckDimension(vector []float32) error {
	n := len(idx.projection.Apply(vector))
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return checkLen(n, idx.dimension)
}

func checkLen(n, dim int) error {
	if n == 0 {
		return fmt.Errorf("%w: empty vector", domain.ErrDimensionMismatch)
	}
	if dim != 0 && n != dim {
		return fmt.Errorf("%w: got %d, index has %d", domain.ErrDimensionMismatch, n, dim)
	}
	return nil
}

// Add inserts or replaces the vector for id.
func (idx *Index) Add(id domain.DocumentID, vector []float32) error {
	vec := idx.projection.Apply(vector)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if err := checkLen(len(vec), idx.dimension); err != nil {
		return err
	}
	if idx.dimension == 0 {
		idx.dimension = len(vec)
	}
	idx.entries[id] = entry{vec: vec, mag: magnitude(vec)}
	return nil
}

// Search returns the k entries most similar to query.
func (idx *Index) Search(query []float32, k int) ([]domain.Match, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if k <= 0 || len(idx.entries) == 0 {
		return []domain.Match{}, nil
	}

	q := idx.projection.Apply(query)
	if len(q) != idx.dimension {
		return nil, fmt.Errorf("%w: query has %d, index has %d", domain.ErrDimensionMismatch, len(q), idx.dimension)
	}
	qm := magnitude(q)

	matches := make([]domain.Match, 0, len(idx.entries))
	for id, e := range idx.entries {
		matches = append(matches, domain.Match{ID: id, Score: cosine(q, qm, e)})
	}

	sort.Slice(matches, func(a, b int) bool {
		if matches[a].Score != matches[b].Score {
			return matches[a].Score > matches[b].Score
		}
		return matches[a].ID < matches[b].ID
	})

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

// Replace swaps the whole index for entries under a single write lock.
// The first non-empty entry fixes the dimension; entries of any other
// length are left out and their IDs returned.
func (idx *Index) Replace(entries []domain.IndexEntry) []domain.DocumentID {
	next := make(map[domain.DocumentID]entry, len(entries))
	var skipped []domain.DocumentID
	dim := 0
	for _, e := range entries {
		vec := idx.projection.Apply(e.Vector)
		if checkLen(len(vec), dim) != nil {
			skipped = append(skipped, e.ID)
			continue
		}
		dim = len(vec)
		next[e.ID] = entry{vec: vec, mag: magnitude(vec)}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = next
	idx.dimension = dim
	return skipped
}

// Reset discards every entry.
func (idx *Index) Reset() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = make(map[domain.DocumentID]entry)
	idx.dimension = 0
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Dimension returns the established vector length, or 0 when empty.
func (idx *Index) Dimension() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dimension
}

// Close drops all entries.
func (idx *Index) Close() error {
	idx.Reset()
	return nil
}

// cosine returns 0 when either side has zero magnitude.
func cosine(q []float32, qm float64, e entry) float64 {
	if qm == 0 || e.mag == 0 {
		return 0
	}
	return dot(q, e.vec) / (qm * e.mag)
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func magnitude(v []float32) float64 { return math.Sqrt(dot(v, v)) }
