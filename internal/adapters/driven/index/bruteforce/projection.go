package bruteforce

import (
	"fmt"
	"strconv"
	"strings"
)

// Projection maps a vector into the space the index searches.
// Implementations must not modify their input.
type Projection interface {
	Apply(v []float32) []float32
	String() string
}

// Identity keeps vectors unchanged.
type Identity struct{}

// Apply returns a copy of v.
func (Identity) Apply(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}

func (Identity) String() string { return "identity" }

// Truncate keeps the first N components of a vector.
// Shorter vectors are copied unchanged.
type Truncate struct {
	N int
}

// Apply returns the first N components of v.
func (t Truncate) Apply(v []float32) []float32 {
	n := t.N
	if len(v) < n {
		n = len(v)
	}
	out := make([]float32, n)
	copy(out, v[:n])
	return out
}

func (t Truncate) String() string { return fmt.Sprintf("truncate:%d", t.N) }

// ParseProjection parses "identity" (or empty) and "truncate:N".
func ParseProjection(s string) (Projection, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "identity" {
		return Identity{}, nil
	}

	name, arg, ok := strings.Cut(s, ":")
	if !ok || name != "truncate" {
		return nil, fmt.Errorf("unknown projection %q", s)
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("truncate projection needs a positive size, got %q", arg)
	}
	return Truncate{N: n}, nil
}
