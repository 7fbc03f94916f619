// Package flatindex provides an exact, flat inner-product index over
// L2-normalized float32 vectors. For unit vectors the inner product equals
// cosine similarity. The index is immutable after Build; replacing it means
// building a new one and swapping the reference.
package flatindex

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptyIndex means Build was given no entries.
	ErrEmptyIndex = errors.New("flatindex: no entries")

	// ErrDimensionMismatch means an entry or query vector did not match the
	// index dimension.
	ErrDimensionMismatch = errors.New("flatindex: vector dimension mismatch")

	// ErrInvalidK means a search asked for k outside [1, size].
	ErrInvalidK = errors.New("flatindex: k out of range")
)

// Entry is one stored vector with its label and source text.
type Entry struct {
	ID     string    `json:"id"`
	Label  string    `json:"label"`
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

// Match is one search result. Pos is the entry's insertion position.
type Match struct {
	Pos   int
	Score float32
	Entry *Entry
}

// Index stores entries in insertion order and answers exact top-k queries by
// brute-force inner product.
type Index struct {
	dim     int
	entries []Entry
}

// Build constructs an index from a non-empty set of equal-dimension entries.
// Vectors are expected to be unit-normalized by the caller.
func Build(entries []Entry) (*Index, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyIndex
	}

	dim := len(entries[0].Vector)
	if dim == 0 {
		return nil, fmt.Errorf("%w: entry 0 has no vector", ErrDimensionMismatch)
	}
	for i, e := range entries {
		if len(e.Vector) != dim {
			return nil, fmt.Errorf("%w: entry %d has dimension %d, want %d",
				ErrDimensionMismatch, i, len(e.Vector), dim)
		}
	}

	stored := make([]Entry, len(entries))
	copy(stored, entries)

	return &Index{dim: dim, entries: stored}, nil
}

// Dim returns the vector dimension.
func (ix *Index) Dim() int {
	return ix.dim
}

// Size returns the number of stored entries.
func (ix *Index) Size() int {
	return len(ix.entries)
}

// Entries returns the stored entries in insertion order. The slice is shared
// with the index and must not be modified.
func (ix *Index) Entries() []Entry {
	return ix.entries
}

// Search returns the k highest inner-product entries for the query vector,
// descending by score. Equal scores keep insertion order.
func (ix *Index) Search(query []float32, k int) ([]Match, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has dimension %d, want %d",
			ErrDimensionMismatch, len(query), ix.dim)
	}
	if k < 1 || k > len(ix.entries) {
		return nil, fmt.Errorf("%w: k=%d, index size %d", ErrInvalidK, k, len(ix.entries))
	}

	matches := make([]Match, len(ix.entries))
	for i := range ix.entries {
		matches[i] = Match{
			Pos:   i,
			Score: Dot(query, ix.entries[i].Vector),
			Entry: &ix.entries[i],
		}
	}

	// Stable sort keeps insertion order for score ties.
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	return matches[:k], nil
}
