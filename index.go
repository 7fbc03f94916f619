package spamsift

import (
	"context"
	"errors"
	"fmt"

	"github.com/FrenchMajesty/spamsift/internal/flatindex"
	"github.com/google/uuid"
)

// LocalIndex is the in-process VectorSearcher backed by an exact flat
// inner-product index. It is read-only after construction, so concurrent
// searches need no locking.
type LocalIndex struct {
	ix *flatindex.Index
}

// NewLocalIndex builds an index from labeled, embedded examples. Embeddings
// must already be unit-normalized and share one dimension. Examples without
// an ID get one assigned.
func NewLocalIndex(examples []TrainingExample) (*LocalIndex, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: no examples to index", ErrEmptyDataset)
	}

	entries := make([]flatindex.Entry, len(examples))
	for i, ex := range examples {
		if _, err := ParseLabel(string(ex.Label)); err != nil {
			return nil, fmt.Errorf("example %d: %w", i, err)
		}
		id := ex.ID
		if id == "" {
			id = uuid.New().String()
		}
		entries[i] = flatindex.Entry{
			ID:     id,
			Label:  string(ex.Label),
			Text:   ex.Text,
			Vector: ex.Embedding,
		}
	}

	ix, err := flatindex.Build(entries)
	if err != nil {
		return nil, translateIndexErr(err)
	}
	return &LocalIndex{ix: ix}, nil
}

// Search implements VectorSearcher.
func (l *LocalIndex) Search(_ context.Context, query []float32, k int) ([]Hit, error) {
	matches, err := l.ix.Search(query, k)
	if err != nil {
		return nil, translateIndexErr(err)
	}

	hits := make([]Hit, len(matches))
	for i, m := range matches {
		hits[i] = Hit{
			Label:      Label(m.Entry.Label),
			Similarity: m.Score,
			Text:       m.Entry.Text,
		}
	}
	return hits, nil
}

// Size implements VectorSearcher.
func (l *LocalIndex) Size() int {
	return l.ix.Size()
}

// Dim returns the embedding dimension the index was built with.
func (l *LocalIndex) Dim() int {
	return l.ix.Dim()
}

// translateIndexErr maps flatindex sentinels onto the core error taxonomy.
func translateIndexErr(err error) error {
	switch {
	case errors.Is(err, flatindex.ErrInvalidK):
		return fmt.Errorf("%w: %v", ErrInvalidK, err)
	case errors.Is(err, flatindex.ErrDimensionMismatch):
		return fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
	case errors.Is(err, flatindex.ErrEmptyIndex):
		return fmt.Errorf("%w: %v", ErrEmptyDataset, err)
	}
	return err
}
