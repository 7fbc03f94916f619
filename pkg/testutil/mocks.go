// Package testutil provides function-field mocks for the core interfaces.
package testutil

import (
	"context"
	"sync"

	"github.com/FrenchMajesty/spamsift"
)

// MockEmbeddingClient is a mock implementation of spamsift.EmbeddingClient.
// Set GenerateEmbeddingsFunc too and it also satisfies BatchEmbeddingClient.
type MockEmbeddingClient struct {
	GenerateEmbeddingFunc func(ctx context.Context, text string) ([]float32, error)

	mu        sync.Mutex
	CallCount int
	LastText  string
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastText = text
	m.mu.Unlock()

	if m.GenerateEmbeddingFunc != nil {
		return m.GenerateEmbeddingFunc(ctx, text)
	}
	// Default: a constant unit vector.
	return []float32{1, 0, 0}, nil
}

// Calls returns the number of GenerateEmbedding invocations so far.
func (m *MockEmbeddingClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// MockBatchEmbeddingClient extends MockEmbeddingClient with batch support.
type MockBatchEmbeddingClient struct {
	MockEmbeddingClient

	GenerateEmbeddingsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	mu         sync.Mutex
	BatchCalls int
}

func (m *MockBatchEmbeddingClient) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.BatchCalls++
	m.mu.Unlock()

	if m.GenerateEmbeddingsFunc != nil {
		return m.GenerateEmbeddingsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

// MockVectorSearcher is a mock implementation of spamsift.VectorSearcher.
type MockVectorSearcher struct {
	SearchFunc func(ctx context.Context, query []float32, k int) ([]spamsift.Hit, error)
	SizeFunc   func() int

	mu          sync.Mutex
	SearchCount int
}

func (m *MockVectorSearcher) Search(ctx context.Context, query []float32, k int) ([]spamsift.Hit, error) {
	m.mu.Lock()
	m.SearchCount++
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, k)
	}
	return nil, nil
}

func (m *MockVectorSearcher) Size() int {
	if m.SizeFunc != nil {
		return m.SizeFunc()
	}
	return 1
}

// WordEmbedder returns a deterministic embedding client that maps each known
// text to a fixed vector. Unknown texts get the fallback vector. Useful for
// end-to-end tests where neighbor geometry must be controlled exactly.
func WordEmbedder(known map[string][]float32, fallback []float32) *MockEmbeddingClient {
	return &MockEmbeddingClient{
		GenerateEmbeddingFunc: func(_ context.Context, text string) ([]float32, error) {
			if v, ok := known[text]; ok {
				return v, nil
			}
			return fallback, nil
		},
	}
}
