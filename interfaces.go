package spamsift

import "context"

// EmbeddingClient generates a fixed-dimension vector embedding for text.
// Implementations must be deterministic for identical input. The returned
// vector does not need to be unit-normalized; the core normalizes before
// querying the index.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// BatchEmbeddingClient is an optional extension for providers that support
// embedding several texts in one round trip. Explain and Train use it when
// available to cut per-call latency.
type BatchEmbeddingClient interface {
	EmbeddingClient
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Hit is one retrieved entry from a vector search, in descending similarity
// order.
type Hit struct {
	Label      Label
	Similarity float32
	Text       string
}

// VectorSearcher answers top-k similarity queries over an immutable
// collection of labeled embeddings. Implementations must be safe for
// concurrent readers.
type VectorSearcher interface {
	// Search returns the k most similar entries to the unit-normalized
	// query vector, descending by similarity.
	Search(ctx context.Context, query []float32, k int) ([]Hit, error)

	// Size reports the number of stored entries.
	Size() int
}
