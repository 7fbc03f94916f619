// Package adapters binds the SDK clients to the core's EmbeddingClient and
// VectorSearcher interfaces.
package adapters

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/FrenchMajesty/spamsift"
	"github.com/FrenchMajesty/spamsift/adapters/openaiembed"
	"github.com/FrenchMajesty/spamsift/adapters/pinecone"
	"github.com/FrenchMajesty/spamsift/adapters/voyage"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"
)

// VoyageEmbeddingAdapter adapts the Voyage client to the core embedding
// interfaces. It embeds queries with the query input type.
type VoyageEmbeddingAdapter struct {
	client *voyage.EmbeddingService
}

// NewVoyageEmbeddingAdapter creates a Voyage-backed embedding client. A nil
// apiKey falls back to the VOYAGEAI_API_KEY environment variable.
func NewVoyageEmbeddingAdapter(apiKey *string) (*VoyageEmbeddingAdapter, error) {
	key, err := loadEnvVar(apiKey, "VOYAGEAI_API_KEY")
	if err != nil {
		return nil, err
	}
	return &VoyageEmbeddingAdapter{client: voyage.NewEmbeddingService(*key)}, nil
}

// GenerateEmbedding implements spamsift.EmbeddingClient.
func (a *VoyageEmbeddingAdapter) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return a.client.GenerateEmbedding(ctx, text, voyage.InputTypeQuery)
}

// GenerateEmbeddings implements spamsift.BatchEmbeddingClient.
func (a *VoyageEmbeddingAdapter) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	return a.client.GenerateEmbeddings(ctx, texts, voyage.InputTypeQuery)
}

// ModelName reports the underlying embedding model.
func (a *VoyageEmbeddingAdapter) ModelName() string {
	return a.client.Model()
}

// OpenAIEmbeddingAdapter adapts an OpenAI-compatible embeddings endpoint to
// the core embedding interfaces.
type OpenAIEmbeddingAdapter struct {
	client *openaiembed.Client
	model  string
}

// NewOpenAIEmbeddingAdapter creates an OpenAI-compatible embedding client.
// A nil apiKey falls back to OPENAI_API_KEY; baseURL may be empty for the
// OpenAI API itself.
func NewOpenAIEmbeddingAdapter(apiKey *string, model, baseURL string) (*OpenAIEmbeddingAdapter, error) {
	key, err := loadEnvVar(apiKey, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	if model == "" {
		return nil, fmt.Errorf("embedding model name is required")
	}
	return &OpenAIEmbeddingAdapter{
		client: openaiembed.NewClient(*key, model, baseURL),
		model:  model,
	}, nil
}

// GenerateEmbedding implements spamsift.EmbeddingClient.
func (a *OpenAIEmbeddingAdapter) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return a.client.GenerateEmbedding(ctx, text)
}

// GenerateEmbeddings implements spamsift.BatchEmbeddingClient.
func (a *OpenAIEmbeddingAdapter) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	return a.client.GenerateEmbeddings(ctx, texts)
}

// ModelName reports the underlying embedding model.
func (a *OpenAIEmbeddingAdapter) ModelName() string {
	return a.model
}

// PineconeIndexAdapter serves top-k queries from a remote Pinecone index,
// for corpora too large to hold in process. Entries must be published with
// PublishExamples so that the label/text metadata the voter needs is
// present. Size is cached and refreshed on publish; call RefreshSize after
// out-of-band writes.
type PineconeIndexAdapter struct {
	index *pinecone.IndexClient

	mu   sync.RWMutex
	size int
}

// NewPineconeIndexAdapter connects to a Pinecone index namespace. Nil apiKey
// or host fall back to PINECONE_API_KEY and PINECONE_HOST.
func NewPineconeIndexAdapter(ctx context.Context, apiKey, host *string, namespace string) (*PineconeIndexAdapter, error) {
	key, err := loadEnvVar(apiKey, "PINECONE_API_KEY")
	if err != nil {
		return nil, err
	}
	h, err := loadEnvVar(host, "PINECONE_HOST")
	if err != nil {
		return nil, err
	}

	service, err := pinecone.NewService(*key)
	if err != nil {
		return nil, err
	}
	index, err := service.ForIndex(*h, namespace)
	if err != nil {
		return nil, err
	}

	adapter := &PineconeIndexAdapter{index: index}
	if err := adapter.RefreshSize(ctx); err != nil {
		return nil, err
	}
	return adapter, nil
}

// Search implements spamsift.VectorSearcher.
func (a *PineconeIndexAdapter) Search(ctx context.Context, query []float32, k int) ([]spamsift.Hit, error) {
	if k < 1 || k > a.Size() {
		return nil, fmt.Errorf("%w: k=%d, index size %d", spamsift.ErrInvalidK, k, a.Size())
	}

	matches, err := a.index.Search(ctx, query, k, true)
	if err != nil {
		return nil, fmt.Errorf("pinecone query failed: %w", err)
	}

	hits := make([]spamsift.Hit, 0, len(matches))
	for _, match := range matches {
		if match.Vector == nil || match.Vector.Metadata == nil {
			return nil, fmt.Errorf("pinecone match missing metadata")
		}
		fields := match.Vector.Metadata.AsMap()
		label, _ := fields["label"].(string)
		text, _ := fields["text"].(string)
		parsed, err := spamsift.ParseLabel(label)
		if err != nil {
			return nil, fmt.Errorf("pinecone match %s: %w", match.Vector.Id, err)
		}
		hits = append(hits, spamsift.Hit{
			Label:      parsed,
			Similarity: match.Score,
			Text:       text,
		})
	}
	return hits, nil
}

// Size implements spamsift.VectorSearcher.
func (a *PineconeIndexAdapter) Size() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.size
}

// RefreshSize re-reads the vector count from the index stats.
func (a *PineconeIndexAdapter) RefreshSize(ctx context.Context) error {
	count, err := a.index.VectorCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pinecone index stats: %w", err)
	}
	a.mu.Lock()
	a.size = count
	a.mu.Unlock()
	return nil
}

// PublishExamples upserts embedded training examples with the metadata the
// voter reads back at query time.
func (a *PineconeIndexAdapter) PublishExamples(ctx context.Context, examples []spamsift.TrainingExample) error {
	vectors := make([]pinecone.Vector, len(examples))
	for i, ex := range examples {
		metadata, err := structpb.NewStruct(map[string]any{
			"label": string(ex.Label),
			"text":  ex.Text,
		})
		if err != nil {
			return fmt.Errorf("failed to encode metadata for example %d: %w", i, err)
		}

		id := ex.ID
		if id == "" {
			id = uuid.New().String()
		}
		vectors[i] = pinecone.Vector{
			Id:       id,
			Values:   ex.Embedding,
			Metadata: &pinecone.Metadata{Fields: metadata.Fields},
		}
	}

	if err := a.index.Upsert(ctx, vectors); err != nil {
		return fmt.Errorf("failed to upsert examples: %w", err)
	}
	return a.RefreshSize(ctx)
}

// loadEnvVar loads an environment variable into a pointer if no value is provided.
func loadEnvVar(target *string, envKey string) (*string, error) {
	if target == nil {
		envVar := os.Getenv(envKey)
		if envVar == "" {
			return nil, fmt.Errorf("%s environment variable not set and no value provided", envKey)
		}
		return &envVar, nil
	}
	return target, nil
}
