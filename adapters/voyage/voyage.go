// Package voyage wraps the Voyage AI SDK for embedding generation.
package voyage

import (
	"context"
	"fmt"

	"github.com/austinfhunter/voyageai"
)

const (
	// EmbeddingDimensions is the output dimension requested from Voyage.
	EmbeddingDimensions = 1024

	// EmbeddingModel is the Voyage model used for all embeddings.
	EmbeddingModel = "voyage-3.5-lite"
)

// InputType distinguishes corpus documents from search queries; Voyage
// embeds them slightly differently.
type InputType string

const (
	InputTypeDocument InputType = "document"
	InputTypeQuery    InputType = "query"
)

// EmbeddingService generates embeddings through the Voyage AI API.
type EmbeddingService struct {
	client     *voyageai.VoyageClient
	model      string
	dimensions int
}

// NewEmbeddingService creates a Voyage embedding service with the given API key.
func NewEmbeddingService(apiKey string) *EmbeddingService {
	return &EmbeddingService{
		client: voyageai.NewClient(&voyageai.VoyageClientOpts{
			Key: apiKey,
		}),
		model:      EmbeddingModel,
		dimensions: EmbeddingDimensions,
	}
}

// SetModel overrides the embedding model.
func (es *EmbeddingService) SetModel(model string) {
	es.model = model
}

// SetDimensions overrides the requested output dimension.
func (es *EmbeddingService) SetDimensions(dimensions int) {
	es.dimensions = dimensions
}

// Model returns the embedding model name.
func (es *EmbeddingService) Model() string {
	return es.model
}

// Dimensions returns the requested output dimension.
func (es *EmbeddingService) Dimensions() int {
	return es.dimensions
}

// GenerateEmbedding embeds a single text.
func (es *EmbeddingService) GenerateEmbedding(ctx context.Context, text string, inputType InputType) ([]float32, error) {
	vectors, err := es.GenerateEmbeddings(ctx, []string{text}, inputType)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// GenerateEmbeddings embeds a batch of texts in one API call, returning
// vectors in input order.
func (es *EmbeddingService) GenerateEmbeddings(ctx context.Context, texts []string, inputType InputType) ([][]float32, error) {
	it := string(inputType)
	resp, err := es.client.Embed(texts, es.model, &voyageai.EmbeddingRequestOpts{
		InputType:       &it,
		OutputDimension: &es.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("could not get embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("voyage returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
