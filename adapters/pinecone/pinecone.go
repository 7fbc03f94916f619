// Package pinecone wraps the official Pinecone SDK for vector search and
// storage against a single index namespace.
package pinecone

import (
	"context"
	"fmt"

	"github.com/pinecone-io/go-pinecone/pinecone"
)

// Service holds an authenticated Pinecone client.
type Service struct {
	client *pinecone.Client
}

// NewService creates a Pinecone service with the given API key.
func NewService(apiKey string) (*Service, error) {
	client, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pinecone client: %w", err)
	}
	return &Service{client: client}, nil
}

// ForIndex connects to one index host and namespace.
func (s *Service) ForIndex(host, namespace string) (*IndexClient, error) {
	conn, err := s.client.Index(pinecone.NewIndexConnParams{
		Host:      host,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pinecone index: %w", err)
	}
	return &IndexClient{index: conn}, nil
}

// QueryMatch is one scored result from a similarity query.
type QueryMatch = pinecone.ScoredVector

// Vector is one stored vector with metadata.
type Vector = pinecone.Vector

// Metadata is the structured payload attached to a vector.
type Metadata = pinecone.Metadata

// IndexClient performs operations against one index namespace.
type IndexClient struct {
	index *pinecone.IndexConnection
}

// Search runs a similarity query and returns the scored matches.
func (c *IndexClient) Search(ctx context.Context, queryVector []float32, topK int, includeMetadata bool) ([]QueryMatch, error) {
	resp, err := c.index.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          queryVector,
		TopK:            uint32(topK),
		IncludeValues:   false,
		IncludeMetadata: includeMetadata,
	})
	if err != nil {
		return nil, err
	}

	matches := make([]QueryMatch, len(resp.Matches))
	for i, match := range resp.Matches {
		matches[i] = *match
	}
	return matches, nil
}

// Upsert stores vectors in the index.
func (c *IndexClient) Upsert(ctx context.Context, vectors []Vector) error {
	ptrs := make([]*pinecone.Vector, len(vectors))
	for i := range vectors {
		ptrs[i] = &vectors[i]
	}
	_, err := c.index.UpsertVectors(ctx, ptrs)
	return err
}

// VectorCount reports the number of vectors currently stored.
func (c *IndexClient) VectorCount(ctx context.Context) (int, error) {
	stats, err := c.index.DescribeIndexStats(ctx)
	if err != nil {
		return 0, err
	}
	return int(stats.TotalVectorCount), nil
}
