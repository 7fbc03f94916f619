package spamsift

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/FrenchMajesty/spamsift/internal/flatindex"
)

// Explain attributes the model's decision to individual tokens using the
// calibrated k and alpha.
func (m *Model) Explain(ctx context.Context, message string) ([]TokenSaliency, error) {
	return m.ExplainWith(ctx, message, m.cfg.K, m.cfg.Alpha)
}

// ExplainWith runs masking-based attribution: for each token, the message is
// re-classified with that token removed, and the token's saliency is the
// drop in spam score its removal caused, clamped to [0,1]. Results follow
// original token order. An N-token message costs N+1 classifications; the
// masked variants are embedded in one batch call when the provider supports
// it and scored concurrently.
func (m *Model) ExplainWith(ctx context.Context, message string, k int, alpha float64) ([]TokenSaliency, error) {
	msg, err := m.validateMessage(message)
	if err != nil {
		return nil, err
	}
	if err := m.validateParams(k, alpha); err != nil {
		return nil, err
	}

	tokens := m.tokenize(msg)
	if len(tokens) == 0 {
		return nil, ErrEmptyMessage
	}
	if len(tokens) == 1 {
		// Removing the only token leaves nothing to classify; the whole
		// decision is attributed to it.
		return []TokenSaliency{{Token: tokens[0], Saliency: 1}}, nil
	}

	// texts[0] is the original message, texts[i+1] masks token i.
	texts := make([]string, len(tokens)+1)
	texts[0] = msg
	for i := range tokens {
		masked := make([]string, 0, len(tokens)-1)
		masked = append(masked, tokens[:i]...)
		masked = append(masked, tokens[i+1:]...)
		texts[i+1] = strings.Join(masked, " ")
	}

	embeddings, err := m.embedAll(ctx, texts)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(texts))
	errs := make([]error, len(texts))
	var wg sync.WaitGroup
	for i := range texts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := m.classifyVector(ctx, texts[i], embeddings[i], k, alpha)
			if err != nil {
				errs[i] = err
				return
			}
			scores[i] = result.Score
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	saliencies := make([]TokenSaliency, len(tokens))
	for i, token := range tokens {
		// Positive delta: the token pushed the message toward spam.
		// Negative deltas are floored; only spam-indicative tokens are
		// reported.
		delta := scores[0] - scores[i+1]
		if delta < 0 {
			delta = 0
		}
		if delta > 1 {
			delta = 1
		}
		saliencies[i] = TokenSaliency{Token: token, Saliency: delta}
	}

	return saliencies, nil
}

// SpamIndicators filters an explanation down to the tokens that materially
// pushed the decision toward spam, in original order.
func SpamIndicators(tokens []TokenSaliency, threshold float64) []string {
	var indicators []string
	for _, t := range tokens {
		if t.Saliency > threshold {
			indicators = append(indicators, t.Token)
		}
	}
	return indicators
}

// embedAll embeds every text, normalized, preferring a single batch call.
func (m *Model) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	if batcher, ok := m.embedding.(BatchEmbeddingClient); ok {
		vectors, err := batcher.GenerateEmbeddings(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("%w: batch returned %d embeddings for %d texts",
				ErrEmbeddingUnavailable, len(vectors), len(texts))
		}
		for i, v := range vectors {
			vectors[i] = flatindex.Normalize(v)
		}
		return vectors, nil
	}

	vectors := make([][]float32, len(texts))
	errs := make([]error, len(texts))
	var wg sync.WaitGroup
	for i := range texts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := m.embedding.GenerateEmbedding(ctx, texts[i])
			if err != nil {
				errs[i] = fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
				return
			}
			vectors[i] = flatindex.Normalize(v)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return vectors, nil
}
