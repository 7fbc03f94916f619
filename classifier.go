package spamsift

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/FrenchMajesty/spamsift/internal/flatindex"
)

// Classify classifies a message with the model's calibrated k and alpha.
func (m *Model) Classify(ctx context.Context, message string) (*ClassificationResult, error) {
	return m.ClassifyWith(ctx, message, m.cfg.K, m.cfg.Alpha)
}

// ClassifyWith classifies a message with explicit k and alpha, overriding
// the calibrated defaults. The decision blends weighted KNN voting over the
// index with the lexical saliency heuristic:
//
//	finalScore = (1-alpha)*knnRatio + alpha*saliency
//
// where knnRatio is the spam share of the class-weighted neighbor votes.
func (m *Model) ClassifyWith(ctx context.Context, message string, k int, alpha float64) (*ClassificationResult, error) {
	start := time.Now()

	msg, err := m.validateMessage(message)
	if err != nil {
		return nil, err
	}
	if err := m.validateParams(k, alpha); err != nil {
		return nil, err
	}

	embedding, err := m.embedding.GenerateEmbedding(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}

	result, err := m.classifyVector(ctx, msg, flatindex.Normalize(embedding), k, alpha)
	if err != nil {
		return nil, err
	}

	result.ProcessingTime = time.Since(start)
	return result, nil
}

// classifyVector runs the voting procedure on an already-normalized
// embedding. The calibrator and explainer enter here to skip re-embedding.
func (m *Model) classifyVector(ctx context.Context, message string, query []float32, k int, alpha float64) (*ClassificationResult, error) {
	hits, err := m.index.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	var votes VoteScores
	neighbors := make([]Neighbor, len(hits))
	for i, hit := range hits {
		weight := float64(hit.Similarity) * m.weights.Weight(hit.Label)
		switch hit.Label {
		case LabelHam:
			votes.Ham += weight
		case LabelSpam:
			votes.Spam += weight
		default:
			return nil, fmt.Errorf("index returned unknown label %q", hit.Label)
		}
		neighbors[i] = Neighbor{
			Label:      hit.Label,
			Similarity: hit.Similarity,
			Weight:     weight,
			SourceText: hit.Text,
		}
	}

	// Degenerate vote: every weight underflowed to zero. Deliberate
	// fallback to ham with ratio 0 instead of dividing by zero. Inner
	// products can go negative, so the ratio is clamped to keep the
	// spam share, and everything blended from it, inside [0,1].
	knnRatio := 0.0
	if total := votes.Ham + votes.Spam; total > 0 {
		knnRatio = votes.Spam / total
		if knnRatio < 0 {
			knnRatio = 0
		} else if knnRatio > 1 {
			knnRatio = 1
		}
	}

	saliency := m.heuristic.Score(message)
	finalScore := (1-alpha)*knnRatio + alpha*saliency

	isSpam := finalScore > 0.5
	prediction := LabelHam
	if isSpam {
		prediction = LabelSpam
	}

	confidence := math.Abs(finalScore-0.5) * 2
	if confidence > 1 {
		confidence = 1
	}

	result := &ClassificationResult{
		Prediction:     prediction,
		IsSpam:         isSpam,
		Confidence:     confidence,
		Score:          finalScore,
		VoteScores:     votes,
		SaliencyWeight: saliency,
		Alpha:          alpha,
		Neighbors:      neighbors,
	}
	if isSpam {
		result.Subcategory = m.spamSubcategory(message, neighbors)
	}

	return result, nil
}

// spamSubcategory scans the message and the spam-labeled neighbors' source
// texts against the promotional and system lexicons, picking whichever
// matched more. Ties, including zero matches, fall back to the generic
// bucket. With no spam neighbors (possible when a high alpha lets the
// heuristic dominate) only the message itself is scanned.
func (m *Model) spamSubcategory(message string, neighbors []Neighbor) Subcategory {
	texts := []string{message}
	for _, n := range neighbors {
		if n.Label == LabelSpam {
			texts = append(texts, n.SourceText)
		}
	}

	var promo, system int
	for _, t := range texts {
		promo += m.heuristic.PromoMatches(t)
		system += m.heuristic.SystemMatches(t)
	}

	switch {
	case promo > system:
		return SubcategoryPromo
	case system > promo:
		return SubcategorySystem
	}
	return SubcategoryOther
}

// validateMessage trims and bounds-checks a message.
func (m *Model) validateMessage(message string) (string, error) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return "", ErrEmptyMessage
	}
	if n := utf8.RuneCountInString(msg); n > m.maxLen {
		return "", fmt.Errorf("%w: %d runes, maximum %d", ErrMessageTooLong, n, m.maxLen)
	}
	return msg, nil
}

// validateParams bounds-checks per-call overrides of k and alpha.
func (m *Model) validateParams(k int, alpha float64) error {
	if k < 1 || k > m.index.Size() {
		return fmt.Errorf("%w: k=%d, index size %d", ErrInvalidK, k, m.index.Size())
	}
	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("%w: alpha=%v", ErrInvalidAlpha, alpha)
	}
	return nil
}
