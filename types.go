package spamsift

import (
	"fmt"
	"time"
)

// Label is the classification label for a message. The label set is closed:
// every message is either ham or spam.
type Label string

const (
	LabelHam  Label = "ham"
	LabelSpam Label = "spam"
)

// ParseLabel converts a raw string into a Label, rejecting anything outside
// the closed ham/spam set.
func ParseLabel(s string) (Label, error) {
	switch Label(s) {
	case LabelHam:
		return LabelHam, nil
	case LabelSpam:
		return LabelSpam, nil
	}
	return "", fmt.Errorf("unknown label %q", s)
}

// Subcategory is a finer-grained bucket assigned to spam predictions.
type Subcategory string

const (
	// SubcategoryPromo covers advertising and promotional spam.
	SubcategoryPromo Subcategory = "spam_promo"

	// SubcategorySystem covers system, security and urgency-styled spam
	// (fake alerts, impersonation, social engineering).
	SubcategorySystem Subcategory = "spam_system"

	// SubcategoryOther is the fallback when neither lexicon dominates.
	SubcategoryOther Subcategory = "spam_other"
)

// TrainingExample is a single labeled message with its embedding. Examples
// are immutable once indexed.
type TrainingExample struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Label     Label     `json:"label"`
	Language  string    `json:"language,omitempty"`
	Embedding []float32 `json:"embedding"`
}

// ClassWeights holds per-label multipliers that correct for unequal label
// frequencies in the training set.
type ClassWeights struct {
	Ham  float64 `json:"ham"`
	Spam float64 `json:"spam"`
}

// Weight returns the multiplier for the given label.
func (w ClassWeights) Weight(label Label) float64 {
	if label == LabelSpam {
		return w.Spam
	}
	return w.Ham
}

// ModelConfig is the calibrated parameter artifact produced by one training
// run and consumed read-only at serving time.
type ModelConfig struct {
	ModelName    string    `json:"model_name"`
	Alpha        float64   `json:"best_alpha"`
	K            int       `json:"k"`
	TrainedAt    time.Time `json:"trained_at"`
	TrainSamples int       `json:"train_samples"`
	Accuracy     float64   `json:"accuracy,omitempty"`
}

// VoteScores holds the accumulated weighted votes per label for one query.
type VoteScores struct {
	Ham  float64 `json:"ham"`
	Spam float64 `json:"spam"`
}

// Neighbor describes one retrieved training example and its contribution to
// the vote.
type Neighbor struct {
	Label      Label   `json:"label"`
	Similarity float32 `json:"similarity"`
	Weight     float64 `json:"weight"`
	SourceText string  `json:"source_text"`
}

// TokenSaliency is the per-token attribution produced by Explain. Saliency
// is in [0,1]; higher means removing the token lowered the spam score more.
type TokenSaliency struct {
	Token    string  `json:"token"`
	Saliency float64 `json:"saliency"`
}

// ClassificationResult is the outcome of classifying a single message.
type ClassificationResult struct {
	Prediction     Label           `json:"prediction"`
	IsSpam         bool            `json:"is_spam"`
	Confidence     float64         `json:"confidence"`
	Score          float64         `json:"score"`
	VoteScores     VoteScores      `json:"vote_scores"`
	Subcategory    Subcategory     `json:"subcategory,omitempty"`
	SaliencyWeight float64         `json:"saliency_weight"`
	Alpha          float64         `json:"alpha"`
	Neighbors      []Neighbor      `json:"neighbors"`
	Tokens         []TokenSaliency `json:"tokens,omitempty"`
	ProcessingTime time.Duration   `json:"processing_time"`
}

// TrainMetadata summarizes the training set an index was built from.
type TrainMetadata struct {
	LabelDistribution    map[Label]int `json:"label_distribution"`
	TotalTrainingSamples int           `json:"total_training_samples"`
}
