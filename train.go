package spamsift

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/FrenchMajesty/spamsift/internal/flatindex"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultValidationRatio is the share of the dataset held out for
	// alpha/k calibration.
	DefaultValidationRatio = 0.2

	// DefaultEmbedBatchSize is how many texts are embedded per provider
	// call during training.
	DefaultEmbedBatchSize = 32

	// splitSeed fixes the stratified shuffle so repeated training runs over
	// the same dataset produce the same split.
	splitSeed = 42
)

// LabeledMessage is one raw dataset row before embedding.
type LabeledMessage struct {
	Text     string
	Label    Label
	Language string
}

// TrainOptions configures the training pipeline. Zero values get defaults.
type TrainOptions struct {
	// ModelName names the embedding model, recorded in the config artifact.
	ModelName string

	// ValidationRatio is the held-out share for calibration, in (0,1).
	ValidationRatio float64

	// KCandidates and AlphaGrid bound the calibration sweep. Empty uses
	// DefaultKCandidates / DefaultAlphaGrid.
	KCandidates []int
	AlphaGrid   []float64

	// BatchSize is the embedding batch size.
	BatchSize int

	// Lexicon configures the heuristic baked into the trained model.
	Lexicon Lexicon

	// Logger receives pipeline progress. Nil disables logging.
	Logger *zap.Logger
}

// TrainResult bundles the trained model with its persistable artifacts.
type TrainResult struct {
	Model    *Model
	Index    *LocalIndex
	Weights  ClassWeights
	Metadata TrainMetadata
	Config   ModelConfig
	Grid     []GridPoint
}

func (o *TrainOptions) applyDefaults() {
	if o.ValidationRatio <= 0 || o.ValidationRatio >= 1 {
		o.ValidationRatio = DefaultValidationRatio
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultEmbedBatchSize
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Train runs the full pipeline: embed the dataset, split it stratified by
// label, compute class weights, build the index from the training split,
// calibrate alpha and k against the validation split, and return everything
// needed to serve or persist the model.
func Train(ctx context.Context, embedder EmbeddingClient, data []LabeledMessage, opts TrainOptions) (*TrainResult, error) {
	opts.applyDefaults()
	log := opts.Logger

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no training data", ErrEmptyDataset)
	}
	for i, row := range data {
		if _, err := ParseLabel(string(row.Label)); err != nil {
			return nil, fmt.Errorf("dataset row %d: %w", i, err)
		}
	}

	log.Info("embedding dataset",
		zap.Int("samples", len(data)),
		zap.Int("batch_size", opts.BatchSize))

	examples, err := embedDataset(ctx, embedder, data, opts.BatchSize)
	if err != nil {
		return nil, err
	}

	trainSet, validationSet := stratifiedSplit(examples, opts.ValidationRatio)
	log.Info("split dataset",
		zap.Int("train", len(trainSet)),
		zap.Int("validation", len(validationSet)))

	counts := map[Label]int{}
	for _, ex := range trainSet {
		counts[ex.Label]++
	}
	weights, err := ComputeClassWeights(counts)
	if err != nil {
		return nil, err
	}
	log.Info("computed class weights",
		zap.Int("ham", counts[LabelHam]),
		zap.Int("spam", counts[LabelSpam]),
		zap.Float64("ham_weight", weights.Ham),
		zap.Float64("spam_weight", weights.Spam))

	index, err := NewLocalIndex(trainSet)
	if err != nil {
		return nil, err
	}

	model, err := NewModel(Config{
		Embedding:   embedder,
		Index:       index,
		Weights:     weights,
		Lexicon:     opts.Lexicon,
		ModelConfig: ModelConfig{ModelName: opts.ModelName, K: 1, Alpha: 0},
	})
	if err != nil {
		return nil, err
	}

	cfg, grid, err := model.Calibrate(ctx, validationSet, opts.KCandidates, opts.AlphaGrid)
	if err != nil {
		return nil, err
	}
	log.Info("calibration complete",
		zap.Float64("best_alpha", cfg.Alpha),
		zap.Int("best_k", cfg.K),
		zap.Float64("accuracy", cfg.Accuracy))

	// Rebuild the model around the calibrated parameters.
	model, err = NewModel(Config{
		Embedding:   embedder,
		Index:       index,
		Weights:     weights,
		Lexicon:     opts.Lexicon,
		ModelConfig: cfg,
	})
	if err != nil {
		return nil, err
	}

	return &TrainResult{
		Model:   model,
		Index:   index,
		Weights: weights,
		Metadata: TrainMetadata{
			LabelDistribution:    counts,
			TotalTrainingSamples: len(trainSet),
		},
		Config: cfg,
		Grid:   grid,
	}, nil
}

// embedDataset embeds all rows, batched when the provider supports it, and
// returns normalized TrainingExamples in dataset order.
func embedDataset(ctx context.Context, embedder EmbeddingClient, data []LabeledMessage, batchSize int) ([]TrainingExample, error) {
	examples := make([]TrainingExample, len(data))
	for i, row := range data {
		examples[i] = TrainingExample{
			ID:       uuid.New().String(),
			Text:     row.Text,
			Label:    row.Label,
			Language: row.Language,
		}
	}

	batcher, batched := embedder.(BatchEmbeddingClient)
	for start := 0; start < len(data); start += batchSize {
		end := start + batchSize
		if end > len(data) {
			end = len(data)
		}

		if batched {
			texts := make([]string, end-start)
			for i := start; i < end; i++ {
				texts[i-start] = data[i].Text
			}
			vectors, err := batcher.GenerateEmbeddings(ctx, texts)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
			}
			if len(vectors) != len(texts) {
				return nil, fmt.Errorf("%w: batch returned %d embeddings for %d texts",
					ErrEmbeddingUnavailable, len(vectors), len(texts))
			}
			for i, v := range vectors {
				examples[start+i].Embedding = flatindex.Normalize(v)
			}
			continue
		}

		for i := start; i < end; i++ {
			v, err := embedder.GenerateEmbedding(ctx, data[i].Text)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
			}
			examples[i].Embedding = flatindex.Normalize(v)
		}
	}

	return examples, nil
}

// stratifiedSplit holds out roughly ratio of each label for validation,
// shuffled with a fixed seed so the split is reproducible.
func stratifiedSplit(examples []TrainingExample, ratio float64) (train, validation []TrainingExample) {
	byLabel := map[Label][]int{}
	for i, ex := range examples {
		byLabel[ex.Label] = append(byLabel[ex.Label], i)
	}

	rng := rand.New(rand.NewSource(splitSeed))
	validationIdx := map[int]bool{}
	for _, label := range []Label{LabelHam, LabelSpam} {
		idx := byLabel[label]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })

		holdout := int(float64(len(idx)) * ratio)
		// Keep at least one example per label on each side when possible.
		if holdout == 0 && len(idx) > 1 {
			holdout = 1
		}
		if holdout == len(idx) && holdout > 0 {
			holdout--
		}
		for _, i := range idx[:holdout] {
			validationIdx[i] = true
		}
	}

	for i, ex := range examples {
		if validationIdx[i] {
			validation = append(validation, ex)
		} else {
			train = append(train, ex)
		}
	}
	return train, validation
}
