package spamsift

import (
	"fmt"
)

// Model is the immutable serving unit: index, class weights, calibrated
// parameters and heuristic, bound to an embedding provider. Construct once,
// share freely; concurrent classifications touch no mutable state. Reloading
// means building a new Model and atomically swapping the reference — the
// caller owns that lifecycle.
type Model struct {
	embedding EmbeddingClient
	index     VectorSearcher
	weights   ClassWeights
	cfg       ModelConfig
	heuristic *SaliencyHeuristic
	maxLen    int
	tokenize  Tokenizer
}

// NewModel validates the configuration and builds a Model.
func NewModel(cfg Config) (*Model, error) {
	cfg.applyDefaults()

	if cfg.Embedding == nil {
		return nil, fmt.Errorf("config: embedding client is required")
	}
	if cfg.Index == nil {
		return nil, fmt.Errorf("config: vector index is required")
	}
	if cfg.Index.Size() == 0 {
		return nil, fmt.Errorf("%w: index has no entries", ErrEmptyDataset)
	}
	if cfg.ModelConfig.K == 0 {
		// Uncalibrated default, capped by what the index can answer.
		cfg.ModelConfig.K = DefaultK
		if cfg.ModelConfig.K > cfg.Index.Size() {
			cfg.ModelConfig.K = cfg.Index.Size()
		}
	}
	if cfg.Weights.Ham <= 0 || cfg.Weights.Spam <= 0 {
		return nil, fmt.Errorf("config: class weights must be positive, got %+v", cfg.Weights)
	}
	if cfg.ModelConfig.Alpha < 0 || cfg.ModelConfig.Alpha > 1 {
		return nil, fmt.Errorf("%w: configured alpha %v", ErrInvalidAlpha, cfg.ModelConfig.Alpha)
	}
	if cfg.ModelConfig.K < 1 || cfg.ModelConfig.K > cfg.Index.Size() {
		return nil, fmt.Errorf("%w: configured k=%d, index size %d",
			ErrInvalidK, cfg.ModelConfig.K, cfg.Index.Size())
	}

	heuristic, err := NewSaliencyHeuristic(cfg.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &Model{
		embedding: cfg.Embedding,
		index:     cfg.Index,
		weights:   cfg.Weights,
		cfg:       cfg.ModelConfig,
		heuristic: heuristic,
		maxLen:    cfg.MaxMessageLength,
		tokenize:  cfg.Tokenize,
	}, nil
}

// Config returns the calibrated parameters the model serves with.
func (m *Model) Config() ModelConfig {
	return m.cfg
}

// Weights returns the class-imbalance multipliers.
func (m *Model) Weights() ClassWeights {
	return m.weights
}

// IndexSize returns the number of training examples in the index.
func (m *Model) IndexSize() int {
	return m.index.Size()
}

// Heuristic exposes the lexical spam scorer, mainly for diagnostics.
func (m *Model) Heuristic() *SaliencyHeuristic {
	return m.heuristic
}
