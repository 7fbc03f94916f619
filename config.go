package spamsift

import "strings"

const (
	// DefaultK is the neighbor count used when ModelConfig does not set one.
	DefaultK = 5

	// DefaultAlpha is the blend coefficient used when ModelConfig does not
	// set one. Calibrated models always override it.
	DefaultAlpha = 0.8

	// DefaultMaxMessageLength caps incoming messages, in runes.
	DefaultMaxMessageLength = 10000
)

// Tokenizer splits a message into the tokens the explainer masks one at a
// time. The default splits on whitespace.
type Tokenizer func(text string) []string

// Config assembles a Model. Embedding and Index are required; everything
// else has a usable default.
type Config struct {
	// Embedding generates query embeddings. Required.
	Embedding EmbeddingClient

	// Index answers top-k similarity queries. Required.
	Index VectorSearcher

	// Weights are the class-imbalance multipliers from training. Zero values
	// default to 1 (no correction).
	Weights ClassWeights

	// ModelConfig carries the calibrated alpha and k. Zero values fall back
	// to DefaultAlpha and DefaultK.
	ModelConfig ModelConfig

	// Lexicon configures the saliency heuristic. Empty uses the built-in
	// bilingual lexicon.
	Lexicon Lexicon

	// MaxMessageLength caps message size in runes. 0 uses the default.
	MaxMessageLength int

	// Tokenize overrides the explainer's tokenizer. Nil splits on whitespace.
	Tokenize Tokenizer
}

// applyDefaults fills in default values for unset config fields.
func (c *Config) applyDefaults() {
	if c.Weights.Ham == 0 {
		c.Weights.Ham = 1
	}
	if c.Weights.Spam == 0 {
		c.Weights.Spam = 1
	}
	if c.ModelConfig.Alpha == 0 && c.ModelConfig.TrainedAt.IsZero() {
		// Only an uncalibrated config falls back; a calibrated alpha of 0
		// is a legitimate similarity-only model.
		c.ModelConfig.Alpha = DefaultAlpha
	}
	if len(c.Lexicon.SpamPatterns) == 0 {
		c.Lexicon = DefaultLexicon()
	}
	if c.Lexicon.Saturation <= 0 {
		c.Lexicon.Saturation = DefaultSaturation
	}
	if c.MaxMessageLength == 0 {
		c.MaxMessageLength = DefaultMaxMessageLength
	}
	if c.Tokenize == nil {
		c.Tokenize = strings.Fields
	}
}
