package main

import (
	"fmt"

	"github.com/FrenchMajesty/spamsift"
	"github.com/FrenchMajesty/spamsift/adapters"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions are flags shared by every subcommand.
type rootOptions struct {
	artifactsDir string
	lexiconPath  string
	provider     string
	model        string
	baseURL      string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "spamsift",
		Short:         "Bilingual spam/ham classifier over nearest-neighbor retrieval",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.artifactsDir, "artifacts", "artifacts", "directory holding model artifacts")
	cmd.PersistentFlags().StringVar(&opts.lexiconPath, "lexicon", "", "YAML lexicon file (default: built-in bilingual lexicon)")
	cmd.PersistentFlags().StringVar(&opts.provider, "provider", "voyage", "embedding provider: voyage or openai")
	cmd.PersistentFlags().StringVar(&opts.model, "embedding-model", "text-embedding-3-small", "embedding model (openai provider only)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "override base URL for OpenAI-compatible endpoints")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newTrainCmd(opts),
		newClassifyCmd(opts),
		newInspectCmd(opts),
	)
	return cmd
}

// logger builds the CLI logger.
func (o *rootOptions) logger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if o.verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

// embedder picks the embedding provider from flags and environment.
func (o *rootOptions) embedder() (spamsift.BatchEmbeddingClient, string, error) {
	switch o.provider {
	case "voyage":
		client, err := adapters.NewVoyageEmbeddingAdapter(nil)
		if err != nil {
			return nil, "", err
		}
		return client, client.ModelName(), nil
	case "openai":
		client, err := adapters.NewOpenAIEmbeddingAdapter(nil, o.model, o.baseURL)
		if err != nil {
			return nil, "", err
		}
		return client, client.ModelName(), nil
	}
	return nil, "", fmt.Errorf("unknown embedding provider %q", o.provider)
}

// lexicon loads the configured lexicon, or the built-in default.
func (o *rootOptions) lexicon() (spamsift.Lexicon, error) {
	if o.lexiconPath == "" {
		return spamsift.DefaultLexicon(), nil
	}
	return spamsift.LoadLexicon(o.lexiconPath)
}
