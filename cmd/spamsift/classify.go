package main

import (
	"encoding/json"
	"fmt"

	"github.com/FrenchMajesty/spamsift"
	"github.com/spf13/cobra"
)

func newClassifyCmd(root *rootOptions) *cobra.Command {
	var (
		k       int
		alpha   float64
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "classify <message> [message...]",
		Short: "Classify one or more messages using saved artifacts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			embedder, _, err := root.embedder()
			if err != nil {
				return err
			}
			lexicon, err := root.lexicon()
			if err != nil {
				return err
			}

			model, err := spamsift.LoadModel(root.artifactsDir, spamsift.Config{
				Embedding: embedder,
				Lexicon:   lexicon,
			})
			if err != nil {
				return err
			}

			if k == 0 {
				k = model.Config().K
			}
			if alpha < 0 {
				alpha = model.Config().Alpha
			}

			if len(args) == 1 {
				return classifyOne(cmd, model, args[0], k, alpha, explain)
			}
			return classifyMany(cmd, model, args, k, alpha)
		},
	}

	cmd.Flags().IntVar(&k, "k", 0, "neighbor count (default: calibrated k)")
	cmd.Flags().Float64Var(&alpha, "alpha", -1, "blend coefficient in [0,1] (default: calibrated alpha)")
	cmd.Flags().BoolVar(&explain, "explain", false, "include per-token saliency")

	return cmd
}

func classifyOne(cmd *cobra.Command, model *spamsift.Model, message string, k int, alpha float64, explain bool) error {
	result, err := model.ClassifyWith(cmd.Context(), message, k, alpha)
	if err != nil {
		return classifyErr(err)
	}

	if explain {
		tokens, err := model.ExplainWith(cmd.Context(), message, k, alpha)
		if err != nil {
			return classifyErr(err)
		}
		result.Tokens = tokens
	}

	return printJSON(cmd, result)
}

func classifyMany(cmd *cobra.Command, model *spamsift.Model, messages []string, k int, alpha float64) error {
	batch := model.ClassifyBatch(cmd.Context(), messages, k, alpha)

	type item struct {
		Message string                         `json:"message"`
		Result  *spamsift.ClassificationResult `json:"result,omitempty"`
		Error   string                         `json:"error,omitempty"`
		Code    string                         `json:"code,omitempty"`
	}
	out := struct {
		Items     []item `json:"items"`
		Processed int    `json:"processed"`
	}{Processed: batch.Processed}

	for i, b := range batch.Items {
		it := item{Message: messages[i], Result: b.Result}
		if b.Err != nil {
			it.Error = b.Err.Error()
			it.Code = spamsift.ErrorCode(b.Err)
		}
		out.Items = append(out.Items, it)
	}
	return printJSON(cmd, out)
}

// classifyErr attaches the stable error code for script consumers.
func classifyErr(err error) error {
	return fmt.Errorf("%s: %w", spamsift.ErrorCode(err), err)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}
