package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/FrenchMajesty/spamsift"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTrainCmd(root *rootOptions) *cobra.Command {
	var (
		dataPath        string
		modelName       string
		validationRatio float64
		batchSize       int
		kCandidates     []int
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model from a labeled CSV and write artifacts",
		Long: `Train embeds a labeled dataset, builds the vector index, computes class
weights, calibrates alpha and k against a held-out split, and writes the
artifacts the classify command serves from.

The CSV needs a header row with at least "message" and "label" columns
(label is "ham" or "spam"); an optional "language" column is recorded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := root.logger()
			if err != nil {
				return err
			}
			defer log.Sync()

			data, err := readDataset(dataPath)
			if err != nil {
				return err
			}
			log.Info("loaded dataset", zap.String("path", dataPath), zap.Int("rows", len(data)))

			embedder, embedderModel, err := root.embedder()
			if err != nil {
				return err
			}
			if modelName == "" {
				modelName = embedderModel
			}

			lexicon, err := root.lexicon()
			if err != nil {
				return err
			}

			result, err := spamsift.Train(cmd.Context(), embedder, data, spamsift.TrainOptions{
				ModelName:       modelName,
				ValidationRatio: validationRatio,
				BatchSize:       batchSize,
				KCandidates:     kCandidates,
				Lexicon:         lexicon,
				Logger:          log,
			})
			if err != nil {
				return err
			}

			store := spamsift.NewArtifactStore(root.artifactsDir)
			if err := store.Save(result.Index, result.Weights, result.Metadata, result.Config); err != nil {
				return err
			}

			log.Info("artifacts written",
				zap.String("dir", root.artifactsDir),
				zap.Float64("best_alpha", result.Config.Alpha),
				zap.Int("best_k", result.Config.K),
				zap.Float64("accuracy", result.Config.Accuracy))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "labeled dataset CSV (required)")
	cmd.Flags().StringVar(&modelName, "model-name", "", "model name recorded in artifacts (default: embedding model)")
	cmd.Flags().Float64Var(&validationRatio, "validation-ratio", spamsift.DefaultValidationRatio, "held-out share for calibration")
	cmd.Flags().IntVar(&batchSize, "batch-size", spamsift.DefaultEmbedBatchSize, "embedding batch size")
	cmd.Flags().IntSliceVar(&kCandidates, "k-candidates", nil, "k values to sweep (default 1,3,5,7,10)")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

// readDataset parses a CSV with header columns message,label[,language].
func readDataset(path string) ([]spamsift.LabeledMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	msgCol, labelCol, langCol := -1, -1, -1
	for i, name := range header {
		switch name {
		case "message", "text":
			msgCol = i
		case "label":
			labelCol = i
		case "language", "lang":
			langCol = i
		}
	}
	if msgCol < 0 || labelCol < 0 {
		return nil, fmt.Errorf("dataset %s needs message and label columns, got header %v", path, header)
	}

	var data []spamsift.LabeledMessage
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset %s line %d: %w", path, line, err)
		}
		if msgCol >= len(record) || labelCol >= len(record) {
			return nil, fmt.Errorf("dataset %s line %d: too few columns", path, line)
		}

		label, err := spamsift.ParseLabel(record[labelCol])
		if err != nil {
			return nil, fmt.Errorf("dataset %s line %d: %w", path, line, err)
		}

		row := spamsift.LabeledMessage{Text: record[msgCol], Label: label}
		if langCol >= 0 && langCol < len(record) {
			row.Language = record[langCol]
		}
		data = append(data, row)
	}
	return data, nil
}
