package main

import (
	"github.com/FrenchMajesty/spamsift"
	"github.com/spf13/cobra"
)

func newInspectCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the saved model artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := spamsift.NewArtifactStore(root.artifactsDir)

			index, err := store.LoadIndex()
			if err != nil {
				return err
			}
			weights, err := store.LoadWeights()
			if err != nil {
				return err
			}
			metadata, err := store.LoadMetadata()
			if err != nil {
				return err
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}

			out := struct {
				Config    spamsift.ModelConfig   `json:"config"`
				Weights   spamsift.ClassWeights  `json:"class_weights"`
				Metadata  spamsift.TrainMetadata `json:"metadata"`
				IndexSize int                    `json:"index_size"`
				IndexDim  int                    `json:"index_dim"`
			}{
				Config:    cfg,
				Weights:   weights,
				Metadata:  metadata,
				IndexSize: index.Size(),
				IndexDim:  index.Dim(),
			}
			return printJSON(cmd, out)
		},
	}
}
