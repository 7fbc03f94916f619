package spamsift

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FrenchMajesty/spamsift/internal/flatindex"
)

// Artifact file names inside a model directory.
const (
	indexFileName    = "index.json"
	metadataFileName = "train_metadata.json"
	weightsFileName  = "class_weights.json"
	configFileName   = "model_config.json"
)

// ArtifactStore persists and restores the artifacts of one training run in a
// directory. A missing or corrupt artifact is a load-time failure — the core
// refuses to serve without a complete, valid set rather than degrade.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates a store rooted at the given directory.
func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir}
}

// Save writes all four artifacts, creating the directory if needed.
func (s *ArtifactStore) Save(index *LocalIndex, weights ClassWeights, metadata TrainMetadata, cfg ModelConfig) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory %s: %w", s.dir, err)
	}

	if err := s.writeJSON(indexFileName, index.ix); err != nil {
		return err
	}
	if err := s.writeJSON(weightsFileName, weights); err != nil {
		return err
	}
	if err := s.writeJSON(metadataFileName, metadata); err != nil {
		return err
	}
	return s.writeJSON(configFileName, cfg)
}

// LoadIndex restores the vector index.
func (s *ArtifactStore) LoadIndex() (*LocalIndex, error) {
	ix := &flatindex.Index{}
	if err := s.readJSON(indexFileName, ix); err != nil {
		return nil, err
	}
	return &LocalIndex{ix: ix}, nil
}

// LoadWeights restores the class weights.
func (s *ArtifactStore) LoadWeights() (ClassWeights, error) {
	var weights ClassWeights
	if err := s.readJSON(weightsFileName, &weights); err != nil {
		return ClassWeights{}, err
	}
	if weights.Ham <= 0 || weights.Spam <= 0 {
		return ClassWeights{}, fmt.Errorf("corrupt class weights artifact: %+v", weights)
	}
	return weights, nil
}

// LoadMetadata restores the training metadata.
func (s *ArtifactStore) LoadMetadata() (TrainMetadata, error) {
	var metadata TrainMetadata
	if err := s.readJSON(metadataFileName, &metadata); err != nil {
		return TrainMetadata{}, err
	}
	return metadata, nil
}

// LoadConfig restores the calibrated model configuration.
func (s *ArtifactStore) LoadConfig() (ModelConfig, error) {
	var cfg ModelConfig
	if err := s.readJSON(configFileName, &cfg); err != nil {
		return ModelConfig{}, err
	}
	if cfg.K < 1 {
		return ModelConfig{}, fmt.Errorf("corrupt model config artifact: k=%d", cfg.K)
	}
	if cfg.Alpha < 0 || cfg.Alpha > 1 {
		return ModelConfig{}, fmt.Errorf("corrupt model config artifact: alpha=%v", cfg.Alpha)
	}
	return cfg, nil
}

func (s *ArtifactStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *ArtifactStore) readJSON(name string, v any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	return nil
}

// LoadModel restores a serving Model from a directory of artifacts. The
// embedding client and lexicon come from cfg; index, weights and calibrated
// parameters come from disk and override whatever cfg carries.
func LoadModel(dir string, cfg Config) (*Model, error) {
	store := NewArtifactStore(dir)

	index, err := store.LoadIndex()
	if err != nil {
		return nil, err
	}
	weights, err := store.LoadWeights()
	if err != nil {
		return nil, err
	}
	modelCfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}

	cfg.Index = index
	cfg.Weights = weights
	cfg.ModelConfig = modelCfg
	return NewModel(cfg)
}
