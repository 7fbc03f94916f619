package spamsift

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// GridPoint records the validation accuracy of one (k, alpha) combination.
type GridPoint struct {
	K        int     `json:"k"`
	Alpha    float64 `json:"alpha"`
	Accuracy float64 `json:"accuracy"`
}

// DefaultAlphaGrid returns the standard calibration grid 0.00, 0.05, ... 1.00.
func DefaultAlphaGrid() []float64 {
	grid := make([]float64, 0, 21)
	for i := 0; i <= 20; i++ {
		grid = append(grid, float64(i)/20)
	}
	return grid
}

// DefaultKCandidates returns the standard neighbor counts to sweep.
func DefaultKCandidates() []int {
	return []int{1, 3, 5, 7, 10}
}

// Calibrate sweeps every (k, alpha) combination, scoring each by accuracy
// over the validation examples (which must carry embeddings), and returns
// the best ModelConfig. Ties on accuracy prefer the lowest alpha, then the
// lowest k — similarity-dominant models win over heuristic-dominant ones
// when accuracy is equal. Combinations are evaluated in parallel; the
// selection is deterministic regardless of completion order.
func (m *Model) Calibrate(ctx context.Context, validation []TrainingExample, kCandidates []int, alphaGrid []float64) (ModelConfig, []GridPoint, error) {
	if len(validation) == 0 {
		return ModelConfig{}, nil, ErrEmptyValidationSet
	}
	if len(kCandidates) == 0 {
		kCandidates = DefaultKCandidates()
	}
	if len(alphaGrid) == 0 {
		alphaGrid = DefaultAlphaGrid()
	}

	for _, k := range kCandidates {
		if k < 1 || k > m.index.Size() {
			return ModelConfig{}, nil, fmt.Errorf("%w: candidate k=%d, index size %d",
				ErrInvalidK, k, m.index.Size())
		}
	}
	for _, alpha := range alphaGrid {
		if alpha < 0 || alpha > 1 {
			return ModelConfig{}, nil, fmt.Errorf("%w: grid alpha=%v", ErrInvalidAlpha, alpha)
		}
	}
	for i, ex := range validation {
		if len(ex.Embedding) == 0 {
			return ModelConfig{}, nil, fmt.Errorf("%w: validation example %d has no embedding",
				ErrEmptyValidationSet, i)
		}
	}

	// Grid order encodes the tie-break: alpha ascending, then k ascending.
	type pair struct {
		k     int
		alpha float64
	}
	pairs := make([]pair, 0, len(kCandidates)*len(alphaGrid))
	for _, alpha := range alphaGrid {
		for _, k := range kCandidates {
			pairs = append(pairs, pair{k: k, alpha: alpha})
		}
	}

	grid := make([]GridPoint, len(pairs))
	errs := make([]error, len(pairs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	for i, p := range pairs {
		wg.Add(1)
		go func(i int, p pair) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			accuracy, err := m.evaluate(ctx, validation, p.k, p.alpha)
			if err != nil {
				errs[i] = err
				return
			}
			grid[i] = GridPoint{K: p.k, Alpha: p.alpha, Accuracy: accuracy}
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return ModelConfig{}, nil, err
		}
	}

	// First strict maximum in grid order is the tie-broken winner.
	best := grid[0]
	for _, point := range grid[1:] {
		if point.Accuracy > best.Accuracy {
			best = point
		}
	}

	cfg := ModelConfig{
		ModelName:    m.cfg.ModelName,
		Alpha:        best.Alpha,
		K:            best.K,
		TrainedAt:    time.Now().UTC(),
		TrainSamples: m.index.Size(),
		Accuracy:     best.Accuracy,
	}
	return cfg, grid, nil
}

// evaluate computes classification accuracy over the validation set for one
// (k, alpha) combination, reusing the examples' precomputed embeddings.
func (m *Model) evaluate(ctx context.Context, validation []TrainingExample, k int, alpha float64) (float64, error) {
	correct := 0
	for i := range validation {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		ex := &validation[i]
		result, err := m.classifyVector(ctx, ex.Text, ex.Embedding, k, alpha)
		if err != nil {
			return 0, fmt.Errorf("validation example %d: %w", i, err)
		}
		if result.Prediction == ex.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(validation)), nil
}
