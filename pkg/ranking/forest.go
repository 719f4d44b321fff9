package ranking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ForestConfig holds the bagged-tree hyperparameters.
type ForestConfig struct {
	NumTrees        int
	Seed            int64
	MaxFeatures     int // 0 means floor(sqrt(features))
	MinSamplesSplit int
	MaxDepth        int // 0 means unlimited
}

func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NumTrees:        50,
		Seed:            42,
		MinSamplesSplit: 2,
	}
}

// Forest is a random forest classifier: bootstrap-sampled CART trees whose leaf class
// distributions are averaged.
type Forest struct {
	trees      []*node
	numClasses int
}

// FitForest trains on X (rows of equal width) and labels y in [0, numClasses). ctx is
// checked between trees.
func FitForest(ctx context.Context, X [][]float64, y []int, numClasses int, cfg ForestConfig) (*Forest, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, errors.New("forest: empty or mismatched training data")
	}
	if numClasses < 1 {
		return nil, errors.New("forest: no classes")
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return nil, fmt.Errorf("forest: row %d has %d features, want %d", i, len(row), width)
		}
	}
	if cfg.NumTrees <= 0 {
		cfg.NumTrees = DefaultForestConfig().NumTrees
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	maxFeatures := cfg.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Max(1, math.Floor(math.Sqrt(float64(width)))))
	}

	master := rand.New(rand.NewSource(cfg.Seed))
	f := &Forest{numClasses: numClasses}

	for t := 0; t < cfg.NumTrees; t++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("forest: fit interrupted after %d trees: %w", t, err)
		}
		rng := rand.New(rand.NewSource(master.Int63()))

		sample := make([]int, len(X))
		for i := range sample {
			sample[i] = rng.Intn(len(X))
		}

		b := &treeBuilder{
			X:           X,
			y:           y,
			numClasses:  numClasses,
			maxFeatures: maxFeatures,
			minSplit:    cfg.MinSamplesSplit,
			maxDepth:    cfg.MaxDepth,
			rng:         rng,
		}
		f.trees = append(f.trees, b.build(sample, 0))
	}
	return f, nil
}

// PredictProba averages the per-tree class distributions for x.
func (f *Forest) PredictProba(x []float64) []float64 {
	out := make([]float64, f.numClasses)
	for _, t := range f.trees {
		for k, p := range t.predict(x) {
			out[k] += p
		}
	}
	for k := range out {
		out[k] /= float64(len(f.trees))
	}
	return out
}

func (f *Forest) NumTrees() int {
	return len(f.trees)
}
