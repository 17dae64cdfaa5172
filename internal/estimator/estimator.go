package estimator

import (
	"fmt"

	"github.com/fortuna/services/points-predictor/internal/features"
	"github.com/fortuna/services/points-predictor/pkg/models"
)

// Defaults for training. The split seed is fixed so repeated runs over the
// same game log produce the same split, model and error.
const (
	DefaultMinRows      = 10
	DefaultTestFraction = 0.2
	DefaultSeed         = 42
	DefaultNumTrees     = 100
)

// Options controls the train/test split and the forest
type Options struct {
	MinRows        int     // fewer rows fail with ErrInsufficientData
	TestFraction   float64 // held-out share, rounded up
	Seed           int64   // split and bootstrap seed
	NumTrees       int
	MaxDepth       int // 0 = unlimited
	MinSamplesLeaf int
}

// DefaultOptions returns the documented training policy
func DefaultOptions() Options {
	return Options{
		MinRows:        DefaultMinRows,
		TestFraction:   DefaultTestFraction,
		Seed:           DefaultSeed,
		NumTrees:       DefaultNumTrees,
		MinSamplesLeaf: 1,
	}
}

// withDefaults fills zero-valued fields
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinRows <= 0 {
		o.MinRows = d.MinRows
	}
	if o.TestFraction <= 0 || o.TestFraction >= 1 {
		o.TestFraction = d.TestFraction
	}
	if o.NumTrees <= 0 {
		o.NumTrees = d.NumTrees
	}
	if o.MinSamplesLeaf <= 0 {
		o.MinSamplesLeaf = d.MinSamplesLeaf
	}
	return o
}

// Model is a trained points regressor. It is owned by the request that trained it.
type Model struct {
	forest      *forest
	numFeatures int

	TrainSize int
	TestSize  int
}

// Predict returns the model's estimate for one predictor row
func (m *Model) Predict(x []float64) (float64, error) {
	if m == nil || m.forest == nil {
		return 0, fmt.Errorf("model not trained: %w", models.ErrInvalidState)
	}
	if len(x) != m.numFeatures {
		return 0, fmt.Errorf("expected %d predictors, got %d: %w", m.numFeatures, len(x), models.ErrInvalidInput)
	}
	return m.forest.predict(x), nil
}

// Train fits a random forest on the training split of table and returns it
// with the mean squared error on the held-out split.
func Train(table features.Table, opts Options) (*Model, float64, error) {
	opts = opts.withDefaults()

	if len(table) < opts.MinRows {
		return nil, 0, fmt.Errorf("have %d games, need at least %d: %w", len(table), opts.MinRows, models.ErrInsufficientData)
	}

	x, y := table.Rows()
	if col, ok := constantColumn(x); ok {
		return nil, 0, fmt.Errorf("column %s has no variation: %w", models.FeatureNames[col], models.ErrDegenerateInput)
	}

	trainIdx, testIdx := split(len(table), opts.TestFraction, opts.Seed)

	f := fitForest(x, y, trainIdx, opts)
	model := &Model{
		forest:      f,
		numFeatures: len(x[0]),
		TrainSize:   len(trainIdx),
		TestSize:    len(testIdx),
	}

	var sse float64
	for _, i := range testIdx {
		diff := f.predict(x[i]) - y[i]
		sse += diff * diff
	}
	mse := sse / float64(len(testIdx))

	return model, mse, nil
}

// constantColumn reports the first predictor column whose values are all equal
func constantColumn(x [][]float64) (int, bool) {
	if len(x) == 0 {
		return 0, false
	}
	for col := range x[0] {
		first := x[0][col]
		constant := true
		for _, row := range x[1:] {
			if row[col] != first {
				constant = false
				break
			}
		}
		if constant {
			return col, true
		}
	}
	return 0, false
}
