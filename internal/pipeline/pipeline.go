package pipeline

import (
	"github.com/fortuna/services/points-predictor/internal/estimator"
	"github.com/fortuna/services/points-predictor/internal/features"
	"github.com/fortuna/services/points-predictor/internal/predictor"
	"github.com/fortuna/services/points-predictor/pkg/models"
)

// Result is the outcome of one game log → prediction run
type Result struct {
	Games           int               `json:"games"`
	TrainSize       int               `json:"train_size"`
	TestSize        int               `json:"test_size"`
	MeanSquaredErr  float64           `json:"mse"`
	PredictedPoints float64           `json:"predicted_points"`
	Input           models.FeatureRow `json:"input"`
}

// Run builds the feature table, trains a fresh model and predicts the next game.
// Nothing is retained between runs.
func Run(records []models.GameRecord, opts estimator.Options) (*Result, error) {
	table, err := features.Build(records)
	if err != nil {
		return nil, err
	}

	model, mse, err := estimator.Train(table, opts)
	if err != nil {
		return nil, err
	}

	points, input, err := predictor.Predict(model, table)
	if err != nil {
		return nil, err
	}

	return &Result{
		Games:           len(table),
		TrainSize:       model.TrainSize,
		TestSize:        model.TestSize,
		MeanSquaredErr:  mse,
		PredictedPoints: points,
		Input:           input,
	}, nil
}
