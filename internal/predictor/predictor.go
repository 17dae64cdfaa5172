package predictor

import (
	"fmt"

	"github.com/fortuna/services/points-predictor/internal/estimator"
	"github.com/fortuna/services/points-predictor/internal/features"
	"github.com/fortuna/services/points-predictor/pkg/models"
)

// NextGameInput builds the synthetic "next game" row: every predictor is the
// column mean over the history and the game index is one past the last game.
func NextGameInput(table features.Table) (models.FeatureRow, error) {
	if len(table) == 0 {
		return models.FeatureRow{}, fmt.Errorf("empty training table: %w", models.ErrInvalidState)
	}

	var in models.FeatureRow
	for _, row := range table {
		in.FieldGoalsMade += row.FieldGoalsMade
		in.FieldGoalsAttempted += row.FieldGoalsAttempted
		in.Rebounds += row.Rebounds
		in.Assists += row.Assists
		in.Steals += row.Steals
		in.Blocks += row.Blocks
		in.Turnovers += row.Turnovers
	}

	n := float64(len(table))
	in.FieldGoalsMade /= n
	in.FieldGoalsAttempted /= n
	in.Rebounds /= n
	in.Assists /= n
	in.Steals /= n
	in.Blocks /= n
	in.Turnovers /= n
	in.GameIndex = table.MaxGameIndex() + 1

	return in, nil
}

// Predict runs the model on the next-game row derived from table.
// The estimate is returned as-is; it is not clamped to a valid points range.
func Predict(model *estimator.Model, table features.Table) (float64, models.FeatureRow, error) {
	if model == nil {
		return 0, models.FeatureRow{}, fmt.Errorf("no trained model: %w", models.ErrInvalidState)
	}

	in, err := NextGameInput(table)
	if err != nil {
		return 0, models.FeatureRow{}, err
	}

	points, err := model.Predict(in.Predictors())
	if err != nil {
		return 0, models.FeatureRow{}, fmt.Errorf("running model: %w", err)
	}

	return points, in, nil
}
