package features

import (
	"fmt"

	"github.com/fortuna/services/points-predictor/pkg/models"
)

// SeasonAverages computes per-game scoring, rebounding and shooting aggregates.
// FG% is total makes over total attempts, not a mean of per-game percentages.
func SeasonAverages(records []models.GameRecord) (models.SeasonAverages, error) {
	table, err := Build(records)
	if err != nil {
		return models.SeasonAverages{}, err
	}

	var pts, reb, ast, fgm, fga float64
	for _, row := range table {
		pts += row.Points
		reb += row.Rebounds
		ast += row.Assists
		fgm += row.FieldGoalsMade
		fga += row.FieldGoalsAttempted
	}

	n := float64(len(table))
	avg := models.SeasonAverages{
		GamesPlayed:     len(table),
		PointsPerGame:   pts / n,
		ReboundsPerGame: reb / n,
		AssistsPerGame:  ast / n,
	}
	if fga > 0 {
		avg.FieldGoalPct = fgm / fga
	}

	if avg.FieldGoalPct > 1 {
		return models.SeasonAverages{}, fmt.Errorf("field goals made exceed attempts: %w", models.ErrInvalidInput)
	}

	return avg, nil
}
