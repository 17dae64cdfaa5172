package features

import (
	"fmt"

	"github.com/fortuna/services/points-predictor/pkg/models"
)

// Table is a feature table, one row per game in chronological order
type Table []models.FeatureRow

// Build turns a chronological game log into a feature table.
// Game index is assigned by position: the earliest game is 1.
func Build(records []models.GameRecord) (Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("empty game log: %w", models.ErrInvalidInput)
	}

	if err := validateChronology(records); err != nil {
		return nil, err
	}

	table := make(Table, len(records))
	for i, rec := range records {
		row, err := buildRow(i+1, rec)
		if err != nil {
			return nil, err
		}
		table[i] = row
	}

	return table, nil
}

// buildRow converts a single record, failing on the first missing field
func buildRow(index int, rec models.GameRecord) (models.FeatureRow, error) {
	fields := []struct {
		name  string
		value *float64
	}{
		{"points", rec.Points},
		{"field_goals_made", rec.FieldGoalsMade},
		{"field_goals_attempted", rec.FieldGoalsAttempted},
		{"rebounds", rec.Rebounds},
		{"assists", rec.Assists},
		{"steals", rec.Steals},
		{"blocks", rec.Blocks},
		{"turnovers", rec.Turnovers},
	}
	for _, f := range fields {
		if f.value == nil {
			return models.FeatureRow{}, fmt.Errorf("game %d (%s): missing %s: %w",
				index, rec.GameID, f.name, models.ErrInvalidInput)
		}
	}

	return models.FeatureRow{
		GameIndex:           float64(index),
		FieldGoalsMade:      *rec.FieldGoalsMade,
		FieldGoalsAttempted: *rec.FieldGoalsAttempted,
		Rebounds:            *rec.Rebounds,
		Assists:             *rec.Assists,
		Steals:              *rec.Steals,
		Blocks:              *rec.Blocks,
		Turnovers:           *rec.Turnovers,
		Points:              *rec.Points,
	}, nil
}

// validateChronology rejects dated logs that go backwards in time.
// Logs where any record lacks a date are trusted by position.
func validateChronology(records []models.GameRecord) error {
	for _, rec := range records {
		if rec.GameDate.IsZero() {
			return nil
		}
	}

	for i := 1; i < len(records); i++ {
		if records[i].GameDate.Before(records[i-1].GameDate) {
			return fmt.Errorf("game %d dated %s precedes game %d dated %s: %w",
				i+1, records[i].GameDate.Format("2006-01-02"),
				i, records[i-1].GameDate.Format("2006-01-02"),
				models.ErrInvalidInput)
		}
	}
	return nil
}

// Rows returns the table's predictor matrix and target vector
func (t Table) Rows() ([][]float64, []float64) {
	x := make([][]float64, len(t))
	y := make([]float64, len(t))
	for i, row := range t {
		x[i] = row.Predictors()
		y[i] = row.Points
	}
	return x, y
}

// MaxGameIndex returns the highest game index in the table (0 when empty)
func (t Table) MaxGameIndex() float64 {
	highest := 0.0
	for _, row := range t {
		if row.GameIndex > highest {
			highest = row.GameIndex
		}
	}
	return highest
}
