package models

import "time"

// GameRecord is one game of a player's season game log.
// Stat fields are pointers so a value missing upstream stays observable.
type GameRecord struct {
	GameID   string    `json:"game_id,omitempty"`
	GameDate time.Time `json:"game_date,omitempty"` // zero when the source has no date
	Matchup  string    `json:"matchup,omitempty"`   // "LAL vs. BOS"

	Points              *float64 `json:"points"`
	FieldGoalsMade      *float64 `json:"field_goals_made"`
	FieldGoalsAttempted *float64 `json:"field_goals_attempted"`
	Rebounds            *float64 `json:"rebounds"`
	Assists             *float64 `json:"assists"`
	Steals              *float64 `json:"steals"`
	Blocks              *float64 `json:"blocks"`
	Turnovers           *float64 `json:"turnovers"`
}

// FeatureRow is one supervised-learning row derived from a GameRecord
type FeatureRow struct {
	GameIndex           float64 `json:"game_index"` // 1-based, chronological
	FieldGoalsMade      float64 `json:"field_goals_made"`
	FieldGoalsAttempted float64 `json:"field_goals_attempted"`
	Rebounds            float64 `json:"rebounds"`
	Assists             float64 `json:"assists"`
	Steals              float64 `json:"steals"`
	Blocks              float64 `json:"blocks"`
	Turnovers           float64 `json:"turnovers"`

	Points float64 `json:"points"` // target
}

// FeatureNames lists predictor columns in the order returned by Predictors
var FeatureNames = []string{
	"game_index",
	"field_goals_made",
	"field_goals_attempted",
	"rebounds",
	"assists",
	"steals",
	"blocks",
	"turnovers",
}

// Predictors returns the row's predictor values in FeatureNames order
func (r FeatureRow) Predictors() []float64 {
	return []float64{
		r.GameIndex,
		r.FieldGoalsMade,
		r.FieldGoalsAttempted,
		r.Rebounds,
		r.Assists,
		r.Steals,
		r.Blocks,
		r.Turnovers,
	}
}

// Player identifies an NBA player in the stats provider
type Player struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	TeamAbbr string `json:"team_abbr,omitempty"`
	IsActive bool   `json:"is_active"`
}
