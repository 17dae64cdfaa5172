package models

import "fmt"

// SeasonAverages holds per-game aggregates for one player-season
type SeasonAverages struct {
	PlayerID        int     `json:"player_id"`
	PlayerName      string  `json:"player_name"`
	Season          string  `json:"season"`
	GamesPlayed     int     `json:"games_played"`
	PointsPerGame   float64 `json:"ppg"`
	ReboundsPerGame float64 `json:"rpg"`
	AssistsPerGame  float64 `json:"apg"`
	FieldGoalPct    float64 `json:"fg_pct"` // 0..1, total FGM / total FGA
}

// DisplayStat provides formatted stat display info
// Frontend uses this to render stats without knowing basketball semantics
type DisplayStat struct {
	Label    string `json:"label"`    // "PPG", "FG%"
	Value    string `json:"value"`    // "28.4", "51.2%"
	Category string `json:"category"` // "Scoring", "Shooting"
}

// ToDisplayStats converts averages to formatted display stats for UI
func (a SeasonAverages) ToDisplayStats() []DisplayStat {
	return []DisplayStat{
		{Label: "GP", Value: fmt.Sprintf("%d", a.GamesPlayed), Category: "Season"},
		{Label: "PPG", Value: fmt.Sprintf("%.1f", a.PointsPerGame), Category: "Scoring"},
		{Label: "RPG", Value: fmt.Sprintf("%.1f", a.ReboundsPerGame), Category: "Rebounding"},
		{Label: "APG", Value: fmt.Sprintf("%.1f", a.AssistsPerGame), Category: "Playmaking"},
		{Label: "FG%", Value: fmt.Sprintf("%.1f%%", a.FieldGoalPct*100), Category: "Shooting"},
	}
}

// Comparison holds season averages for several players side by side
type Comparison struct {
	Season   string           `json:"season"`
	Players  []SeasonAverages `json:"players"`
	NotFound []string         `json:"not_found,omitempty"` // unknown names or no games in season
}
