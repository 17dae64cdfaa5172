package nbastats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/services/points-predictor/pkg/models"
)

// response is the common stats.nba.com envelope
type response struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

// columns maps upper-cased header names to their position
type columns map[string]int

func (rs *resultSet) columns() columns {
	cols := make(columns, len(rs.Headers))
	for i, h := range rs.Headers {
		cols[strings.ToUpper(h)] = i
	}
	return cols
}

// require fails if any header is absent from the result set
func (c columns) require(names ...string) error {
	for _, name := range names {
		if _, ok := c[name]; !ok {
			return fmt.Errorf("missing column %s", name)
		}
	}
	return nil
}

// cell returns the raw value of a named column, nil when absent
func (c columns) cell(row []interface{}, name string) interface{} {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

func (c columns) float(row []interface{}, name string) *float64 {
	return maybe[float64](c.cell(row, name))
}

func (c columns) text(row []interface{}, name string) string {
	if s := maybe[string](c.cell(row, name)); s != nil {
		return *s
	}
	return ""
}

// maybe returns a pointer to x when it holds a T, nil otherwise
func maybe[T any](x any) *T {
	if x, ok := x.(T); ok {
		return &x
	}
	return nil
}

// parseInt parses an int from interface{}
func parseInt(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(val)
		return i
	case int:
		return val
	default:
		return 0
	}
}

// parseGameDate converts stats.nba.com dates ("APR 14, 2024") to time.Time.
// Returns the zero time when no known layout matches.
func parseGameDate(dateStr string) time.Time {
	if dateStr == "" {
		return time.Time{}
	}

	layouts := []string{"Jan 02, 2006", "2006-01-02T15:04:05", "2006-01-02", time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parsePlayers decodes a commonallplayers result set
func parsePlayers(rs *resultSet) ([]models.Player, error) {
	cols := rs.columns()
	if err := cols.require("PERSON_ID", "DISPLAY_FIRST_LAST"); err != nil {
		return nil, fmt.Errorf("commonallplayers: %w", err)
	}

	players := make([]models.Player, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		id := parseInt(cols.cell(row, "PERSON_ID"))
		name := strings.TrimSpace(cols.text(row, "DISPLAY_FIRST_LAST"))
		if id == 0 || name == "" {
			continue
		}

		players = append(players, models.Player{
			ID:       id,
			FullName: name,
			TeamAbbr: cols.text(row, "TEAM_ABBREVIATION"),
			IsActive: parseInt(cols.cell(row, "ROSTERSTATUS")) == 1,
		})
	}

	return players, nil
}

// parseGameLog decodes a playergamelog result set in response order.
// Null stat cells stay nil so downstream validation can reject them.
func parseGameLog(rs *resultSet) ([]models.GameRecord, error) {
	cols := rs.columns()
	if err := cols.require("GAME_ID", "GAME_DATE", "PTS", "FGM", "FGA", "REB", "AST", "STL", "BLK", "TOV"); err != nil {
		return nil, fmt.Errorf("playergamelog: %w", err)
	}

	games := make([]models.GameRecord, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		games = append(games, models.GameRecord{
			GameID:              cols.text(row, "GAME_ID"),
			GameDate:            parseGameDate(cols.text(row, "GAME_DATE")),
			Matchup:             cols.text(row, "MATCHUP"),
			Points:              cols.float(row, "PTS"),
			FieldGoalsMade:      cols.float(row, "FGM"),
			FieldGoalsAttempted: cols.float(row, "FGA"),
			Rebounds:            cols.float(row, "REB"),
			Assists:             cols.float(row, "AST"),
			Steals:              cols.float(row, "STL"),
			Blocks:              cols.float(row, "BLK"),
			Turnovers:           cols.float(row, "TOV"),
		})
	}

	return games, nil
}

// allDated reports whether every game carries a parsed date
func allDated(games []models.GameRecord) bool {
	for _, g := range games {
		if g.GameDate.IsZero() {
			return false
		}
	}
	return true
}
