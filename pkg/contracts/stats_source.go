package contracts

import (
	"context"

	"github.com/fortuna/services/points-predictor/pkg/models"
)

// StatsSource is the pluggable interface for game-log providers
// The service only talks to providers through this contract
type StatsSource interface {
	// Identification
	GetSourceKey() string // "nba_stats"

	// Player index for a season, used to resolve names to IDs
	FetchPlayers(ctx context.Context, season string) ([]models.Player, error)

	// Game log for one player-season, earliest game first
	FetchGameLog(ctx context.Context, playerID int, season string) ([]models.GameRecord, error)
}
