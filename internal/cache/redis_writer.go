package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/services/points-predictor/pkg/models"
	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	GameLogTTL    = 6 * time.Hour
	PredictionTTL = 24 * time.Hour
)

// RedisWriter handles game log and prediction data in Redis
type RedisWriter struct {
	client *redis.Client
}

// NewRedisWriter creates a new Redis writer
func NewRedisWriter(client *redis.Client) *RedisWriter {
	return &RedisWriter{
		client: client,
	}
}

func gameLogKey(playerID int, season string) string {
	return fmt.Sprintf("gamelog:%d:%s", playerID, season)
}

func predictionKey(playerID int, season string) string {
	return fmt.Sprintf("prediction:%d:%s:latest", playerID, season)
}

// WriteGameLog stores a player's season game log
func (w *RedisWriter) WriteGameLog(ctx context.Context, playerID int, season string, games []models.GameRecord) error {
	data, err := json.Marshal(games)
	if err != nil {
		return fmt.Errorf("marshaling game log: %w", err)
	}

	return w.client.Set(ctx, gameLogKey(playerID, season), data, GameLogTTL).Err()
}

// ReadGameLog retrieves a cached game log. found is false on a cache miss.
func (w *RedisWriter) ReadGameLog(ctx context.Context, playerID int, season string) ([]models.GameRecord, bool, error) {
	data, err := w.client.Get(ctx, gameLogKey(playerID, season)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var games []models.GameRecord
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, false, fmt.Errorf("unmarshaling game log: %w", err)
	}

	return games, true, nil
}

// WritePrediction stores the latest prediction for a player-season
func (w *RedisWriter) WritePrediction(ctx context.Context, p *models.Prediction) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling prediction: %w", err)
	}

	return w.client.Set(ctx, predictionKey(p.PlayerID, p.Season), data, PredictionTTL).Err()
}

// ReadLatestPrediction retrieves the latest prediction for a player-season.
// found is false when none is cached or it has expired.
func (w *RedisWriter) ReadLatestPrediction(ctx context.Context, playerID int, season string) (*models.Prediction, bool, error) {
	data, err := w.client.Get(ctx, predictionKey(playerID, season)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var p models.Prediction
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("unmarshaling prediction: %w", err)
	}

	return &p, true, nil
}
