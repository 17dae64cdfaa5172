package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fortuna/services/points-predictor/pkg/models"
	"github.com/redis/go-redis/v9"
)

// StreamPublisher publishes predictions to Redis streams
type StreamPublisher struct {
	client   *redis.Client
	sportKey string
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client, sportKey string) *StreamPublisher {
	return &StreamPublisher{
		client:   client,
		sportKey: sportKey,
	}
}

// StreamKey returns the sport-specific predictions stream
func (p *StreamPublisher) StreamKey() string {
	return fmt.Sprintf("predictions.points.%s", p.sportKey)
}

// PublishPrediction publishes a points prediction
func (p *StreamPublisher) PublishPrediction(ctx context.Context, pred *models.Prediction) error {
	data, err := json.Marshal(pred)
	if err != nil {
		return fmt.Errorf("marshaling prediction: %w", err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.StreamKey(),
		Values: map[string]interface{}{
			"data":          string(data),
			"player_id":     pred.PlayerID,
			"prediction_id": pred.ID,
		},
	}).Err()
}
