package poller

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fortuna/services/points-predictor/pkg/models"
)

// PlayerPredictor is the part of the service the pollers drive
type PlayerPredictor interface {
	PredictPlayer(ctx context.Context, name, season string) (*models.Prediction, error)
}

// PlayerPoller refreshes one watched player's prediction on an interval
type PlayerPoller struct {
	player    string
	season    string
	interval  time.Duration
	predictor PlayerPredictor
}

// NewPlayerPoller creates a new poller for a player
func NewPlayerPoller(player, season string, interval time.Duration, predictor PlayerPredictor) *PlayerPoller {
	return &PlayerPoller{
		player:    player,
		season:    season,
		interval:  interval,
		predictor: predictor,
	}
}

// Run starts the refresh loop for this player
func (p *PlayerPoller) Run(ctx context.Context) {
	log.Printf("[%s] Starting poller (every %s)", p.player, p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Do initial poll
	p.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[%s] Stopping poller", p.player)
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce performs one prediction refresh. Each refresh trains its own model.
func (p *PlayerPoller) pollOnce(ctx context.Context) {
	pred, err := p.predictor.PredictPlayer(ctx, p.player, p.season)
	switch {
	case err == nil:
		log.Printf("[%s] Next game: %.1f pts (mse %.2f over %d held-out games)",
			p.player, pred.PredictedPoints, pred.MeanSquaredErr, pred.TestSize)
	case errors.Is(err, models.ErrInsufficientData):
		log.Printf("[%s] Not enough history yet: %v", p.player, err)
	case ctx.Err() != nil:
		// shutting down
	default:
		log.Printf("[%s] Error refreshing prediction: %v", p.player, err)
	}
}
