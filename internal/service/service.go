package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fortuna/services/points-predictor/internal/estimator"
	"github.com/fortuna/services/points-predictor/internal/features"
	"github.com/fortuna/services/points-predictor/internal/pipeline"
	"github.com/fortuna/services/points-predictor/internal/registry"
	"github.com/fortuna/services/points-predictor/pkg/contracts"
	"github.com/fortuna/services/points-predictor/pkg/models"
	"github.com/google/uuid"
)

// GameLogCache caches fetched game logs and the latest prediction
type GameLogCache interface {
	ReadGameLog(ctx context.Context, playerID int, season string) ([]models.GameRecord, bool, error)
	WriteGameLog(ctx context.Context, playerID int, season string, games []models.GameRecord) error
	WritePrediction(ctx context.Context, p *models.Prediction) error
	ReadLatestPrediction(ctx context.Context, playerID int, season string) (*models.Prediction, bool, error)
}

// PredictionPublisher fans predictions out to downstream consumers
type PredictionPublisher interface {
	PublishPrediction(ctx context.Context, p *models.Prediction) error
}

// PredictionStore keeps prediction history
type PredictionStore interface {
	SavePrediction(ctx context.Context, p *models.Prediction) error
	ListPredictions(ctx context.Context, playerID int, limit int) ([]models.Prediction, error)
}

// MaxSuppliedGames caps caller-supplied game logs. A full regular season is 82
// games, so anything past this is not a single player-season.
const MaxSuppliedGames = 200

// Options wires the service. Cache, Publisher and Store are optional.
type Options struct {
	Source        contracts.StatsSource
	Players       *registry.Registry
	Cache         GameLogCache
	Publisher     PredictionPublisher
	Store         PredictionStore
	Estimator     estimator.Options
	DefaultSeason string
}

// Service runs predictions for named players
type Service struct {
	source        contracts.StatsSource
	players       *registry.Registry
	cache         GameLogCache
	publisher     PredictionPublisher
	store         PredictionStore
	opts          estimator.Options
	defaultSeason string
	now           func() time.Time
}

// New creates a new prediction service
func New(o Options) *Service {
	players := o.Players
	if players == nil {
		players = registry.New(o.Source)
	}

	return &Service{
		source:        o.Source,
		players:       players,
		cache:         o.Cache,
		publisher:     o.Publisher,
		store:         o.Store,
		opts:          o.Estimator,
		defaultSeason: o.DefaultSeason,
		now:           time.Now,
	}
}

// DefaultSeason returns the season used when a request names none
func (s *Service) DefaultSeason() string {
	return s.defaultSeason
}

func (s *Service) season(season string) string {
	if season == "" {
		return s.defaultSeason
	}
	return season
}

// GameLog returns a player's season game log, from cache when available
func (s *Service) GameLog(ctx context.Context, player models.Player, season string) ([]models.GameRecord, error) {
	if s.cache != nil {
		games, found, err := s.cache.ReadGameLog(ctx, player.ID, season)
		if err != nil {
			log.Printf("[service] Error reading cached game log %d/%s: %v", player.ID, season, err)
		} else if found {
			return games, nil
		}
	}

	games, err := s.source.FetchGameLog(ctx, player.ID, season)
	if err != nil {
		return nil, fmt.Errorf("fetching game log for %s: %w", player.FullName, err)
	}

	if s.cache != nil {
		if err := s.cache.WriteGameLog(ctx, player.ID, season, games); err != nil {
			log.Printf("[service] Error caching game log %d/%s: %v", player.ID, season, err)
		}
	}

	return games, nil
}

// PredictPlayer predicts a player's points in their next game
func (s *Service) PredictPlayer(ctx context.Context, name, season string) (*models.Prediction, error) {
	season = s.season(season)

	player, err := s.players.Lookup(ctx, name, season)
	if err != nil {
		return nil, err
	}

	games, err := s.GameLog(ctx, player, season)
	if err != nil {
		return nil, err
	}

	result, err := pipeline.Run(games, s.opts)
	if err != nil {
		return nil, fmt.Errorf("predicting %s %s: %w", player.FullName, season, err)
	}

	pred := &models.Prediction{
		ID:              uuid.NewString(),
		PlayerID:        player.ID,
		PlayerName:      player.FullName,
		Season:          season,
		Games:           result.Games,
		TrainSize:       result.TrainSize,
		TestSize:        result.TestSize,
		MeanSquaredErr:  result.MeanSquaredErr,
		PredictedPoints: result.PredictedPoints,
		CreatedAt:       s.now().UTC(),
	}

	s.record(ctx, pred)

	log.Printf("[service] %s %s: %.1f pts predicted (mse %.2f, %d games)",
		pred.PlayerName, season, pred.PredictedPoints, pred.MeanSquaredErr, pred.Games)

	return pred, nil
}

// PredictGames runs the pipeline on a caller-supplied game log
func (s *Service) PredictGames(records []models.GameRecord) (*pipeline.Result, error) {
	if len(records) > MaxSuppliedGames {
		return nil, fmt.Errorf("%d games exceeds the limit of %d: %w", len(records), MaxSuppliedGames, models.ErrInvalidInput)
	}
	return pipeline.Run(records, s.opts)
}

// LatestPrediction returns the most recent cached prediction for a player-season
// without training a new model.
func (s *Service) LatestPrediction(ctx context.Context, name, season string) (*models.Prediction, error) {
	season = s.season(season)

	player, err := s.players.Lookup(ctx, name, season)
	if err != nil {
		return nil, err
	}

	if s.cache == nil {
		return nil, fmt.Errorf("%s %s: %w", player.FullName, season, models.ErrPredictionNotFound)
	}

	pred, found, err := s.cache.ReadLatestPrediction(ctx, player.ID, season)
	if err != nil {
		return nil, fmt.Errorf("reading cached prediction for %s: %w", player.FullName, err)
	}
	if !found {
		return nil, fmt.Errorf("%s %s: %w", player.FullName, season, models.ErrPredictionNotFound)
	}

	return pred, nil
}

// record writes a prediction to every configured sink. Failures are logged only.
func (s *Service) record(ctx context.Context, pred *models.Prediction) {
	if s.cache != nil {
		if err := s.cache.WritePrediction(ctx, pred); err != nil {
			log.Printf("[service] Error caching prediction %s: %v", pred.ID, err)
		}
	}

	if s.store != nil {
		if err := s.store.SavePrediction(ctx, pred); err != nil {
			log.Printf("[service] Error saving prediction %s: %v", pred.ID, err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPrediction(ctx, pred); err != nil {
			log.Printf("[service] Error publishing prediction %s: %v", pred.ID, err)
		}
	}
}

// SeasonAverages returns a player's per-game aggregates for a season
func (s *Service) SeasonAverages(ctx context.Context, name, season string) (*models.SeasonAverages, error) {
	season = s.season(season)

	player, err := s.players.Lookup(ctx, name, season)
	if err != nil {
		return nil, err
	}

	games, err := s.GameLog(ctx, player, season)
	if err != nil {
		return nil, err
	}

	avg, err := features.SeasonAverages(games)
	if err != nil {
		return nil, fmt.Errorf("averaging %s %s: %w", player.FullName, season, err)
	}

	avg.PlayerID = player.ID
	avg.PlayerName = player.FullName
	avg.Season = season
	return &avg, nil
}

// Compare returns season averages for several players. Unknown players and
// players without games that season are listed in NotFound instead of failing.
func (s *Service) Compare(ctx context.Context, names []string, season string) (*models.Comparison, error) {
	season = s.season(season)
	cmp := &models.Comparison{Season: season, Players: []models.SeasonAverages{}}

	for _, name := range names {
		avg, err := s.SeasonAverages(ctx, name, season)
		switch {
		case err == nil:
			cmp.Players = append(cmp.Players, *avg)
		case errors.Is(err, models.ErrPlayerNotFound), errors.Is(err, models.ErrInvalidInput):
			log.Printf("[service] Skipping %q in comparison: %v", name, err)
			cmp.NotFound = append(cmp.NotFound, name)
		default:
			return nil, err
		}
	}

	return cmp, nil
}

// History returns stored predictions for a player, newest first. season only
// selects the player index used to resolve the name; history spans all seasons.
func (s *Service) History(ctx context.Context, name, season string, limit int) ([]models.Prediction, error) {
	player, err := s.players.Lookup(ctx, name, s.season(season))
	if err != nil {
		return nil, err
	}

	if s.store == nil {
		return []models.Prediction{}, nil
	}

	return s.store.ListPredictions(ctx, player.ID, limit)
}
