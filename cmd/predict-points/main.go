package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/fortuna/services/points-predictor/internal/config"
	"github.com/fortuna/services/points-predictor/internal/providers/nbastats"
	"github.com/fortuna/services/points-predictor/internal/service"
	"github.com/fortuna/services/points-predictor/pkg/models"
)

func main() {
	player := flag.String("player", "", "player full name, e.g. \"Nikola Jokic\"")
	season := flag.String("season", "", "season, e.g. 2023-24 (default from DEFAULT_SEASON)")
	averages := flag.Bool("averages", false, "also print season averages")
	flag.Parse()

	if *player == "" {
		fmt.Fprintln(os.Stderr, "usage: predict-points -player \"Full Name\" [-season 2023-24] [-averages]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	svc := service.New(service.Options{
		Source: nbastats.New(nbastats.Config{
			BaseURL:   cfg.Stats.BaseURL,
			Timeout:   cfg.Stats.Timeout,
			UserAgent: cfg.Stats.UserAgent,
			Referer:   cfg.Stats.Referer,
		}),
		Estimator:     cfg.EstimatorOptions(),
		DefaultSeason: cfg.DefaultSeason,
	})

	pred, err := svc.PredictPlayer(ctx, *player, *season)
	switch {
	case errors.Is(err, models.ErrPlayerNotFound):
		fmt.Printf("Player %s not found.\n", *player)
		os.Exit(1)
	case errors.Is(err, models.ErrInsufficientData):
		fmt.Printf("Not enough games this season to predict for %s.\n", *player)
		os.Exit(1)
	case err != nil:
		log.Fatalf("Prediction failed: %v", err)
	}

	fmt.Printf("%s (%s)\n", pred.PlayerName, pred.Season)
	fmt.Printf("  Games used:         %d (%d train / %d held out)\n", pred.Games, pred.TrainSize, pred.TestSize)
	fmt.Printf("  Held-out MSE:       %.2f\n", pred.MeanSquaredErr)
	fmt.Printf("  Next game points:   %.1f\n", pred.PredictedPoints)

	if !*averages {
		return
	}

	avg, err := svc.SeasonAverages(ctx, *player, *season)
	if err != nil {
		log.Fatalf("Season averages failed: %v", err)
	}
	for _, s := range avg.ToDisplayStats() {
		fmt.Printf("  %-4s %8s  (%s)\n", s.Label, s.Value, s.Category)
	}
}
