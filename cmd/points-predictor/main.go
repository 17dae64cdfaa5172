package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/services/points-predictor/internal/cache"
	"github.com/fortuna/services/points-predictor/internal/config"
	"github.com/fortuna/services/points-predictor/internal/handlers"
	"github.com/fortuna/services/points-predictor/internal/poller"
	"github.com/fortuna/services/points-predictor/internal/providers/nbastats"
	"github.com/fortuna/services/points-predictor/internal/publisher"
	"github.com/fortuna/services/points-predictor/internal/registry"
	"github.com/fortuna/services/points-predictor/internal/service"
	"github.com/fortuna/services/points-predictor/internal/store"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.Println("Starting Points Predictor Service...")

	// Load configuration from environment
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")

	// Prediction history
	historyStore, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to open %s database: %v", cfg.Database.Driver, err)
	}
	defer historyStore.Close()
	log.Printf("Connected to %s database", cfg.Database.Driver)

	// Initialize components
	statsClient := nbastats.New(nbastats.Config{
		BaseURL:   cfg.Stats.BaseURL,
		Timeout:   cfg.Stats.Timeout,
		UserAgent: cfg.Stats.UserAgent,
		Referer:   cfg.Stats.Referer,
	})
	playerRegistry := registry.New(statsClient)
	cacheWriter := cache.NewRedisWriter(redisClient)
	streamPublisher := publisher.NewStreamPublisher(redisClient, cfg.SportKey)

	svc := service.New(service.Options{
		Source:        statsClient,
		Players:       playerRegistry,
		Cache:         cacheWriter,
		Publisher:     streamPublisher,
		Store:         historyStore,
		Estimator:     cfg.EstimatorOptions(),
		DefaultSeason: cfg.DefaultSeason,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handlers.Router(handlers.NewHandler(svc), cfg.Server.AllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// Start watchlist pollers
	pollersDone := make(chan struct{})
	go func() {
		defer close(pollersDone)
		if len(cfg.Watch.Players) == 0 {
			return
		}
		orch := poller.NewOrchestrator(svc, cfg.Watch.Players, cfg.DefaultSeason, cfg.Watch.RefreshInterval)
		orch.Start(ctx)
	}()

	log.Printf("Listening on %s (season %s, stream %s)", cfg.Server.Addr, cfg.DefaultSeason, streamPublisher.StreamKey())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	<-pollersDone
	log.Println("Points Predictor Service stopped")
}
