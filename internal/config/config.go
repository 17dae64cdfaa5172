package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/services/points-predictor/internal/estimator"
	yaml "gopkg.in/yaml.v2"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	URL string
}

// DatabaseConfig selects the prediction history backend
type DatabaseConfig struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

// StatsConfig holds stats.nba.com client settings
type StatsConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Referer   string
}

// ModelConfig holds training policy
type ModelConfig struct {
	MinGames     int
	TestFraction float64
	Seed         int64
	NumTrees     int
	MaxDepth     int
}

// WatchConfig lists players whose predictions are refreshed in the background
type WatchConfig struct {
	Players         []string
	RefreshInterval time.Duration
}

// Config holds all application configuration
type Config struct {
	SportKey      string
	DefaultSeason string
	Server        ServerConfig
	Redis         RedisConfig
	Database      DatabaseConfig
	Stats         StatsConfig
	Model         ModelConfig
	Watch         WatchConfig
}

// fileConfig is the optional YAML overlay. Only fields set in the file apply.
type fileConfig struct {
	Season string `yaml:"season"`
	Watch  struct {
		Players         []string `yaml:"players"`
		RefreshInterval string   `yaml:"refresh_interval"`
	} `yaml:"watch"`
	Model struct {
		MinGames     int     `yaml:"min_games"`
		TestFraction float64 `yaml:"test_fraction"`
		Seed         *int64  `yaml:"seed"`
		NumTrees     int     `yaml:"num_trees"`
		MaxDepth     int     `yaml:"max_depth"`
	} `yaml:"model"`
}

// LoadConfig loads configuration from environment variables, then applies
// the YAML file named by CONFIG_FILE if set
func LoadConfig() (*Config, error) {
	cfg := &Config{
		SportKey:      getEnv("SPORT_KEY", "basketball_nba"),
		DefaultSeason: getEnv("DEFAULT_SEASON", "2023-24"),
		Server: ServerConfig{
			Addr:           getEnv("SERVER_ADDR", ":8086"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6380"),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DATABASE_DRIVER", "sqlite"),
			DSN:    getEnv("DATABASE_URL", "./points_predictor.db"),
		},
		Stats: StatsConfig{
			BaseURL:   getEnv("NBA_STATS_BASE_URL", "https://stats.nba.com/stats"),
			Timeout:   getEnvDuration("NBA_STATS_TIMEOUT", 15*time.Second),
			UserAgent: getEnv("NBA_STATS_USER_AGENT", "Mozilla/5.0 (compatible; FortunaBot/1.0)"),
			Referer:   getEnv("NBA_STATS_REFERER", "https://www.nba.com/"),
		},
		Model: ModelConfig{
			MinGames:     getEnvInt("MODEL_MIN_GAMES", estimator.DefaultMinRows),
			TestFraction: getEnvFloat("MODEL_TEST_FRACTION", estimator.DefaultTestFraction),
			Seed:         int64(getEnvInt("MODEL_SEED", estimator.DefaultSeed)),
			NumTrees:     getEnvInt("MODEL_NUM_TREES", estimator.DefaultNumTrees),
			MaxDepth:     getEnvInt("MODEL_MAX_DEPTH", 0),
		},
		Watch: WatchConfig{
			Players:         splitList(getEnv("WATCH_PLAYERS", "")),
			RefreshInterval: getEnvDuration("WATCH_REFRESH_INTERVAL", 30*time.Minute),
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFile overlays values from a YAML config file
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.Season != "" {
		c.DefaultSeason = fc.Season
	}
	if len(fc.Watch.Players) > 0 {
		c.Watch.Players = fc.Watch.Players
	}
	if fc.Watch.RefreshInterval != "" {
		d, err := time.ParseDuration(fc.Watch.RefreshInterval)
		if err != nil {
			return fmt.Errorf("watch.refresh_interval: %w", err)
		}
		c.Watch.RefreshInterval = d
	}
	if fc.Model.MinGames > 0 {
		c.Model.MinGames = fc.Model.MinGames
	}
	if fc.Model.TestFraction > 0 {
		c.Model.TestFraction = fc.Model.TestFraction
	}
	if fc.Model.Seed != nil {
		c.Model.Seed = *fc.Model.Seed
	}
	if fc.Model.NumTrees > 0 {
		c.Model.NumTrees = fc.Model.NumTrees
	}
	if fc.Model.MaxDepth > 0 {
		c.Model.MaxDepth = fc.Model.MaxDepth
	}

	return nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if c.Model.TestFraction <= 0 || c.Model.TestFraction >= 1 {
		return fmt.Errorf("model test fraction must be between 0 and 1, got %v", c.Model.TestFraction)
	}
	if c.Model.MinGames < estimator.DefaultMinRows {
		return fmt.Errorf("model min games must be at least %d, got %d", estimator.DefaultMinRows, c.Model.MinGames)
	}
	if c.Watch.RefreshInterval <= 0 {
		return fmt.Errorf("watch refresh interval must be positive")
	}
	return nil
}

// EstimatorOptions converts the model config to training options
func (c *Config) EstimatorOptions() estimator.Options {
	opts := estimator.DefaultOptions()
	opts.MinRows = c.Model.MinGames
	opts.TestFraction = c.Model.TestFraction
	opts.Seed = c.Model.Seed
	opts.NumTrees = c.Model.NumTrees
	opts.MaxDepth = c.Model.MaxDepth
	return opts
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// splitList splits a comma-separated value, dropping empty entries
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
