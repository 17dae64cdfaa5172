package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/lib/pq"

	"github.com/fortuna/services/points-predictor/pkg/models"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS point_predictions (
	id               TEXT PRIMARY KEY,
	player_id        INTEGER NOT NULL,
	player_name      TEXT NOT NULL,
	season           TEXT NOT NULL,
	games            INTEGER NOT NULL,
	train_size       INTEGER NOT NULL,
	test_size        INTEGER NOT NULL,
	mse              DOUBLE PRECISION NOT NULL,
	predicted_points DOUBLE PRECISION NOT NULL,
	created_at       BIGINT NOT NULL -- unix milliseconds
)`

// Store persists prediction history
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database, configures the pool and creates the schema
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// One connection so in-memory databases are shared and writes serialize
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites $n placeholders for drivers that only take ?
func (s *Store) rebind(query string) string {
	if s.driver == DriverPostgres {
		return query
	}
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] == '$' && i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
			b.WriteByte('?')
			for i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
				i++
			}
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// SavePrediction records a prediction
func (s *Store) SavePrediction(ctx context.Context, p *models.Prediction) error {
	query := `
		INSERT INTO point_predictions (
			id, player_id, player_name, season, games,
			train_size, test_size, mse, predicted_points, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.ExecContext(ctx, s.rebind(query),
		p.ID,
		p.PlayerID,
		p.PlayerName,
		p.Season,
		p.Games,
		p.TrainSize,
		p.TestSize,
		p.MeanSquaredErr,
		p.PredictedPoints,
		p.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}

	return nil
}

// ListPredictions returns a player's most recent predictions, newest first
func (s *Store) ListPredictions(ctx context.Context, playerID int, limit int) ([]models.Prediction, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, player_id, player_name, season, games,
			train_size, test_size, mse, predicted_points, created_at
		FROM point_predictions
		WHERE player_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	out := []models.Prediction{}
	for rows.Next() {
		var p models.Prediction
		var createdMs int64
		if err := rows.Scan(
			&p.ID,
			&p.PlayerID,
			&p.PlayerName,
			&p.Season,
			&p.Games,
			&p.TrainSize,
			&p.TestSize,
			&p.MeanSquaredErr,
			&p.PredictedPoints,
			&createdMs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		p.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, p)
	}

	return out, rows.Err()
}
