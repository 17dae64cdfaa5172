package models

import "time"

// Prediction is the output of one next-game points prediction
type Prediction struct {
	ID              string    `json:"id"`
	PlayerID        int       `json:"player_id"`
	PlayerName      string    `json:"player_name"`
	Season          string    `json:"season"` // "2023-24"
	Games           int       `json:"games"`
	TrainSize       int       `json:"train_size"`
	TestSize        int       `json:"test_size"`
	MeanSquaredErr  float64   `json:"mse"`
	PredictedPoints float64   `json:"predicted_points"`
	CreatedAt       time.Time `json:"created_at"`
}
