package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fortuna/services/points-predictor/internal/cache"
	"github.com/fortuna/services/points-predictor/internal/estimator"
	"github.com/fortuna/services/points-predictor/internal/handlers"
	"github.com/fortuna/services/points-predictor/internal/service"
	"github.com/fortuna/services/points-predictor/pkg/models"
	"github.com/redis/go-redis/v9"
)

func ptr(v float64) *float64 { return &v }

func gameLog(n int) []models.GameRecord {
	games := make([]models.GameRecord, n)
	for i := range games {
		pts := float64(15 + i%7 + i)
		games[i] = models.GameRecord{
			Points:              ptr(pts),
			FieldGoalsMade:      ptr(float64(5 + i%4)),
			FieldGoalsAttempted: ptr(float64(12 + i%6)),
			Rebounds:            ptr(float64(4 + i%3)),
			Assists:             ptr(float64(3 + i%5)),
			Steals:              ptr(float64(i % 2)),
			Blocks:              ptr(float64(i % 3)),
			Turnovers:           ptr(float64(1 + i%3)),
		}
	}
	return games
}

// MockSource implements contracts.StatsSource for testing
type MockSource struct{}

func (m *MockSource) GetSourceKey() string { return "mock" }

func (m *MockSource) FetchPlayers(ctx context.Context, season string) ([]models.Player, error) {
	return []models.Player{
		{ID: 1628983, FullName: "Shai Gilgeous-Alexander"},
		{ID: 1641705, FullName: "Victor Wembanyama"},
	}, nil
}

func (m *MockSource) FetchGameLog(ctx context.Context, playerID int, season string) ([]models.GameRecord, error) {
	if playerID == 1641705 {
		return gameLog(4), nil
	}
	return gameLog(30), nil
}

func setupRouter() http.Handler {
	svc := service.New(service.Options{
		Source:        &MockSource{},
		Estimator:     estimator.DefaultOptions(),
		DefaultSeason: "2023-24",
	})
	return handlers.Router(handlers.NewHandler(svc), []string{"http://localhost:3000"})
}

func doRequest(t *testing.T, router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := doRequest(t, setupRouter(), http.MethodGet, "/health", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", resp["status"])
	}
}

func TestPredictPlayer(t *testing.T) {
	router := setupRouter()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"known player", "/api/v1/players/Shai%20Gilgeous-Alexander/prediction", http.StatusOK},
		{"lowercase name", "/api/v1/players/shai%20gilgeous-alexander/prediction?season=2023-24", http.StatusOK},
		{"unknown player", "/api/v1/players/Bill%20Russell/prediction", http.StatusNotFound},
		{"too few games", "/api/v1/players/Victor%20Wembanyama/prediction", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, tt.path, nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if w.Code != http.StatusOK {
				return
			}

			var pred models.Prediction
			if err := json.NewDecoder(w.Body).Decode(&pred); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if pred.PlayerID != 1628983 || pred.Games != 30 || pred.TestSize != 6 {
				t.Errorf("Unexpected prediction: %+v", pred)
			}
			if pred.MeanSquaredErr < 0 {
				t.Errorf("Expected non-negative mse, got %v", pred.MeanSquaredErr)
			}
		})
	}
}

func TestPredictGames(t *testing.T) {
	router := setupRouter()

	valid, _ := json.Marshal(handlers.PredictRequest{Games: gameLog(12)})

	missing := gameLog(12)
	missing[4].Turnovers = nil
	missingBody, _ := json.Marshal(handlers.PredictRequest{Games: missing})

	constant := gameLog(12)
	for i := range constant {
		constant[i].Steals = ptr(1)
	}
	constantBody, _ := json.Marshal(handlers.PredictRequest{Games: constant})

	shortBody, _ := json.Marshal(handlers.PredictRequest{Games: gameLog(9)})

	longBody, _ := json.Marshal(handlers.PredictRequest{Games: gameLog(service.MaxSuppliedGames + 1)})

	// Whitespace is valid JSON, so only the size limit can reject this
	oversized := []byte(`{"games": [` + strings.Repeat(" ", handlers.MaxRequestBytes) + `]}`)

	tests := []struct {
		name       string
		body       []byte
		wantStatus int
	}{
		{"valid log", valid, http.StatusOK},
		{"missing field", missingBody, http.StatusBadRequest},
		{"constant column", constantBody, http.StatusUnprocessableEntity},
		{"too short", shortBody, http.StatusUnprocessableEntity},
		{"malformed json", []byte(`{"games": [`), http.StatusBadRequest},
		{"empty log", []byte(`{"games": []}`), http.StatusBadRequest},
		{"too many games", longBody, http.StatusBadRequest},
		{"oversized body", oversized, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/api/v1/predict", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}

	w := doRequest(t, router, http.MethodPost, "/api/v1/predict", valid)
	var result struct {
		Games     int               `json:"games"`
		TrainSize int               `json:"train_size"`
		TestSize  int               `json:"test_size"`
		Input     models.FeatureRow `json:"input"`
	}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Games != 12 || result.TrainSize != 9 || result.TestSize != 3 || result.Input.GameIndex != 13 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestSeasonAverages(t *testing.T) {
	w := doRequest(t, setupRouter(), http.MethodGet, "/api/v1/players/Victor%20Wembanyama/averages", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		PlayerName   string               `json:"player_name"`
		GamesPlayed  int                  `json:"games_played"`
		PPG          float64              `json:"ppg"`
		DisplayStats []models.DisplayStat `json:"display_stats"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// Points 15, 17, 19, 21
	if resp.PlayerName != "Victor Wembanyama" || resp.GamesPlayed != 4 || resp.PPG != 18 {
		t.Errorf("Unexpected averages: %+v", resp)
	}
	if len(resp.DisplayStats) != 5 {
		t.Errorf("Expected 5 display stats, got %d", len(resp.DisplayStats))
	}
}

func TestCompare(t *testing.T) {
	router := setupRouter()

	w := doRequest(t, router, http.MethodGet, "/api/v1/compare?players=Shai%20Gilgeous-Alexander,Bill%20Russell,Victor%20Wembanyama", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var cmp models.Comparison
	if err := json.NewDecoder(w.Body).Decode(&cmp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(cmp.Players) != 2 || len(cmp.NotFound) != 1 || cmp.NotFound[0] != "Bill Russell" {
		t.Errorf("Unexpected comparison: %+v", cmp)
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/compare", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without players, got %d", w.Code)
	}
}

func TestHistoryLimitValidation(t *testing.T) {
	router := setupRouter()

	tests := []struct {
		query      string
		wantStatus int
	}{
		{"", http.StatusOK},
		{"?limit=5", http.StatusOK},
		{"?limit=0", http.StatusBadRequest},
		{"?limit=abc", http.StatusBadRequest},
		{"?limit=1000", http.StatusBadRequest},
	}

	for _, tt := range tests {
		w := doRequest(t, router, http.MethodGet, "/api/v1/players/Victor%20Wembanyama/predictions"+tt.query, nil)
		if w.Code != tt.wantStatus {
			t.Errorf("limit %q: expected status %d, got %d", tt.query, tt.wantStatus, w.Code)
		}
	}
}

func TestLatestPrediction(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	svc := service.New(service.Options{
		Source:        &MockSource{},
		Cache:         cache.NewRedisWriter(client),
		Estimator:     estimator.DefaultOptions(),
		DefaultSeason: "2023-24",
	})
	router := handlers.Router(handlers.NewHandler(svc), []string{"http://localhost:3000"})

	latestPath := "/api/v1/players/Shai%20Gilgeous-Alexander/prediction/latest"

	w := doRequest(t, router, http.MethodGet, latestPath, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404 before any prediction, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/players/Shai%20Gilgeous-Alexander/prediction", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var fresh models.Prediction
	if err := json.NewDecoder(w.Body).Decode(&fresh); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	w = doRequest(t, router, http.MethodGet, latestPath, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var latest models.Prediction
	if err := json.NewDecoder(w.Body).Decode(&latest); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if latest.ID != fresh.ID || latest.PredictedPoints != fresh.PredictedPoints {
		t.Errorf("Expected cached prediction %s, got %+v", fresh.ID, latest)
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/players/Bill%20Russell/prediction/latest", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown player, got %d", w.Code)
	}
}

func TestHistoryIsEmptyArray(t *testing.T) {
	w := doRequest(t, setupRouter(), http.MethodGet, "/api/v1/players/Victor%20Wembanyama/predictions?season=2022-23", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"predictions":[]`) {
		t.Errorf("Expected an empty predictions array, got %s", w.Body.String())
	}
}
