package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/services/points-predictor/internal/pipeline"
	"github.com/fortuna/services/points-predictor/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// PredictionService is what the HTTP layer needs from the service
type PredictionService interface {
	PredictPlayer(ctx context.Context, name, season string) (*models.Prediction, error)
	PredictGames(records []models.GameRecord) (*pipeline.Result, error)
	LatestPrediction(ctx context.Context, name, season string) (*models.Prediction, error)
	SeasonAverages(ctx context.Context, name, season string) (*models.SeasonAverages, error)
	Compare(ctx context.Context, names []string, season string) (*models.Comparison, error)
	History(ctx context.Context, name, season string, limit int) ([]models.Prediction, error)
}

// MaxRequestBytes bounds the POST /api/v1/predict body
const MaxRequestBytes = 1 << 20

// Handler contains dependencies for HTTP handlers
type Handler struct {
	svc PredictionService
}

// NewHandler creates a new handler
func NewHandler(svc PredictionService) *Handler {
	return &Handler{svc: svc}
}

// PredictRequest is the body of POST /api/v1/predict
type PredictRequest struct {
	Games []models.GameRecord `json:"games"`
}

// averagesResponse adds display rows to season averages
type averagesResponse struct {
	*models.SeasonAverages
	DisplayStats []models.DisplayStat `json:"display_stats"`
}

// Router builds the chi router with middleware and routes
func Router(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/predict", h.PredictGames)
		r.Get("/compare", h.Compare)
		r.Get("/players/{name}/prediction", h.PredictPlayer)
		r.Get("/players/{name}/prediction/latest", h.LatestPrediction)
		r.Get("/players/{name}/predictions", h.History)
		r.Get("/players/{name}/averages", h.SeasonAverages)
	})

	return r
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "points-predictor",
	})
}

// PredictPlayer predicts a named player's next-game points
func (h *Handler) PredictPlayer(w http.ResponseWriter, r *http.Request) {
	name, ok := playerName(w, r)
	if !ok {
		return
	}

	pred, err := h.svc.PredictPlayer(r.Context(), name, r.URL.Query().Get("season"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pred)
}

// PredictGames runs the pipeline on a game log supplied in the request body
func (h *Handler) PredictGames(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBytes)

	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	result, err := h.svc.PredictGames(req.Games)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// LatestPrediction returns the last cached prediction without retraining
func (h *Handler) LatestPrediction(w http.ResponseWriter, r *http.Request) {
	name, ok := playerName(w, r)
	if !ok {
		return
	}

	pred, err := h.svc.LatestPrediction(r.Context(), name, r.URL.Query().Get("season"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pred)
}

// SeasonAverages returns a player's PPG, RPG, APG and FG% for a season
func (h *Handler) SeasonAverages(w http.ResponseWriter, r *http.Request) {
	name, ok := playerName(w, r)
	if !ok {
		return
	}

	avg, err := h.svc.SeasonAverages(r.Context(), name, r.URL.Query().Get("season"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, averagesResponse{
		SeasonAverages: avg,
		DisplayStats:   avg.ToDisplayStats(),
	})
}

// Compare returns season averages for a comma-separated list of players
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var names []string
	for _, n := range strings.Split(r.URL.Query().Get("players"), ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		respondError(w, http.StatusBadRequest, "players query parameter is required")
		return
	}

	cmp, err := h.svc.Compare(r.Context(), names, r.URL.Query().Get("season"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cmp)
}

// History returns stored predictions for a player
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	name, ok := playerName(w, r)
	if !ok {
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 500 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	history, err := h.svc.History(r.Context(), name, r.URL.Query().Get("season"), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"player":      name,
		"predictions": history,
	})
}

// playerName extracts the {name} path parameter
func playerName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || strings.TrimSpace(name) == "" {
		respondError(w, http.StatusBadRequest, "invalid player name")
		return "", false
	}
	return name, true
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrPlayerNotFound), errors.Is(err, models.ErrPredictionNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientData), errors.Is(err, models.ErrDegenerateInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInvalidState):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func respondServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		log.Printf("[handlers] %d: %v", status, err)
	}
	respondError(w, status, err.Error())
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
