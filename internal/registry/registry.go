package registry

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/fortuna/services/points-predictor/pkg/contracts"
	"github.com/fortuna/services/points-predictor/pkg/models"
)

// Registry resolves player names to provider IDs.
// Each season's index is fetched once and reused.
type Registry struct {
	source contracts.StatsSource

	mu      sync.RWMutex
	players map[string]map[string]models.Player // season -> normalized name -> player
	loaded  map[string]bool
}

// New creates a new player registry backed by source
func New(source contracts.StatsSource) *Registry {
	return &Registry{
		source:  source,
		players: make(map[string]map[string]models.Player),
		loaded:  make(map[string]bool),
	}
}

// Lookup finds a player by full name, case and whitespace insensitive
func (r *Registry) Lookup(ctx context.Context, name, season string) (models.Player, error) {
	if err := r.ensureLoaded(ctx, season); err != nil {
		return models.Player{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	player, ok := r.players[season][normalizeName(name)]
	if !ok {
		return models.Player{}, fmt.Errorf("%q in %s: %w", name, season, models.ErrPlayerNotFound)
	}
	return player, nil
}

// ensureLoaded fetches the season index from the source on first use
func (r *Registry) ensureLoaded(ctx context.Context, season string) error {
	r.mu.RLock()
	loaded := r.loaded[season]
	r.mu.RUnlock()
	if loaded {
		return nil
	}

	players, err := r.source.FetchPlayers(ctx, season)
	if err != nil {
		return fmt.Errorf("loading %s players: %w", season, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := make(map[string]models.Player, len(players))
	for _, p := range players {
		idx[normalizeName(p.FullName)] = p
	}
	r.players[season] = idx
	r.loaded[season] = true

	log.Printf("[registry] Loaded %d players for %s from %s", len(players), season, r.source.GetSourceKey())
	return nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
