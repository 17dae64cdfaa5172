package poller

import (
	"context"
	"log"
	"sync"
	"time"
)

// Orchestrator manages pollers for all watched players
type Orchestrator struct {
	predictor PlayerPredictor
	players   []string
	season    string
	interval  time.Duration
	pollers   map[string]*PlayerPoller
}

// NewOrchestrator creates a new polling orchestrator
func NewOrchestrator(predictor PlayerPredictor, players []string, season string, interval time.Duration) *Orchestrator {
	return &Orchestrator{
		predictor: predictor,
		players:   players,
		season:    season,
		interval:  interval,
		pollers:   make(map[string]*PlayerPoller),
	}
}

// Start launches a poller per watched player and blocks until ctx is done
func (o *Orchestrator) Start(ctx context.Context) {
	var wg sync.WaitGroup

	log.Printf("Starting pollers for %d watched players", len(o.players))

	for _, player := range o.players {
		if _, dup := o.pollers[player]; dup {
			continue
		}

		poller := NewPlayerPoller(player, o.season, o.interval, o.predictor)
		o.pollers[player] = poller

		wg.Add(1)
		go func(p *PlayerPoller) {
			defer wg.Done()
			p.Run(ctx)
		}(poller)

		log.Printf("Started poller for %s", player)
	}

	wg.Wait()
	log.Println("All pollers stopped")
}
