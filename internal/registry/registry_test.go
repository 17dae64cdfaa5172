package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/fortuna/services/points-predictor/pkg/models"
)

type fakeSource struct {
	players []models.Player
	calls   int
	err     error
}

func (f *fakeSource) GetSourceKey() string { return "fake" }

func (f *fakeSource) FetchPlayers(ctx context.Context, season string) ([]models.Player, error) {
	f.calls++
	return f.players, f.err
}

func (f *fakeSource) FetchGameLog(ctx context.Context, playerID int, season string) ([]models.GameRecord, error) {
	return nil, nil
}

func TestLookup(t *testing.T) {
	src := &fakeSource{players: []models.Player{
		{ID: 203999, FullName: "Nikola Jokic"},
		{ID: 2544, FullName: "LeBron James"},
	}}
	reg := New(src)

	tests := []struct {
		name    string
		query   string
		wantID  int
		wantErr error
	}{
		{"exact", "Nikola Jokic", 203999, nil},
		{"case insensitive", "lebron james", 2544, nil},
		{"extra whitespace", "  LeBron   James ", 2544, nil},
		{"unknown", "Wilt Chamberlain", 0, models.ErrPlayerNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := reg.Lookup(context.Background(), tt.query, "2023-24")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Lookup(%q) error = %v, want %v", tt.query, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q) unexpected error: %v", tt.query, err)
			}
			if p.ID != tt.wantID {
				t.Errorf("Lookup(%q).ID = %d, want %d", tt.query, p.ID, tt.wantID)
			}
		})
	}

	if src.calls != 1 {
		t.Errorf("source fetched %d times, want 1", src.calls)
	}
}

func TestLookupSourceFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	reg := New(src)

	if _, err := reg.Lookup(context.Background(), "Anyone", "2023-24"); err == nil || errors.Is(err, models.ErrPlayerNotFound) {
		t.Fatalf("Lookup() error = %v, want source failure", err)
	}

	// A failed load is retried on the next lookup
	src.err = nil
	src.players = []models.Player{{ID: 1, FullName: "Anyone"}}
	if _, err := reg.Lookup(context.Background(), "Anyone", "2023-24"); err != nil {
		t.Fatalf("Lookup() after recovery: %v", err)
	}
}
