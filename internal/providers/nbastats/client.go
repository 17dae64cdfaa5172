package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/fortuna/services/points-predictor/pkg/models"
)

const (
	BaseURL = "https://stats.nba.com/stats"

	SeasonTypeRegular = "Regular Season"
)

// Config holds explicit client settings; nothing is read from process globals
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Referer   string
}

// Client handles stats.nba.com API requests
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	referer    string
}

// New creates a new stats.nba.com client
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; FortunaBot/1.0)"
	}
	if cfg.Referer == "" {
		cfg.Referer = "https://www.nba.com/"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		referer:   cfg.Referer,
	}
}

// GetSourceKey identifies this provider
func (c *Client) GetSourceKey() string {
	return "nba_stats"
}

// FetchPlayers fetches the league-wide player index for a season
func (c *Client) FetchPlayers(ctx context.Context, season string) ([]models.Player, error) {
	q := url.Values{}
	q.Set("LeagueID", "00")
	q.Set("Season", season)
	q.Set("IsOnlyCurrentSeason", "0")

	rs, err := c.fetch(ctx, "commonallplayers", q)
	if err != nil {
		return nil, err
	}

	return parsePlayers(rs)
}

// FetchGameLog fetches a player's regular-season game log, earliest game first
func (c *Client) FetchGameLog(ctx context.Context, playerID int, season string) ([]models.GameRecord, error) {
	q := url.Values{}
	q.Set("PlayerID", fmt.Sprintf("%d", playerID))
	q.Set("Season", season)
	q.Set("SeasonType", SeasonTypeRegular)

	rs, err := c.fetch(ctx, "playergamelog", q)
	if err != nil {
		return nil, err
	}

	games, err := parseGameLog(rs)
	if err != nil {
		return nil, err
	}

	// The endpoint returns newest first
	if allDated(games) {
		sort.SliceStable(games, func(i, j int) bool {
			return games[i].GameDate.Before(games[j].GameDate)
		})
	} else {
		for i, j := 0, len(games)-1; i < j; i, j = i+1, j-1 {
			games[i], games[j] = games[j], games[i]
		}
	}

	return games, nil
}

// fetch makes an HTTP GET request and returns the first result set
func (c *Client) fetch(ctx context.Context, endpoint string, query url.Values) (*resultSet, error) {
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Referer", c.referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("NBA stats API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(result.ResultSets) == 0 {
		return nil, fmt.Errorf("%s: no result sets in response", endpoint)
	}

	return &result.ResultSets[0], nil
}
