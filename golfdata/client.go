package golfdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the live golf data API on RapidAPI.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	apiHost    string
	logger     *slog.Logger
}

func NewClient(baseURL, apiKey, apiHost string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		apiHost:    apiHost,
		logger:     logger,
	}
}

// TournamentInfo fetches the tournament header record.
func (c *Client) TournamentInfo(ctx context.Context, orgID, tournID string, year int) (*TournamentInfo, error) {
	q := url.Values{}
	q.Set("orgId", orgID)
	q.Set("tournId", tournID)
	q.Set("year", strconv.Itoa(year))

	var info TournamentInfo
	if err := c.get(ctx, "/tournament", q, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Leaderboard fetches the current tournament leaderboard.
func (c *Client) Leaderboard(ctx context.Context, orgID, tournID string, year int) (*Leaderboard, error) {
	q := url.Values{}
	q.Set("orgId", orgID)
	q.Set("tournId", tournID)
	q.Set("year", strconv.Itoa(year))

	var lb Leaderboard
	if err := c.get(ctx, "/leaderboard", q, &lb); err != nil {
		return nil, err
	}
	return &lb, nil
}

// PlayerScorecards fetches all of a player's round scorecards for a
// tournament.
func (c *Client) PlayerScorecards(ctx context.Context, orgID, tournID string, year int, playerID string) ([]Scorecard, error) {
	q := url.Values{}
	q.Set("orgId", orgID)
	q.Set("tournId", tournID)
	q.Set("year", strconv.Itoa(year))
	q.Set("playerId", playerID)

	var cards []Scorecard
	if err := c.get(ctx, "/scorecard", q, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	u := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("golf data request",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: unexpected status %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
