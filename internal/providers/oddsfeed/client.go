package oddsfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrQuotaExhausted is returned once the provider reports zero remaining
// requests. Callers treat it as a recoverable stop for the current run.
var ErrQuotaExhausted = errors.New("oddsfeed: request quota exhausted")

// EventOdds is one event's market data as returned by the provider's
// historical endpoint.
type EventOdds struct {
	ID           string    `json:"id"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	CommenceTime time.Time `json:"commence_time"`
	Lines        struct {
		Spread        *float64  `json:"spread"` // home perspective
		Total         *float64  `json:"total"`
		HomeMoneyline *int      `json:"home_moneyline"`
		AwayMoneyline *int      `json:"away_moneyline"`
		LastUpdate    time.Time `json:"last_update"`
	} `json:"lines"`
}

// BookOdds is one sportsbook's current prices for an event.
type BookOdds struct {
	BookKey       string    `json:"book_key"`
	Spread        *float64  `json:"spread"` // home perspective
	HomeMoneyline *int      `json:"home_moneyline"`
	AwayMoneyline *int      `json:"away_moneyline"`
	LastUpdate    time.Time `json:"last_update"`
}

// EventSplit is the provider's public betting distribution for an event,
// home-side perspective.
type EventSplit struct {
	PublicHomePct float64   `json:"public_home_pct"`
	MoneyHomePct  float64   `json:"money_home_pct"`
	TicketCount   int       `json:"ticket_count"`
	AsOf          time.Time `json:"as_of"`
}

// LiveEvent is one upcoming event's per-book market data, with the betting
// split when the provider carries one.
type LiveEvent struct {
	ID           string      `json:"id"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	CommenceTime time.Time   `json:"commence_time"`
	Books        []BookOdds  `json:"books"`
	Split        *EventSplit `json:"split,omitempty"`
}

// Client fetches historical odds over HTTP. Every request is bounded by the
// client timeout and paced by a local limiter; the provider's
// x-requests-remaining header is tracked so batch jobs can stop before
// burning the quota.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter

	mu        sync.Mutex
	remaining int
}

// New creates a provider client. requestsPerSecond paces outbound calls.
func New(baseURL, apiKey string, requestsPerSecond float64) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 8 * time.Second,
		},
		baseURL:   baseURL,
		apiKey:    apiKey,
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		remaining: -1, // unknown until the first response
	}
}

// HistoricalOdds fetches one sport's odds for a single calendar date.
func (c *Client) HistoricalOdds(ctx context.Context, sport string, day time.Time) ([]EventOdds, error) {
	if c.Remaining() == 0 {
		return nil, ErrQuotaExhausted
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v4/sports/%s/odds-history?apiKey=%s&date=%s",
		c.baseURL, sport, c.apiKey, day.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	c.trackQuota(resp)

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrQuotaExhausted
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("oddsfeed API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var events []EventOdds
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return events, nil
}

// CurrentOdds fetches one sport's upcoming events with per-book prices.
func (c *Client) CurrentOdds(ctx context.Context, sport string) ([]LiveEvent, error) {
	if c.Remaining() == 0 {
		return nil, ErrQuotaExhausted
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v4/sports/%s/odds?apiKey=%s", c.baseURL, sport, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	c.trackQuota(resp)

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrQuotaExhausted
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("oddsfeed API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var events []LiveEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return events, nil
}

func (c *Client) trackQuota(resp *http.Response) {
	header := resp.Header.Get("x-requests-remaining")
	if header == "" {
		return
	}
	if n, err := strconv.Atoi(header); err == nil {
		c.mu.Lock()
		c.remaining = n
		c.mu.Unlock()
	}
}

// Remaining returns the provider-reported remaining request quota, or -1
// when no response has been seen yet.
func (c *Client) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
