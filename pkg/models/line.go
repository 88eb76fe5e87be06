package models

import "time"

// LineSnapshot is one observation of an event's market at a point in time.
// Snapshots are append-only; is_closing is the only mutable field and is set
// exactly once by the closing-line resolver.
type LineSnapshot struct {
	ID            int64     `json:"id,omitempty"`
	EventID       string    `json:"event_id"`
	CapturedAt    time.Time `json:"captured_at"`
	SpreadHome    *float64  `json:"spread_home,omitempty"`
	TotalLine     *float64  `json:"total_line,omitempty"`
	MoneylineHome *int      `json:"moneyline_home,omitempty"`
	MoneylineAway *int      `json:"moneyline_away,omitempty"`
	IsClosing     bool      `json:"is_closing"`
}

// BookLine is a per-sportsbook observation of an event's prices, used by the
// steam and arbitrage detectors.
type BookLine struct {
	BookKey       string    `json:"book_key"`
	SpreadHome    *float64  `json:"spread_home,omitempty"`
	MoneylineHome *int      `json:"moneyline_home,omitempty"`
	MoneylineAway *int      `json:"moneyline_away,omitempty"`
	CapturedAt    time.Time `json:"captured_at"`
}

// BetSplit holds public betting distribution for one event, home-side
// perspective (away share is the complement).
type BetSplit struct {
	EventID       string    `json:"event_id"`
	Sport         string    `json:"sport"`
	PublicHomePct float64   `json:"public_home_pct"` // ticket share on home, 0-100
	MoneyHomePct  float64   `json:"money_home_pct"`  // money share on home, 0-100
	TicketCount   int       `json:"ticket_count"`
	CapturedAt    time.Time `json:"captured_at"`
}

// MarketState bundles everything the edge detectors consume for one event:
// opening and current snapshots, recent per-book history, and the latest
// betting split. Assembled by the store; detectors never touch I/O.
type MarketState struct {
	EventID  string `json:"event_id"`
	Sport    string `json:"sport"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`

	Opening *LineSnapshot `json:"opening,omitempty"`
	Current *LineSnapshot `json:"current,omitempty"`
	Split   *BetSplit     `json:"split,omitempty"`

	// Books holds recent per-book observations in ascending capture order.
	Books []BookLine `json:"books,omitempty"`

	AsOf time.Time `json:"as_of"`
}
