package models

import "time"

// BetType classifies a recorded wager.
type BetType string

const (
	BetTypeSpread    BetType = "spread"
	BetTypeTotal     BetType = "total"
	BetTypeMoneyline BetType = "moneyline"
)

// BetSide is the side of the market a bet was placed on.
type BetSide string

const (
	SideHome  BetSide = "home"
	SideAway  BetSide = "away"
	SideOver  BetSide = "over"
	SideUnder BetSide = "under"
)

// BetRecord is a recorded wager or hypothetical pick. The CLV fields are
// attached exactly once, when a closing line becomes available; they stay
// null until then and are never synthesized from a non-closing snapshot.
type BetRecord struct {
	ID         int64     `json:"id,omitempty"`
	EventID    string    `json:"event_id"`
	Sport      string    `json:"sport"`
	BetType    BetType   `json:"bet_type"`
	Side       BetSide   `json:"side"`
	LineAtPick float64   `json:"line_at_pick"`
	OddsAtPick int       `json:"odds_at_pick"`
	PlacedAt   time.Time `json:"placed_at"`

	CLVValue        *float64 `json:"clv_value,omitempty"`
	ClosingLineUsed *float64 `json:"closing_line_used,omitempty"`
	BeatClose       *bool    `json:"beat_close,omitempty"`
}

// Graded reports whether CLV has been attached to this bet.
func (b BetRecord) Graded() bool {
	return b.CLVValue != nil
}
