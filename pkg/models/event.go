package models

import "time"

// SpreadOutcome is the three-valued result of a spread bet market.
type SpreadOutcome string

const (
	SpreadHomeCover SpreadOutcome = "home_cover"
	SpreadAwayCover SpreadOutcome = "away_cover"
	SpreadPush      SpreadOutcome = "push"
)

// TotalOutcome is the three-valued result of a totals market.
type TotalOutcome string

const (
	TotalOver  TotalOutcome = "over"
	TotalUnder TotalOutcome = "under"
	TotalPush  TotalOutcome = "push"
)

// EventRecord is one sporting event as known to a single source.
// Records from different sources describing the same real-world event are
// never merged in storage - they are paired at query time by the matcher.
type EventRecord struct {
	ID           int64     `json:"id,omitempty"`
	Source       string    `json:"source"`
	SourceID     string    `json:"source_id"`
	Sport        string    `json:"sport"`
	HomeTeamName string    `json:"home_team"`
	AwayTeamName string    `json:"away_team"`
	EventDate    time.Time `json:"event_date"` // calendar day, source-local
	HomeScore    *int      `json:"home_score,omitempty"`
	AwayScore    *int      `json:"away_score,omitempty"`

	// Derived results, written once scores are final and a line is known
	SpreadResult *SpreadOutcome `json:"spread_result,omitempty"`
	TotalResult  *TotalOutcome  `json:"total_result,omitempty"`
}

// HasFinalScore reports whether both scores are present.
func (e EventRecord) HasFinalScore() bool {
	return e.HomeScore != nil && e.AwayScore != nil
}

// DayKey returns the calendar-day index key for the event date.
func (e EventRecord) DayKey() string {
	return e.EventDate.Format("2006-01-02")
}
