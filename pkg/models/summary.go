package models

import "time"

// JobSummary is the operator-facing outcome of one batch-job run. Failures
// in this subsystem surface as reduced counts here, not as user errors.
type JobSummary struct {
	Job        string    `json:"job"`
	Sport      string    `json:"sport,omitempty"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Unmatched  int       `json:"unmatched"`
	Errors     int       `json:"errors"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// CLVBucket is one row of the per-bet-type CLV aggregate served by the API.
type CLVBucket struct {
	BetType       BetType `json:"bet_type"`
	Count         int     `json:"count"`
	AvgCLV        float64 `json:"avg_clv"`
	BeatCloseRate float64 `json:"beat_close_rate"` // 0-1
}
