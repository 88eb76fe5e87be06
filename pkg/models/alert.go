package models

import "time"

// AlertType identifies which detector produced an alert.
type AlertType string

const (
	AlertTypeRLM         AlertType = "rlm"
	AlertTypeSteam       AlertType = "steam"
	AlertTypeCLV         AlertType = "clv"
	AlertTypeSharpPublic AlertType = "sharp-public"
	AlertTypeArbitrage   AlertType = "arbitrage"
	AlertTypeProps       AlertType = "props" // reserved, no detector behind it yet
)

// Severity ranks an alert. Ordering: info < minor < major < critical.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityInfo:     0,
	SeverityMinor:    1,
	SeverityMajor:    2,
	SeverityCritical: 3,
}

// Rank returns the numeric order of a severity. Unknown severities rank
// below info so they never pass a threshold.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether s meets or exceeds floor.
func (s Severity) AtLeast(floor Severity) bool {
	return s.Rank() >= floor.Rank()
}

// EdgeAlert is the immutable output of one detector run. Detectors never
// mutate a prior alert; a new qualifying condition produces a fresh alert
// with a new ID and timestamp that supersedes the old one downstream.
type EdgeAlert struct {
	ID            string                 `json:"id"`
	Type          AlertType              `json:"type"`
	EventID       string                 `json:"event_id"`
	Sport         string                 `json:"sport"`
	Severity      Severity               `json:"severity"`
	Confidence    int                    `json:"confidence"`     // 0-100, heuristic
	ExpectedValue float64                `json:"expected_value"` // advisory % edge
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Data          map[string]interface{} `json:"data,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	ExpiresAt     *time.Time             `json:"expires_at,omitempty"`
}

// Active reports whether the alert has not expired as of now. Alerts without
// an expiry never expire (retention is a separate concern).
func (a EdgeAlert) Active(now time.Time) bool {
	return a.ExpiresAt == nil || a.ExpiresAt.After(now)
}
