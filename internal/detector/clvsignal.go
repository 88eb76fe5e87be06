package detector

import (
	"fmt"
	"math"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

const (
	clvSignalMinValue   = 1.0 // points (spread/total) or prob points (moneyline)
	clvSignalMajorValue = 3.0
)

// CLVSignal flags a freshly graded bet whose closing-line value is large
// enough to be informative. It consumes graded bets rather than market
// state, so it runs in the grading job rather than the scan engine.
func CLVSignal(bet models.BetRecord, now time.Time) *models.EdgeAlert {
	if bet.CLVValue == nil || bet.ClosingLineUsed == nil {
		return nil
	}

	value := *bet.CLVValue
	if math.Abs(value) < clvSignalMinValue {
		return nil
	}

	severity := models.SeverityInfo
	if math.Abs(value) >= clvSignalMajorValue {
		severity = models.SeverityMinor
	}

	verdict := "beat"
	if value < 0 {
		verdict = "missed"
	}

	return &models.EdgeAlert{
		Type:          models.AlertTypeCLV,
		EventID:       bet.EventID,
		Sport:         bet.Sport,
		Severity:      severity,
		Confidence:    clampConfidence(60 + 8*math.Abs(value)),
		ExpectedValue: value,
		Title:         fmt.Sprintf("CLV %s on %s %s", verdict, bet.BetType, bet.Side),
		Description: fmt.Sprintf("pick %.1f at %+d %s the closing number %.1f by %.2f",
			bet.LineAtPick, bet.OddsAtPick, verdict, *bet.ClosingLineUsed, math.Abs(value)),
		Data: map[string]interface{}{
			"bet_id":       bet.ID,
			"bet_type":     string(bet.BetType),
			"side":         string(bet.Side),
			"line_at_pick": bet.LineAtPick,
			"closing_line": *bet.ClosingLineUsed,
			"clv_value":    value,
		},
		CreatedAt: now,
	}
}
