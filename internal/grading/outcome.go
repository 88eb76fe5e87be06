package grading

import "github.com/Rut304/Matchups-sub005/pkg/models"

// SpreadResult grades a spread market from final scores. spreadHome is
// signed from the home team's perspective: negative means home is favored.
// Both the backfill path and live grading call this same function - the two
// paths must never diverge on rounding or sign conventions.
func SpreadResult(homeScore, awayScore int, spreadHome float64) models.SpreadOutcome {
	adjustedHome := float64(homeScore) + spreadHome

	switch {
	case adjustedHome > float64(awayScore):
		return models.SpreadHomeCover
	case adjustedHome < float64(awayScore):
		return models.SpreadAwayCover
	default:
		return models.SpreadPush
	}
}

// TotalResult grades a totals market from final scores.
func TotalResult(homeScore, awayScore int, totalLine float64) models.TotalOutcome {
	total := float64(homeScore + awayScore)

	switch {
	case total > totalLine:
		return models.TotalOver
	case total < totalLine:
		return models.TotalUnder
	default:
		return models.TotalPush
	}
}
