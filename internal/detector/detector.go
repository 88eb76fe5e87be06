package detector

import "github.com/Rut304/Matchups-sub005/pkg/models"

// Detector analyzes one event's market state and returns an alert or nil.
// Detectors are pure: no I/O, no mutation of prior alerts. A new qualifying
// condition always produces a fresh alert that supersedes the old one
// downstream.
type Detector interface {
	Type() models.AlertType
	Detect(state models.MarketState) *models.EdgeAlert
}

// clampConfidence bounds a heuristic confidence score to 0-100. Confidence
// is blended from signal magnitude and data quantity; it is not a
// calibrated probability.
func clampConfidence(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

func eventTitle(state models.MarketState) string {
	return state.AwayTeam + " @ " + state.HomeTeam
}
