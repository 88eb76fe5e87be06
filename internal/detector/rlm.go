package detector

import (
	"fmt"
	"math"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

const (
	rlmPublicThreshold = 60.0 // % of tickets on one side
	rlmMinMove         = 0.5  // points toward the public side
	rlmMajorMove       = 1.0
	rlmCriticalMove    = 2.0
)

// RLMDetector flags reverse line movement: the spread moving toward the
// publicly-bet side (making the popular side more expensive), which signals
// sharp money on the other side.
type RLMDetector struct{}

func NewRLMDetector() *RLMDetector { return &RLMDetector{} }

func (d *RLMDetector) Type() models.AlertType { return models.AlertTypeRLM }

func (d *RLMDetector) Detect(state models.MarketState) *models.EdgeAlert {
	if state.Split == nil || state.Opening == nil || state.Current == nil {
		return nil
	}
	if state.Opening.SpreadHome == nil || state.Current.SpreadHome == nil {
		return nil
	}

	pub := state.Split.PublicHomePct
	var publicSide models.BetSide
	switch {
	case pub >= rlmPublicThreshold:
		publicSide = models.SideHome
	case pub <= 100-rlmPublicThreshold:
		publicSide = models.SideAway
	default:
		return nil
	}

	move := *state.Current.SpreadHome - *state.Opening.SpreadHome

	// Toward the public side means the popular side got more expensive:
	// public on home, spreadHome shrinking; public on away, growing.
	magnitude := move
	if publicSide == models.SideHome {
		magnitude = -move
	}
	if magnitude < rlmMinMove {
		return nil
	}

	severity := models.SeverityMinor
	switch {
	case magnitude >= rlmCriticalMove:
		severity = models.SeverityCritical
	case magnitude >= rlmMajorMove:
		severity = models.SeverityMajor
	}

	publicPct := math.Max(pub, 100-pub)
	ticketBonus := math.Min(float64(state.Split.TicketCount)/100.0, 15)
	confidence := clampConfidence(40 + 18*magnitude + 0.4*(publicPct-rlmPublicThreshold) + ticketBonus)

	sharpSide := models.SideAway
	if publicSide == models.SideAway {
		sharpSide = models.SideHome
	}

	return &models.EdgeAlert{
		Type:          models.AlertTypeRLM,
		EventID:       state.EventID,
		Sport:         state.Sport,
		Severity:      severity,
		Confidence:    confidence,
		ExpectedValue: 0.8*magnitude + 0.05*(publicPct-rlmPublicThreshold),
		Title:         fmt.Sprintf("Reverse line movement: %s", eventTitle(state)),
		Description: fmt.Sprintf("%.0f%% of tickets on %s while the spread moved %.1f points against them (%.1f to %.1f); sharp money appears to be on %s",
			publicPct, publicSide, magnitude, *state.Opening.SpreadHome, *state.Current.SpreadHome, sharpSide),
		Data: map[string]interface{}{
			"public_side":    string(publicSide),
			"sharp_side":     string(sharpSide),
			"public_pct":     publicPct,
			"opening_spread": *state.Opening.SpreadHome,
			"current_spread": *state.Current.SpreadHome,
			"move_points":    magnitude,
		},
		CreatedAt: state.AsOf,
	}
}
