package detector

import (
	"fmt"
	"math"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

const (
	splitTicketThreshold = 60.0 // public ticket share on one side
	splitMoneyThreshold  = 55.0 // money share on the other side
)

// SharpPublicDetector flags ticket/money divergence: the public piling
// tickets on one side while the money lands on the other, implying fewer,
// larger sharp wagers.
type SharpPublicDetector struct{}

func NewSharpPublicDetector() *SharpPublicDetector { return &SharpPublicDetector{} }

func (d *SharpPublicDetector) Type() models.AlertType { return models.AlertTypeSharpPublic }

func (d *SharpPublicDetector) Detect(state models.MarketState) *models.EdgeAlert {
	if state.Split == nil {
		return nil
	}

	tickets := state.Split.PublicHomePct
	money := state.Split.MoneyHomePct

	var publicSide, sharpSide models.BetSide
	var publicDominance, moneyDominance float64

	switch {
	case tickets >= splitTicketThreshold && (100-money) >= splitMoneyThreshold:
		publicSide, sharpSide = models.SideHome, models.SideAway
		publicDominance, moneyDominance = tickets, 100-money
	case (100-tickets) >= splitTicketThreshold && money >= splitMoneyThreshold:
		publicSide, sharpSide = models.SideAway, models.SideHome
		publicDominance, moneyDominance = 100-tickets, money
	default:
		return nil
	}

	severity := models.SeverityMinor
	switch {
	case publicDominance >= 75 && moneyDominance >= 65:
		severity = models.SeverityCritical
	case publicDominance >= 65:
		severity = models.SeverityMajor
	}

	moneyDifferential := moneyDominance - publicDominance
	ticketBonus := math.Min(float64(state.Split.TicketCount)/100.0, 15)
	confidence := clampConfidence(35 + 0.8*(publicDominance-splitTicketThreshold) + 1.2*(moneyDominance-splitMoneyThreshold) + ticketBonus)

	return &models.EdgeAlert{
		Type:          models.AlertTypeSharpPublic,
		EventID:       state.EventID,
		Sport:         state.Sport,
		Severity:      severity,
		Confidence:    confidence,
		ExpectedValue: 0.1*(publicDominance-splitTicketThreshold) + 0.1*(moneyDominance-splitMoneyThreshold),
		Title:         fmt.Sprintf("Sharp/public split: %s", eventTitle(state)),
		Description: fmt.Sprintf("%.0f%% of tickets on %s but %.0f%% of money on %s",
			publicDominance, publicSide, moneyDominance, sharpSide),
		Data: map[string]interface{}{
			"public_side":        string(publicSide),
			"sharp_side":         string(sharpSide),
			"public_pct":         publicDominance,
			"money_pct":          moneyDominance,
			"money_differential": moneyDifferential,
		},
		CreatedAt: state.AsOf,
	}
}
