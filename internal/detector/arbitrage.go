package detector

import (
	"fmt"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
	"github.com/Rut304/Matchups-sub005/pkg/oddsmath"
)

const (
	arbMajorPct    = 1.5
	arbCriticalPct = 3.0
	arbExpiry      = 30 * time.Minute
)

// ArbitrageDetector looks for moneyline prices across books whose implied
// probabilities sum below 100%, a guaranteed profit if both sides are taken.
type ArbitrageDetector struct{}

func NewArbitrageDetector() *ArbitrageDetector { return &ArbitrageDetector{} }

func (d *ArbitrageDetector) Type() models.AlertType { return models.AlertTypeArbitrage }

func (d *ArbitrageDetector) Detect(state models.MarketState) *models.EdgeAlert {
	// Latest observation per book.
	latest := make(map[string]models.BookLine)
	for _, line := range state.Books { // ascending capture order
		latest[line.BookKey] = line
	}
	if len(latest) < 2 {
		return nil
	}

	// Best (highest-paying, lowest-implied) price on each side.
	var homeBook, awayBook string
	var homeOdds, awayOdds int
	homeProb, awayProb := 2.0, 2.0

	for book, line := range latest {
		if line.MoneylineHome != nil {
			if p, err := oddsmath.ImpliedProbability(*line.MoneylineHome); err == nil && p < homeProb {
				homeProb, homeOdds, homeBook = p, *line.MoneylineHome, book
			}
		}
		if line.MoneylineAway != nil {
			if p, err := oddsmath.ImpliedProbability(*line.MoneylineAway); err == nil && p < awayProb {
				awayProb, awayOdds, awayBook = p, *line.MoneylineAway, book
			}
		}
	}
	if homeBook == "" || awayBook == "" {
		return nil
	}

	isArb, margin, err := oddsmath.ArbitrageMargin(homeOdds, awayOdds)
	if err != nil || !isArb {
		return nil
	}

	severity := models.SeverityMinor
	switch {
	case margin >= arbCriticalPct:
		severity = models.SeverityCritical
	case margin >= arbMajorPct:
		severity = models.SeverityMajor
	}

	expires := state.AsOf.Add(arbExpiry)

	return &models.EdgeAlert{
		Type:     models.AlertTypeArbitrage,
		EventID:  state.EventID,
		Sport:    state.Sport,
		Severity: severity,
		// Mathematical certainty given accurate odds, so confidence is
		// pinned rather than blended.
		Confidence:    99,
		ExpectedValue: margin,
		Title:         fmt.Sprintf("Arbitrage: %s", eventTitle(state)),
		Description: fmt.Sprintf("%.2f%% guaranteed margin: %s %+d at %s vs %s %+d at %s",
			margin, state.HomeTeam, homeOdds, homeBook, state.AwayTeam, awayOdds, awayBook),
		Data: map[string]interface{}{
			"home_book":    homeBook,
			"home_odds":    homeOdds,
			"away_book":    awayBook,
			"away_odds":    awayOdds,
			"combined_pct": (homeProb + awayProb) * 100,
			"margin_pct":   margin,
		},
		CreatedAt: state.AsOf,
		ExpiresAt: &expires,
	}
}
