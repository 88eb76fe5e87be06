package grading

import (
	"fmt"

	"github.com/Rut304/Matchups-sub005/pkg/models"
	"github.com/Rut304/Matchups-sub005/pkg/oddsmath"
)

// CLVResult is the closing-line-value grade for one bet. Value is signed so
// that positive always means the bettor obtained better value than the
// closing line: points for spread/total bets, percentage points of implied
// probability for moneyline bets.
type CLVResult struct {
	Value       float64
	ClosingLine float64 // the closing number used, in the bettor's perspective
	BeatClose   bool
}

// SpreadCLV computes CLV for a spread bet. closingSpreadHome is the closing
// line from the home perspective; for an away bet the closing number is
// mirrored (-closingSpreadHome). In either perspective the bettor wants the
// larger handicap, so CLV is pick minus close.
func SpreadCLV(side models.BetSide, lineAtPick, closingSpreadHome float64) (CLVResult, error) {
	var closing float64
	switch side {
	case models.SideHome:
		closing = closingSpreadHome
	case models.SideAway:
		closing = -closingSpreadHome
	default:
		return CLVResult{}, fmt.Errorf("invalid spread side %q", side)
	}

	value := lineAtPick - closing
	return CLVResult{Value: value, ClosingLine: closing, BeatClose: value > 0}, nil
}

// TotalCLV computes CLV for a totals bet. A lower number is better for an
// over bet, a higher number for an under bet.
func TotalCLV(side models.BetSide, lineAtPick, closingTotal float64) (CLVResult, error) {
	var value float64
	switch side {
	case models.SideOver:
		value = closingTotal - lineAtPick
	case models.SideUnder:
		value = lineAtPick - closingTotal
	default:
		return CLVResult{}, fmt.Errorf("invalid total side %q", side)
	}

	return CLVResult{Value: value, ClosingLine: closingTotal, BeatClose: value > 0}, nil
}

// MoneylineCLV computes CLV for a moneyline bet as the implied-probability
// difference in percentage points. Positive means the bettor locked a
// higher-paying price than the market eventually settled at.
func MoneylineCLV(oddsAtPick, closingOdds int) (CLVResult, error) {
	pickProb, err := oddsmath.ImpliedProbability(oddsAtPick)
	if err != nil {
		return CLVResult{}, fmt.Errorf("pick odds: %w", err)
	}

	closeProb, err := oddsmath.ImpliedProbability(closingOdds)
	if err != nil {
		return CLVResult{}, fmt.Errorf("closing odds: %w", err)
	}

	value := (closeProb - pickProb) * 100.0
	return CLVResult{Value: value, ClosingLine: float64(closingOdds), BeatClose: value > 0}, nil
}

// BetCLV grades one bet against its event's closing snapshot. A missing
// closing number for the bet's market returns an error and the bet stays
// ungraded - a value is never synthesized from an opening or non-closing
// snapshot.
func BetCLV(bet models.BetRecord, closing models.LineSnapshot) (CLVResult, error) {
	if !closing.IsClosing {
		return CLVResult{}, fmt.Errorf("snapshot %d for event %s is not a closing line", closing.ID, closing.EventID)
	}

	switch bet.BetType {
	case models.BetTypeSpread:
		if closing.SpreadHome == nil {
			return CLVResult{}, fmt.Errorf("closing snapshot for event %s has no spread", bet.EventID)
		}
		return SpreadCLV(bet.Side, bet.LineAtPick, *closing.SpreadHome)

	case models.BetTypeTotal:
		if closing.TotalLine == nil {
			return CLVResult{}, fmt.Errorf("closing snapshot for event %s has no total", bet.EventID)
		}
		return TotalCLV(bet.Side, bet.LineAtPick, *closing.TotalLine)

	case models.BetTypeMoneyline:
		var closingOdds *int
		switch bet.Side {
		case models.SideHome:
			closingOdds = closing.MoneylineHome
		case models.SideAway:
			closingOdds = closing.MoneylineAway
		default:
			return CLVResult{}, fmt.Errorf("invalid moneyline side %q", bet.Side)
		}
		if closingOdds == nil {
			return CLVResult{}, fmt.Errorf("closing snapshot for event %s has no %s moneyline", bet.EventID, bet.Side)
		}
		return MoneylineCLV(bet.OddsAtPick, *closingOdds)

	default:
		return CLVResult{}, fmt.Errorf("unknown bet type %q", bet.BetType)
	}
}
