package oddsmath

import (
	"fmt"
	"math"
)

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		return (float64(american) / 100.0) + 1.0, nil
	}

	return (100.0 / float64(-american)) + 1.0, nil
}

// DecimalToAmerican converts decimal odds back to American odds
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal < 1.0 {
		return 0, fmt.Errorf("invalid decimal odds: must be >= 1.0")
	}

	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}

	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// ImpliedProbability converts American odds to the probability the price
// encodes, vig included.
// -150 → 0.60, +150 → 0.40
func ImpliedProbability(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american < 0 {
		abs := float64(-american)
		return abs / (abs + 100.0), nil
	}

	return 100.0 / (float64(american) + 100.0), nil
}

// ArbitrageMargin checks whether two opposing prices form an arbitrage.
// An arbitrage exists when the implied probabilities sum below 100%; the
// returned margin is the guaranteed profit in percentage points.
func ArbitrageMargin(homeOdds, awayOdds int) (bool, float64, error) {
	homeProb, err := ImpliedProbability(homeOdds)
	if err != nil {
		return false, 0, err
	}

	awayProb, err := ImpliedProbability(awayOdds)
	if err != nil {
		return false, 0, err
	}

	combined := homeProb + awayProb
	if combined >= 1.0 {
		return false, 0, nil
	}

	return true, (1.0 - combined) * 100.0, nil
}
