package grading

import (
	"math"
	"testing"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func TestSpreadCLVSigns(t *testing.T) {
	tests := []struct {
		name    string
		side    models.BetSide
		pick    float64
		closing float64 // home perspective
		want    float64
	}{
		// Bettor picked home -3, line closed -5: +2 points of value.
		{"home beat close", models.SideHome, -3, -5, 2},
		// Bettor picked home -5, line closed -3: took the worse number.
		{"home worse than close", models.SideHome, -5, -3, -2},
		{"home exactly close", models.SideHome, -3, -3, 0},
		// Away bet at +3.5 with home closing -3 (away close +3): +0.5.
		{"away beat close", models.SideAway, 3.5, -3, 0.5},
		{"away worse than close", models.SideAway, 2.5, -3, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := SpreadCLV(tt.side, tt.pick, tt.closing)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Value != tt.want {
				t.Errorf("SpreadCLV(%s, %v, %v) = %v, want %v", tt.side, tt.pick, tt.closing, res.Value, tt.want)
			}
			if res.BeatClose != (tt.want > 0) {
				t.Errorf("BeatClose = %v for clv %v", res.BeatClose, res.Value)
			}
		})
	}

	if _, err := SpreadCLV(models.SideOver, -3, -5); err == nil {
		t.Error("over is not a valid spread side")
	}
}

func TestTotalCLVSigns(t *testing.T) {
	tests := []struct {
		name    string
		side    models.BetSide
		pick    float64
		closing float64
		want    float64
	}{
		// A lower number secured for an over bet is better.
		{"over beat close", models.SideOver, 44.5, 46, 1.5},
		{"over worse than close", models.SideOver, 47, 46, -1},
		// A higher number secured for an under bet is better.
		{"under beat close", models.SideUnder, 47.5, 46, 1.5},
		{"under worse than close", models.SideUnder, 45, 46, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := TotalCLV(tt.side, tt.pick, tt.closing)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Value != tt.want {
				t.Errorf("TotalCLV(%s, %v, %v) = %v, want %v", tt.side, tt.pick, tt.closing, res.Value, tt.want)
			}
		})
	}
}

func TestMoneylineCLV(t *testing.T) {
	// Picked +150 (40% implied), closed -110 (52.38%): bettor got the far
	// better price, +12.38 percentage points.
	res, err := MoneylineCLV(150, -110)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.Value-12.38) > 0.01 {
		t.Errorf("MoneylineCLV(+150, -110) = %v, want ~12.38", res.Value)
	}
	if !res.BeatClose {
		t.Error("expected BeatClose for positive CLV")
	}

	// Picked -120 (54.55%), closed +100 (50%): worse price, negative CLV.
	res, err = MoneylineCLV(-120, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.Value-(-4.55)) > 0.01 {
		t.Errorf("MoneylineCLV(-120, +100) = %v, want ~-4.55", res.Value)
	}
}

func TestBetCLV(t *testing.T) {
	closing := models.LineSnapshot{
		EventID:       "evt-1",
		CapturedAt:    time.Now(),
		SpreadHome:    f(-3),
		TotalLine:     f(46),
		MoneylineHome: i(-150),
		MoneylineAway: i(130),
		IsClosing:     true,
	}

	// End-to-end scenario: home pick at -5 against a -3 close is two points
	// worse than the market.
	bet := models.BetRecord{EventID: "evt-1", BetType: models.BetTypeSpread, Side: models.SideHome, LineAtPick: -5}
	res, err := BetCLV(bet, closing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value != -2 {
		t.Errorf("clv = %v, want -2", res.Value)
	}
	if res.BeatClose {
		t.Error("a worse number must not count as beating the close")
	}

	// A non-closing snapshot must never be used.
	notClosing := closing
	notClosing.IsClosing = false
	if _, err := BetCLV(bet, notClosing); err == nil {
		t.Error("expected error grading against a non-closing snapshot")
	}

	// Missing market data leaves the bet ungraded.
	noSpread := closing
	noSpread.SpreadHome = nil
	if _, err := BetCLV(bet, noSpread); err == nil {
		t.Error("expected error when closing snapshot has no spread")
	}

	mlBet := models.BetRecord{EventID: "evt-1", BetType: models.BetTypeMoneyline, Side: models.SideAway, OddsAtPick: 150}
	res, err = BetCLV(mlBet, closing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Picked +150 (40%), away closed +130 (43.48%): +3.48 points.
	if math.Abs(res.Value-3.48) > 0.01 {
		t.Errorf("moneyline clv = %v, want ~3.48", res.Value)
	}
}
