package detector

import (
	"testing"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func marketState(openSpread, currentSpread float64, split *models.BetSplit) models.MarketState {
	now := time.Now()
	return models.MarketState{
		EventID:  "evt-1",
		Sport:    "americanfootball_nfl",
		HomeTeam: "Kansas City Chiefs",
		AwayTeam: "Buffalo Bills",
		Opening:  &models.LineSnapshot{EventID: "evt-1", SpreadHome: fp(openSpread), CapturedAt: now.Add(-24 * time.Hour)},
		Current:  &models.LineSnapshot{EventID: "evt-1", SpreadHome: fp(currentSpread), CapturedAt: now.Add(-10 * time.Minute)},
		Split:    split,
		AsOf:     now,
	}
}

func TestRLMDetect(t *testing.T) {
	d := NewRLMDetector()

	tests := []struct {
		name         string
		open         float64
		current      float64
		publicHome   float64
		wantAlert    bool
		wantSeverity models.Severity
	}{
		// 65% public on home, spread -3 → -4.5: 1.5 points toward the
		// public side, major.
		{"public home line toward public", -3, -4.5, 65, true, models.SeverityMajor},
		{"public home critical move", -3, -5.5, 65, true, models.SeverityCritical},
		{"public home minor move", -3, -3.5, 65, true, models.SeverityMinor},
		// Line moving away from the public side is ordinary movement.
		{"line moves with public fade", -3, -2, 65, false, ""},
		// Symmetric: public on away (35% home), spread growing.
		{"public away line toward public", -3, -1.5, 35, true, models.SeverityMajor},
		{"no public lean", -3, -4.5, 55, false, ""},
		{"move below half point", -3, -3.25, 65, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := &models.BetSplit{EventID: "evt-1", PublicHomePct: tt.publicHome, MoneyHomePct: 50, TicketCount: 500}
			alert := d.Detect(marketState(tt.open, tt.current, split))

			if !tt.wantAlert {
				if alert != nil {
					t.Fatalf("expected no alert, got %s/%s", alert.Type, alert.Severity)
				}
				return
			}

			if alert == nil {
				t.Fatal("expected an alert")
			}
			if alert.Type != models.AlertTypeRLM {
				t.Errorf("type = %s, want rlm", alert.Type)
			}
			if alert.Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", alert.Severity, tt.wantSeverity)
			}
			if alert.Confidence <= 0 || alert.Confidence > 100 {
				t.Errorf("confidence %d out of range", alert.Confidence)
			}
		})
	}
}

func TestRLMRequiresCompleteInputs(t *testing.T) {
	d := NewRLMDetector()

	state := marketState(-3, -4.5, nil)
	if d.Detect(state) != nil {
		t.Error("missing split must not alert")
	}

	state = marketState(-3, -4.5, &models.BetSplit{PublicHomePct: 65})
	state.Opening.SpreadHome = nil
	if d.Detect(state) != nil {
		t.Error("missing opening spread must not alert")
	}
}
