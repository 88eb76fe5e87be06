package detector

import (
	"testing"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

func splitState(ticketsHome, moneyHome float64) models.MarketState {
	return models.MarketState{
		EventID:  "evt-1",
		Sport:    "basketball_nba",
		HomeTeam: "Denver Nuggets",
		AwayTeam: "Phoenix Suns",
		Split: &models.BetSplit{
			EventID:       "evt-1",
			PublicHomePct: ticketsHome,
			MoneyHomePct:  moneyHome,
			TicketCount:   800,
		},
		AsOf: time.Now(),
	}
}

func TestSharpPublicDetect(t *testing.T) {
	d := NewSharpPublicDetector()

	tests := []struct {
		name         string
		tickets      float64
		money        float64
		wantAlert    bool
		wantSeverity models.Severity
		wantSharp    models.BetSide
	}{
		// 62% of tickets on home, 58% of money on away.
		{"public home sharp away", 62, 42, true, models.SeverityMinor, models.SideAway},
		{"major at 65 public", 66, 40, true, models.SeverityMajor, models.SideAway},
		{"critical split", 78, 30, true, models.SeverityCritical, models.SideAway},
		// Mirror: public away, money home.
		{"public away sharp home", 38, 56, true, models.SeverityMinor, models.SideHome},
		// Tickets and money agree: no divergence.
		{"aligned market", 70, 72, false, "", ""},
		{"no ticket lean", 55, 40, false, "", ""},
		{"money not opposed enough", 62, 48, false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := d.Detect(splitState(tt.tickets, tt.money))

			if !tt.wantAlert {
				if alert != nil {
					t.Fatalf("expected no alert, got %s", alert.Severity)
				}
				return
			}

			if alert == nil {
				t.Fatal("expected an alert")
			}
			if alert.Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", alert.Severity, tt.wantSeverity)
			}
			if got := alert.Data["sharp_side"]; got != string(tt.wantSharp) {
				t.Errorf("sharp_side = %v, want %s", got, tt.wantSharp)
			}

			// moneyDifferential = moneyDominance - publicDominance
			diff, ok := alert.Data["money_differential"].(float64)
			if !ok {
				t.Fatal("payload missing money_differential")
			}
			pub, _ := alert.Data["public_pct"].(float64)
			money, _ := alert.Data["money_pct"].(float64)
			if diff != money-pub {
				t.Errorf("money_differential = %v, want %v", diff, money-pub)
			}
		})
	}
}
