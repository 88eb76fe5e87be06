package detector

import (
	"testing"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// bookHistory builds ascending observations for one book: a spread at the
// start of the window and one near the end.
func bookHistory(book string, from, to float64, asOf time.Time) []models.BookLine {
	return []models.BookLine{
		{BookKey: book, SpreadHome: fp(from), CapturedAt: asOf.Add(-14 * time.Minute)},
		{BookKey: book, SpreadHome: fp(to), CapturedAt: asOf.Add(-time.Minute)},
	}
}

func steamState(asOf time.Time, books ...[]models.BookLine) models.MarketState {
	state := models.MarketState{
		EventID:  "evt-1",
		Sport:    "basketball_nba",
		HomeTeam: "Boston Celtics",
		AwayTeam: "Miami Heat",
		AsOf:     asOf,
	}
	var all []models.BookLine
	for _, b := range books {
		all = append(all, b...)
	}
	// interleave in capture order
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].CapturedAt.Before(all[i].CapturedAt) {
				all[i], all[j] = all[j], all[i]
			}
		}
	}
	state.Books = all
	return state
}

func TestSteamDetect(t *testing.T) {
	now := time.Now()

	// Three books dropping the spread 1.5 within the window.
	state := steamState(now,
		bookHistory("book_a", -4, -5.5, now),
		bookHistory("book_b", -4, -5.5, now),
		bookHistory("book_c", -4.5, -6, now),
	)

	alert := NewSteamDetector().Detect(state)
	if alert == nil {
		t.Fatal("expected steam alert")
	}
	if alert.Severity != models.SeverityMajor {
		t.Errorf("severity = %s, want major for 1.5 point move", alert.Severity)
	}
	if alert.ExpiresAt == nil {
		t.Fatal("steam alerts must expire")
	}
	if got := alert.ExpiresAt.Sub(now); got != time.Hour {
		t.Errorf("expiry = %v, want 1h", got)
	}
}

func TestSteamNeedsThreeBooks(t *testing.T) {
	now := time.Now()
	state := steamState(now,
		bookHistory("book_a", -4, -5.5, now),
		bookHistory("book_b", -4, -5.5, now),
	)
	if NewSteamDetector().Detect(state) != nil {
		t.Error("two books is not steam")
	}
}

func TestSteamNeedsAgreementOnDirection(t *testing.T) {
	now := time.Now()
	state := steamState(now,
		bookHistory("book_a", -4, -5.5, now),
		bookHistory("book_b", -4, -5.5, now),
		bookHistory("book_c", -4, -2.5, now), // moving the other way
	)
	if NewSteamDetector().Detect(state) != nil {
		t.Error("disagreeing books must not trigger steam")
	}
}

func TestSteamIgnoresMovesOutsideWindow(t *testing.T) {
	now := time.Now()
	old := func(book string) []models.BookLine {
		return []models.BookLine{
			{BookKey: book, SpreadHome: fp(-4), CapturedAt: now.Add(-2 * time.Hour)},
			{BookKey: book, SpreadHome: fp(-5.5), CapturedAt: now.Add(-90 * time.Minute)},
		}
	}
	state := steamState(now, old("book_a"), old("book_b"), old("book_c"))
	if NewSteamDetector().Detect(state) != nil {
		t.Error("slow moves outside the window are not steam")
	}
}

func TestSteamCriticalMagnitude(t *testing.T) {
	now := time.Now()
	state := steamState(now,
		bookHistory("book_a", -3, -5.5, now),
		bookHistory("book_b", -3, -6, now),
		bookHistory("book_c", -3, -5.5, now),
	)
	alert := NewSteamDetector().Detect(state)
	if alert == nil {
		t.Fatal("expected steam alert")
	}
	if alert.Severity != models.SeverityCritical {
		t.Errorf("severity = %s, want critical for >=2.5 point move", alert.Severity)
	}
}
