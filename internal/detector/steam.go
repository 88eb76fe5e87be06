package detector

import (
	"fmt"
	"math"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

const (
	steamWindow       = 15 * time.Minute
	steamMinMove      = 1.0
	steamMajorMove    = 1.5
	steamCriticalMove = 2.5
	steamMinBooks     = 3
	steamExpiry       = time.Hour // steam signal value decays fast
)

// SteamDetector flags fast synchronized spread moves across independent
// books, implying coordinated sharp action.
type SteamDetector struct{}

func NewSteamDetector() *SteamDetector { return &SteamDetector{} }

func (d *SteamDetector) Type() models.AlertType { return models.AlertTypeSteam }

func (d *SteamDetector) Detect(state models.MarketState) *models.EdgeAlert {
	if len(state.Books) == 0 {
		return nil
	}

	// Per-book spread move completed inside the window: first vs last
	// observation captured within the last steamWindow.
	type bookMove struct {
		book  string
		delta float64
	}

	cutoff := state.AsOf.Add(-steamWindow)
	firstIn := make(map[string]float64)
	lastIn := make(map[string]float64)
	order := make([]string, 0)

	for _, line := range state.Books { // ascending capture order
		if line.SpreadHome == nil || line.CapturedAt.Before(cutoff) {
			continue
		}
		if _, seen := firstIn[line.BookKey]; !seen {
			firstIn[line.BookKey] = *line.SpreadHome
			order = append(order, line.BookKey)
		}
		lastIn[line.BookKey] = *line.SpreadHome
	}

	var moves []bookMove
	for _, book := range order {
		delta := lastIn[book] - firstIn[book]
		if math.Abs(delta) >= steamMinMove {
			moves = append(moves, bookMove{book: book, delta: delta})
		}
	}

	// The move must point the same direction at every qualifying book.
	var down, up []bookMove
	for _, m := range moves {
		if m.delta < 0 {
			down = append(down, m)
		} else {
			up = append(up, m)
		}
	}
	steam := down
	if len(up) > len(down) {
		steam = up
	}
	if len(steam) < steamMinBooks {
		return nil
	}

	var sum float64
	books := make([]string, 0, len(steam))
	for _, m := range steam {
		sum += math.Abs(m.delta)
		books = append(books, m.book)
	}
	magnitude := sum / float64(len(steam))

	severity := models.SeverityMinor
	switch {
	case magnitude >= steamCriticalMove:
		severity = models.SeverityCritical
	case magnitude >= steamMajorMove:
		severity = models.SeverityMajor
	}

	confidence := clampConfidence(50 + 12*magnitude + 5*float64(len(steam)-steamMinBooks))
	expires := state.AsOf.Add(steamExpiry)

	direction := "toward the home side"
	if steam[0].delta > 0 {
		direction = "toward the away side"
	}

	return &models.EdgeAlert{
		Type:          models.AlertTypeSteam,
		EventID:       state.EventID,
		Sport:         state.Sport,
		Severity:      severity,
		Confidence:    confidence,
		ExpectedValue: 0.7 * magnitude,
		Title:         fmt.Sprintf("Steam move: %s", eventTitle(state)),
		Description: fmt.Sprintf("%d books moved the spread %.1f points %s within %d minutes",
			len(steam), magnitude, direction, int(steamWindow.Minutes())),
		Data: map[string]interface{}{
			"books":          books,
			"avg_move":       magnitude,
			"window_minutes": int(steamWindow.Minutes()),
		},
		CreatedAt: state.AsOf,
		ExpiresAt: &expires,
	}
}
