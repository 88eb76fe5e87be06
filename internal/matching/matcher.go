package matching

import (
	"strings"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// Matcher pairs a reference event (e.g. a final-results row) with the best
// candidate from a second source (e.g. the odds feed) whose team-naming
// conventions and calendar dates may disagree.
type Matcher struct {
	aliases *AliasTable
	byDay   map[string][]models.EventRecord
}

// Match is a resolved pairing. Reversed means the candidate's home/away are
// swapped relative to the reference; callers must negate any home-relative
// line fields before using the candidate's markets.
type Match struct {
	Candidate models.EventRecord
	Reversed  bool
}

// NewMatcher indexes candidate records by calendar day.
func NewMatcher(candidates []models.EventRecord, aliases *AliasTable) *Matcher {
	m := &Matcher{
		aliases: aliases,
		byDay:   make(map[string][]models.EventRecord),
	}
	for _, c := range candidates {
		key := c.DayKey()
		m.byDay[key] = append(m.byDay[key], c)
	}
	return m
}

// Match finds the candidate representing the same real-world event as ref,
// or nil. Same-day candidates are tried first; only when the reference date
// has no candidates at all does the search widen to the adjacent days
// (UTC/local day-boundary skew around midnight kickoffs).
func (m *Matcher) Match(ref models.EventRecord) *Match {
	pool := m.byDay[ref.DayKey()]
	if len(pool) == 0 {
		for _, offset := range []int{-1, 1} {
			day := ref.EventDate.AddDate(0, 0, offset).Format("2006-01-02")
			pool = append(pool, m.byDay[day]...)
		}
	}

	// Straight orientation wins over a reversed one.
	for _, c := range pool {
		if m.TeamsMatch(ref.HomeTeamName, c.HomeTeamName) && m.TeamsMatch(ref.AwayTeamName, c.AwayTeamName) {
			return &Match{Candidate: c}
		}
	}
	for _, c := range pool {
		if m.TeamsMatch(ref.HomeTeamName, c.AwayTeamName) && m.TeamsMatch(ref.AwayTeamName, c.HomeTeamName) {
			return &Match{Candidate: c, Reversed: true}
		}
	}

	return nil
}

// TeamsMatch reports whether two team names refer to the same team:
// exact (case-insensitive, trimmed), containment in either direction, a
// shared final token longer than 3 characters ("LA Rams" / "Los Angeles
// Rams"), or membership in the same alias group.
func (m *Matcher) TeamsMatch(x, y string) bool {
	a := normalizeName(x)
	b := normalizeName(y)
	if a == "" || b == "" {
		return false
	}

	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	if lastToken(a) == lastToken(b) && len(lastToken(a)) > 3 {
		return true
	}

	return m.aliases.SameGroup(x, y)
}

func lastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// exhibitionMarkers flag events with no sensible spread semantics. Callers
// must filter these out before matching.
var exhibitionMarkers = []string{
	"all-star",
	"all star",
	"all stars",
	"pro bowl",
	"rising stars",
	"team lebron",
	"team giannis",
}

// exhibitionNames are conference-label "teams" that only appear in
// exhibition events.
var exhibitionNames = map[string]bool{
	"afc":  true,
	"nfc":  true,
	"east": true,
	"west": true,
}

// IsExhibition detects all-star and similar exhibition events by team-name
// substrings and conference labels.
func IsExhibition(homeTeam, awayTeam string) bool {
	for _, name := range []string{normalizeName(homeTeam), normalizeName(awayTeam)} {
		if exhibitionNames[name] {
			return true
		}
		for _, marker := range exhibitionMarkers {
			if strings.Contains(name, marker) {
				return true
			}
		}
	}
	return false
}

// WindowAround returns the inclusive [day-1, day+1] bounds used when
// selecting candidates for a date-windowed fetch.
func WindowAround(day time.Time) (time.Time, time.Time) {
	return day.AddDate(0, 0, -1), day.AddDate(0, 0, 1)
}
