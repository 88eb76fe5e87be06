package matching

import "strings"

// AliasTable groups canonical team names with their known aliases. It is
// static configuration data, injected into the matcher so new aliases can be
// added without touching the matching algorithm.
type AliasTable struct {
	groupOf map[string]string // normalized name -> group key
}

// NewAliasTable builds a table from group key -> member names.
func NewAliasTable(groups map[string][]string) *AliasTable {
	t := &AliasTable{groupOf: make(map[string]string)}
	for group, names := range groups {
		for _, name := range names {
			t.groupOf[normalizeName(name)] = group
		}
	}
	return t
}

// SameGroup reports whether both names belong to the same alias group.
func (t *AliasTable) SameGroup(a, b string) bool {
	if t == nil {
		return false
	}
	groupA, okA := t.groupOf[normalizeName(a)]
	groupB, okB := t.groupOf[normalizeName(b)]
	return okA && okB && groupA == groupB
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// teamAliasGroups covers naming mismatches the last-token heuristic cannot:
// relocations, rebrands, and city short forms that differ in the nickname
// itself. Sourced from the feeds we reconcile.
var teamAliasGroups = map[string][]string{
	"washington-nfl": {
		"Washington Commanders",
		"Washington Football Team",
		"Washington Redskins",
	},
	"lv-raiders": {
		"Las Vegas Raiders",
		"Oakland Raiders",
		"LV Raiders",
	},
	"la-chargers": {
		"Los Angeles Chargers",
		"San Diego Chargers",
		"LA Chargers",
	},
	"la-rams": {
		"Los Angeles Rams",
		"St. Louis Rams",
		"LA Rams",
	},
	"cle-guardians": {
		"Cleveland Guardians",
		"Cleveland Indians",
	},
	"okc-thunder": {
		"Oklahoma City Thunder",
		"OKC Thunder",
	},
	"ny-giants": {
		"New York Giants",
		"NY Giants",
	},
	"ny-jets": {
		"New York Jets",
		"NY Jets",
	},
	"gs-warriors": {
		"Golden State Warriors",
		"GS Warriors",
	},
	"portland": {
		"Portland Trail Blazers",
		"Portland Trailblazers",
	},
}

// DefaultAliasTable returns the built-in alias table.
func DefaultAliasTable() *AliasTable {
	return NewAliasTable(teamAliasGroups)
}
