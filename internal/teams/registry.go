package teams

import (
	"sort"
	"strings"
)

// defaultAliases maps each canonical Premier League club name to the
// nicknames and short forms fans actually type. Alias sets are disjoint:
// no alias may resolve to two clubs.
var defaultAliases = map[string][]string{
	"Manchester United": {"Man U", "Man Utd", "United", "Manchester U"},
	"Manchester City":   {"Man City", "City", "MCFC"},
	"Arsenal":           {"Gunners", "Arsenal FC"},
	"Tottenham":         {"Spurs", "Tottenham Hotspur"},
	"Chelsea":           {"Blues", "Chelsea FC"},
	"Liverpool":         {"Reds", "Liverpool FC"},
	"Newcastle":         {"Magpies", "Toon", "Newcastle United"},
	"West Ham":          {"Hammers", "West Ham United"},
	"Aston Villa":       {"Villa", "AVFC"},
	"Wolves":            {"Wolverhampton Wanderers"},
	"Brighton":          {"Brighton & Hove Albion", "Seagulls"},
	"Leicester":         {"Foxes", "Leicester City"},
	"Crystal Palace":    {"Palace", "Eagles"},
	"Everton":           {"Toffees", "Everton FC"},
	"Southampton":       {"Saints"},
	"Nottingham Forest": {"Forest"},
	"Leeds":             {"Leeds United", "Whites"},
	"Burnley":           {"Clarets"},
	"Sheffield United":  {"Blades", "Sheffield"},
	"Bournemouth":       {"Cherries", "AFC Bournemouth"},
}

// Registry canonicalizes club names. It is immutable after construction and
// safe for concurrent readers.
type Registry struct {
	byAlias   map[string]string // lowercase alias or canonical name -> canonical name
	canonical []string
}

// NewRegistry builds a registry from a canonical-name -> aliases table.
func NewRegistry(aliases map[string][]string) *Registry {
	r := &Registry{byAlias: make(map[string]string)}
	for team, names := range aliases {
		r.canonical = append(r.canonical, team)
		r.byAlias[normalizeKey(team)] = team
		for _, alias := range names {
			r.byAlias[normalizeKey(alias)] = team
		}
	}
	sort.Strings(r.canonical)
	return r
}

// Default returns a registry over the built-in Premier League alias table.
func Default() *Registry {
	return NewRegistry(defaultAliases)
}

// Resolve maps an alias to its canonical club name. Resolution is total:
// unknown input comes back trimmed and underscore-joined so downstream
// lookups can still try it against the data provider.
func (r *Registry) Resolve(alias string) string {
	if team, ok := r.byAlias[normalizeKey(alias)]; ok {
		return team
	}
	return strings.Join(strings.Fields(strings.TrimSpace(alias)), "_")
}

// IsValid reports whether the name (underscores treated as spaces,
// case-insensitive) is a canonical club name or a known alias. This is the
// strict gate used before entering the booking flow.
func (r *Registry) IsValid(name string) bool {
	_, ok := r.byAlias[normalizeKey(name)]
	return ok
}

// Canonical returns the sorted canonical club names, for user-facing hints.
func (r *Registry) Canonical() []string {
	out := make([]string, len(r.canonical))
	copy(out, r.canonical)
	return out
}

func normalizeKey(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
