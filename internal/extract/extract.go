// Package extract pulls structured entities out of free-text utterances:
// team references, dates and seasons, seating class, ticket counts, and
// introduced names. Extraction never fails; missing entities are returned
// as zero values so partial extraction still succeeds.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/wezza-dev/prembot/internal/models"
	"github.com/wezza-dev/prembot/internal/teams"
)

// Entities is the result of one extraction pass. At most one of Date and
// Season is populated: a bare 4-digit year collapses to a season range,
// any other recognizable date token collapses to a concrete date.
type Entities struct {
	Team1  string // canonical, underscore-joined ("Manchester_United"), "" if none
	Team2  string
	Date   string // "2006-01-02", "" if none
	Season string // "2024-2025", "" if none
}

var (
	// Connective and boilerplate vocabulary removed before team matching.
	// "play" is deliberately absent: it doubles as a team separator.
	stopwordRe = regexp.MustCompile(`(?i)\b(i want to book|book|tickets?|for|on|match|game|when|what|fixtures?|results?|did|will|were|of|does|the|show|find|recent|in|last|previous|is|was|next|me|do)\b`)

	isoDateRe     = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	compactDateRe = regexp.MustCompile(`\b\d{8}\b`)
	yearRe        = regexp.MustCompile(`\b\d{4}\b`)
	naturalDateRe = regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+[a-z]+\s+\d{4}\b`)

	connectorRe  = regexp.MustCompile(`(?i)\b(?:and|play)\b`)
	vsSplitRe    = regexp.MustCompile(`(?i)^(.+?)\s+vs\s+(.+)$`)
	danglingVsRe = regexp.MustCompile(`(?i)^(?:vs\s+)+|(?:\s+vs)+$`)

	punctRe  = regexp.MustCompile(`[^\w\s]`)
	numberRe = regexp.MustCompile(`\b\d+\b`)
	spacesRe = regexp.MustCompile(`\s+`)

	nameRe = regexp.MustCompile(`(?i)\b(?:my name is|you can call me|call me|i go by|i a?m known as|people call me|i am)\s+([a-z]+)`)
)

// Extractor canonicalizes team spans through a registry. It is stateless:
// identical input always yields identical output.
type Extractor struct {
	registry *teams.Registry
}

func New(registry *teams.Registry) *Extractor {
	return &Extractor{registry: registry}
}

// Extract runs the ordered extraction passes: stopword strip, date/season
// excision, connector normalization, and team split.
func (e *Extractor) Extract(text string) Entities {
	working := collapse(stopwordRe.ReplaceAllString(text, " "))

	var ents Entities
	if token, isYear := findDateToken(working); token != "" {
		if isYear {
			if year, err := strconv.Atoi(token); err == nil {
				ents.Season = fmt.Sprintf("%d-%d", year, year+1)
			}
		} else if parsed, err := ParseNaturalDate(token); err == nil {
			// Parse failures are swallowed: teams without a date still count.
			ents.Date = parsed.Format("2006-01-02")
		}
		working = collapse(strings.Replace(working, token, " ", 1))
	}

	// Connector words become "vs" so "Arsenal and Chelsea" and "Arsenal
	// play Chelsea" split like "Arsenal vs Chelsea". A connector left
	// dangling at either end ("brighton play next") is dropped.
	working = collapse(connectorRe.ReplaceAllString(working, "vs"))
	working = strings.TrimSpace(danglingVsRe.ReplaceAllString(working, ""))

	if m := vsSplitRe.FindStringSubmatch(working); m != nil {
		ents.Team1 = e.teamKey(m[1])
		ents.Team2 = e.teamKey(m[2])
	} else if working != "" {
		ents.Team1 = e.teamKey(working)
	}
	return ents
}

// findDateToken returns the earliest date-like token. Ties at the same
// position rank ISO date, compact 8-digit date, bare year, then natural
// phrase. The second result reports a bare-year (season) match.
func findDateToken(text string) (string, bool) {
	patterns := []*regexp.Regexp{isoDateRe, compactDateRe, yearRe, naturalDateRe}
	best, bestStart := -1, len(text)+1
	var token string
	for i, re := range patterns {
		loc := re.FindStringIndex(text)
		if loc == nil || loc[0] >= bestStart {
			continue
		}
		best, bestStart = i, loc[0]
		token = text[loc[0]:loc[1]]
	}
	return token, best == 2
}

func (e *Extractor) teamKey(span string) string {
	resolved := e.registry.Resolve(strings.TrimSpace(span))
	return strings.Join(strings.Fields(strings.ReplaceAll(resolved, "_", " ")), "_")
}

// Clean lowercases an utterance and strips punctuation, mirroring the
// preprocessing applied before classification and extraction.
func Clean(text string) string {
	return collapse(punctRe.ReplaceAllString(strings.ToLower(text), ""))
}

// SeatingType classifies an utterance as "VIP" or "regular" by substring
// containment, or "" when neither is present.
func SeatingType(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "vip"):
		return "VIP"
	case strings.Contains(lower, "regular"):
		return "regular"
	}
	return ""
}

// TicketCount extracts the first positive integer token, or 0 when none.
func TicketCount(text string) int {
	if token := numberRe.FindString(text); token != "" {
		if n, err := strconv.Atoi(token); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// IntroducedName extracts the name from an introduction phrase such as
// "my name is Wesley" or "call me Alice", or "" when none is present.
func IntroducedName(text string) string {
	if m := nameRe.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

// QueryType derives the past/future refinement from retrospective versus
// prospective phrasing.
func QueryType(text string) models.QueryType {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "when did"):
		return models.QueryPast
	case strings.Contains(lower, "when will"):
		return models.QueryFuture
	}
	return models.QueryBoth
}

func collapse(text string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(text, " "))
}
