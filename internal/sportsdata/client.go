// Package sportsdata is a thin client for TheSportsDB JSON API: event
// search between two teams, team id lookup, and next/last fixture by id.
package sportsdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/wezza-dev/prembot/internal/models"
)

// ScoreUnavailable is the sentinel used when the API has no score yet.
const ScoreUnavailable = "N/A"

var (
	ErrTeamNotFound = errors.New("TEAM_NOT_FOUND")
	ErrNoFixtures   = errors.New("NO_FIXTURES")
	ErrNoEvents     = errors.New("NO_EVENTS")
)

// Match is one fixture or result as consumed by the dialogue manager.
type Match struct {
	HomeTeam  string
	AwayTeam  string
	League    string
	Date      string // "2006-01-02"
	Time      string
	Venue     string
	HomeScore string
	AwayScore string
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// SearchEvents finds matches between two teams (underscore-joined names).
// Both orderings of the event name are queried, results are merged and
// sorted by date descending, then sliced by query type: past returns the
// second-most-recent record, future the most recent, both the top two —
// or everything when a season was specified.
func (c *Client) SearchEvents(ctx context.Context, team1, team2, season string, queryType models.QueryType) ([]Match, error) {
	eventName := team1 + "_vs_" + team2
	flippedName := team2 + "_vs_" + team1

	events, err := c.fetchEvents(ctx, eventName, season)
	if err != nil {
		return nil, err
	}
	flipped, err := c.fetchEvents(ctx, flippedName, season)
	if err != nil {
		return nil, err
	}
	events = append(events, flipped...)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date > events[j].Date
	})

	switch queryType {
	case models.QueryPast:
		// Skip the most recent record: it is the upcoming fixture.
		if len(events) >= 2 {
			events = events[1:2]
		} else {
			events = nil
		}
	case models.QueryFuture:
		if len(events) >= 1 {
			events = events[:1]
		}
	default:
		if season == "" && len(events) > 2 {
			events = events[:2]
		}
	}

	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	return events, nil
}

// TeamID resolves a club name to the provider's team id.
func (c *Client) TeamID(ctx context.Context, teamName string) (string, error) {
	var payload struct {
		Teams []struct {
			IDTeam string `json:"idTeam"`
		} `json:"teams"`
	}
	params := url.Values{"t": {strings.ReplaceAll(teamName, "_", " ")}}
	if err := c.get(ctx, "searchteams.php", params, &payload); err != nil {
		return "", err
	}
	if len(payload.Teams) == 0 || payload.Teams[0].IDTeam == "" {
		return "", ErrTeamNotFound
	}
	return payload.Teams[0].IDTeam, nil
}

// NextFixture returns the next scheduled match for a team id.
func (c *Client) NextFixture(ctx context.Context, teamID string) (*Match, error) {
	var payload struct {
		Events []apiEvent `json:"events"`
	}
	if err := c.get(ctx, "eventsnext.php", url.Values{"id": {teamID}}, &payload); err != nil {
		return nil, err
	}
	if len(payload.Events) == 0 {
		return nil, ErrNoFixtures
	}
	match := payload.Events[0].toMatch()
	return &match, nil
}

// LastFixture returns the most recently played match for a team id.
func (c *Client) LastFixture(ctx context.Context, teamID string) (*Match, error) {
	var payload struct {
		Results []apiEvent `json:"results"`
	}
	if err := c.get(ctx, "eventslast.php", url.Values{"id": {teamID}}, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, ErrNoFixtures
	}
	match := payload.Results[0].toMatch()
	return &match, nil
}

func (c *Client) fetchEvents(ctx context.Context, eventName, season string) ([]Match, error) {
	var payload struct {
		Event []apiEvent `json:"event"`
	}
	params := url.Values{"e": {eventName}}
	if season != "" {
		params.Set("s", season)
	}
	if err := c.get(ctx, "searchevents.php", params, &payload); err != nil {
		return nil, err
	}
	matches := make([]Match, 0, len(payload.Event))
	for _, e := range payload.Event {
		matches = append(matches, e.toMatch())
	}
	return matches, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, v any) error {
	u := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, c.apiKey, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sportsdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sportsdb status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode sportsdb response: %w", err)
	}
	return nil
}

// apiEvent mirrors the provider's event shape. Score fields arrive as
// strings, numbers, or null depending on whether the match was played.
type apiEvent struct {
	StrHomeTeam  string          `json:"strHomeTeam"`
	StrAwayTeam  string          `json:"strAwayTeam"`
	StrLeague    string          `json:"strLeague"`
	DateEvent    string          `json:"dateEvent"`
	StrTime      string          `json:"strTime"`
	StrVenue     string          `json:"strVenue"`
	IntHomeScore json.RawMessage `json:"intHomeScore"`
	IntAwayScore json.RawMessage `json:"intAwayScore"`
}

func (e apiEvent) toMatch() Match {
	return Match{
		HomeTeam:  e.StrHomeTeam,
		AwayTeam:  e.StrAwayTeam,
		League:    e.StrLeague,
		Date:      e.DateEvent,
		Time:      e.StrTime,
		Venue:     e.StrVenue,
		HomeScore: scoreString(e.IntHomeScore),
		AwayScore: scoreString(e.IntAwayScore),
	}
}

func scoreString(raw json.RawMessage) string {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return ScoreUnavailable
	}
	return s
}
