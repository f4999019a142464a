// Package dialogue is the turn-based controller: it routes each utterance
// to an intent, drives the ticket-booking state machine, and renders every
// outcome as a user-facing reply. No failure escapes a turn; the worst case
// is a re-prompt the user can always escape with "cancel".
package dialogue

import (
	"context"
	"strings"

	"github.com/wezza-dev/prembot/internal/extract"
	"github.com/wezza-dev/prembot/internal/llm"
	"github.com/wezza-dev/prembot/internal/models"
	"github.com/wezza-dev/prembot/internal/sportsdata"
	"github.com/wezza-dev/prembot/internal/teams"
)

// FixtureService is the slice of the sports-data API the dialogue consumes.
type FixtureService interface {
	SearchEvents(ctx context.Context, team1, team2, season string, queryType models.QueryType) ([]sportsdata.Match, error)
	TeamID(ctx context.Context, teamName string) (string, error)
	NextFixture(ctx context.Context, teamID string) (*sportsdata.Match, error)
	LastFixture(ctx context.Context, teamID string) (*sportsdata.Match, error)
}

// ProfileStore persists user profiles across turns.
type ProfileStore interface {
	LoadProfile(ctx context.Context, name string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
}

// Manager owns DialogueSession mutation. One turn is processed to
// completion before the next is accepted; sessions are never shared
// between goroutines.
type Manager struct {
	registry   *teams.Registry
	extractor  *extract.Extractor
	classifier llm.Classifier
	fixtures   FixtureService
	profiles   ProfileStore
}

func NewManager(registry *teams.Registry, classifier llm.Classifier, fixtures FixtureService, profiles ProfileStore) *Manager {
	return &Manager{
		registry:   registry,
		extractor:  extract.New(registry),
		classifier: classifier,
		fixtures:   fixtures,
		profiles:   profiles,
	}
}

const cancelReply = "Transaction cancelled. Let me know if you need help with anything else!"

// HandleTurn processes one utterance and mutates the session in place.
func (m *Manager) HandleTurn(ctx context.Context, sess *models.DialogueSession, raw string) string {
	cleaned := extract.Clean(raw)

	// The cancel guard fires before any state-specific logic, including
	// mid-booking, and is idempotent on an already-empty session.
	if cleaned == "cancel" || cleaned == "exit" {
		sess.Clear()
		return cancelReply
	}

	if sess.Active() {
		return m.advanceTask(ctx, sess, cleaned)
	}

	if reply, ok := smallTalk(cleaned); ok {
		return reply
	}

	return m.dispatch(ctx, sess, cleaned)
}

func (m *Manager) dispatch(ctx context.Context, sess *models.DialogueSession, cleaned string) string {
	// Literal high-confidence overrides beat the classifier.
	switch {
	case strings.Contains(cleaned, "what is my name"):
		sess.CurrentIntent = models.IntentUserInfo
		return m.handleUserInfo(ctx, sess)
	case extract.IntroducedName(cleaned) != "":
		sess.CurrentIntent = models.IntentIntroduceName
		return m.handleIntroduceName(ctx, sess, cleaned)
	case containsWord(cleaned, "our") || containsWord(cleaned, "we"):
		return m.handlePossessive(ctx, sess, cleaned)
	}

	intent, err := m.classifier.ClassifyIntent(ctx, cleaned)
	if err != nil || !intent.Known() {
		intent = models.IntentUnrecognized
	}
	sess.CurrentIntent = intent

	switch intent {
	case models.IntentBookTicket:
		return m.startBooking(ctx, sess, cleaned)
	case models.IntentIntroduceName:
		return m.handleIntroduceName(ctx, sess, cleaned)
	case models.IntentUserInfo:
		return m.handleUserInfo(ctx, sess)
	case models.IntentNextFixture:
		return m.handleNextFixture(ctx, cleaned)
	case models.IntentLastFixture:
		return m.handleLastFixture(ctx, cleaned)
	case models.IntentCurrentSeason, models.IntentPastSeason:
		return m.handleSeasonQuery(ctx, cleaned, extract.QueryType(cleaned))
	case models.IntentAmbiguousQuery:
		return "Do you want recent results, upcoming fixtures, or ticket information? Please specify so I can assist you better."
	case models.IntentOutOfScope:
		return "I can't provide player stats or unrelated information. Try asking about match results, fixtures, or ticket bookings. How can I assist you?"
	}
	return helpMessage()
}

// handlePossessive resolves "our"/"we" references through the stored
// favourite team, then classifies by keyword presence.
func (m *Manager) handlePossessive(ctx context.Context, sess *models.DialogueSession, cleaned string) string {
	var profile *models.UserProfile
	if sess.UserName != "" {
		profile, _ = m.profiles.LoadProfile(ctx, sess.UserName)
	}
	if profile == nil || profile.FavouriteTeam == "" {
		sess.CurrentIntent = models.IntentUserInfo
		return "I don't know who 'our' refers to yet. Tell me your name with 'My name is ...' and your favourite team, then ask again."
	}

	team := strings.ToLower(profile.FavouriteTeam)
	substituted := replaceWord(replaceWord(cleaned, "our", team), "we", team)

	switch {
	case containsWord(substituted, "next") || containsWord(substituted, "upcoming"):
		sess.CurrentIntent = models.IntentNextFixture
		return m.handleNextFixture(ctx, substituted)
	case containsWord(substituted, "last") || containsWord(substituted, "previous"):
		sess.CurrentIntent = models.IntentLastFixture
		return m.handleLastFixture(ctx, substituted)
	}
	sess.CurrentIntent = models.IntentAmbiguousQuery
	return "Do you want recent results, upcoming fixtures, or ticket information for " + profile.FavouriteTeam + "? Please specify so I can assist you better."
}

func helpMessage() string {
	return "I can assist with match results, fixtures, and ticket bookings. Try asking:\n" +
		"  - 'Brighton vs Manchester United'\n" +
		"  - 'Book tickets for Chelsea vs Wolves'\n" +
		"  - 'When does Liverpool play next?'"
}

// displayName turns a composite team key back into a readable club name.
func displayName(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

func underscore(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

func containsWord(text, word string) bool {
	for _, field := range strings.Fields(text) {
		if field == word {
			return true
		}
	}
	return false
}

func hasAnyWord(text string, words ...string) bool {
	for _, word := range words {
		if containsWord(text, word) {
			return true
		}
	}
	return false
}

func replaceWord(text, word, replacement string) string {
	fields := strings.Fields(text)
	for i, field := range fields {
		if field == word {
			fields[i] = replacement
		}
	}
	return strings.Join(fields, " ")
}
