package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/wezza-dev/prembot/internal/extract"
	"github.com/wezza-dev/prembot/internal/models"
)

// handleIntroduceName greets a returning user or starts the favourite-team
// follow-up for a new one.
func (m *Manager) handleIntroduceName(ctx context.Context, sess *models.DialogueSession, cleaned string) string {
	name := extract.IntroducedName(cleaned)
	if name == "" {
		return "I didn't catch your name. Try 'My name is Alex'."
	}

	sess.UserName = name
	profile, err := m.profiles.LoadProfile(ctx, name)
	if err == nil && profile != nil {
		return fmt.Sprintf("Welcome back, %s!", name)
	}

	sess.PendingTask = models.TaskAskFavouriteTeam
	return fmt.Sprintf("Nice to meet you, %s! What is your favourite team?", name)
}

// handleFavouriteTeam validates and stores the club a new user supports.
func (m *Manager) handleFavouriteTeam(ctx context.Context, sess *models.DialogueSession, cleaned string) string {
	if !m.registry.IsValid(cleaned) {
		return "Please specify a valid Premier League team from the following: " +
			strings.Join(m.registry.Canonical(), ", ")
	}

	team := m.registry.Resolve(cleaned)
	profile := &models.UserProfile{Name: sess.UserName, FavouriteTeam: team}
	if err := m.profiles.SaveProfile(ctx, profile); err != nil {
		return "I couldn't save that right now. Please tell me your favourite team again."
	}

	sess.PendingTask = models.TaskNone
	return fmt.Sprintf("Got it. You are now a fan of %s. You can now ask:\n"+
		"  - 'When does %s play next?'\n"+
		"  - 'Show me %s match results.'\n"+
		"  - 'Book tickets for %s next match.'", team, team, team, team)
}

func (m *Manager) handleUserInfo(ctx context.Context, sess *models.DialogueSession) string {
	if sess.UserName == "" {
		return "I don't know your name yet. Please tell me by saying 'My name is [Your Name]'."
	}

	favourite := "unknown"
	if profile, err := m.profiles.LoadProfile(ctx, sess.UserName); err == nil && profile != nil {
		favourite = profile.FavouriteTeam
	}
	return fmt.Sprintf("Your name is %s, and your favourite team is %s.", sess.UserName, favourite)
}

func (m *Manager) handleNextFixture(ctx context.Context, cleaned string) string {
	ents := m.extractor.Extract(cleaned)
	if ents.Team1 == "" {
		return "I couldn't identify a team. Please specify a valid team name like 'Arsenal' or 'Chelsea'."
	}
	display := displayName(ents.Team1)

	teamID, err := m.fixtures.TeamID(ctx, display)
	if err != nil {
		return fmt.Sprintf("Sorry, I couldn't find the team ID for %s. Please check the team name.", display)
	}

	next, err := m.fixtures.NextFixture(ctx, teamID)
	if err != nil {
		return fmt.Sprintf("Sorry, I couldn't find any upcoming fixtures for %s.", display)
	}

	return fmt.Sprintf("%s's next fixture is against %s in the %s. It's being played at %s on %s at %s.\n"+
		"By the way, I can also help you find %s's last match. Try 'When was %s last game?'.",
		next.HomeTeam, next.AwayTeam, next.League, next.Venue, next.Date, next.Time,
		next.HomeTeam, next.HomeTeam)
}

func (m *Manager) handleLastFixture(ctx context.Context, cleaned string) string {
	ents := m.extractor.Extract(cleaned)
	if ents.Team1 == "" {
		return "I couldn't identify a team. Please specify a valid team name like 'Arsenal' or 'Chelsea'."
	}
	display := displayName(ents.Team1)

	teamID, err := m.fixtures.TeamID(ctx, display)
	if err != nil {
		return fmt.Sprintf("Sorry, I couldn't find the team ID for %s. Please check the team name.", display)
	}

	last, err := m.fixtures.LastFixture(ctx, teamID)
	if err != nil {
		return fmt.Sprintf("Sorry, I couldn't find any recent results for %s.", display)
	}

	return fmt.Sprintf("%s last played %s on %s at %s and the score was %s - %s.\n"+
		"By the way, I can also help you find %s's upcoming game. Try 'When is %s next game?'.",
		last.HomeTeam, last.AwayTeam, last.Date, last.Time, last.HomeScore, last.AwayScore,
		last.HomeTeam, last.HomeTeam)
}

// handleSeasonQuery answers two-team result/fixture queries, optionally
// scoped to a season.
func (m *Manager) handleSeasonQuery(ctx context.Context, cleaned string, queryType models.QueryType) string {
	ents := m.extractor.Extract(cleaned)
	if ents.Team1 == "" || ents.Team2 == "" {
		return helpMessage()
	}
	if !m.registry.IsValid(ents.Team1) {
		return fmt.Sprintf("I didn't catch the first team '%s'. Please specify a valid Premier League team from the following: %s",
			displayName(ents.Team1), strings.Join(m.registry.Canonical(), ", "))
	}
	if !m.registry.IsValid(ents.Team2) {
		return fmt.Sprintf("I didn't catch the second team '%s'. Please specify a valid Premier League team from the following: %s",
			displayName(ents.Team2), strings.Join(m.registry.Canonical(), ", "))
	}

	matches, err := m.fixtures.SearchEvents(ctx, ents.Team1, ents.Team2, ents.Season, queryType)
	if err != nil || len(matches) == 0 {
		scope := "the current season"
		if ents.Season != "" {
			scope = ents.Season
		}
		return fmt.Sprintf("No matches found for %s vs %s in %s.",
			displayName(ents.Team1), displayName(ents.Team2), scope)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are the results for %s vs %s:\n", displayName(ents.Team1), displayName(ents.Team2))
	for _, match := range matches {
		fmt.Fprintf(&b, "- %s: %s vs %s, score %s - %s, at %s (%s)\n",
			match.Date, match.HomeTeam, match.AwayTeam,
			match.HomeScore, match.AwayScore, match.Venue, match.League)
	}
	return strings.TrimRight(b.String(), "\n")
}
