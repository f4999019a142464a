package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/wezza-dev/prembot/internal/extract"
	"github.com/wezza-dev/prembot/internal/models"
)

// startBooking enters the ticket transaction from a fresh book_ticket
// intent, fast-forwarding through any slots the opening utterance already
// filled.
func (m *Manager) startBooking(ctx context.Context, sess *models.DialogueSession, cleaned string) string {
	ents := m.extractor.Extract(cleaned)
	if ents.Team1 == "" {
		sess.PendingTask = models.TaskAskTeams
		return "Great! Which teams are you booking tickets for?"
	}
	return m.fillTeams(ctx, sess, ents)
}

// advanceTask advances the pending booking task with the new utterance.
// The switch is exhaustive over the task enum; an unknown cursor cannot be
// constructed.
func (m *Manager) advanceTask(ctx context.Context, sess *models.DialogueSession, cleaned string) string {
	switch sess.PendingTask {
	case models.TaskAskTeams:
		ents := m.extractor.Extract(cleaned)
		if ents.Team1 == "" {
			return "I couldn't identify a team. Please specify valid team names like 'Chelsea' or 'Arsenal'."
		}
		return m.fillTeams(ctx, sess, ents)

	case models.TaskAskDate:
		parsed, err := extract.ParseNaturalDate(cleaned)
		if err != nil {
			// Soft-fail retry loop: no advance, no slot mutation.
			return "I couldn't understand the date. Please provide it in a format like 'December 15, 2024' or '2024-12-15'."
		}
		sess.Date = parsed.Format("2006-01-02")
		sess.PendingTask = models.TaskAskSeating
		return fmt.Sprintf("Tickets are available for %s vs %s on %s. What seating type would you like (VIP or regular)?",
			displayName(sess.Team1), displayName(sess.Team2), sess.Date)

	case models.TaskAskSeating:
		seating := extract.SeatingType(cleaned)
		if seating == "" {
			return "Please specify a seating type (VIP or regular)."
		}
		sess.SeatingType = seating
		sess.PendingTask = models.TaskAskNumTickets
		return fmt.Sprintf("How many %s tickets would you like?", seating)

	case models.TaskAskNumTickets:
		count := extract.TicketCount(cleaned)
		if count == 0 {
			return "Please specify the number of tickets as a number."
		}
		sess.NumTickets = count
		sess.PendingTask = models.TaskConfirmBooking
		return fmt.Sprintf("Just to confirm, you want %d %s tickets for %s vs %s on %s. Is that correct?",
			count, sess.SeatingType, displayName(sess.Team1), displayName(sess.Team2), sess.Date)

	case models.TaskConfirmBooking:
		switch {
		case hasAnyWord(cleaned, "yes", "confirm"):
			sess.Clear()
			return "Great! Your booking is confirmed. You will receive your tickets via email. Enjoy the match!"
		case hasAnyWord(cleaned, "no", "cancel"):
			sess.Clear()
			return "Your booking has been cancelled."
		}
		return "Please confirm your booking by saying 'yes' or cancel by saying 'no'."

	case models.TaskConfirmNextMatch:
		switch {
		case hasAnyWord(cleaned, "yes", "confirm"):
			// Teams and date are already filled from the fixture lookup.
			sess.PendingTask = models.TaskAskSeating
			return "What seating type would you like (VIP or regular)?"
		case hasAnyWord(cleaned, "no"):
			// The auto-discovered fixture was rejected: fall back to a
			// manually supplied date.
			sess.PendingTask = models.TaskAskDate
			return "Which date is the match on?"
		}
		return "Please reply 'yes' to book this match or 'no' to pick a different date."

	case models.TaskAskFavouriteTeam:
		return m.handleFavouriteTeam(ctx, sess, cleaned)
	}

	sess.Clear()
	return "Something went wrong. Can you start over?"
}

// fillTeams handles the team slot for both the booking entry point and the
// ask_for_teams task. Validation happens before any slot mutation.
func (m *Manager) fillTeams(ctx context.Context, sess *models.DialogueSession, ents extract.Entities) string {
	if ents.Team2 == "" {
		return m.fillFromNextFixture(ctx, sess, ents.Team1)
	}

	if !m.registry.IsValid(ents.Team1) {
		return m.rejectTeam(sess, ents.Team1)
	}
	if !m.registry.IsValid(ents.Team2) {
		return m.rejectTeam(sess, ents.Team2)
	}

	sess.Team1 = ents.Team1
	sess.Team2 = ents.Team2

	if ents.Date != "" {
		sess.Date = ents.Date
		sess.PendingTask = models.TaskAskSeating
		return fmt.Sprintf("Tickets are available for %s vs %s on %s. What seating type would you like (VIP or regular)?",
			displayName(sess.Team1), displayName(sess.Team2), sess.Date)
	}

	matches, err := m.fixtures.SearchEvents(ctx, ents.Team1, ents.Team2, "", models.QueryFuture)
	if err != nil || len(matches) == 0 {
		sess.PendingTask = models.TaskAskDate
		return fmt.Sprintf("I couldn't find the next match for %s vs %s. When is the match?",
			displayName(sess.Team1), displayName(sess.Team2))
	}

	sess.Date = matches[0].Date
	sess.Venue = matches[0].Venue
	sess.PendingTask = models.TaskConfirmNextMatch
	return fmt.Sprintf("%s and %s are next playing at %s on %s. Would you like to book these tickets?",
		displayName(sess.Team1), displayName(sess.Team2), sess.Venue, sess.Date)
}

// fillFromNextFixture auto-discovers the opponent, date and venue when the
// user named only one team.
func (m *Manager) fillFromNextFixture(ctx context.Context, sess *models.DialogueSession, teamKey string) string {
	display := displayName(teamKey)

	teamID, err := m.fixtures.TeamID(ctx, m.registry.Resolve(display))
	if err != nil {
		sess.PendingTask = models.TaskAskTeams
		return fmt.Sprintf("I couldn't find any upcoming matches for %s. Please try again later.", display)
	}

	next, err := m.fixtures.NextFixture(ctx, teamID)
	if err != nil {
		sess.PendingTask = models.TaskAskTeams
		return fmt.Sprintf("I couldn't find any upcoming matches for %s. Please try again later.", display)
	}

	sess.Team1 = underscore(next.HomeTeam)
	sess.Team2 = underscore(next.AwayTeam)
	sess.Date = next.Date
	sess.Venue = next.Venue
	sess.PendingTask = models.TaskConfirmNextMatch
	return fmt.Sprintf("The next match for %s is:\n%s vs %s on %s at %s.\nWould you like to book tickets for this match?",
		display, next.HomeTeam, next.AwayTeam, next.Date, next.Venue)
}

// rejectTeam surfaces the full catalog of valid names and keeps the flow in
// ask_for_teams so the user can retry.
func (m *Manager) rejectTeam(sess *models.DialogueSession, teamKey string) string {
	sess.PendingTask = models.TaskAskTeams
	return fmt.Sprintf("%s is not a valid Premier League team. Please specify one of: %s.",
		displayName(teamKey), strings.Join(m.registry.Canonical(), ", "))
}
