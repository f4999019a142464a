package dialogue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wezza-dev/prembot/internal/memory"
	"github.com/wezza-dev/prembot/internal/models"
	"github.com/wezza-dev/prembot/internal/sportsdata"
	"github.com/wezza-dev/prembot/internal/teams"
)

type stubClassifier struct {
	intent models.Intent
	err    error
	calls  int
}

func (s *stubClassifier) ClassifyIntent(_ context.Context, _ string) (models.Intent, error) {
	s.calls++
	return s.intent, s.err
}

type searchCall struct {
	team1, team2, season string
	queryType            models.QueryType
}

type stubFixtures struct {
	matches    []sportsdata.Match
	searchErr  error
	teamID     string
	teamIDErr  error
	next       *sportsdata.Match
	nextErr    error
	last       *sportsdata.Match
	lastErr    error
	lastSearch searchCall
}

func (s *stubFixtures) SearchEvents(_ context.Context, team1, team2, season string, queryType models.QueryType) ([]sportsdata.Match, error) {
	s.lastSearch = searchCall{team1, team2, season, queryType}
	return s.matches, s.searchErr
}

func (s *stubFixtures) TeamID(_ context.Context, _ string) (string, error) {
	return s.teamID, s.teamIDErr
}

func (s *stubFixtures) NextFixture(_ context.Context, _ string) (*sportsdata.Match, error) {
	return s.next, s.nextErr
}

func (s *stubFixtures) LastFixture(_ context.Context, _ string) (*sportsdata.Match, error) {
	return s.last, s.lastErr
}

func newTestManager(classifier *stubClassifier, fixtures *stubFixtures) (*Manager, *memory.MemStore) {
	store := memory.NewMemStore()
	return NewManager(teams.Default(), classifier, fixtures, store), store
}

func TestBookingHappyPath(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentBookTicket}
	fixtures := &stubFixtures{
		matches: []sportsdata.Match{{HomeTeam: "Liverpool", AwayTeam: "Manchester United", Date: "2024-09-14", Venue: "Anfield"}},
	}
	manager, _ := newTestManager(classifier, fixtures)
	ctx := context.Background()
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(ctx, sess, "I want to book tickets for Liverpool vs Manchester United")
	assert.Contains(t, reply, "Liverpool and Manchester United are next playing at Anfield on 2024-09-14")
	assert.Equal(t, models.TaskConfirmNextMatch, sess.PendingTask)
	assert.Equal(t, "Liverpool", sess.Team1)
	assert.Equal(t, "Manchester_United", sess.Team2)
	assert.Equal(t, searchCall{"Liverpool", "Manchester_United", "", models.QueryFuture}, fixtures.lastSearch)

	reply = manager.HandleTurn(ctx, sess, "Yes")
	assert.Contains(t, reply, "What seating type")
	assert.Equal(t, models.TaskAskSeating, sess.PendingTask)

	reply = manager.HandleTurn(ctx, sess, "VIP please")
	assert.Contains(t, reply, "How many VIP tickets")
	assert.Equal(t, models.TaskAskNumTickets, sess.PendingTask)

	reply = manager.HandleTurn(ctx, sess, "2")
	assert.Contains(t, reply, "2 VIP tickets for Liverpool vs Manchester United on 2024-09-14")
	assert.Equal(t, models.TaskConfirmBooking, sess.PendingTask)

	reply = manager.HandleTurn(ctx, sess, "yes")
	assert.Contains(t, reply, "Your booking is confirmed")
	assert.False(t, sess.Active())
	assert.Empty(t, sess.Team1)
}

func TestBookingWithExplicitDateSkipsLookup(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentBookTicket}
	fixtures := &stubFixtures{searchErr: errors.New("should not be called")}
	manager, _ := newTestManager(classifier, fixtures)
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(context.Background(), sess, "Book tickets for Chelsea vs Wolves on 15th December 2024")
	assert.Contains(t, reply, "Tickets are available for Chelsea vs Wolves on 2024-12-15")
	assert.Equal(t, models.TaskAskSeating, sess.PendingTask)
	assert.Equal(t, "2024-12-15", sess.Date)
	assert.Zero(t, fixtures.lastSearch)
}

func TestBookingSingleTeamUsesNextFixture(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentBookTicket}
	fixtures := &stubFixtures{
		teamID: "133619",
		next:   &sportsdata.Match{HomeTeam: "Brighton", AwayTeam: "Everton", Date: "2024-09-14", Venue: "Amex Stadium"},
	}
	manager, _ := newTestManager(classifier, fixtures)
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(context.Background(), sess, "book tickets for Brighton")
	assert.Contains(t, reply, "The next match for Brighton is:")
	assert.Contains(t, reply, "Brighton vs Everton on 2024-09-14 at Amex Stadium")
	assert.Equal(t, models.TaskConfirmNextMatch, sess.PendingTask)
	assert.Equal(t, "Brighton", sess.Team1)
	assert.Equal(t, "Everton", sess.Team2)
	assert.Equal(t, "2024-09-14", sess.Date)
}

func TestBookingSingleTeamNoFixtureReprompts(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentBookTicket}
	fixtures := &stubFixtures{teamID: "133619", nextErr: sportsdata.ErrNoFixtures}
	manager, _ := newTestManager(classifier, fixtures)
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(context.Background(), sess, "book tickets for Brighton")
	assert.Contains(t, reply, "I couldn't find any upcoming matches for Brighton")
	assert.Equal(t, models.TaskAskTeams, sess.PendingTask)
	assert.Empty(t, sess.Team1)
}

func TestBookingRejectsInvalidTeamBeforeMutation(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentBookTicket}
	manager, _ := newTestManager(classifier, &stubFixtures{})
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(context.Background(), sess, "book tickets for real madrid vs chelsea")
	assert.Contains(t, reply, "real madrid is not a valid Premier League team")
	assert.Contains(t, reply, "Arsenal")
	assert.Equal(t, models.TaskAskTeams, sess.PendingTask)
	assert.Empty(t, sess.Team1)
	assert.Empty(t, sess.Team2)
}

func TestBookingNoTeamsAsksForThem(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentBookTicket}
	fixtures := &stubFixtures{
		matches: []sportsdata.Match{{HomeTeam: "Arsenal", AwayTeam: "Chelsea", Date: "2024-10-01", Venue: "Emirates Stadium"}},
	}
	manager, _ := newTestManager(classifier, fixtures)
	ctx := context.Background()
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(ctx, sess, "I want to book tickets")
	assert.Equal(t, "Great! Which teams are you booking tickets for?", reply)
	assert.Equal(t, models.TaskAskTeams, sess.PendingTask)

	// Garbage stays in the same task.
	reply = manager.HandleTurn(ctx, sess, "the the the")
	assert.Contains(t, reply, "I couldn't identify a team")
	assert.Equal(t, models.TaskAskTeams, sess.PendingTask)

	reply = manager.HandleTurn(ctx, sess, "Arsenal and Chelsea")
	assert.Contains(t, reply, "Arsenal and Chelsea are next playing")
	assert.Equal(t, models.TaskConfirmNextMatch, sess.PendingTask)
}

func TestConfirmNextMatchDeclineAsksForDate(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentBookTicket}
	fixtures := &stubFixtures{
		matches: []sportsdata.Match{{HomeTeam: "Liverpool", AwayTeam: "Chelsea", Date: "2024-09-14", Venue: "Anfield"}},
	}
	manager, _ := newTestManager(classifier, fixtures)
	ctx := context.Background()
	sess := &models.DialogueSession{}

	manager.HandleTurn(ctx, sess, "book tickets for liverpool vs chelsea")
	require.Equal(t, models.TaskConfirmNextMatch, sess.PendingTask)

	reply := manager.HandleTurn(ctx, sess, "no")
	assert.Equal(t, "Which date is the match on?", reply)
	assert.Equal(t, models.TaskAskDate, sess.PendingTask)

	// Unparseable date re-prompts without advancing.
	reply = manager.HandleTurn(ctx, sess, "someday soon")
	assert.Contains(t, reply, "I couldn't understand the date")
	assert.Equal(t, models.TaskAskDate, sess.PendingTask)

	reply = manager.HandleTurn(ctx, sess, "December 20, 2024")
	assert.Contains(t, reply, "on 2024-12-20")
	assert.Equal(t, models.TaskAskSeating, sess.PendingTask)
	assert.Equal(t, "2024-12-20", sess.Date)
}

func TestConfirmNextMatchNeedsExplicitAnswer(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentBookTicket}
	fixtures := &stubFixtures{
		matches: []sportsdata.Match{{HomeTeam: "Liverpool", AwayTeam: "Chelsea", Date: "2024-09-14", Venue: "Anfield"}},
	}
	manager, _ := newTestManager(classifier, fixtures)
	ctx := context.Background()
	sess := &models.DialogueSession{}

	manager.HandleTurn(ctx, sess, "book tickets for liverpool vs chelsea")
	reply := manager.HandleTurn(ctx, sess, "maybe")
	assert.Contains(t, reply, "Please reply 'yes'")
	assert.Equal(t, models.TaskConfirmNextMatch, sess.PendingTask)
}

func TestConfirmBookingYesMustBeWholeWord(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentBookTicket}
	fixtures := &stubFixtures{
		matches: []sportsdata.Match{{HomeTeam: "Liverpool", AwayTeam: "Chelsea", Date: "2024-09-14", Venue: "Anfield"}},
	}
	manager, _ := newTestManager(classifier, fixtures)
	ctx := context.Background()
	sess := &models.DialogueSession{}

	manager.HandleTurn(ctx, sess, "book tickets for liverpool vs chelsea")
	manager.HandleTurn(ctx, sess, "yes")
	manager.HandleTurn(ctx, sess, "regular")
	manager.HandleTurn(ctx, sess, "3")
	require.Equal(t, models.TaskConfirmBooking, sess.PendingTask)

	// "yesterday" must not read as a confirmation.
	reply := manager.HandleTurn(ctx, sess, "yesterday")
	assert.Contains(t, reply, "Please confirm your booking")
	assert.Equal(t, models.TaskConfirmBooking, sess.PendingTask)

	reply = manager.HandleTurn(ctx, sess, "no")
	assert.Equal(t, "Your booking has been cancelled.", reply)
	assert.False(t, sess.Active())
}

func TestSeatingAndTicketCountReprompts(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentBookTicket}
	fixtures := &stubFixtures{
		matches: []sportsdata.Match{{HomeTeam: "Liverpool", AwayTeam: "Chelsea", Date: "2024-09-14", Venue: "Anfield"}},
	}
	manager, _ := newTestManager(classifier, fixtures)
	ctx := context.Background()
	sess := &models.DialogueSession{}

	manager.HandleTurn(ctx, sess, "book tickets for liverpool vs chelsea")
	manager.HandleTurn(ctx, sess, "yes")
	require.Equal(t, models.TaskAskSeating, sess.PendingTask)

	// A greeting mid-transaction does not derail the task.
	reply := manager.HandleTurn(ctx, sess, "hello")
	assert.Equal(t, "Please specify a seating type (VIP or regular).", reply)
	assert.Equal(t, models.TaskAskSeating, sess.PendingTask)

	manager.HandleTurn(ctx, sess, "regular")
	require.Equal(t, models.TaskAskNumTickets, sess.PendingTask)

	reply = manager.HandleTurn(ctx, sess, "a few")
	assert.Contains(t, reply, "number of tickets")
	assert.Equal(t, models.TaskAskNumTickets, sess.PendingTask)

	reply = manager.HandleTurn(ctx, sess, "0")
	assert.Contains(t, reply, "number of tickets")
	assert.Equal(t, models.TaskAskNumTickets, sess.PendingTask)
}

func TestCancelIsIdempotentAndKeepsUserName(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentBookTicket}
	fixtures := &stubFixtures{
		matches: []sportsdata.Match{{HomeTeam: "Liverpool", AwayTeam: "Chelsea", Date: "2024-09-14", Venue: "Anfield"}},
	}
	manager, _ := newTestManager(classifier, fixtures)
	ctx := context.Background()
	sess := &models.DialogueSession{UserName: "wesley"}

	manager.HandleTurn(ctx, sess, "book tickets for liverpool vs chelsea")
	require.True(t, sess.Active())

	reply := manager.HandleTurn(ctx, sess, "cancel")
	assert.Equal(t, cancelReply, reply)
	assert.False(t, sess.Active())
	assert.Empty(t, sess.Team1)
	assert.Equal(t, "wesley", sess.UserName)

	// Cancelling again is harmless.
	reply = manager.HandleTurn(ctx, sess, "cancel")
	assert.Equal(t, cancelReply, reply)
	assert.False(t, sess.Active())
}

func TestSmallTalkOnlyWhenIdle(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentOutOfScope}
	manager, _ := newTestManager(classifier, &stubFixtures{})
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(context.Background(), sess, "Hello!")
	assert.Equal(t, "Hello! How can I assist you today?", reply)
	assert.Zero(t, classifier.calls)

	reply = manager.HandleTurn(context.Background(), sess, "thanks")
	assert.Contains(t, reply, "You're welcome")
	assert.Zero(t, classifier.calls)
}

func TestIntroduceNameAndFavouriteTeamFlow(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentOutOfScope}
	manager, store := newTestManager(classifier, &stubFixtures{})
	ctx := context.Background()
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(ctx, sess, "My name is Wesley")
	assert.Equal(t, "Nice to meet you, wesley! What is your favourite team?", reply)
	assert.Equal(t, models.TaskAskFavouriteTeam, sess.PendingTask)
	assert.Zero(t, classifier.calls)

	// Invalid team keeps asking.
	reply = manager.HandleTurn(ctx, sess, "Barcelona")
	assert.Contains(t, reply, "valid Premier League team")
	assert.Equal(t, models.TaskAskFavouriteTeam, sess.PendingTask)

	reply = manager.HandleTurn(ctx, sess, "Reds")
	assert.Contains(t, reply, "You are now a fan of Liverpool")
	assert.False(t, sess.Active())

	profile, err := store.LoadProfile(ctx, "wesley")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Liverpool", profile.FavouriteTeam)

	reply = manager.HandleTurn(ctx, sess, "What is my name?")
	assert.Equal(t, "Your name is wesley, and your favourite team is Liverpool.", reply)
}

func TestIntroduceNameWelcomesBackKnownUser(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentOutOfScope}
	manager, store := newTestManager(classifier, &stubFixtures{})
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, &models.UserProfile{Name: "anna", FavouriteTeam: "Arsenal"}))

	sess := &models.DialogueSession{}
	reply := manager.HandleTurn(ctx, sess, "call me Anna")
	assert.Equal(t, "Welcome back, anna!", reply)
	assert.False(t, sess.Active())
}

func TestUserInfoWithoutName(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentUserInfo}
	manager, _ := newTestManager(classifier, &stubFixtures{})
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(context.Background(), sess, "what team do I support")
	assert.Contains(t, reply, "I don't know your name yet")
}

func TestPossessiveResolvesThroughProfile(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentOutOfScope}
	fixtures := &stubFixtures{
		teamID: "133602",
		next:   &sportsdata.Match{HomeTeam: "Liverpool", AwayTeam: "Everton", League: "English Premier League", Date: "2024-09-14", Time: "15:00:00", Venue: "Anfield"},
	}
	manager, store := newTestManager(classifier, fixtures)
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, &models.UserProfile{Name: "wesley", FavouriteTeam: "Liverpool"}))
	sess := &models.DialogueSession{UserName: "wesley"}

	reply := manager.HandleTurn(ctx, sess, "When do we play next?")
	assert.Contains(t, reply, "Liverpool's next fixture is against Everton")
	assert.Equal(t, models.IntentNextFixture, sess.CurrentIntent)
	assert.Zero(t, classifier.calls)
}

func TestPossessiveWithoutProfile(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentOutOfScope}
	manager, _ := newTestManager(classifier, &stubFixtures{})
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(context.Background(), sess, "when is our next game")
	assert.Contains(t, reply, "I don't know who 'our' refers to")
	assert.Equal(t, models.IntentUserInfo, sess.CurrentIntent)
}

func TestNextFixtureQuery(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentNextFixture}
	fixtures := &stubFixtures{
		teamID: "133619",
		next:   &sportsdata.Match{HomeTeam: "Brighton", AwayTeam: "Everton", League: "English Premier League", Date: "2024-09-14", Time: "15:00:00", Venue: "Amex Stadium"},
	}
	manager, _ := newTestManager(classifier, fixtures)
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(context.Background(), sess, "When does Brighton play next?")
	assert.Contains(t, reply, "Brighton's next fixture is against Everton in the English Premier League")
	assert.Contains(t, reply, "at Amex Stadium on 2024-09-14 at 15:00:00")
}

func TestLastFixtureQuery(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentLastFixture}
	fixtures := &stubFixtures{
		teamID: "133602",
		last:   &sportsdata.Match{HomeTeam: "Liverpool", AwayTeam: "Everton", Date: "2024-08-24", Time: "15:00:00", Venue: "Anfield", HomeScore: "3", AwayScore: "0"},
	}
	manager, _ := newTestManager(classifier, fixtures)
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(context.Background(), sess, "What was Liverpool's previous match?")
	assert.Contains(t, reply, "Liverpool last played Everton on 2024-08-24")
	assert.Contains(t, reply, "the score was 3 - 0")
}

func TestSeasonQuery(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentPastSeason}
	fixtures := &stubFixtures{
		matches: []sportsdata.Match{
			{HomeTeam: "Wolves", AwayTeam: "Crystal Palace", Date: "2021-10-30", Venue: "Molineux", League: "English Premier League", HomeScore: "2", AwayScore: "0"},
		},
	}
	manager, _ := newTestManager(classifier, fixtures)
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(context.Background(), sess, "Wolves vs Crystal Palace in 2021")
	assert.Contains(t, reply, "Here are the results for Wolves vs Crystal Palace:")
	assert.Contains(t, reply, "2021-10-30")
	assert.Contains(t, reply, "score 2 - 0")
	assert.Equal(t, searchCall{"Wolves", "Crystal_Palace", "2021-2022", models.QueryBoth}, fixtures.lastSearch)
}

func TestSeasonQueryRejectsUnknownTeam(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentCurrentSeason}
	manager, _ := newTestManager(classifier, &stubFixtures{})
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(context.Background(), sess, "chelsea vs barcelona")
	assert.Contains(t, reply, "I didn't catch the second team 'barcelona'")
}

func TestSeasonQueryNoResults(t *testing.T) {
	classifier := &stubClassifier{intent: models.IntentCurrentSeason}
	fixtures := &stubFixtures{searchErr: sportsdata.ErrNoEvents}
	manager, _ := newTestManager(classifier, fixtures)
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(context.Background(), sess, "chelsea vs arsenal")
	assert.Equal(t, "No matches found for Chelsea vs Arsenal in the current season.", reply)
}

func TestClassifierFailureFallsBackToHelp(t *testing.T) {
	classifier := &stubClassifier{err: errors.New("model unavailable")}
	manager, _ := newTestManager(classifier, &stubFixtures{})
	sess := &models.DialogueSession{}

	reply := manager.HandleTurn(context.Background(), sess, "qwerty asdf")
	assert.Contains(t, reply, "I can assist with match results, fixtures, and ticket bookings")
	assert.Equal(t, models.IntentUnrecognized, sess.CurrentIntent)
}

func TestAmbiguousAndOutOfScopeReplies(t *testing.T) {
	sess := &models.DialogueSession{}

	manager, _ := newTestManager(&stubClassifier{intent: models.IntentAmbiguousQuery}, &stubFixtures{})
	reply := manager.HandleTurn(context.Background(), sess, "Tell me about Chelsea matches")
	assert.Contains(t, reply, "recent results, upcoming fixtures, or ticket information")

	manager, _ = newTestManager(&stubClassifier{intent: models.IntentOutOfScope}, &stubFixtures{})
	reply = manager.HandleTurn(context.Background(), sess, "Show top scorers")
	assert.Contains(t, reply, "I can't provide player stats")
}
