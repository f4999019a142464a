package models

// Intent is the discrete user-goal label assigned to one utterance.
type Intent string

const (
	IntentCurrentSeason  Intent = "current_season"
	IntentPastSeason     Intent = "past_season"
	IntentNextFixture    Intent = "next_fixture"
	IntentLastFixture    Intent = "last_fixture"
	IntentBookTicket     Intent = "book_ticket"
	IntentIntroduceName  Intent = "introduce_name"
	IntentUserInfo       Intent = "user_info"
	IntentAmbiguousQuery Intent = "ambiguous_query"
	IntentOutOfScope     Intent = "out_of_scope"
	IntentUnrecognized   Intent = "unrecognized"
)

// AllIntents is the fixed label set the classifier may produce.
var AllIntents = []Intent{
	IntentCurrentSeason,
	IntentPastSeason,
	IntentNextFixture,
	IntentLastFixture,
	IntentBookTicket,
	IntentIntroduceName,
	IntentUserInfo,
	IntentAmbiguousQuery,
	IntentOutOfScope,
	IntentUnrecognized,
}

// Known reports whether the label belongs to the fixed set.
func (i Intent) Known() bool {
	for _, known := range AllIntents {
		if i == known {
			return true
		}
	}
	return false
}

// PendingTask is the cursor identifying which slot the booking flow is
// currently soliciting. The empty value means no transaction is in flight.
type PendingTask string

const (
	TaskNone             PendingTask = ""
	TaskAskTeams         PendingTask = "ask_for_teams"
	TaskAskDate          PendingTask = "ask_for_date"
	TaskConfirmNextMatch PendingTask = "confirm_next_match"
	TaskAskSeating       PendingTask = "ask_for_seating"
	TaskAskNumTickets    PendingTask = "ask_for_num_tickets"
	TaskConfirmBooking   PendingTask = "confirm_booking"
	TaskAskFavouriteTeam PendingTask = "ask_favourite_team"
)

// QueryType selects which slice of a fixture search the user asked for.
type QueryType string

const (
	QueryPast   QueryType = "past"
	QueryFuture QueryType = "future"
	QueryBoth   QueryType = "both"
)

// DialogueSession holds the per-conversation slots. It is owned and mutated
// exclusively by the dialogue manager; everything else treats it as opaque.
type DialogueSession struct {
	CurrentIntent Intent      `json:"current_intent,omitempty"`
	Team1         string      `json:"team1,omitempty"`
	Team2         string      `json:"team2,omitempty"`
	Date          string      `json:"date,omitempty"`
	SeatingType   string      `json:"seating_type,omitempty"`
	NumTickets    int         `json:"num_tickets,omitempty"`
	Venue         string      `json:"venue,omitempty"`
	PendingTask   PendingTask `json:"pending_task,omitempty"`
	UserName      string      `json:"user_name,omitempty"`
}

// Clear resets every booking slot and the pending task. The attached user
// name survives a cancel so possessive queries keep working afterwards.
func (s *DialogueSession) Clear() {
	name := s.UserName
	*s = DialogueSession{UserName: name}
}

// Active reports whether a booking task is waiting on the next utterance.
func (s *DialogueSession) Active() bool {
	return s.PendingTask != TaskNone
}

// UserProfile is what the bot remembers about a named user.
type UserProfile struct {
	Name          string `json:"name"`
	FavouriteTeam string `json:"favourite_team"`
}

// TurnRequest is one user utterance arriving over the wire.
type TurnRequest struct {
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id,omitempty"`
	UserMessage string `json:"user_message"`
}

// TurnResponse is the reply for a single turn.
type TurnResponse struct {
	SessionID    string      `json:"session_id"`
	Reply        string      `json:"reply"`
	Intent       Intent      `json:"intent,omitempty"`
	PendingTask  PendingTask `json:"pending_task,omitempty"`
	Status       string      `json:"status"` // "NEEDS_INFO", "READY", "ERROR"
	ErrorCode    *string     `json:"error_code,omitempty"`
	ErrorMessage *string     `json:"error_message,omitempty"`
}

// Status constants
const (
	StatusNeedsInfo = "NEEDS_INFO"
	StatusReady     = "READY"
	StatusError     = "ERROR"
)

// Error codes
const (
	ErrorParseError  = "PARSE_ERROR"
	ErrorStoreFailed = "STORE_FAILED"
	ErrorTurnFailed  = "TURN_FAILED"
)
