package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wezza-dev/prembot/internal/models"
)

const classifyTemplate = `You are the intent classifier for a Premier League assistant that answers fixture and result questions and books match tickets. Assign exactly one intent label to the user's message.

Labels and examples:
- current_season: fixture or score query with no year ("Chelsea vs Arsenal", "Show scores Arsenal vs Chelsea", "Fixtures Chelsea vs Arsenal")
- past_season: query naming a year or past season ("Chelsea vs Liverpool in 2012", "What were the results in 2022?", "Scores for Arsenal vs Tottenham in 2015")
- next_fixture: upcoming match for one team ("When does Brighton play next?", "When is the next Liverpool match?", "Show Chelsea's current fixtures")
- last_fixture: most recent result for one team ("What was Arsenal previous match?", "Results for Liverpool last game", "Show me Chelsea match results.")
- book_ticket: the user wants tickets ("Book tickets for Liverpool vs Manchester United", "I need tickets for Brighton vs Spurs", "Reserve 2 tickets for Tottenham vs Man City on 2023-11-20")
- introduce_name: the user states their name ("My name is Wesley", "Call me Alice", "I go by Anna")
- user_info: the user asks what is known about them ("What is my name?", "What is my favourite team?", "What team do I support?")
- ambiguous_query: a team is mentioned with no clear ask ("Tell me about Chelsea matches", "Arsenal info", "Chelsea details")
- out_of_scope: player stats, weather, jokes, anything else ("Show top scorers", "Tell me a joke", "What is the weather?")
- unrecognized: unintelligible input

RESPONSE FORMAT:
Respond with a JSON object in exactly this form and nothing else:
{"intent": "<label>"}

Message:
%s`

// BuildClassifyPrompt renders the classification prompt for one utterance.
func BuildClassifyPrompt(message string) string {
	return fmt.Sprintf(classifyTemplate, message)
}

// ParseIntentResponse extracts the intent label from raw model output. It
// accepts the requested JSON object or, failing that, a bare label anywhere
// in the text.
func ParseIntentResponse(content string) (models.Intent, error) {
	if jsonContent := extractJSON(content); jsonContent != "" {
		var parsed struct {
			Intent string `json:"intent"`
		}
		if err := json.Unmarshal([]byte(jsonContent), &parsed); err == nil {
			if intent := models.Intent(strings.TrimSpace(parsed.Intent)); intent.Known() {
				return intent, nil
			}
		}
	}

	// Some models answer with the bare label despite the format instruction.
	lower := strings.ToLower(content)
	for _, intent := range models.AllIntents {
		if strings.Contains(lower, string(intent)) {
			return intent, nil
		}
	}

	return models.IntentUnrecognized, fmt.Errorf("no intent label found in response")
}

func extractJSON(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}

	end := strings.LastIndex(content, "}")
	if end == -1 || end <= start {
		return ""
	}

	return content[start : end+1]
}
