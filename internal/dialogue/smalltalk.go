package dialogue

import "strings"

// Small talk only answers when no booking task is pending, so a greeting
// cannot derail a transaction.

var (
	greetings = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}
	farewells = []string{"bye", "goodbye", "see you", "take care"}
	howAreYou = []string{"how are you", "how are you doing"}
	thanks    = []string{"thank you", "thanks", "appreciate it"}
	weather   = []string{"hows the weather", "whats the weather like"}
)

func smallTalk(cleaned string) (string, bool) {
	switch {
	case matchesAny(cleaned, greetings):
		return "Hello! How can I assist you today?", true
	case matchesAny(cleaned, farewells):
		return "Goodbye! Have a great day!", true
	case matchesAny(cleaned, howAreYou):
		return "I'm just a chatbot, but I'm here to help! How can I assist you?", true
	case matchesAny(cleaned, thanks):
		return "You're welcome! Let me know if there's anything else I can help with.", true
	case matchesAny(cleaned, weather):
		return "I can't check the weather right now, but it's always a good day to talk about football!", true
	}
	return "", false
}

// matchesAny matches single-word phrases as whole words and longer phrases
// by containment, so "hi" does not fire inside "this weekend".
func matchesAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(phrase, " ") {
			if strings.Contains(text, phrase) {
				return true
			}
		} else if containsWord(text, phrase) {
			return true
		}
	}
	return false
}
