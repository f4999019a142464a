package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var ordinalRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\b`)

// dateLayouts are tried in order. Utterances have usually been through
// Clean by the time they get here, so comma-free and separator-free forms
// come first.
var dateLayouts = []string{
	"2006-01-02",
	"20060102",
	"2 January 2006",
	"January 2 2006",
	"2 Jan 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January, 2006",
	"2006/01/02",
	"02/01/2006",
}

// ParseNaturalDate parses a date phrase such as "15th December 2024",
// "December 15 2024", "2024-12-15" or "20241215". It is the black-box date
// parser the dialogue flow depends on: a failure is an ordinary error the
// caller turns into a re-prompt, never a panic.
func ParseNaturalDate(text string) (time.Time, error) {
	s := strings.TrimSpace(ordinalRe.ReplaceAllString(text, "$1"))
	s = titleWords(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", text)
}

// titleWords capitalizes the first letter of each word so lowercased month
// names line up with time.Parse layouts.
func titleWords(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = strings.ToUpper(f[:1]) + strings.ToLower(f[1:])
	}
	return strings.Join(fields, " ")
}
