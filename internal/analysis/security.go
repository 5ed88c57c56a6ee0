package analysis

import (
	"strings"
	"unicode/utf8"
)

// injectionPatterns are matched against lower-cased input.
var injectionPatterns = []string{
	"ignore previous instructions",
	"system prompt",
	"delete all",
}

// Verdict is the outcome of the injection screen.
type Verdict struct {
	Flagged    bool
	Pattern    string
	TextLength int
}

// Details is the payload stored with the security verdict.
func (v Verdict) Details() map[string]any {
	d := map[string]any{"text_length": v.TextLength}
	if v.Pattern != "" {
		d["matched_pattern"] = v.Pattern
	}
	return d
}

// Screen flags text containing a known instruction-override phrase.
func Screen(text string) Verdict {
	v := Verdict{TextLength: utf8.RuneCountInString(text)}
	lower := strings.ToLower(text)
	for _, p := range injectionPatterns {
		if strings.Contains(lower, p) {
			v.Flagged = true
			v.Pattern = p
			return v
		}
	}
	return v
}
