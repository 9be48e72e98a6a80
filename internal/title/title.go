// Package title implements the tab numbering policy: composing and
// stripping the "<position>: " prefix on tab display text.
package title

import (
	"fmt"
	"regexp"
)

// numberPrefix matches a single leading numeric-colon token. A base title
// that itself starts with digits and a colon ("42: build") is
// indistinguishable from a numbering artifact and will be stripped too;
// that ambiguity is accepted rather than guessed around.
var numberPrefix = regexp.MustCompile(`^\d+:\s*`)

// StripNumberPrefix removes one leading "<digits>: " token from a title.
// The remainder is the base title the user (or the host's default naming)
// chose.
func StripNumberPrefix(s string) string {
	return numberPrefix.ReplaceAllString(s, "")
}

// Numbered returns the display text for a tab at 0-based position i: the
// 1-based position, a colon, and the base title. Any existing number
// prefix on text is stripped first, so Numbered is safe to apply to
// already-numbered titles.
func Numbered(i int, text string) string {
	return fmt.Sprintf("%d: %s", i+1, StripNumberPrefix(text))
}
