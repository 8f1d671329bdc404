package logutil

import (
	"strings"
	"unicode/utf8"
)

// Excerpt returns at most maxRunes runes of s with whitespace collapsed, for
// embedding upstream response bodies in errors and log lines. A truncated
// excerpt ends in "...".
func Excerpt(s string, maxRunes int) string {
	s = strings.Join(strings.Fields(s), " ")
	if maxRunes <= 0 {
		return "..."
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}
