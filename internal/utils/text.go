package utils

import "unicode/utf8"

// Truncate shortens s to at most max runes for list display, appending "..."
// when content was cut. Non-positive max leaves s untouched.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
