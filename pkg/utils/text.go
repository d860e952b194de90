package utils

import "unicode/utf8"

// Truncate caps s at max bytes. Diagnostics persisted to the database
// pass through here so a verbose platform response cannot grow a row
// without bound. The cut never splits a rune; the result stays valid
// UTF-8 for a TEXT column.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
