package game

import (
	"strings"
	"unicode/utf8"
)

// IndexFold returns the byte index of the first case-insensitive occurrence of substr in s,
// or -1. Unlike searching strings.ToLower(s), the result always indexes the original s.
func IndexFold(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1
}

// snapBack moves i left until it sits on a rune boundary
func snapBack(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// snapForward moves i right until it sits on a rune boundary
func snapForward(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
