package dimension

import (
	"strings"
	"unicode"
)

// toCapFirstLetters upper-cases the first letter of every space separated word.
func toCapFirstLetters(s string) string {
	var o strings.Builder
	o.Grow(len(s))
	prev := ' '
	for _, el := range s {
		if prev == ' ' {
			el = unicode.ToUpper(el)
		}
		_, _ = o.WriteRune(el)
		prev = el
	}
	return o.String()
}
