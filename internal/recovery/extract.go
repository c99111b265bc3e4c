package recovery

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// invisible matches the byte-order mark, bidi controls and zero-width
// characters models like to sprinkle into Arabic output.
var invisible = runes.Predicate(func(r rune) bool {
	switch r {
	case '\uFEFF', '\u200B', '\u2060', '\u061C', '\u200E', '\u200F':
		return true
	}
	return (r >= '\u202A' && r <= '\u202E') || (r >= '\u2066' && r <= '\u2069')
})

// clean removes invisible characters and applies NFC.
func clean(s string) string {
	t := transform.Chain(runes.Remove(invisible), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Extract returns the best-effort JSON object substring of text. It strips
// invisible characters and code fences, then slices from the first '{' to
// the last '}'. When no ordered pair of braces exists, the cleaned and
// trimmed input is returned. It never fails.
func Extract(text string) string {
	s := strings.TrimSpace(clean(text))
	s = stripFences(s)

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// stripFences removes a leading ```lang line and a trailing ``` marker.
func stripFences(s string) string {
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimLeftFunc(strings.TrimPrefix(s, "```"), unicode.IsLetter)
		}
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
