package recovery

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/Nda25/anees/internal/content"
)

// jsonKey matches a quoted object key.
var jsonKey = regexp.MustCompile(`"[^"\n]+"\s*:`)

// titleFields never make a scraped document meaningful on their own.
var titleFields = map[string]bool{"title": true, "heading": true, "topic": true, "name": true}

// Scrape is the heuristic last resort. For practice, a bare sentence with
// no JSON keys becomes {"question": text}; otherwise "field": "..." and
// "field": [...] pairs of the kind's known fields are collected. It reports
// false unless at least one meaningful field was recovered.
func Scrape(kind content.Kind, raw string) (Candidate, bool) {
	plain := stripFences(strings.TrimSpace(clean(raw)))
	if kind == content.KindPractice {
		if !strings.HasPrefix(plain, "{") && !jsonKey.MatchString(plain) {
			q := strings.TrimSpace(strings.Trim(plain, `"'`))
			if q == "" {
				return nil, false
			}
			return Candidate{"question": q}, true
		}
	}

	// The whole text is scanned: LaTeX braces can fool Extract.
	text := Sanitize(plain)
	out := Candidate{}
	meaningful := false
	for _, field := range content.KnownFields(kind) {
		v, ok := scrapeField(text, field)
		if !ok {
			continue
		}
		out[field] = v
		if !titleFields[field] {
			meaningful = true
		}
	}
	if !meaningful {
		return nil, false
	}
	return out, true
}

// scrapeField finds "field": followed by a string or an array.
func scrapeField(text, field string) (any, bool) {
	re := regexp.MustCompile(`"` + regexp.QuoteMeta(field) + `"\s*:\s*`)
	loc := re.FindStringIndex(text)
	if loc == nil {
		return nil, false
	}
	rest := []rune(text[loc[1]:])
	if len(rest) == 0 {
		return nil, false
	}

	switch rest[0] {
	case '"':
		s, _, ok := readString(rest, 0)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, false
		}
		return s, true
	case '[':
		items := scanArray(rest[1:])
		if len(items) == 0 {
			return nil, false
		}
		return items, true
	}
	return nil, false
}

// scanArray collects the complete items of a possibly truncated array body:
// strings, objects and bare scalars. It stops at the closing bracket or at
// the first incomplete item.
func scanArray(src []rune) []any {
	var items []any
	i := 0
	for i < len(src) {
		r := src[i]
		switch {
		case r == ',' || r == ' ' || r == '\n' || r == '\r' || r == '\t':
			i++
		case r == ']':
			return items
		case r == '"':
			s, n, ok := readString(src, i)
			if !ok {
				return items
			}
			if strings.TrimSpace(s) != "" {
				items = append(items, s)
			}
			i += n
		case r == '{':
			end, ok := matchBrace(src, i)
			if !ok {
				return items
			}
			obj := string(src[i : end+1])
			if m, ok := parseObject(obj); ok {
				items = append(items, m)
			} else if m, ok := parseObject(Loosen(obj)); ok {
				items = append(items, m)
			}
			i = end + 1
		default:
			j := i
			for j < len(src) && src[j] != ',' && src[j] != ']' {
				j++
			}
			if j == len(src) {
				return items
			}
			if s := strings.TrimSpace(string(src[i:j])); s != "" {
				items = append(items, s)
			}
			i = j
		}
	}
	return items
}

// readString decodes the string literal starting at src[i] and returns its
// value and the runes consumed. It reports false for an unterminated literal.
func readString(src []rune, i int) (string, int, bool) {
	j := i + 1
	for j < len(src) {
		switch src[j] {
		case '\\':
			j += 2
			continue
		case '"':
			lit := string(src[i : j+1])
			var s string
			if err := json.Unmarshal([]byte(lit), &s); err != nil {
				if err := json.Unmarshal([]byte(Loosen(lit)), &s); err != nil {
					return "", 0, false
				}
			}
			return s, j + 1 - i, true
		}
		j++
	}
	return "", 0, false
}

// matchBrace returns the index of the '}' closing the '{' at src[i],
// skipping braces inside strings.
func matchBrace(src []rune, i int) (int, bool) {
	depth := 0
	inString := false
	for j := i; j < len(src); j++ {
		r := src[j]
		if inString {
			if r == '\\' {
				j++
			} else if r == '"' {
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j, true
			}
		}
	}
	return 0, false
}
