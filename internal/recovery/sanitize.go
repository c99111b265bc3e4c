package recovery

import (
	"strings"
	"unicode"
)

// Sanitize repairs common near-JSON defects. Outside string literals it
// converts curly quotes to straight ones, turns single-quoted strings into
// double-quoted strings, quotes bare identifier keys, drops trailing commas,
// and maps undefined, NaN, Infinity and None to null and True/False/Null to
// lowercase. Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(text string) string {
	src := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	// last is the last significant rune written outside a string, used to
	// tell keys from values.
	var last rune

	for i := 0; i < len(src); {
		r := src[i]
		switch {
		case isDoubleQuote(r):
			n := copyDoubleQuoted(&b, src, i)
			i += n
			last = '"'

		case isSingleQuote(r):
			n := convertSingleQuoted(&b, src, i)
			i += n
			last = '"'

		case r == ',':
			j := i + 1
			for j < len(src) && (src[j] == ',' || unicode.IsSpace(src[j])) {
				j++
			}
			if j < len(src) && (src[j] == '}' || src[j] == ']') {
				i++
				continue
			}
			b.WriteRune(r)
			last = r
			i++

		case r == '-' && (i == 0 || !isIdentPart(src[i-1])) && hasWordAt(src, i+1, "Infinity"):
			end := i + 1 + len("Infinity")
			next := skipSpace(src, end)
			if (last == '{' || last == ',') && next < len(src) && src[next] == ':' {
				b.WriteString(`"-Infinity"`)
				last = '"'
			} else {
				b.WriteString("null")
				last = 'l'
			}
			i = end

		case unicode.IsDigit(r) || r == '-' || r == '+' || r == '.':
			j := i + 1
			for j < len(src) && isNumberRune(src[j]) {
				j++
			}
			b.WriteString(string(src[i:j]))
			last = src[j-1]
			i = j

		case isIdentStart(r):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			word := string(src[i:j])
			next := skipSpace(src, j)
			if (last == '{' || last == ',') && next < len(src) && src[next] == ':' {
				b.WriteByte('"')
				b.WriteString(word)
				b.WriteByte('"')
				last = '"'
			} else {
				lit := literal(word)
				b.WriteString(lit)
				last = []rune(lit)[len([]rune(lit))-1]
			}
			i = j

		default:
			b.WriteRune(r)
			if !unicode.IsSpace(r) {
				last = r
			}
			i++
		}
	}
	return b.String()
}

// literal maps bare words to JSON literals. Unknown words pass through.
func literal(word string) string {
	switch word {
	case "undefined", "NaN", "Infinity", "None":
		return "null"
	}
	switch strings.ToLower(word) {
	case "true":
		return "true"
	case "false":
		return "false"
	case "null":
		return "null"
	}
	return word
}

func isDoubleQuote(r rune) bool {
	return r == '"' || r == '“' || r == '”' || r == '„' || r == '‟'
}

func isSingleQuote(r rune) bool {
	return r == '\'' || r == '‘' || r == '’' || r == '‚' || r == '‛'
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isNumberRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == 'e' || r == 'E' || r == '+' || r == '-'
}

func skipSpace(src []rune, i int) int {
	for i < len(src) && unicode.IsSpace(src[i]) {
		i++
	}
	return i
}

func hasWordAt(src []rune, i int, word string) bool {
	w := []rune(word)
	if i+len(w) > len(src) {
		return false
	}
	for k, r := range w {
		if src[i+k] != r {
			return false
		}
	}
	end := i + len(w)
	return end == len(src) || !isIdentPart(src[end])
}

// copyDoubleQuoted writes the string literal starting at src[i] with
// straight delimiters and returns the number of runes consumed. A literal
// opened by a straight quote closes only on a straight quote; a curly one
// closes on any double quote.
func copyDoubleQuoted(b *strings.Builder, src []rune, i int) int {
	straight := src[i] == '"'
	b.WriteByte('"')
	j := i + 1
	for j < len(src) {
		r := src[j]
		if r == '\\' && j+1 < len(src) {
			b.WriteRune(r)
			b.WriteRune(src[j+1])
			j += 2
			continue
		}
		if r == '"' || (!straight && isDoubleQuote(r)) {
			b.WriteByte('"')
			return j + 1 - i
		}
		b.WriteRune(r)
		j++
	}
	return j - i
}

// convertSingleQuoted rewrites a single-quoted literal as a double-quoted
// one, escaping inner double quotes, and returns the runes consumed.
func convertSingleQuoted(b *strings.Builder, src []rune, i int) int {
	b.WriteByte('"')
	j := i + 1
	for j < len(src) {
		r := src[j]
		switch {
		case r == '\\' && j+1 < len(src) && src[j+1] == '\'':
			b.WriteByte('\'')
			j += 2
			continue
		case r == '\\' && j+1 < len(src):
			b.WriteRune(r)
			b.WriteRune(src[j+1])
			j += 2
			continue
		case isSingleQuote(r):
			b.WriteByte('"')
			return j + 1 - i
		case r == '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
		j++
	}
	return j - i
}
