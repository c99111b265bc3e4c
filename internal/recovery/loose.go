package recovery

import (
	"fmt"
	"strings"
	"unicode"
)

// Loosen is the last local repair: it quotes any bare key, including keys
// that are not identifiers ("final answer": ...), doubles backslashes that
// do not start a valid JSON escape (LaTeX such as \mathrm), and escapes raw
// control characters inside strings.
func Loosen(text string) string {
	src := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	var last rune
	for i := 0; i < len(src); {
		r := src[i]
		switch {
		case r == '"':
			i += looseString(&b, src, i)
			last = '"'
		case (last == '{' || last == ',') && !unicode.IsSpace(r) && r != '}':
			if end, ok := bareKeyEnd(src, i); ok {
				key := strings.TrimSpace(string(src[i:end]))
				b.WriteByte('"')
				b.WriteString(strings.ReplaceAll(key, `"`, `\"`))
				b.WriteByte('"')
				last = '"'
				i = end
				continue
			}
			b.WriteRune(r)
			last = r
			i++
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

// bareKeyEnd finds the ':' ending an unquoted key that starts at src[i].
// The key may not cross structural characters.
func bareKeyEnd(src []rune, i int) (int, bool) {
	for j := i; j < len(src); j++ {
		switch src[j] {
		case ':':
			return j, j > i
		case ',', '{', '}', '[', ']', '"':
			return 0, false
		}
	}
	return 0, false
}

// looseString copies the string literal at src[i], fixing escapes and raw
// control characters, and returns the runes consumed.
func looseString(b *strings.Builder, src []rune, i int) int {
	b.WriteByte('"')
	j := i + 1
	for j < len(src) {
		r := src[j]
		switch {
		case r == '\\':
			if j+1 >= len(src) {
				b.WriteString(`\\`)
				j++
				continue
			}
			next := src[j+1]
			if validEscape(src, j+1) {
				b.WriteRune(r)
				b.WriteRune(next)
				j += 2
				continue
			}
			b.WriteString(`\\`)
			j++
		case r == '"':
			b.WriteByte('"')
			return j + 1 - i
		case r == '\n':
			b.WriteString(`\n`)
			j++
		case r == '\r':
			b.WriteString(`\r`)
			j++
		case r == '\t':
			b.WriteString(`\t`)
			j++
		case r < 0x20:
			fmt.Fprintf(b, `\u%04x`, r)
			j++
		default:
			b.WriteRune(r)
			j++
		}
	}
	return j - i
}

func validEscape(src []rune, k int) bool {
	switch src[k] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return true
	case 'u':
		if k+4 >= len(src) {
			return false
		}
		for _, h := range src[k+1 : k+5] {
			if !strings.ContainsRune("0123456789abcdefABCDEF", h) {
				return false
			}
		}
		return true
	}
	return false
}
