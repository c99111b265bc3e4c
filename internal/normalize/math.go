package normalize

import "strings"

// mathDelims are the opening and closing delimiters of math segments,
// longest first.
var mathDelims = [][2]string{
	{"$$", "$$"},
	{`\[`, `\]`},
	{`\(`, `\)`},
	{"$", "$"},
}

// mapSegments rewrites s segment by segment. text is applied to prose and
// math to the inside of math segments; delimiters are kept. An unclosed
// delimiter leaves the rest of s as prose.
func mapSegments(s string, text, math func(string) string) string {
	var b strings.Builder
	for len(s) > 0 {
		open, start := nextDelim(s)
		if start < 0 {
			b.WriteString(text(s))
			break
		}
		closeAt := strings.Index(s[start+len(open[0]):], open[1])
		if closeAt < 0 {
			b.WriteString(text(s))
			break
		}
		b.WriteString(text(s[:start]))
		inner := s[start+len(open[0]) : start+len(open[0])+closeAt]
		b.WriteString(open[0])
		b.WriteString(math(inner))
		b.WriteString(open[1])
		s = s[start+len(open[0])+closeAt+len(open[1]):]
	}
	return b.String()
}

// nextDelim finds the earliest unescaped opening delimiter in s.
func nextDelim(s string) ([2]string, int) {
	best := -1
	var found [2]string
	for _, d := range mathDelims {
		from := 0
		for {
			i := strings.Index(s[from:], d[0])
			if i < 0 {
				break
			}
			i += from
			if d[0][0] == '$' && i > 0 && s[i-1] == '\\' {
				from = i + 1
				continue
			}
			if best < 0 || i < best {
				best = i
				found = d
			}
			break
		}
	}
	return found, best
}

// hasMath reports whether s contains any math delimiter.
func hasMath(s string) bool {
	return strings.Contains(s, "$") || strings.Contains(s, `\(`) || strings.Contains(s, `\[`)
}

// outerDelim returns the delimiter pair enclosing all of s as a single
// math segment. "$F$ = $ma$" starts and ends with "$" but is two segments,
// so the inside must not close early.
func outerDelim(s string) ([2]string, bool) {
	for _, d := range mathDelims {
		if len(s) < len(d[0])+len(d[1]) || !strings.HasPrefix(s, d[0]) || !strings.HasSuffix(s, d[1]) {
			continue
		}
		inner := s[len(d[0]) : len(s)-len(d[1])]
		if d[0][0] == '$' {
			if containsUnescaped(inner, "$") {
				continue
			}
		} else if strings.Contains(inner, d[1]) {
			continue
		}
		return d, true
	}
	return [2]string{}, false
}

// containsUnescaped reports whether s holds sub not preceded by a backslash.
func containsUnescaped(s, sub string) bool {
	for from := 0; ; {
		i := strings.Index(s[from:], sub)
		if i < 0 {
			return false
		}
		i += from
		if i == 0 || s[i-1] != '\\' {
			return true
		}
		from = i + len(sub)
	}
}

// stripDelims removes one pair of outer math delimiters from s.
func stripDelims(s string) string {
	s = strings.TrimSpace(s)
	if d, ok := outerDelim(s); ok {
		return strings.TrimSpace(s[len(d[0]) : len(s)-len(d[1])])
	}
	return s
}

// unwrapMath drops the delimiters of every math segment in s, joining
// "$F$ = $ma$" into "F = ma".
func unwrapMath(s string) string {
	var b strings.Builder
	for len(s) > 0 {
		open, start := nextDelim(s)
		if start < 0 {
			b.WriteString(s)
			break
		}
		closeAt := strings.Index(s[start+len(open[0]):], open[1])
		if closeAt < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:start])
		b.WriteString(s[start+len(open[0]) : start+len(open[0])+closeAt])
		s = s[start+len(open[0])+closeAt+len(open[1]):]
	}
	return b.String()
}

// inlineMath wraps s in $...$ unless it already carries math delimiters.
func inlineMath(s string) string {
	if hasMath(s) {
		return s
	}
	return "$" + s + "$"
}

// displayMath rewrites a formula as $$...$$ display math. A formula split
// over several math segments is joined into one.
func displayMath(s string) string {
	s = strings.TrimSpace(s)
	if d, ok := outerDelim(s); ok {
		if d[0] == "$$" {
			return s
		}
		s = stripDelims(s)
	} else if hasMath(s) {
		s = strings.TrimSpace(unwrapMath(s))
	}
	return "$$" + s + "$$"
}

// formulaKey identifies a formula regardless of delimiters and spacing.
func formulaKey(s string) string {
	s = stripDelims(stripDelims(s))
	return strings.Join(strings.Fields(s), "")
}
