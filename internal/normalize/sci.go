package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// sciPattern matches an e-notation number. The first group is the rune
// before it so a sign is only taken as the number's own when it does not
// follow a word or a digit.
var sciPattern = regexp.MustCompile(`(^|[^\w.])([-+]?)(\d+(?:\.\d+)?)[eE]([-+]?\d+)\b`)

// formatSci typesets mantissa and exponent as a power of ten. Trailing
// zeros of the mantissa are trimmed and a zero exponent collapses to the
// mantissa alone. ok is false when the exponent does not fit an int.
func formatSci(sign, mantissa, exponent string) (out string, typeset, ok bool) {
	if strings.Contains(mantissa, ".") {
		mantissa = strings.TrimRight(mantissa, "0")
		mantissa = strings.TrimSuffix(mantissa, ".")
	}
	if sign == "-" {
		mantissa = sign + mantissa
	}
	exp, err := strconv.Atoi(exponent)
	if err != nil {
		return "", false, false
	}
	if exp == 0 {
		return mantissa, false, true
	}
	return mantissa + ` \times 10^{` + strconv.Itoa(exp) + `}`, true, true
}

// replaceSci calls fn with the submatches of every e-notation number in s
// and splices in its result. A false second return keeps the match as is.
func replaceSci(s string, fn func(sub []string) (string, bool)) string {
	locs := sciPattern.FindAllStringSubmatchIndex(s, -1)
	if locs == nil {
		return s
	}
	var b strings.Builder
	prev := 0
	for _, loc := range locs {
		sub := make([]string, len(loc)/2)
		for k := range sub {
			if loc[2*k] >= 0 {
				sub[k] = s[loc[2*k]:loc[2*k+1]]
			}
		}
		b.WriteString(s[prev:loc[0]])
		if out, ok := fn(sub); ok {
			b.WriteString(out)
		} else {
			b.WriteString(sub[0])
		}
		prev = loc[1]
	}
	b.WriteString(s[prev:])
	return b.String()
}

// sciInMath rewrites scientific notation inside a math segment.
func sciInMath(s string) string {
	return replaceSci(s, func(sub []string) (string, bool) {
		out, _, ok := formatSci(sub[2], sub[3], sub[4])
		return sub[1] + out, ok
	})
}

// sciInText rewrites scientific notation in prose, wrapping any power of
// ten it produces in inline math.
func sciInText(s string) string {
	return replaceSci(s, func(sub []string) (string, bool) {
		out, typeset, ok := formatSci(sub[2], sub[3], sub[4])
		if typeset {
			out = "$" + out + "$"
		}
		return sub[1] + out, ok
	})
}

// SciNotation converts every e-notation number in s, inside or outside math.
func SciNotation(s string) string {
	return mapSegments(s, sciInText, sciInMath)
}
