package normalize

import (
	"regexp"
	"strings"
)

// swallowed maps control characters produced when a JSON decoder reads a
// LaTeX command as an escape (\frac -> form feed + "rac") back to the
// commands. Form feed and backspace never occur in real content, so they
// are restored unconditionally. mathOnly commands are short enough to
// collide with a real line break in prose ("\n" + "e = 1.6") and are
// restored only inside math.
var swallowed = []struct {
	ctrl     string
	letter   string
	commands []string
	mathOnly []string
}{
	{"\f", "f", nil, nil},
	{"\b", "b", nil, nil},
	{"\t", "t", []string{"times", "theta", "tau", "text", "tan", "triangle", "to"}, nil},
	{"\r", "r", []string{"rho", "right", "rm", "rangle"}, nil},
	{"\n", "n", []string{"nabla", "neq", "not", "newline"}, []string{"nu", "ne"}},
}

type escapeRule struct {
	ctrl string
	re   *regexp.Regexp
	repl string
}

func commandRule(ctrl, letter, cmd string) escapeRule {
	rest := cmd[1:]
	return escapeRule{
		ctrl: ctrl,
		re:   regexp.MustCompile(regexp.QuoteMeta(ctrl+rest) + `([^A-Za-z]|$)`),
		repl: `\` + letter + rest + `$1`,
	}
}

// proseRules apply everywhere; mathRules add the mathOnly commands.
var proseRules, mathRules = func() ([]escapeRule, []escapeRule) {
	var prose, math []escapeRule
	for _, sw := range swallowed {
		if sw.commands == nil && sw.mathOnly == nil {
			r := escapeRule{ctrl: sw.ctrl, re: regexp.MustCompile(regexp.QuoteMeta(sw.ctrl)), repl: `\` + sw.letter}
			prose = append(prose, r)
			math = append(math, r)
			continue
		}
		for _, cmd := range sw.commands {
			r := commandRule(sw.ctrl, sw.letter, cmd)
			prose = append(prose, r)
			math = append(math, r)
		}
		for _, cmd := range sw.mathOnly {
			math = append(math, commandRule(sw.ctrl, sw.letter, cmd))
		}
	}
	return prose, math
}()

func restore(s string, rules []escapeRule) string {
	for _, r := range rules {
		if strings.Contains(s, r.ctrl) {
			s = r.re.ReplaceAllString(s, r.repl)
		}
	}
	return s
}

func restoreProse(s string) string { return restore(s, proseRules) }
func restoreMath(s string) string  { return restore(s, mathRules) }

// RestoreEscapes puts back backslashes that JSON decoding turned into
// control characters.
func RestoreEscapes(s string) string {
	return mapSegments(s, restoreProse, restoreMath)
}

// bareCommand finds LaTeX command names written without their backslash.
var bareCommand = regexp.MustCompile(`(^|[^\\A-Za-z])(frac|sqrt|mathrm|cdot|times)([^A-Za-z]|$)`)

// addBackslashes inserts the backslash missing from common commands inside
// a math segment.
func addBackslashes(math string) string {
	// Matches can share a boundary character, so repeat until stable.
	for i := 0; i < 4; i++ {
		next := bareCommand.ReplaceAllString(math, `${1}\${2}${3}`)
		if next == math {
			break
		}
		math = next
	}
	return math
}

// RepairLatex restores swallowed escapes everywhere and missing
// backslashes inside math segments.
func RepairLatex(s string) string {
	s = RestoreEscapes(s)
	return mapSegments(s, identity, addBackslashes)
}

// RepairMath is RepairLatex for a field that is math as a whole, such as
// a symbol or a formula. Without delimiters all of s is treated as math.
func RepairMath(s string) string {
	if hasMath(s) {
		return RepairLatex(s)
	}
	return addBackslashes(restoreMath(s))
}

func identity(s string) string { return s }
