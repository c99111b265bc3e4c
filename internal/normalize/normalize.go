// Package normalize applies the domain rules that make coerced content
// ready to render: math delimiters, units, scientific notation, step
// markers and formula ordering.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Nda25/anees/internal/content"
)

// Normalizer rewrites content according to the physics rendering rules.
// It is safe for concurrent use.
type Normalizer struct {
	glossary map[string]string
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithGlossary adds or overrides symbol descriptions.
func WithGlossary(entries map[string]string) Option {
	return func(n *Normalizer) {
		for k, v := range entries {
			n.glossary[glossaryKey(k)] = v
		}
	}
}

// New returns a Normalizer with the built-in glossary.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{glossary: make(map[string]string, len(defaultGlossary))}
	for k, v := range defaultGlossary {
		n.glossary[k] = v
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Apply returns a normalized copy of c. preferred, when not blank, is
// pinned as the first formula. c itself is never modified.
func (n *Normalizer) Apply(c content.Content, preferred string) content.Content {
	if c == nil {
		return nil
	}
	out := content.Clone(c)
	switch v := out.(type) {
	case *content.ExplainContent:
		v.Title = text(v.Title)
		v.Overview = prose(v.Overview)
		for i := range v.Symbols {
			v.Symbols[i] = n.symbolRow(v.Symbols[i])
		}
		v.Formulas = formulas(v.Formulas, preferred)
		v.Steps = steps(v.Steps)
	case *content.CaseContent:
		v.Title = text(v.Title)
		v.Scenario = prose(v.Scenario)
		for i := range v.Givens {
			row := v.Givens[i]
			row.SymbolRow = n.symbolRow(row.SymbolRow)
			row.Value = prose(row.Value)
			v.Givens[i] = row
		}
		for i := range v.Unknowns {
			row := v.Unknowns[i]
			blank := content.IsBlank(row.Desc)
			row.Symbol = symbol(row.Symbol)
			row.Desc = text(row.Desc)
			if blank {
				row.Desc = n.describe(row.Symbol)
			}
			v.Unknowns[i] = row
		}
		v.Formulas = formulas(v.Formulas, preferred)
		v.Steps = steps(v.Steps)
		v.Result = prose(v.Result)
	case *content.PracticeContent:
		v.Question = prose(v.Question)
	}
	return out
}

// symbolRow moves a unit that slipped into the description back to the
// unit column, wraps symbol and unit as math and names blank
// descriptions from the glossary.
func (n *Normalizer) symbolRow(row content.SymbolRow) content.SymbolRow {
	blankDesc := content.IsBlank(row.Desc)
	if content.IsBlank(row.Unit) && !blankDesc && looksLikeUnit(row.Desc) {
		row.Unit = row.Desc
		row.Desc = content.Placeholder
	}
	row.Symbol = symbol(row.Symbol)
	row.Unit = unit(row.Unit)
	row.Desc = text(row.Desc)
	if blankDesc {
		row.Desc = n.describe(row.Symbol)
	}
	return row
}

func (n *Normalizer) describe(sym string) string {
	if content.IsBlank(sym) {
		return content.Placeholder
	}
	if d, ok := n.glossary[glossaryKey(sym)]; ok {
		return d
	}
	return content.Placeholder
}

// siUnit matches strings made only of SI unit tokens with optional
// prefixes and powers, such as "kg", "N m" or "m s^-1".
var siUnit = regexp.MustCompile(`^(?:[kmcnMGuμ]?(?:m|s|g|N|J|W|Pa|Hz|A|V|C|K|mol|Ω|rad|eV|L)(?:\^?-?\d)?[\s·*.]*)+$`)

func looksLikeUnit(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || containsArabic(s) {
		return false
	}
	if strings.ContainsAny(s, "/^") || strings.Contains(s, `\mathrm{`) {
		return true
	}
	return siUnit.MatchString(stripDelims(s))
}

func containsArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}

func symbol(s string) string {
	if content.IsBlank(s) {
		return content.Placeholder
	}
	return inlineMath(strings.TrimSpace(RepairMath(s)))
}

func unit(s string) string {
	if content.IsBlank(s) {
		return content.Placeholder
	}
	s = RepairLatex(strings.TrimSpace(s))
	if containsArabic(s) {
		return s
	}
	return inlineMath(s)
}

// text repairs LaTeX escapes in a short field.
func text(s string) string {
	if content.IsBlank(s) {
		return content.Placeholder
	}
	return RepairLatex(strings.TrimSpace(s))
}

// prose is text with scientific notation typeset.
func prose(s string) string {
	if content.IsBlank(s) {
		return content.Placeholder
	}
	return SciNotation(RepairLatex(strings.TrimSpace(s)))
}

// stepMarker matches manual enumeration at the start of a step:
// "1. ", "2) ", "١- ", "الخطوة 3: ", "- ", "• ", "* ".
var stepMarker = regexp.MustCompile(`^\s*(?:(?:الخطوة\s*)?[0-9٠-٩]+\s*[.)\-–:،](?:\s+|$)|الخطوة\s*[0-9٠-٩]+\s+|[-•*]\s+)`)

// CleanStep strips a leading enumeration marker from step.
func CleanStep(step string) string {
	return strings.TrimSpace(stepMarker.ReplaceAllString(step, ""))
}

func steps(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = CleanStep(s)
		if content.IsBlank(s) {
			continue
		}
		out = append(out, prose(s))
	}
	return out
}

// formulas wraps every formula as display math, drops duplicates and
// pins preferred first.
func formulas(in []string, preferred string) []string {
	out := make([]string, 0, len(in)+1)
	seen := make(map[string]bool, len(in)+1)
	add := func(f string) {
		if content.IsBlank(f) || content.IsBlank(stripDelims(stripDelims(f))) {
			return
		}
		f = displayMath(RepairMath(f))
		key := formulaKey(f)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, f)
	}
	add(preferred)
	for _, f := range in {
		add(f)
	}
	return out
}
