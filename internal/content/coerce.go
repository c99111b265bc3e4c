package content

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Field aliases in precedence order. The first alias holding a non-empty
// value wins.
var (
	titleKeys    = []string{"title", "heading", "topic", "name"}
	overviewKeys = []string{"overview", "summary", "introduction", "intro", "explanation", "description"}
	symbolsKeys  = []string{"symbols", "variables", "symbol_table", "quantities", "terms"}
	formulasKeys = []string{"formulas", "formula", "equations", "equation", "laws", "law"}
	stepsKeys    = []string{"steps", "solution_steps", "solution", "procedure", "work", "points"}
	scenarioKeys = []string{"scenario", "question", "problem", "statement", "situation", "text"}
	givensKeys   = []string{"givens", "given", "knowns", "known", "data"}
	unknownsKeys = []string{"unknowns", "unknown", "required", "find", "wanted"}
	resultKeys   = []string{"result", "answer", "final_answer", "final", "conclusion"}
	questionKeys = []string{"question", "text", "prompt", "problem", "scenario"}

	descKeys   = []string{"desc", "description", "name", "meaning", "label", "quantity"}
	symbolKeys = []string{"symbol", "sym", "variable", "var", "letter"}
	unitKeys   = []string{"unit", "units", "si_unit"}
	valueKeys  = []string{"value", "val", "amount", "magnitude"}
)

// wrapperKeys are envelopes some models put around the real document.
var wrapperKeys = []string{"data", "result", "content", "response", "output", "explain", "example", "practice", "solve"}

// Coerce turns a parsed candidate object into the content type for kind.
// It never fails: missing strings become Placeholder, missing lists become
// empty, a single value where a list is expected becomes a one-element
// list, and rows are normalized field by field.
func Coerce(kind Kind, m map[string]any) Content {
	m = unwrap(kind, m)

	switch kind {
	case KindExplain:
		return &ExplainContent{
			Title:    pickString(m, titleKeys),
			Overview: pickString(m, overviewKeys),
			Symbols:  symbolRows(pickList(m, symbolsKeys)),
			Formulas: stringList(pickList(m, formulasKeys)),
			Steps:    stringList(pickList(m, stepsKeys)),
		}
	case KindPractice:
		return &PracticeContent{Question: pickString(m, questionKeys)}
	default:
		return &CaseContent{
			Action:   kind,
			Title:    pickString(m, titleKeys),
			Scenario: pickString(m, scenarioKeys),
			Givens:   valueRows(pickList(m, givensKeys)),
			Unknowns: unknownRows(pickList(m, unknownsKeys)),
			Formulas: stringList(pickList(m, formulasKeys)),
			Steps:    stringList(pickList(m, stepsKeys)),
			Result:   pickString(m, resultKeys),
		}
	}
}

// unwrap descends into a single-key envelope such as {"data": {...}} when
// the top level carries none of the fields kind expects.
func unwrap(kind Kind, m map[string]any) map[string]any {
	for depth := 0; depth < 3; depth++ {
		if m == nil || hasKnownField(kind, m) || len(m) != 1 {
			return m
		}
		var inner map[string]any
		for _, k := range wrapperKeys {
			if v, ok := m[k].(map[string]any); ok {
				inner = v
				break
			}
		}
		if inner == nil {
			return m
		}
		m = inner
	}
	return m
}

// KnownFields lists every key Coerce reads for kind.
func KnownFields(kind Kind) []string {
	var groups [][]string
	switch kind {
	case KindExplain:
		groups = [][]string{titleKeys, overviewKeys, symbolsKeys, formulasKeys, stepsKeys}
	case KindPractice:
		groups = [][]string{questionKeys}
	default:
		groups = [][]string{titleKeys, scenarioKeys, givensKeys, unknownsKeys, formulasKeys, stepsKeys, resultKeys}
	}
	var out []string
	seen := map[string]bool{}
	for _, g := range groups {
		for _, k := range g {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

func hasKnownField(kind Kind, m map[string]any) bool {
	for _, k := range KnownFields(kind) {
		if _, ok := lookup(m, k); ok {
			return true
		}
	}
	return false
}

// lookup finds key in m, ignoring case and treating '-' and ' ' like '_'.
func lookup(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if canonicalKey(k) == key {
			return v, true
		}
	}
	return nil, false
}

func canonicalKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer("-", "_", " ", "_").Replace(k)
}

func pickString(m map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := lookup(m, k)
		if !ok {
			continue
		}
		if s := asString(v); s != "" {
			return s
		}
	}
	return Placeholder
}

func pickList(m map[string]any, keys []string) []any {
	for _, k := range keys {
		v, ok := lookup(m, k)
		if !ok {
			continue
		}
		if l := asList(v); len(l) > 0 {
			return l
		}
	}
	return nil
}

// asString renders a scalar as text. json.Number keeps its literal form so
// notation like 1.50e+3 survives until normalization.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := stringList(t)
		return strings.Join(parts, "\n")
	case map[string]any:
		if s := pickString(t, []string{"text", "value", "content"}); s != Placeholder {
			return s
		}
		return ""
	}
	return ""
}

func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []any{t}
	}
	return []any{v}
}

func stringList(items []any) []string {
	out := []string{}
	for _, it := range items {
		if s := asString(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// orPlaceholder substitutes Placeholder for an empty string.
func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func symbolRows(items []any) []SymbolRow {
	out := []SymbolRow{}
	for _, it := range expandRowMaps(items) {
		var r SymbolRow
		switch t := it.(type) {
		case map[string]any:
			r = SymbolRow{
				Desc:   rowField(t, descKeys),
				Symbol: rowField(t, symbolKeys),
				Unit:   rowField(t, unitKeys),
			}
		default:
			r = parseSymbolRow(asString(t))
		}
		if r.Desc == "" && r.Symbol == "" && r.Unit == "" {
			continue
		}
		r.Desc, r.Symbol, r.Unit = orPlaceholder(r.Desc), orPlaceholder(r.Symbol), orPlaceholder(r.Unit)
		out = append(out, r)
	}
	return out
}

func valueRows(items []any) []ValueRow {
	out := []ValueRow{}
	for _, it := range expandRowMaps(items) {
		var r ValueRow
		switch t := it.(type) {
		case map[string]any:
			r = ValueRow{
				SymbolRow: SymbolRow{
					Desc:   rowField(t, descKeys),
					Symbol: rowField(t, symbolKeys),
					Unit:   rowField(t, unitKeys),
				},
				Value: rowField(t, valueKeys),
			}
		default:
			r = parseValueRow(asString(t))
		}
		if r.Desc == "" && r.Symbol == "" && r.Unit == "" && r.Value == "" {
			continue
		}
		r.Desc, r.Symbol, r.Unit = orPlaceholder(r.Desc), orPlaceholder(r.Symbol), orPlaceholder(r.Unit)
		r.Value = orPlaceholder(r.Value)
		out = append(out, r)
	}
	return out
}

func unknownRows(items []any) []UnknownRow {
	out := []UnknownRow{}
	for _, it := range expandRowMaps(items) {
		var r UnknownRow
		switch t := it.(type) {
		case map[string]any:
			r = UnknownRow{
				Symbol: rowField(t, symbolKeys),
				Desc:   rowField(t, descKeys),
			}
		default:
			sr := parseSymbolRow(asString(t))
			r = UnknownRow{Symbol: sr.Symbol, Desc: sr.Desc}
		}
		if r.Desc == "" && r.Symbol == "" {
			continue
		}
		r.Symbol, r.Desc = orPlaceholder(r.Symbol), orPlaceholder(r.Desc)
		out = append(out, r)
	}
	return out
}

// rowField returns the first non-empty aliased field of a row object, or
// "" when none is present.
func rowField(m map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := lookup(m, k); ok {
			if s := asString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// expandRowMaps turns a symbol-keyed object such as {"m": "5 kg"} into
// string rows "m = 5 kg", sorted by key. Row objects pass through.
func expandRowMaps(items []any) []any {
	var out []any
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok || isRowObject(m) {
			out = append(out, it)
			continue
		}
		for _, k := range sortedKeys(m) {
			out = append(out, k+" = "+asString(m[k]))
		}
	}
	return out
}

func isRowObject(m map[string]any) bool {
	for _, group := range [][]string{descKeys, symbolKeys, unitKeys, valueKeys} {
		for _, k := range group {
			if _, ok := lookup(m, k); ok {
				return true
			}
		}
	}
	return false
}

var (
	trailingParen = regexp.MustCompile(`^(.*?)\s*[(\[]([^()\[\]]*)[)\]]\s*$`)
	leadingNumber = regexp.MustCompile(`^([-+−]?\d+(?:[.,٫]\d+)?(?:\s*[eE][-+]?\d+)?(?:\s*(?:×|\\times|x)\s*10\^\{?[-+−]?\d+\}?)?)\s*(.*)$`)
)

// splitRow splits "symbol = rest" or "symbol: rest" on the first separator.
func splitRow(s string) (left, right string, ok bool) {
	i := strings.IndexAny(s, "=:")
	if i < 0 {
		return "", s, false
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
}

// parseSymbolRow reads rows written as text, e.g. "F: القوة (N)".
func parseSymbolRow(s string) SymbolRow {
	left, right, ok := splitRow(s)
	if !ok {
		return SymbolRow{Desc: strings.TrimSpace(s)}
	}
	r := SymbolRow{Symbol: left, Desc: right}
	if m := trailingParen.FindStringSubmatch(right); m != nil {
		r.Desc = strings.TrimSpace(m[1])
		r.Unit = strings.TrimSpace(m[2])
	}
	return r
}

// parseValueRow reads rows written as text, e.g. "m = 5 kg (الكتلة)".
func parseValueRow(s string) ValueRow {
	left, right, ok := splitRow(s)
	if !ok {
		return ValueRow{SymbolRow: SymbolRow{Desc: strings.TrimSpace(s)}}
	}
	r := ValueRow{SymbolRow: SymbolRow{Symbol: left}}
	if m := trailingParen.FindStringSubmatch(right); m != nil {
		right = strings.TrimSpace(m[1])
		r.Desc = strings.TrimSpace(m[2])
	}
	if m := leadingNumber.FindStringSubmatch(right); m != nil {
		r.Value = strings.TrimSpace(m[1])
		r.Unit = strings.TrimSpace(m[2])
	} else {
		r.Value = right
	}
	return r
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
