package content

import "strings"

// Placeholder fills every string field the model left empty.
const Placeholder = "—"

// Content is the validated result of one generation. The concrete type is
// one of *ExplainContent, *CaseContent or *PracticeContent.
type Content interface {
	Kind() Kind
	isContent()
}

// SymbolRow describes one physical quantity.
type SymbolRow struct {
	Desc   string `json:"desc"`
	Symbol string `json:"symbol"`
	Unit   string `json:"unit"`
}

// ValueRow is a given quantity with its value.
type ValueRow struct {
	SymbolRow
	Value string `json:"value"`
}

// UnknownRow is a quantity the problem asks for.
type UnknownRow struct {
	Symbol string `json:"symbol"`
	Desc   string `json:"desc"`
}

// ExplainContent explains a concept.
type ExplainContent struct {
	Title    string      `json:"title"`
	Overview string      `json:"overview"`
	Symbols  []SymbolRow `json:"symbols"`
	Formulas []string    `json:"formulas"`
	Steps    []string    `json:"steps"`
}

func (*ExplainContent) Kind() Kind { return KindExplain }
func (*ExplainContent) isContent() {}

// CaseContent is a worked problem. It backs the example, example2 and
// solve actions; Action records which one.
type CaseContent struct {
	Action   Kind         `json:"-"`
	Title    string       `json:"title"`
	Scenario string       `json:"scenario"`
	Givens   []ValueRow   `json:"givens"`
	Unknowns []UnknownRow `json:"unknowns"`
	Formulas []string     `json:"formulas"`
	Steps    []string     `json:"steps"`
	Result   string       `json:"result"`
}

func (c *CaseContent) Kind() Kind {
	if c.Action == "" {
		return KindExample
	}
	return c.Action
}
func (*CaseContent) isContent() {}

// PracticeContent is a single practice question.
type PracticeContent struct {
	Question string `json:"question"`
}

func (*PracticeContent) Kind() Kind { return KindPractice }
func (*PracticeContent) isContent() {}

// Clone returns a deep copy of c.
func Clone(c Content) Content {
	switch v := c.(type) {
	case *ExplainContent:
		out := *v
		out.Symbols = append([]SymbolRow{}, v.Symbols...)
		out.Formulas = append([]string{}, v.Formulas...)
		out.Steps = append([]string{}, v.Steps...)
		return &out
	case *CaseContent:
		out := *v
		out.Givens = append([]ValueRow{}, v.Givens...)
		out.Unknowns = append([]UnknownRow{}, v.Unknowns...)
		out.Formulas = append([]string{}, v.Formulas...)
		out.Steps = append([]string{}, v.Steps...)
		return &out
	case *PracticeContent:
		out := *v
		return &out
	}
	return c
}

// IsBlank reports whether s carries no content: empty, whitespace or the
// placeholder.
func IsBlank(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || t == Placeholder
}
