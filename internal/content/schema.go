package content

import "github.com/Nda25/anees/internal/llm"

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func stringArray(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

func objectArray(desc string, props map[string]any) map[string]any {
	required := make([]any, 0, len(props))
	for _, k := range sortedKeys(props) {
		required = append(required, k)
	}
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		},
		"description": desc,
	}
}

var symbolRowProps = map[string]any{
	"desc":   stringProp("Arabic description of the quantity"),
	"symbol": stringProp("LaTeX symbol, e.g. v or \\Delta x"),
	"unit":   stringProp("SI unit in LaTeX, e.g. \\mathrm{m/s}"),
}

var valueRowProps = map[string]any{
	"desc":   stringProp("Arabic description of the quantity"),
	"symbol": stringProp("LaTeX symbol"),
	"unit":   stringProp("SI unit in LaTeX"),
	"value":  stringProp("Numeric value without the unit"),
}

var unknownRowProps = map[string]any{
	"symbol": stringProp("LaTeX symbol"),
	"desc":   stringProp("Arabic description of the quantity to find"),
}

// ExplainSchema is the JSON contract for the explain action.
var ExplainSchema = &llm.Schema{
	Name:        "anees-explain",
	Description: "Arabic explanation of a physics concept",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":    stringProp("Short Arabic title"),
			"overview": stringProp("One or two Arabic paragraphs introducing the concept"),
			"symbols":  objectArray("Quantities used by the formulas", symbolRowProps),
			"formulas": stringArray("Key formulas in LaTeX"),
			"steps":    stringArray("Ordered Arabic explanation points, without numbering"),
		},
		"required":             []any{"title", "overview", "symbols", "formulas", "steps"},
		"additionalProperties": false,
	},
}

// CaseSchema is the JSON contract for the example, example2 and solve actions.
var CaseSchema = &llm.Schema{
	Name:        "anees-case",
	Description: "Arabic worked physics problem",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":    stringProp("Short Arabic title"),
			"scenario": stringProp("The problem statement in Arabic"),
			"givens":   objectArray("Given quantities", valueRowProps),
			"unknowns": objectArray("Quantities to find", unknownRowProps),
			"formulas": stringArray("Formulas used, in LaTeX"),
			"steps":    stringArray("Ordered Arabic solution steps, without numbering"),
			"result":   stringProp("Final answer with unit"),
		},
		"required":             []any{"title", "scenario", "givens", "unknowns", "formulas", "steps", "result"},
		"additionalProperties": false,
	},
}

// PracticeSchema is the JSON contract for the practice action.
var PracticeSchema = &llm.Schema{
	Name:        "anees-practice",
	Description: "A single Arabic physics practice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": stringProp("The question text only, in Arabic, with at least one number and unit"),
		},
		"required":             []any{"question"},
		"additionalProperties": false,
	},
}

// SchemaFor returns the JSON contract the model is asked to follow for kind.
func SchemaFor(kind Kind) *llm.Schema {
	switch kind {
	case KindExplain:
		return ExplainSchema
	case KindPractice:
		return PracticeSchema
	default:
		return CaseSchema
	}
}
