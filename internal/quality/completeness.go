package quality

import (
	"errors"

	"github.com/Nda25/anees/internal/content"
	"github.com/Nda25/anees/internal/llm"
)

// filled is a string that is neither empty nor the placeholder.
var filled = map[string]any{
	"type": "string",
	"not":  map[string]any{"pattern": `^\s*(` + content.Placeholder + `)?\s*$`},
}

// CompleteCaseSchema accepts a worked problem only when it has a scenario,
// at least one formula, at least one step and a result.
var CompleteCaseSchema = &llm.Schema{
	Name:        "anees-case-complete",
	Description: "A worked problem with every mandatory field filled",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"scenario", "formulas", "steps", "result"},
		"properties": map[string]any{
			"scenario": filled,
			"formulas": map[string]any{"type": "array", "minItems": 1, "items": filled},
			"steps":    map[string]any{"type": "array", "minItems": 1, "items": filled},
			"result":   filled,
		},
	},
}

// CompletenessValidator rejects worked problems missing mandatory fields.
type CompletenessValidator struct{}

func (v *CompletenessValidator) Name() string { return "completeness" }

func (v *CompletenessValidator) Validate(c content.Content, _ History) *ValidationError {
	cc, ok := c.(*content.CaseContent)
	if !ok {
		return nil
	}
	if err := llm.ValidateValue(CompleteCaseSchema, cc); err != nil {
		msg := "incomplete example"
		var inv *llm.ErrInvalidResponse
		if errors.As(err, &inv) && inv.Err != nil {
			msg += ": " + inv.Err.Error()
		}
		return &ValidationError{
			Validator: v.Name(),
			Message:   msg,
			Retryable: true,
			Severity:  SeverityMajor,
		}
	}
	return nil
}
