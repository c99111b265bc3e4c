package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func exampleSchema() *Schema {
	return &Schema{
		Name:        "test-example",
		Description: "A worked example",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"scenario": map[string]any{"type": "string", "minLength": 1},
				"solution_steps": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 1,
				},
				"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
			},
			"required": []any{"scenario", "solution_steps"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"scenario":"سيارة تتسارع","solution_steps":["a = F/m"],"difficulty":"easy"}`, false},
		{"valid without optional", `{"scenario":"كرة تسقط","solution_steps":["v = gt"]}`, false},
		{"missing required", `{"scenario":"كرة تسقط"}`, true},
		{"wrong type", `{"scenario":"كرة","solution_steps":"v = gt"}`, true},
		{"empty array", `{"scenario":"كرة","solution_steps":[]}`, true},
		{"invalid enum", `{"scenario":"كرة","solution_steps":["x"],"difficulty":"extreme"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResponse(exampleSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := ValidateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateValue_Struct(t *testing.T) {
	type example struct {
		Scenario      string   `json:"scenario"`
		SolutionSteps []string `json:"solution_steps"`
	}

	ok := example{Scenario: "جسم على سطح مائل", SolutionSteps: []string{"F = mg\\sin\\theta"}}
	if err := ValidateValue(exampleSchema(), ok); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// A nil slice marshals to null, which is not an array.
	bad := example{Scenario: "جسم على سطح مائل"}
	if err := ValidateValue(exampleSchema(), bad); err == nil {
		t.Fatal("expected error for missing steps")
	}
}
