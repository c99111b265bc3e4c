package recovery

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Candidate is a parsed JSON object that has not been coerced yet.
type Candidate = map[string]any

// parseObject decodes s as exactly one JSON object. Arrays, scalars and
// trailing data are rejected. Numbers stay json.Number so their literal
// form reaches normalization.
func parseObject(s string) (Candidate, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] != '{' {
		return nil, false
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return nil, false
	}
	return m, true
}
