// Package quality decides whether normalized content is good enough to
// return or should be generated again.
package quality

import (
	"fmt"

	"github.com/Nda25/anees/internal/content"
)

// Validator checks one property of generated content.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator (for error messages
	// and logging), e.g. "min-length", "duplicate".
	Name() string

	// Validate returns nil if c passes, or a ValidationError describing
	// the failure. history carries the previously returned content of the
	// session.
	Validate(c content.Content, history History) *ValidationError
}

// History is what the session returned last, used to avoid repeats.
type History struct {
	LastQuestion string // last practice question
	LastScenario string // last example scenario
}

// Severity ranks how bad a rejected candidate is. When every attempt is
// rejected the candidate with the lowest severity is returned.
type Severity int

const (
	SeverityMinor Severity = iota + 1
	SeverityMajor
	SeverityDuplicate
)

func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "minor"
	case SeverityMajor:
		return "major"
	case SeverityDuplicate:
		return "duplicate"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// ValidationError describes why content failed validation.
type ValidationError struct {
	Validator string   // Name of the validator that failed
	Message   string   // Human-readable description of the failure
	Retryable bool     // Whether regeneration is likely to fix this
	Severity  Severity // How far the content is from acceptable
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
