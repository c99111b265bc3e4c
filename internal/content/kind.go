package content

import (
	"fmt"
	"strings"
)

// Kind selects which content type is generated and which schema and
// quality rules apply to it.
type Kind string

const (
	KindExplain  Kind = "explain"
	KindExample  Kind = "example"
	KindExample2 Kind = "example2"
	KindPractice Kind = "practice"
	KindSolve    Kind = "solve"
)

// Kinds lists every action kind in display order.
func Kinds() []Kind {
	return []Kind{KindExplain, KindExample, KindExample2, KindPractice, KindSolve}
}

// ParseKind parses an action name. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// IsCase reports whether the kind produces a CaseContent document.
func (k Kind) IsCase() bool {
	return k == KindExample || k == KindExample2 || k == KindSolve
}

func (k Kind) String() string { return string(k) }
