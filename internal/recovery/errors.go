package recovery

import (
	"errors"
	"fmt"

	"github.com/Nda25/anees/internal/content"
)

// SnippetLength bounds how much of a failed completion is surfaced.
const SnippetLength = 300

// ErrUnrecoverableJSON matches every *UnrecoverableError via errors.Is.
var ErrUnrecoverableJSON = errors.New("unrecoverable JSON")

// UnrecoverableError is returned when every recovery stage failed.
type UnrecoverableError struct {
	Action      content.Kind
	Snippet     string // first SnippetLength runes of the raw completion
	RepairCalls int    // repair calls made before giving up
	Err         error  // repair call failure, if any
}

func (e *UnrecoverableError) Error() string {
	msg := fmt.Sprintf("unrecoverable JSON for %s", e.Action)
	if e.Err != nil {
		msg += fmt.Sprintf(" (repair failed: %v)", e.Err)
	}
	return msg
}

func (e *UnrecoverableError) Unwrap() error { return e.Err }

func (e *UnrecoverableError) Is(target error) bool { return target == ErrUnrecoverableJSON }

// Snippet returns the first n runes of s.
func Snippet(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
