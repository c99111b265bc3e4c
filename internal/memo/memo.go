// Package memo remembers what each session was last shown so the next
// practice question can differ from it.
package memo

import (
	"context"
	"time"
)

// DefaultTTL is how long a session's memo survives without updates.
const DefaultTTL = 2 * time.Hour

// Entry is the last content returned to a session.
type Entry struct {
	Question string `json:"question"` // last practice question
	Scenario string `json:"scenario"` // last example scenario
}

// Store is a last-value cell per session. Writes replace the previous
// value of the field they set; the last write wins.
type Store interface {
	// Get returns the session's entry, or a zero Entry if none is stored
	// or it expired.
	Get(ctx context.Context, session string) (Entry, error)

	// SetQuestion records the practice question returned to session.
	SetQuestion(ctx context.Context, session, question string) error

	// SetScenario records the example scenario returned to session.
	SetScenario(ctx context.Context, session, scenario string) error
}
