package tutor

// State is a step of one generation.
type State string

const (
	StateBuilt      State = "built"
	StateSent       State = "sent"
	StateRecovered  State = "recovered"
	StateCoerced    State = "coerced"
	StateNormalized State = "normalized"
	StateAccepted   State = "accepted"
	StateRejected   State = "rejected"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	switch s {
	case StateAccepted, StateFailed, StateCancelled:
		return true
	}
	return false
}

// Outcomes recorded on generation events.
const (
	OutcomeAccepted  = "accepted"
	OutcomeDegraded  = "degraded"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
	OutcomeInvalid   = "invalid"
)
