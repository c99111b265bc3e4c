package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purposes recorded on LLM request events.
const (
	PurposeGenerate = "generate"
	PurposeRepair   = "json-repair"
)

// WithPurpose attaches a purpose label to the context for event logging.
// Labels look like "generate:practice" so usage can be grouped per action.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
