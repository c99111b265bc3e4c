package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates token usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// GenerationEventData records the outcome of one content generation.
type GenerationEventData struct {
	RequestID    string
	SessionID    string
	Action       string
	Concept      string
	Attempts     int
	RepairCalls  int
	Stage        string // recovery stage that produced the JSON
	Provider     string
	Outcome      string // accepted, degraded, failed, cancelled, invalid
	Accepted     bool
	ErrorMessage string
	LatencyMs    int64
}

// GenerationEventRecord is a stored generation event.
type GenerationEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	GenerationEventData
}

// GenerationStats aggregates generation outcomes for one action.
type GenerationStats struct {
	Action       string
	Total        int
	Accepted     int
	AvgAttempts  float64
	AvgLatencyMs int64
}

// EventRepo provides append and query access to events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM event, or nil if it doesn't exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// AppendGeneration records the outcome of a content generation.
	AppendGeneration(ctx context.Context, data GenerationEventData) error

	// QueryGenerations returns generation events, newest first.
	QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEventRecord, error)

	// GenerationStatsByAction aggregates outcomes per action.
	GenerationStatsByAction(ctx context.Context) ([]GenerationStats, error)
}
