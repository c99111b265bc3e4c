package llm

import "context"

// Provider is the core abstraction for LLM interaction.
// Consumers call Generate with a Request and receive the model's raw text.
type Provider interface {
	// Generate sends a prompt to the LLM and returns its completion text.
	// The request's Schema and JSON fields ask the provider to answer with
	// JSON, but the text is returned unparsed: models routinely wrap, truncate
	// or decorate their JSON, and recovering it is the caller's job.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider identifier ("gemini", "openai", ...).
	Name() string

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history. Generation is single-turn, so
	// this normally holds one user message.
	Messages []Message

	// Schema is the JSON Schema the response should conform to.
	// When set, the provider uses its native structured output mechanism.
	Schema *Schema

	// JSON asks for a JSON response without a schema (plain JSON mode).
	// Implied when Schema is set.
	JSON bool

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// WantsJSON reports whether the request asks for a JSON answer.
func (r Request) WantsJSON() bool {
	return r.JSON || r.Schema != nil
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema (schema name for OpenAI, cache key for
	// validation). Kebab-case, e.g. "explain-content".
	Name string

	// Description is a human-readable description of what this schema
	// represents. Sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Text is the completion exactly as the model produced it.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Provider is the name of the provider that served the request.
	Provider string

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Truncated reports whether generation stopped on the token limit.
func (r *Response) Truncated() bool {
	return r.StopReason == "max_tokens"
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
