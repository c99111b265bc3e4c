package llm

import (
	"context"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Text       string
	Usage      Usage
	StopReason string
	Err        error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
// When Repeat is set, the last response is served again once the queue
// would otherwise be exhausted.
type MockProvider struct {
	mu        sync.Mutex
	name      string
	responses []MockResponse
	last      *MockResponse
	Repeat    bool
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{name: NameMock, responses: responses}
}

// NewNamedMockProvider creates a MockProvider reporting the given name,
// useful when a test routes between several mocks.
func NewNamedMockProvider(name string, responses ...MockResponse) *MockProvider {
	return &MockProvider{name: name, responses: responses}
}

// Generate returns the next canned response. An empty queue yields a
// transport ProviderError.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
		m.last = &resp
	case m.Repeat && m.last != nil:
		resp = *m.last
	default:
		return nil, &ProviderError{Provider: m.name, Reason: ReasonTransport, Err: errMockExhausted}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	stop := resp.StopReason
	if stop == "" {
		stop = "end"
	}

	return &Response{
		Text:       resp.Text,
		Usage:      resp.Usage,
		Provider:   m.name,
		Model:      "mock",
		StopReason: stop,
	}, nil
}

// Name returns the provider name, "mock" unless overridden.
func (m *MockProvider) Name() string {
	return m.name
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

type mockError string

func (e mockError) Error() string { return string(e) }

const errMockExhausted = mockError("mock provider has no responses left")
