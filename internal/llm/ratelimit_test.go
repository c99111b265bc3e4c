package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimit_DisabledReturnsInner(t *testing.T) {
	mock := NewMockProvider()
	if p := WithRateLimit(mock, 0, 1); p != Provider(mock) {
		t.Fatal("expected the inner provider when limiting is disabled")
	}
}

func TestRateLimit_PassesThrough(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "a"}, MockResponse{Text: "b"})
	p := WithRateLimit(mock, 6000, 2)

	for _, want := range []string{"a", "b"} {
		resp, err := p.Generate(context.Background(), Request{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Text != want {
			t.Fatalf("got %q, want %q", resp.Text, want)
		}
	}
}

func TestRateLimit_DeadlineTooShort(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "a"}, MockResponse{Text: "b"})
	// One call per minute: the second call cannot be admitted in time.
	p := WithRateLimit(mock, 1, 1)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Request{})
	if err == nil {
		t.Fatal("expected error for second call")
	}
	var pe *ProviderError
	if !errors.As(err, &pe) && !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("unexpected error type %T: %v", err, err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call to reach the provider, got %d", mock.CallCount())
	}
}
