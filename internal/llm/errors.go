package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Reason classifies a provider failure.
type Reason string

const (
	// ReasonNoCredential means the provider has no API key configured.
	ReasonNoCredential Reason = "no_credential"
	// ReasonTransport covers HTTP errors and network failures.
	ReasonTransport Reason = "transport"
	// ReasonRateLimited means the provider refused the call for quota reasons.
	ReasonRateLimited Reason = "rate_limited"
	// ReasonEmptyCompletion means the call succeeded but carried no text.
	ReasonEmptyCompletion Reason = "empty_completion"
)

// ProviderError is returned by every Provider when a call fails.
type ProviderError struct {
	Provider   string
	Reason     Reason
	Status     int           // HTTP status, 0 when the request never got a response
	RetryAfter time.Duration // server hint, zero when absent
	Err        error
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Provider, e.Reason)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// errNoCredential builds the error returned for an unconfigured provider.
func errNoCredential(provider string) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Reason:   ReasonNoCredential,
		Err:      fmt.Errorf("%s API key is not configured", provider),
	}
}

// errEmpty builds the error returned when a completion carries no text.
func errEmpty(provider string) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Reason:   ReasonEmptyCompletion,
		Err:      fmt.Errorf("no text in completion"),
	}
}

// classifyStatus maps an HTTP status returned by a provider SDK into a
// ProviderError. Quota messages are treated as rate limits even when the
// provider reports them with another status.
func classifyStatus(provider string, status int, err error) *ProviderError {
	pe := &ProviderError{Provider: provider, Reason: ReasonTransport, Status: status, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		pe.Reason = ReasonRateLimited
	case err != nil && isQuotaMessage(err.Error()):
		pe.Reason = ReasonRateLimited
	}
	return pe
}

func isQuotaMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "quota")
}

// ErrInvalidResponse indicates content that does not conform to the
// requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }
