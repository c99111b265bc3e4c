package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Nda25/anees/internal/content"
	"github.com/Nda25/anees/internal/llm"
	"github.com/Nda25/anees/internal/recovery"
	"github.com/Nda25/anees/internal/tutor"
)

// Meta describes how a response was produced.
type Meta struct {
	RequestID   string `json:"request_id"`
	Attempts    int    `json:"attempts"`
	RepairCalls int    `json:"repair_calls"`
	Accepted    bool   `json:"accepted"`
	Stage       string `json:"stage,omitempty"`
	Provider    string `json:"provider,omitempty"`
	Rejection   string `json:"rejection,omitempty"`
}

// Success is the body of a 200 response.
type Success struct {
	OK   bool            `json:"ok"`
	Data content.Content `json:"data"`
	Meta Meta            `json:"meta"`
}

// Failure is the body of every error response.
type Failure struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Snippet string `json:"snippet,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"ok": false, "error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a failure envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Failure{Error: message})
}

// StatusFor maps a generation error to its HTTP status and the failure
// envelope sent to the client.
func StatusFor(err error) (int, Failure) {
	var perr *llm.ProviderError
	var unrec *recovery.UnrecoverableError

	switch {
	case errors.Is(err, tutor.ErrInvalidRequest):
		return http.StatusBadRequest, Failure{Error: err.Error()}
	case errors.Is(err, tutor.ErrCancelled):
		return http.StatusRequestTimeout, Failure{Error: "request cancelled"}
	case errors.As(err, &unrec):
		return http.StatusBadGateway, Failure{Error: "the model returned output that could not be read as JSON", Snippet: unrec.Snippet}
	case errors.As(err, &perr):
		switch perr.Reason {
		case llm.ReasonNoCredential:
			return http.StatusInternalServerError, Failure{Error: "no API key is configured for " + perr.Provider}
		case llm.ReasonRateLimited:
			return http.StatusTooManyRequests, Failure{Error: "the provider is rate limiting requests, try again shortly"}
		case llm.ReasonEmptyCompletion:
			return http.StatusBadGateway, Failure{Error: "the model returned an empty answer"}
		default:
			return http.StatusBadGateway, Failure{Error: "the provider request failed"}
		}
	}
	return http.StatusInternalServerError, Failure{Error: "unexpected error"}
}

// NewSuccess builds the 200 envelope for res.
func NewSuccess(res *tutor.Result) Success {
	return Success{OK: true, Data: res.Content, Meta: metaFor(res)}
}

func metaFor(res *tutor.Result) Meta {
	m := Meta{
		RequestID:   res.RequestID,
		Attempts:    res.Attempts,
		RepairCalls: res.RepairCalls,
		Accepted:    res.Accepted,
		Stage:       string(res.Stage),
		Provider:    res.Provider,
	}
	if res.Rejection != nil {
		m.Rejection = res.Rejection.Validator
	}
	return m
}
