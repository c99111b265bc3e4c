package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nda25/anees/internal/content"
	"github.com/Nda25/anees/internal/llm"
	"github.com/Nda25/anees/internal/quality"
	"github.com/Nda25/anees/internal/recovery"
	"github.com/Nda25/anees/internal/tutor"
)

// generatorFunc adapts a function to Generator.
type generatorFunc func(ctx context.Context, req content.Request) (*tutor.Result, error)

func (f generatorFunc) Generate(ctx context.Context, req content.Request) (*tutor.Result, error) {
	return f(ctx, req)
}

func post(t *testing.T, h http.Handler, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGenerate_Success(t *testing.T) {
	var got content.Request
	gen := generatorFunc(func(_ context.Context, req content.Request) (*tutor.Result, error) {
		got = req
		return &tutor.Result{
			RequestID: "req-1",
			Content:   &content.PracticeContent{Question: "سؤال"},
			Accepted:  true,
			Attempts:  2,
			Stage:     recovery.StageSanitized,
			Provider:  "gemini",
		}, nil
	})
	h := NewServer(gen, nil, 0).Routes()

	for _, path := range []string{"/api/generate", "/.netlify/functions/anees"} {
		t.Run(path, func(t *testing.T) {
			w := post(t, h, path, `{"action":"practice","concept":"الزخم","question":null,"preferred_formula":"p = mv"}`, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

			assert.JSONEq(t, `{
				"ok": true,
				"data": {"question": "سؤال"},
				"meta": {"request_id": "req-1", "attempts": 2, "repair_calls": 0, "accepted": true, "stage": "sanitized", "provider": "gemini"}
			}`, w.Body.String())

			assert.Equal(t, content.KindPractice, got.Action)
			assert.Equal(t, "الزخم", got.Concept)
			assert.Equal(t, "p = mv", got.PreferredFormula)
		})
	}
}

func TestGenerate_DegradedCarriesRejection(t *testing.T) {
	gen := generatorFunc(func(context.Context, content.Request) (*tutor.Result, error) {
		return &tutor.Result{
			Content:   &content.PracticeContent{Question: "قصير"},
			Attempts:  3,
			Rejection: &quality.ValidationError{Validator: "min-length"},
		}, nil
	})
	w := post(t, NewServer(gen, nil, 0).Routes(), "/api/generate", `{"action":"practice","concept":"x"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Meta Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Meta.Accepted)
	assert.Equal(t, "min-length", body.Meta.Rejection)
}

func TestGenerate_SessionHeader(t *testing.T) {
	var sessions []string
	gen := generatorFunc(func(_ context.Context, req content.Request) (*tutor.Result, error) {
		sessions = append(sessions, req.Session)
		return &tutor.Result{Content: &content.PracticeContent{Question: "q"}}, nil
	})
	h := NewServer(gen, nil, 0).Routes()
	header := http.Header{SessionHeader: []string{"from-header"}}

	post(t, h, "/api/generate", `{"action":"practice","concept":"x"}`, header)
	post(t, h, "/api/generate", `{"action":"practice","concept":"x","session_id":"from-body"}`, header)

	assert.Equal(t, []string{"from-header", "from-body"}, sessions)
}

func TestGenerate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		snippet string
	}{
		{"invalid", fmt.Errorf("%w: missing concept", tutor.ErrInvalidRequest), http.StatusBadRequest, ""},
		{"cancelled", fmt.Errorf("%w: %w", tutor.ErrCancelled, context.Canceled), http.StatusRequestTimeout, ""},
		{"no credential", &llm.ProviderError{Provider: "openai", Reason: llm.ReasonNoCredential}, http.StatusInternalServerError, ""},
		{"rate limited", &llm.ProviderError{Provider: "gemini", Reason: llm.ReasonRateLimited, Status: 429}, http.StatusTooManyRequests, ""},
		{"transport", fmt.Errorf("generate: %w", &llm.ProviderError{Provider: "gemini", Reason: llm.ReasonTransport, Status: 500}), http.StatusBadGateway, ""},
		{"empty", &llm.ProviderError{Provider: "gemini", Reason: llm.ReasonEmptyCompletion}, http.StatusBadGateway, ""},
		{"unrecoverable", &recovery.UnrecoverableError{Action: content.KindExample, Snippet: "not json"}, http.StatusBadGateway, "not json"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := generatorFunc(func(context.Context, content.Request) (*tutor.Result, error) {
				return nil, tt.err
			})
			w := post(t, NewServer(gen, nil, 0).Routes(), "/api/generate", `{"action":"explain","concept":"x"}`, nil)
			require.Equal(t, tt.status, w.Code)

			var body Failure
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.OK)
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.snippet, body.Snippet)
		})
	}
}

func TestGenerate_BadBody(t *testing.T) {
	called := false
	gen := generatorFunc(func(context.Context, content.Request) (*tutor.Result, error) {
		called = true
		return nil, nil
	})
	w := post(t, NewServer(gen, nil, 0).Routes(), "/api/generate", `{"action":`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
}

func TestGenerate_Timeout(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, _ content.Request) (*tutor.Result, error) {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %w", tutor.ErrCancelled, ctx.Err())
	})
	w := post(t, NewServer(gen, nil, 10*time.Millisecond).Routes(), "/api/generate", `{"action":"explain","concept":"x"}`, nil)
	assert.Equal(t, http.StatusRequestTimeout, w.Code)
}

func TestHealthz(t *testing.T) {
	h := NewServer(generatorFunc(nil), nil, 0).Routes()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerate_MethodNotAllowed(t *testing.T) {
	h := NewServer(generatorFunc(nil), nil, 0).Routes()
	req := httptest.NewRequest(http.MethodGet, "/api/generate", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// TestGenerate_WithTutor runs the real pipeline behind the handler.
func TestGenerate_WithTutor(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "```json\n{\"title\": \"الشغل\", \"overview\": \"تعريف\", \"symbols\": [], \"formulas\": [\"W = Fd\"], \"steps\": [\"1. نحسب\"],}\n```"})
	tu := tutor.New(mock, tutor.DefaultConfig())
	h := NewServer(tu, nil, 0).Routes()

	w := post(t, h, "/api/generate", `{"action":"explain","concept":"الشغل","preferred_formula":"W = Fd \\cos\\theta"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		OK   bool                   `json:"ok"`
		Data content.ExplainContent `json:"data"`
		Meta Meta                   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.True(t, body.Meta.Accepted)
	assert.Equal(t, "sanitized", body.Meta.Stage)
	assert.Equal(t, []string{`$$W = Fd \cos\theta$$`, "$$W = Fd$$"}, body.Data.Formulas)
	assert.Equal(t, []string{"نحسب"}, body.Data.Steps)
}
