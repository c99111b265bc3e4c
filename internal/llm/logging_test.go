package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Nda25/anees/internal/store"
)

// fakeEventRepo records LLM events and ignores everything else.
type fakeEventRepo struct {
	llmEvents []store.LLMRequestEventData
	appendErr error
}

func (r *fakeEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.llmEvents = append(r.llmEvents, data)
	return nil
}

func (r *fakeEventRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMRequestEventRecord, error) {
	return nil, nil
}

func (r *fakeEventRepo) GetLLMEvent(context.Context, int) (*store.LLMRequestEventRecord, error) {
	return nil, nil
}

func (r *fakeEventRepo) LLMUsageByPurpose(context.Context) ([]store.LLMUsageStats, error) {
	return nil, nil
}

func (r *fakeEventRepo) LLMUsageByModel(context.Context) ([]store.LLMModelUsage, error) {
	return nil, nil
}

func (r *fakeEventRepo) AppendGeneration(context.Context, store.GenerationEventData) error {
	return nil
}

func (r *fakeEventRepo) QueryGenerations(context.Context, store.QueryOpts) ([]store.GenerationEventRecord, error) {
	return nil, nil
}

func (r *fakeEventRepo) GenerationStatsByAction(context.Context) ([]store.GenerationStats, error) {
	return nil, nil
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := &fakeEventRepo{}
	mock := NewMockProvider(MockResponse{
		Text:  `{"question":"..."}`,
		Usage: Usage{InputTokens: 12, OutputTokens: 4},
	})
	p := WithLogging(mock, repo, zap.NewNop())

	ctx := WithPurpose(context.Background(), "generate:practice")
	_, err := p.Generate(ctx, Request{
		System:   "system prompt",
		Messages: []Message{{Role: RoleUser, Content: "question please"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.llmEvents) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.llmEvents))
	}
	ev := repo.llmEvents[0]
	if !ev.Success || ev.Purpose != "generate:practice" {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.InputTokens != 12 || ev.OutputTokens != 4 {
		t.Errorf("tokens = %d/%d, want 12/4", ev.InputTokens, ev.OutputTokens)
	}
	if !strings.Contains(ev.RequestBody, "[system]\nsystem prompt") || !strings.Contains(ev.RequestBody, "[user]\nquestion please") {
		t.Errorf("request body = %q", ev.RequestBody)
	}
	if ev.ResponseBody != `{"question":"..."}` {
		t.Errorf("response body = %q", ev.ResponseBody)
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	repo := &fakeEventRepo{}
	mock := NewMockProvider(MockResponse{Err: errEmpty("mock")})
	p := WithLogging(mock, repo, zap.NewNop())

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}

	if len(repo.llmEvents) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.llmEvents))
	}
	ev := repo.llmEvents[0]
	if ev.Success {
		t.Error("expected failed event")
	}
	if ev.Purpose != "unknown" {
		t.Errorf("purpose = %q, want unknown", ev.Purpose)
	}
	if !strings.Contains(ev.ErrorMessage, "empty_completion") {
		t.Errorf("error message = %q", ev.ErrorMessage)
	}
}

func TestLoggingProvider_RepoFailureDoesNotFailCall(t *testing.T) {
	repo := &fakeEventRepo{appendErr: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Text: "ok"}), repo, nil)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "ok" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Text: "ok"}), nil, zap.NewNop())
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "mock" {
		t.Errorf("name = %q, want mock", p.Name())
	}
}

func TestPreview(t *testing.T) {
	short := "قصير"
	if got := preview(short); got != short {
		t.Errorf("preview(short) = %q", got)
	}

	long := strings.Repeat("ع", maxBodyPreview+10)
	got := preview(long)
	if n := len([]rune(got)); n != maxBodyPreview+1 {
		t.Errorf("preview rune count = %d, want %d", n, maxBodyPreview+1)
	}
}
