package recovery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nda25/anees/internal/content"
	"github.com/Nda25/anees/internal/llm"
)

func TestRecover_LocalStages(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		stage Stage
	}{
		{"direct", `{"question":"x"}`, StageDirect},
		{"extracted", "```json\n{\"question\":\"x\"}\n```", StageExtracted},
		{"sanitized", `Here you go: {question: 'x',}`, StageSanitized},
		{"loose", `{"unit": "\mathrm{kg}", final answer: "5"}`, StageLoose},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider()
			e := NewEscalator(mock, nil)

			res, err := e.Recover(context.Background(), tt.raw, content.KindPractice)
			require.NoError(t, err)
			assert.Equal(t, tt.stage, res.Stage)
			assert.False(t, res.Repaired)
			assert.Equal(t, 0, mock.CallCount(), "local stages must not call the provider")
		})
	}
}

func TestRecover_ArrayIsNotAnObject(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: `{"title":"t","overview":"o","symbols":[],"formulas":[],"steps":[]}`})
	e := NewEscalator(mock, nil)

	res, err := e.Recover(context.Background(), `["a","b"]`, content.KindExplain)
	require.NoError(t, err)
	assert.True(t, res.Repaired)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRecover_RepairRound(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "```json\n{\"scenario\":\"كرة\",\"steps\":[\"s\"]}\n```"})
	e := NewEscalator(mock, nil)

	res, err := e.Recover(context.Background(), `scenario = كرة ; steps = s`, content.KindExample)
	require.NoError(t, err)
	assert.True(t, res.Repaired)
	assert.Equal(t, 1, res.RepairCalls)
	assert.Equal(t, StageExtracted, res.Stage)
	assert.Equal(t, "كرة", res.Candidate["scenario"])

	require.Len(t, mock.Calls, 1)
	req := mock.Calls[0]
	assert.True(t, req.JSON)
	assert.Contains(t, req.Messages[0].Content, "<<<\nscenario = كرة ; steps = s\n>>>")
}

func TestRecover_RepairFailsThenScrape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")})
	e := NewEscalator(mock, nil)

	res, err := e.Recover(context.Background(), "احسب سرعة جسم يسقط من ارتفاع 20 m", content.KindPractice)
	require.NoError(t, err)
	assert.Equal(t, StageScraped, res.Stage)
	assert.False(t, res.Repaired)
	assert.Equal(t, 1, res.RepairCalls)
	assert.Equal(t, "احسب سرعة جسم يسقط من ارتفاع 20 m", res.Candidate["question"])
}

func TestRecover_Unrecoverable(t *testing.T) {
	raw := strings.Repeat("x", 500)
	mock := llm.NewMockProvider(llm.MockResponse{Text: "still not json"})
	e := NewEscalator(mock, nil)

	_, err := e.Recover(context.Background(), raw, content.KindExplain)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnrecoverableJSON))

	var ue *UnrecoverableError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, content.KindExplain, ue.Action)
	assert.Len(t, ue.Snippet, SnippetLength)
	assert.Equal(t, 1, ue.RepairCalls)
}

func TestRecover_NoProvider(t *testing.T) {
	e := NewEscalator(nil, nil)
	_, err := e.Recover(context.Background(), "nothing useful", content.KindSolve)
	assert.True(t, errors.Is(err, ErrUnrecoverableJSON))
}

func TestRecover_CancelledDuringRepair(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEscalator(llm.NewMockProvider(llm.MockResponse{Text: "{}"}), nil)
	_, err := e.Recover(ctx, "not json", content.KindExplain)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestRecover_Purpose(t *testing.T) {
	var purpose string
	p := &purposeRecorder{fn: func(ctx context.Context) { purpose = llm.PurposeFrom(ctx) }}
	e := NewEscalator(p, nil)

	_, _ = e.Recover(context.Background(), "not json", content.KindExplain)
	assert.Equal(t, llm.PurposeRepair, purpose)
}

// purposeRecorder records the call context and returns valid JSON.
type purposeRecorder struct {
	fn func(ctx context.Context)
}

func (p *purposeRecorder) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	p.fn(ctx)
	return &llm.Response{Text: `{"title":"t"}`}, nil
}

func (p *purposeRecorder) Name() string    { return "recorder" }
func (p *purposeRecorder) ModelID() string { return "recorder" }
