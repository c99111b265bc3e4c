package recovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Nda25/anees/internal/content"
	"github.com/Nda25/anees/internal/llm"
)

// Stage names the recovery step that produced a candidate.
type Stage string

const (
	StageDirect    Stage = "direct"
	StageExtracted Stage = "extracted"
	StageSanitized Stage = "sanitized"
	StageLoose     Stage = "loose"
	StageScraped   Stage = "scraped"
)

// Strategy is one local recovery step. Parse reports false when the text
// yields no JSON object.
type Strategy struct {
	Stage Stage
	Parse func(text string) (Candidate, bool)
}

// DefaultStrategies is the local ladder, cheapest first.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{StageDirect, parseObject},
		{StageExtracted, func(s string) (Candidate, bool) {
			return parseObject(Extract(s))
		}},
		{StageSanitized, func(s string) (Candidate, bool) {
			return parseObject(Sanitize(Extract(s)))
		}},
		{StageLoose, func(s string) (Candidate, bool) {
			return parseObject(Loosen(Sanitize(Extract(s))))
		}},
	}
}

// Result is a recovered candidate and how it was obtained.
type Result struct {
	Candidate Candidate
	Stage     Stage
	Repaired  bool // the candidate came from the repair call's output
	Text      string

	// RepairCalls counts repair calls made, whether or not their output
	// was used.
	RepairCalls int
}

// Escalator runs the recovery ladder: local strategies, then one repair
// round through the provider, then heuristic scraping.
type Escalator struct {
	provider   llm.Provider // nil disables the repair round
	strategies []Strategy
	log        *zap.Logger

	// RepairMaxTokens is the output budget of the repair call.
	RepairMaxTokens int
}

// NewEscalator creates an Escalator. provider may be nil.
func NewEscalator(provider llm.Provider, log *zap.Logger) *Escalator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Escalator{
		provider:        provider,
		strategies:      DefaultStrategies(),
		log:             log.With(zap.String("component", "recovery")),
		RepairMaxTokens: 900,
	}
}

// firstSuccess evaluates the strategies in order and returns the first hit.
func (e *Escalator) firstSuccess(text string) (Candidate, Stage, bool) {
	for _, s := range e.strategies {
		if c, ok := s.Parse(text); ok {
			return c, s.Stage, true
		}
	}
	return nil, "", false
}

// Recover turns raw model output into a candidate object for kind. The
// only errors are *UnrecoverableError and a context error when ctx ends
// during the repair call.
func (e *Escalator) Recover(ctx context.Context, raw string, kind content.Kind) (*Result, error) {
	if c, stage, ok := e.firstSuccess(raw); ok {
		return &Result{Candidate: c, Stage: stage, Text: raw}, nil
	}
	e.log.Debug("local recovery failed", zap.String("action", kind.String()), zap.Int("length", len(raw)))

	var repaired string
	var repairErr error
	calls := 0
	if e.provider != nil {
		calls = 1
		repaired, repairErr = e.repair(ctx, raw, kind)
		if repairErr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.log.Warn("repair call failed", zap.String("action", kind.String()), zap.Error(repairErr))
		} else if c, stage, ok := e.firstSuccess(repaired); ok {
			return &Result{Candidate: c, Stage: stage, Repaired: true, Text: repaired, RepairCalls: calls}, nil
		}
	}

	if c, ok := Scrape(kind, raw); ok {
		return &Result{Candidate: c, Stage: StageScraped, Text: raw, RepairCalls: calls}, nil
	}
	if repaired != "" {
		if c, ok := Scrape(kind, repaired); ok {
			return &Result{Candidate: c, Stage: StageScraped, Repaired: true, Text: repaired, RepairCalls: calls}, nil
		}
	}

	return nil, &UnrecoverableError{
		Action:      kind,
		Snippet:     Snippet(raw, SnippetLength),
		RepairCalls: calls,
		Err:         repairErr,
	}
}

const repairSystem = `You repair malformed JSON. Rewrite the text between <<< and >>> into valid JSON that matches the schema. Keep the original Arabic wording and LaTeX. Use double quotes only. Return the JSON object only, with no commentary and no code fences.`

func (e *Escalator) repair(ctx context.Context, raw string, kind content.Kind) (string, error) {
	schema := content.SchemaFor(kind)
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Schema:\n%s\n\n<<<\n%s\n>>>", def, raw)

	ctx = llm.WithPurpose(ctx, llm.PurposeRepair)
	resp, err := e.provider.Generate(ctx, llm.Request{
		System:    repairSystem,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: b.String()}},
		JSON:      true,
		MaxTokens: e.RepairMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("repair call: %w", err)
	}
	return resp.Text, nil
}
