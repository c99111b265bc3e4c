// Package tutor orchestrates one content generation: prompt, provider
// call, JSON recovery, coercion, normalization and the quality gate, with
// bounded retries and graceful degradation.
package tutor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nda25/anees/internal/content"
	"github.com/Nda25/anees/internal/llm"
	"github.com/Nda25/anees/internal/memo"
	"github.com/Nda25/anees/internal/normalize"
	"github.com/Nda25/anees/internal/quality"
	"github.com/Nda25/anees/internal/recovery"
	"github.com/Nda25/anees/internal/store"
)

// Result is the outcome of a generation.
type Result struct {
	RequestID   string
	Content     content.Content
	Accepted    bool // false when the content is the best rejected candidate
	Attempts    int  // generation calls made
	RepairCalls int  // JSON repair calls made
	Stage       recovery.Stage
	Provider    string
	Rejection   *quality.ValidationError // why the content was not accepted
	Trace       []State
}

// Tutor runs generations. It is safe for concurrent use; the memo store
// is the only state shared between requests.
type Tutor struct {
	provider   llm.Provider
	escalator  *recovery.Escalator
	normalizer *normalize.Normalizer
	gate       *quality.Gate
	memo       memo.Store
	events     store.EventRepo
	prompts    PromptBuilder
	log        *zap.Logger
	cfg        Config
}

// Option configures a Tutor.
type Option func(*Tutor)

// WithMemo sets the memo store. The default is an in-memory store.
func WithMemo(m memo.Store) Option { return func(t *Tutor) { t.memo = m } }

// WithEvents records every generation to repo.
func WithEvents(repo store.EventRepo) Option { return func(t *Tutor) { t.events = repo } }

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option { return func(t *Tutor) { t.log = log } }

// WithPrompts replaces the prompt builder.
func WithPrompts(p PromptBuilder) Option { return func(t *Tutor) { t.prompts = p } }

// WithNormalizer replaces the normalizer.
func WithNormalizer(n *normalize.Normalizer) Option { return func(t *Tutor) { t.normalizer = n } }

// New creates a Tutor that generates with provider.
func New(provider llm.Provider, cfg Config, opts ...Option) *Tutor {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	t := &Tutor{
		provider:   provider,
		normalizer: normalize.New(),
		gate:       quality.NewGate(cfg.Quality),
		memo:       memo.NewMemoryStore(memo.DefaultTTL),
		prompts:    DefaultPrompts{},
		log:        zap.NewNop(),
		cfg:        cfg,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With(zap.String("component", "tutor"))
	t.escalator = recovery.NewEscalator(provider, t.log)
	return t
}

// run is the mutable state of one Generate call.
type run struct {
	id      string
	req     content.Request
	started time.Time
	trace   []State
	log     *zap.Logger
}

func (r *run) enter(s State, fields ...zap.Field) {
	r.trace = append(r.trace, s)
	r.log.Debug("transition", append([]zap.Field{zap.String("state", string(s))}, fields...)...)
}

// candidate is a normalized but rejected attempt.
type candidate struct {
	content  content.Content
	verr     *quality.ValidationError
	stage    recovery.Stage
	provider string
}

// Generate produces content for req. Errors are ErrInvalidRequest,
// ErrCancelled, a *llm.ProviderError or a *recovery.UnrecoverableError,
// possibly wrapped.
func (t *Tutor) Generate(ctx context.Context, req content.Request) (*Result, error) {
	r := &run{id: uuid.NewString(), req: req.Normalized(), started: time.Now()}
	r.log = t.log.With(zap.String("request_id", r.id), zap.String("action", r.req.Action.String()))

	if err := r.req.Validate(); err != nil {
		t.record(ctx, r, &Result{}, OutcomeInvalid, err)
		return nil, invalid(err.Error())
	}

	entry, err := t.memo.Get(ctx, r.req.Session)
	if err != nil {
		r.log.Warn("read memo", zap.Error(err))
	}
	if r.req.Action == content.KindSolve && r.req.Question == "" {
		if entry.Question == "" {
			t.record(ctx, r, &Result{}, OutcomeInvalid, errors.New("no question to solve"))
			return nil, invalid("no question to solve")
		}
		r.req.Question = entry.Question
	}
	history := quality.History{LastQuestion: entry.Question, LastScenario: entry.Scenario}

	res := &Result{RequestID: r.id}
	var best *candidate
	var reason string

	for attempt := 1; attempt <= t.cfg.MaxAttempts; attempt++ {
		res.Attempts = attempt

		avoid := ""
		if r.req.Action == content.KindPractice {
			avoid = history.LastQuestion
		}
		prompt := t.prompts.Build(r.req, Variation{Attempt: attempt, Reason: reason, Avoid: avoid})
		r.enter(StateBuilt, zap.Int("attempt", attempt))

		resp, err := t.provider.Generate(llm.WithPurpose(ctx, llm.PurposeGenerate+":"+r.req.Action.String()), llm.Request{
			System:      prompt.System,
			Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt.User}},
			Schema:      content.SchemaFor(r.req.Action),
			JSON:        true,
			MaxTokens:   t.cfg.MaxTokens,
			Temperature: t.cfg.temperature(attempt),
		})
		r.enter(StateSent)
		if err != nil {
			if best != nil && !isCancellation(ctx, err) {
				r.log.Warn("provider failed, returning earlier candidate", zap.Int("attempt", attempt), zap.Error(err))
				return t.giveUp(ctx, r, res, best)
			}
			return t.fail(ctx, r, res, err)
		}
		res.Provider = resp.Provider

		rec, err := t.escalator.Recover(ctx, resp.Text, r.req.Action)
		if err != nil {
			var unrec *recovery.UnrecoverableError
			if !errors.As(err, &unrec) || ctx.Err() != nil {
				res.RepairCalls++
				if best != nil && !isCancellation(ctx, err) {
					return t.giveUp(ctx, r, res, best)
				}
				return t.fail(ctx, r, res, err)
			}
			res.RepairCalls += unrec.RepairCalls
			if r.req.Action == content.KindExplain {
				r.log.Warn("explain unrecoverable, returning defaults", zap.Error(err))
				res.Content = t.normalizer.Apply(content.Coerce(content.KindExplain, nil), r.req.PreferredFormula)
				return t.degrade(ctx, r, res, err)
			}
			if best != nil {
				return t.giveUp(ctx, r, res, best)
			}
			return t.fail(ctx, r, res, err)
		}
		res.RepairCalls += rec.RepairCalls
		r.enter(StateRecovered, zap.String("stage", string(rec.Stage)), zap.Bool("repaired", rec.Repaired))
		res.Stage = rec.Stage

		c := content.Coerce(r.req.Action, rec.Candidate)
		if cc, ok := c.(*content.CaseContent); ok && r.req.Action == content.KindSolve && content.IsBlank(cc.Scenario) {
			cc.Scenario = r.req.Question
		}
		r.enter(StateCoerced)

		c = t.normalizer.Apply(c, r.req.PreferredFormula)
		r.enter(StateNormalized)

		verr := t.gate.Check(c, history)
		if verr == nil {
			r.enter(StateAccepted)
			res.Content = c
			res.Accepted = true
			t.remember(ctx, r, c)
			t.record(ctx, r, res, OutcomeAccepted, nil)
			res.Trace = r.trace
			return res, nil
		}

		r.enter(StateRejected, zap.String("validator", verr.Validator), zap.String("reason", verr.Message))
		cur := &candidate{content: c, verr: verr, stage: rec.Stage, provider: resp.Provider}
		if best == nil || verr.Severity <= best.verr.Severity {
			best = cur
		}
		reason = verr.Message
		if !verr.Retryable {
			break
		}
	}

	return t.giveUp(ctx, r, res, best)
}

// giveUp returns the best rejected candidate once attempts run out.
func (t *Tutor) giveUp(ctx context.Context, r *run, res *Result, best *candidate) (*Result, error) {
	res.Content = best.content
	res.Rejection = best.verr
	res.Stage = best.stage
	res.Provider = best.provider
	r.log.Info("returning rejected candidate",
		zap.Int("attempts", res.Attempts),
		zap.String("validator", best.verr.Validator))
	return t.degrade(ctx, r, res, best.verr)
}

func (t *Tutor) degrade(ctx context.Context, r *run, res *Result, cause error) (*Result, error) {
	res.Accepted = false
	t.remember(ctx, r, res.Content)
	t.record(ctx, r, res, OutcomeDegraded, cause)
	res.Trace = r.trace
	return res, nil
}

func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (t *Tutor) fail(ctx context.Context, r *run, res *Result, err error) (*Result, error) {
	if isCancellation(ctx, err) {
		r.enter(StateCancelled)
		t.record(ctx, r, res, OutcomeCancelled, err)
		if ctx.Err() != nil {
			return nil, cancelled(ctx.Err())
		}
		return nil, cancelled(err)
	}
	r.enter(StateFailed)
	r.log.Warn("generation failed", zap.Int("attempt", res.Attempts), zap.Error(err))
	t.record(ctx, r, res, OutcomeFailed, err)
	return nil, err
}

// remember stores what the session was shown so the next practice
// question can differ from it.
func (t *Tutor) remember(ctx context.Context, r *run, c content.Content) {
	var err error
	switch v := c.(type) {
	case *content.PracticeContent:
		if !content.IsBlank(v.Question) {
			err = t.memo.SetQuestion(ctx, r.req.Session, v.Question)
		}
	case *content.CaseContent:
		if v.Kind() == content.KindExample && !content.IsBlank(v.Scenario) {
			err = t.memo.SetScenario(ctx, r.req.Session, v.Scenario)
		}
	}
	if err != nil {
		r.log.Warn("write memo", zap.Error(err))
	}
}

// record appends the generation outcome to the event log. It runs even
// after cancellation.
func (t *Tutor) record(ctx context.Context, r *run, res *Result, outcome string, cause error) {
	if t.events == nil {
		return
	}
	data := store.GenerationEventData{
		RequestID:   r.id,
		SessionID:   r.req.Session,
		Action:      r.req.Action.String(),
		Concept:     r.req.Concept,
		Attempts:    res.Attempts,
		RepairCalls: res.RepairCalls,
		Stage:       string(res.Stage),
		Provider:    res.Provider,
		Outcome:     outcome,
		Accepted:    outcome == OutcomeAccepted,
		LatencyMs:   time.Since(r.started).Milliseconds(),
	}
	if cause != nil {
		data.ErrorMessage = cause.Error()
	}
	if err := t.events.AppendGeneration(context.WithoutCancel(ctx), data); err != nil {
		r.log.Warn("record generation", zap.Error(err))
	}
}
