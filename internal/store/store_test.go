package store

import (
	"context"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"llm_request_events", "generation_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestLLMEventRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "gemini",
		Model:        "gemini-2.0-flash",
		Purpose:      "generate:practice",
		InputTokens:  120,
		OutputTokens: 40,
		LatencyMs:    850,
		Success:      true,
		RequestBody:  "[user]\nprompt",
		ResponseBody: `{"question":"..."}`,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	err = repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "openai",
		Model:        "gpt-4o-mini",
		Purpose:      "json-repair",
		Success:      false,
		ErrorMessage: "openai: transport (status 500)",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	// Newest first.
	if events[0].Provider != "openai" || events[0].Success {
		t.Errorf("first event = %+v, want failed openai call", events[0])
	}
	if events[1].Sequence >= events[0].Sequence {
		t.Errorf("sequence not descending: %d then %d", events[1].Sequence, events[0].Sequence)
	}

	got, err := repo.GetLLMEvent(ctx, events[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected event")
	}
	if got.InputTokens != 120 || got.OutputTokens != 40 || !got.Success {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.ResponseBody != `{"question":"..."}` {
		t.Errorf("response body = %q", got.ResponseBody)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	missing, err := repo.GetLLMEvent(ctx, 999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing event, got %+v", missing)
	}
}

func TestQueryLLMEvents_Filters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Purpose: "generate:explain", Success: true}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit: got %d events, want 2", len(limited))
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: 3})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("after: got %d events, want 2", len(after))
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := []LLMRequestEventData{
		{Purpose: "generate:practice", Model: "gpt-4o-mini", InputTokens: 100, OutputTokens: 10, LatencyMs: 100},
		{Purpose: "generate:practice", Model: "gpt-4o-mini", InputTokens: 200, OutputTokens: 20, LatencyMs: 300},
		{Purpose: "json-repair", Model: "gemini-2.0-flash", InputTokens: 50, OutputTokens: 5, LatencyMs: 50},
	}
	for _, d := range data {
		if err := repo.AppendLLMRequest(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	practice := byPurpose[0]
	if practice.Purpose != "generate:practice" || practice.Calls != 2 || practice.InputTokens != 300 || practice.OutputTokens != 30 {
		t.Errorf("unexpected practice stats: %+v", practice)
	}
	if practice.AvgLatencyMs != 200 {
		t.Errorf("avg latency = %d, want 200", practice.AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("got %d models, want 2", len(byModel))
	}
	if byModel[0].Model != "gemini-2.0-flash" || byModel[0].Calls != 1 {
		t.Errorf("unexpected model stats: %+v", byModel[0])
	}
}

func TestGenerationEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []GenerationEventData{
		{RequestID: "r1", SessionID: "s", Action: "practice", Concept: "قانون نيوتن الثاني", Attempts: 1, Stage: "direct", Provider: "openai", Outcome: "accepted", Accepted: true, LatencyMs: 900},
		{RequestID: "r2", SessionID: "s", Action: "practice", Concept: "قانون نيوتن الثاني", Attempts: 3, Stage: "sanitized", Provider: "openai", Outcome: "degraded", LatencyMs: 2700},
		{RequestID: "r3", SessionID: "s", Action: "explain", Concept: "الشغل", Attempts: 1, RepairCalls: 1, Stage: "repaired", Provider: "gemini", Outcome: "accepted", Accepted: true, LatencyMs: 1500},
	}
	for _, e := range events {
		if err := repo.AppendGeneration(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryGenerations(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	if got[0].RequestID != "r3" || got[0].RepairCalls != 1 || got[0].Concept != "الشغل" {
		t.Errorf("unexpected newest event: %+v", got[0])
	}

	stats, err := repo.GenerationStatsByAction(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d actions, want 2", len(stats))
	}
	practice := stats[1]
	if practice.Action != "practice" || practice.Total != 2 || practice.Accepted != 1 {
		t.Errorf("unexpected practice stats: %+v", practice)
	}
	if practice.AvgAttempts != 2 {
		t.Errorf("avg attempts = %v, want 2", practice.AvgAttempts)
	}
}
