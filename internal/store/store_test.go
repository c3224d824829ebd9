package store

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Documents() == nil {
		t.Fatal("expected non-nil document store")
	}
	if s.EventRepo() == nil {
		t.Fatal("expected non-nil event repo")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
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

func TestLLMEventAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "m1", Purpose: "writing-eval", InputTokens: 100, OutputTokens: 5, LatencyMs: 40, Success: true, ResponseBody: `{"level":"expert"}`},
		{Provider: "mock", Model: "m1", Purpose: "writing-eval", InputTokens: 80, OutputTokens: 3, LatencyMs: 60, Success: false, ErrorMessage: "boom"},
		{Provider: "mock", Model: "m2", Purpose: "other", InputTokens: 10, OutputTokens: 1, LatencyMs: 10, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Purpose != "other" {
		t.Errorf("newest event purpose = %q, want %q", all[0].Purpose, "other")
	}

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "writing-eval", Limit: 1})
	if err != nil {
		t.Fatalf("query filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Success {
		t.Fatalf("filtered = %+v, want the single failed writing-eval event", filtered)
	}

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ResponseBody != `{"level":"expert"}` || !got.Success {
		t.Fatalf("get = %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing event, got %+v", missing)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "a", Purpose: "writing-eval", InputTokens: 10, OutputTokens: 2, LatencyMs: 100},
		{Model: "a", Purpose: "writing-eval", InputTokens: 20, OutputTokens: 4, LatencyMs: 300},
		{Model: "b", Purpose: "other", InputTokens: 1, OutputTokens: 1, LatencyMs: 5},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	w := byPurpose[1]
	if w.Purpose != "writing-eval" || w.Calls != 2 || w.InputTokens != 30 || w.OutputTokens != 6 || w.AvgLatencyMs != 200 {
		t.Errorf("writing-eval stats = %+v", w)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "a" || byModel[0].Calls != 2 {
		t.Errorf("by model = %+v", byModel)
	}
}
