package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rylalabs/ryla/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	r.events = append(r.events, d)
	return r.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"level":"expert"}`), Usage: Usage{InputTokens: 7, OutputTokens: 2}})
	p := WithLogging(mock, repo, nil)

	req := UserPrompt("system text", "user text")
	req.Schema = levelSchema
	if _, err := p.Generate(WithPurpose(context.Background(), "writing-eval"), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("events = %d, want 1", len(repo.events))
	}
	e := repo.events[0]
	if e.Purpose != "writing-eval" || !e.Success || e.InputTokens != 7 || e.Model != "mock" {
		t.Fatalf("event = %+v", e)
	}
	if !strings.Contains(e.RequestBody, "system text") || !strings.Contains(e.RequestBody, "[schema: test-level]") {
		t.Fatalf("request body = %q", e.RequestBody)
	}
	if e.ResponseBody != `{"level":"expert"}` {
		t.Fatalf("response body = %q", e.ResponseBody)
	}
}

func TestLogging_RecordsFailureAndIgnoresRepoError(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	p := WithLogging(mock, repo, nil)

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected provider error to pass through, got %v", err)
	}
	if len(repo.events) != 1 || repo.events[0].Success || repo.events[0].ErrorMessage == "" {
		t.Fatalf("events = %+v", repo.events)
	}
}
