package proficiency

import (
	"context"
	"testing"
	"time"

	"github.com/rylalabs/ryla/internal/store"
)

func newTestReconciler(t *testing.T) (*Reconciler, store.ProgressStore) {
	t.Helper()
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ps := store.UserScope(s.Documents(), "u1")
	r := NewReconciler(ps, nil)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return r, ps
}

func TestReconcileWriting_NoQuizDegradesToWriting(t *testing.T) {
	r, _ := newTestReconciler(t)
	ctx := context.Background()

	fl, err := r.ReconcileWriting(ctx, Expert)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fl.Level != Expert || fl.QuizLevel != Absent || fl.WritingLevel != Expert {
		t.Fatalf("final = %+v", fl)
	}

	got, ok, err := r.Current(ctx)
	if err != nil || !ok {
		t.Fatalf("current: ok=%v err=%v", ok, err)
	}
	if got.Level != Expert || got.QuizLevel != Absent {
		t.Errorf("stored = %+v", got)
	}
	if !got.ComputedAt.Equal(fl.ComputedAt) {
		t.Errorf("computedAt = %v, want %v", got.ComputedAt, fl.ComputedAt)
	}
}

func TestReconcileWriting_TakesWeakerOfQuiz(t *testing.T) {
	r, ps := newTestReconciler(t)
	ctx := context.Background()

	// The quiz path stores its legacy spelling.
	if err := ps.Set(ctx, PathQuizLevel, "advanced"); err != nil {
		t.Fatal(err)
	}
	fl, err := r.ReconcileWriting(ctx, Intermediate)
	if err != nil {
		t.Fatal(err)
	}
	if fl.Level != Intermediate || fl.QuizLevel != Expert {
		t.Fatalf("final = %+v", fl)
	}

	s, _, err := store.GetString(ctx, ps, "model_data/proficiency_level")
	if err != nil || s != "intermediate" {
		t.Errorf("model_data/proficiency_level = %q, %v", s, err)
	}
	s, _, _ = store.GetString(ctx, ps, "model_data/quiz_level")
	if s != "expert" {
		t.Errorf("model_data/quiz_level = %q, want canonical expert", s)
	}
}

func TestReconcileQuiz(t *testing.T) {
	r, ps := newTestReconciler(t)
	ctx := context.Background()

	fl, err := r.ReconcileQuiz(ctx, Intermediate)
	if err != nil {
		t.Fatal(err)
	}
	if fl.Level != Intermediate || fl.WritingLevel != Absent {
		t.Fatalf("no writing: final = %+v", fl)
	}

	if err := ps.Set(ctx, PathWritingLevel, "beginner"); err != nil {
		t.Fatal(err)
	}
	fl, err = r.ReconcileQuiz(ctx, Expert)
	if err != nil {
		t.Fatal(err)
	}
	if fl.Level != Beginner {
		t.Fatalf("final = %+v, want beginner", fl)
	}
}

func TestReconcile_UnknownStoredLevelIsAbsent(t *testing.T) {
	r, ps := newTestReconciler(t)
	ctx := context.Background()

	if err := ps.Set(ctx, PathQuizLevel, "wizard"); err != nil {
		t.Fatal(err)
	}
	fl, err := r.ReconcileWriting(ctx, Beginner)
	if err != nil {
		t.Fatal(err)
	}
	if fl.Level != Beginner || fl.QuizLevel != Absent {
		t.Fatalf("final = %+v", fl)
	}
}

func TestReconcile_RejectsInvalidInput(t *testing.T) {
	r, _ := newTestReconciler(t)
	if _, err := r.ReconcileWriting(context.Background(), Absent); err == nil {
		t.Fatal("expected error for absent writing level")
	}
	if _, err := r.ReconcileQuiz(context.Background(), Level(9)); err == nil {
		t.Fatal("expected error for invalid quiz level")
	}
}

func TestCurrent_Empty(t *testing.T) {
	r, _ := newTestReconciler(t)
	_, ok, err := r.Current(context.Background())
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v, want not found", ok, err)
	}
}
