package proficiency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rylalabs/ryla/internal/store"
)

// Store paths, relative to the user scope.
const (
	PathModelData    = "model_data"
	PathQuizLevel    = "quiz_results/userLevel"
	PathWritingLevel = "writing_assessment/proficiencyLevel"
)

// FinalLevel is the reconciled proficiency together with the levels it
// was computed from.
type FinalLevel struct {
	Level        Level     `json:"proficiency_level"`
	QuizLevel    Level     `json:"quiz_level,omitempty"`
	WritingLevel Level     `json:"writing_level,omitempty"`
	ComputedAt   time.Time `json:"last_updated"`
}

// Reconciler computes and persists the final level for one user.
type Reconciler struct {
	store  store.ProgressStore
	logger *slog.Logger
	now    func() time.Time
}

// NewReconciler creates a Reconciler over a user-scoped store.
func NewReconciler(ps store.ProgressStore, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: ps, logger: logger, now: time.Now}
}

// ReconcileWriting merges a fresh writing level with the latest quiz
// level. Without a quiz level the writing level stands alone.
func (r *Reconciler) ReconcileWriting(ctx context.Context, writing Level) (FinalLevel, error) {
	if !writing.Valid() {
		return FinalLevel{}, fmt.Errorf("reconcile: invalid writing level %d", writing)
	}
	quiz, err := r.readLevel(ctx, PathQuizLevel)
	if err != nil {
		return FinalLevel{}, err
	}
	return r.save(ctx, quiz, writing)
}

// ReconcileQuiz merges a fresh quiz level with the latest writing level.
// Without a writing level the quiz level stands alone.
func (r *Reconciler) ReconcileQuiz(ctx context.Context, quiz Level) (FinalLevel, error) {
	if !quiz.Valid() {
		return FinalLevel{}, fmt.Errorf("reconcile: invalid quiz level %d", quiz)
	}
	writing, err := r.readLevel(ctx, PathWritingLevel)
	if err != nil {
		return FinalLevel{}, err
	}
	return r.save(ctx, quiz, writing)
}

// Current returns the stored final level, or ok=false if none exists.
func (r *Reconciler) Current(ctx context.Context) (FinalLevel, bool, error) {
	var fl FinalLevel
	ok, err := store.Decode(ctx, r.store, PathModelData, &fl)
	if err != nil || !ok {
		return FinalLevel{}, false, err
	}
	return fl, fl.Level.Valid(), nil
}

func (r *Reconciler) save(ctx context.Context, quiz, writing Level) (FinalLevel, error) {
	fl := FinalLevel{
		Level:        Reconcile(quiz, writing),
		QuizLevel:    quiz,
		WritingLevel: writing,
		ComputedAt:   r.now().UTC(),
	}

	// Set, not Update: a level missing from this computation must not
	// linger from an older one.
	if err := r.store.Set(ctx, PathModelData, fl); err != nil {
		return fl, fmt.Errorf("save final level: %w", err)
	}
	r.logger.Info("proficiency reconciled",
		"final", fl.Level.String(),
		"quiz", fl.QuizLevel.String(),
		"writing", fl.WritingLevel.String(),
	)
	return fl, nil
}

// readLevel reads a level written by the quiz or writing path. A missing
// or unreadable value is treated as absent.
func (r *Reconciler) readLevel(ctx context.Context, path string) (Level, error) {
	s, ok, err := store.GetString(ctx, r.store, path)
	if err != nil {
		if store.IsPersistence(err) {
			return Absent, fmt.Errorf("read %s: %w", path, err)
		}
		r.logger.Warn("ignoring malformed level", "path", path, "err", err)
		return Absent, nil
	}
	if !ok {
		return Absent, nil
	}
	l, err := Parse(s)
	if err != nil {
		r.logger.Warn("ignoring unknown level", "path", path, "value", s)
		return Absent, nil
	}
	return l, nil
}
