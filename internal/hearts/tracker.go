package hearts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rylalabs/ryla/internal/store"
)

// PathResponses is the per-user root of lesson question records.
const PathResponses = "quizResponses"

// Tracker persists attempt counts and game-over markers for one user.
type Tracker struct {
	store  store.ProgressStore
	logger *slog.Logger
	now    func() time.Time
}

// NewTracker creates a Tracker over a user-scoped store.
func NewTracker(ps store.ProgressStore, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: ps, logger: logger, now: time.Now}
}

// RecordAttempt counts one check of questionID. The counter is bumped
// atomically in the store; opKey makes a retried call count once.
func (t *Tracker) RecordAttempt(ctx context.Context, s State, questionID, opKey string) (State, int, error) {
	n, err := t.store.Increment(ctx, store.Join(PathResponses, questionID, "attempts"), 1, opKey)
	if err != nil {
		return s, 0, fmt.Errorf("record attempt for %s: %w", questionID, err)
	}
	return s.WithAttempts(questionID, int(n)), int(n), nil
}

// Miss removes a life for a wrong answer on questionID. When that
// exhausts the hearts it runs OnExhausted exactly once and reports true.
func (t *Tracker) Miss(ctx context.Context, s State, questionID string) (State, bool, error) {
	next := s.Decrement()
	if !next.Exhausted() {
		return next, false, nil
	}
	reset, err := t.OnExhausted(ctx, next, questionID)
	return reset, true, err
}

// OnExhausted marks questionID as failed and returns full hearts. There
// is no lockout: the learner may keep going straight away.
func (t *Tracker) OnExhausted(ctx context.Context, s State, questionID string) (State, error) {
	reset := s.Reset()
	err := t.store.Update(ctx, store.Join(PathResponses, questionID), map[string]any{
		"failed":   true,
		"failedAt": t.now().UTC(),
	})
	if err != nil {
		// Hearts still reset; only the marker is lost.
		return reset, fmt.Errorf("mark %s failed: %w", questionID, err)
	}
	t.logger.Info("out of hearts", "question", questionID)
	return reset, nil
}
