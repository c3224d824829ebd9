package progression

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/rylalabs/ryla/internal/hearts"
	"github.com/rylalabs/ryla/internal/quiz"
	"github.com/rylalabs/ryla/internal/store"
)

// PathUnlocked holds the latched star unlocks, relative to the user scope.
const PathUnlocked = "unlockedLessons"

// ErrUnknownQuestion is returned for a question id not on the path.
var ErrUnknownQuestion = errors.New("progression: question is not on the lesson path")

// CheckOutcome is the result of checking one lesson answer.
type CheckOutcome struct {
	Correct bool

	// OutOfHearts is set when this miss used the last life. Hearts has
	// already been reset.
	OutOfHearts bool
	Hearts      hearts.State
	Attempts    int

	NewlyUnlocked []int
}

// Gate derives and records star progress for one user. It keeps no
// state between calls; the store is read every time.
type Gate struct {
	path    []Star
	store   store.ProgressStore
	tracker *hearts.Tracker
	logger  *slog.Logger
	now     func() time.Time
}

// NewGate validates path and creates a Gate over a user-scoped store.
func NewGate(path []Star, ps store.ProgressStore, logger *slog.Logger) (*Gate, error) {
	if err := ValidatePath(path); err != nil {
		return nil, fmt.Errorf("invalid lesson path: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		path:    path,
		store:   ps,
		tracker: hearts.NewTracker(ps, logger),
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Path returns the stars the gate covers.
func (g *Gate) Path() []Star { return g.path }

// Load reads the stored completion flags and latches. Entries that do not
// have the expected shape are ignored.
func (g *Gate) Load(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Completed: make(map[string]bool), Latched: make(map[int]bool)}

	v, ok, err := g.store.Get(ctx, hearts.PathResponses)
	if err != nil {
		return snap, fmt.Errorf("load responses: %w", err)
	}
	if m, isMap := v.(map[string]any); ok && isMap {
		for id, entry := range m {
			fields, _ := entry.(map[string]any)
			if done, _ := fields["completed"].(bool); done {
				snap.Completed[id] = true
			}
		}
	}

	v, ok, err = g.store.Get(ctx, PathUnlocked)
	if err != nil {
		return snap, fmt.Errorf("load unlocks: %w", err)
	}
	if m, isMap := v.(map[string]any); ok && isMap {
		for k, flag := range m {
			idx, convErr := strconv.Atoi(k)
			if convErr != nil {
				g.logger.Debug("ignoring unlock entry", "key", k)
				continue
			}
			if on, _ := flag.(bool); on {
				snap.Latched[idx] = true
			}
		}
	}
	return snap, nil
}

// State loads and derives the current gate.
func (g *Gate) State(ctx context.Context) (GateSnapshot, error) {
	snap, err := g.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Recompute(g.path, snap), nil
}

// MarkCompleted records questionID as completed, latches any star that
// became unlocked, and returns those stars.
func (g *Gate) MarkCompleted(ctx context.Context, questionID string) ([]int, error) {
	if _, _, ok := FindQuestion(g.path, questionID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}

	before, err := g.Load(ctx)
	if err != nil {
		return nil, err
	}

	err = g.store.Update(ctx, store.Join(hearts.PathResponses, questionID), map[string]any{
		"completed":   true,
		"completedAt": g.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("mark %s completed: %w", questionID, err)
	}

	after := Snapshot{Completed: make(map[string]bool), Latched: before.Latched}
	for id := range before.Completed {
		after.Completed[id] = true
	}
	after.Completed[questionID] = true

	unlocked := NewlyUnlocked(g.path, Recompute(g.path, before), Recompute(g.path, after))
	if err := g.latch(ctx, Recompute(g.path, after), before.Latched); err != nil {
		return unlocked, err
	}
	for _, idx := range unlocked {
		g.logger.Info("star unlocked", "star", idx)
	}
	return unlocked, nil
}

// latch records every unlocked star not yet recorded so it stays
// unlocked whatever happens to the responses later.
func (g *Gate) latch(ctx context.Context, gs GateSnapshot, latched map[int]bool) error {
	fields := make(map[string]any)
	for _, s := range g.path[1:] {
		if gs[s.Index].Unlocked && !latched[s.Index] {
			fields[strconv.Itoa(s.Index)] = true
		}
	}
	if len(fields) == 0 {
		return nil
	}
	if err := g.store.Update(ctx, PathUnlocked, fields); err != nil {
		return fmt.Errorf("latch unlocks: %w", err)
	}
	return nil
}

// CheckLesson checks one answer to a lesson question. Every check counts
// as an attempt. A correct answer completes the question; a wrong one
// costs a life and, on the last life, flags the question failed and
// restores full hearts.
func (g *Gate) CheckLesson(ctx context.Context, hs hearts.State, questionID, selected, opKey string) (CheckOutcome, error) {
	if selected == "" {
		return CheckOutcome{Hearts: hs}, quiz.ErrNoSelection
	}
	star, q, ok := FindQuestion(g.path, questionID)
	if !ok {
		return CheckOutcome{Hearts: hs}, fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}

	hs, attempts, err := g.tracker.RecordAttempt(ctx, hs, questionID, opKey)
	if err != nil {
		return CheckOutcome{Hearts: hs}, err
	}
	out := CheckOutcome{Hearts: hs, Attempts: attempts, Correct: selected == q.CorrectAnswer}

	if !out.Correct {
		out.Hearts, out.OutOfHearts, err = g.tracker.Miss(ctx, hs, questionID)
		return out, err
	}

	out.NewlyUnlocked, err = g.MarkCompleted(ctx, questionID)
	if err != nil {
		return out, err
	}
	source := q.Context
	if source == "" {
		source = q.Text
	}
	err = quiz.AddLearnedWord(ctx, g.store, quiz.LearnedWord{
		SourceTerm: source,
		TargetTerm: q.CorrectAnswer,
		LearnedAt:  g.now().UTC(),
		Context:    star.Title,
	})
	return out, err
}

// Watch calls fn with a fresh gate whenever responses or unlocks change.
// A failed reload is passed to fn as err.
func (g *Gate) Watch(ctx context.Context, fn func(GateSnapshot, error)) (cancel func()) {
	reload := func(string) {
		fn(g.State(ctx))
	}
	stopResponses := g.store.OnChange(hearts.PathResponses, reload)
	stopUnlocks := g.store.OnChange(PathUnlocked, reload)
	return func() {
		stopResponses()
		stopUnlocks()
	}
}
