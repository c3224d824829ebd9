package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rylalabs/ryla/internal/proficiency"
	"github.com/rylalabs/ryla/internal/questionbank"
	"github.com/rylalabs/ryla/internal/quiz"
)

// UnsavedError means progress was computed but could not be stored. The
// in-memory state is kept; repeating the call (or Flush) stores it.
type UnsavedError struct {
	Pending int
	Err     error
}

func (e *UnsavedError) Error() string {
	if e.Pending > 0 {
		return fmt.Sprintf("%d answer(s) not saved yet: %v", e.Pending, e.Err)
	}
	return fmt.Sprintf("progress not saved: %v", e.Err)
}

func (e *UnsavedError) Unwrap() error { return e.Err }

// ErrQuizInProgress is returned by Finish before the last answer.
var ErrQuizInProgress = errors.New("quiz still has unanswered questions")

type pendingAnswer struct {
	state quiz.State
	rec   quiz.AnswerRecord
}

// QuizRun is one placement quiz in progress. Answers are applied in the
// order they arrive.
type QuizRun struct {
	app *App

	mu      sync.Mutex
	state   quiz.State
	pending []pendingAnswer
	result  *quiz.Result
}

// StartQuiz samples a new session, including any admin questions.
func (a *App) StartQuiz(ctx context.Context) (*QuizRun, error) {
	admin, err := questionbank.LoadAdmin(ctx, a.global, a.logger)
	if err != nil {
		return nil, err
	}
	cfg := quiz.Config{PerTier: a.cfg.QuestionsPerTier}
	s := quiz.NewSession(a.bank, admin, cfg, a.rng)
	a.logger.Info("quiz started", "session", s.SessionID, "questions", s.Total(), "admin", len(admin))
	return &QuizRun{app: a, state: s}, nil
}

// State returns a snapshot of the session.
func (r *QuizRun) State() quiz.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Current returns the question awaiting an answer and its 1-based
// position.
func (r *QuizRun) Current() (questionbank.Question, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.state.Current()
	return q, r.state.CurrentIndex + 1, ok
}

// Answer applies selected to the current question and stores it. A
// storage failure returns *UnsavedError but the answer still counts.
func (r *QuizRun) Answer(ctx context.Context, selected string) (quiz.AnswerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, rec, err := quiz.SubmitAnswer(r.state, selected, time.Now())
	if err != nil {
		return rec, err
	}
	r.state = next
	r.pending = append(r.pending, pendingAnswer{state: next, rec: rec})
	return rec, r.flushLocked(ctx)
}

// Flush retries storing answers that failed to save.
func (r *QuizRun) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked(ctx)
}

func (r *QuizRun) flushLocked(ctx context.Context) error {
	for len(r.pending) > 0 {
		p := r.pending[0]
		if err := r.app.recorder.RecordAnswer(ctx, p.state, p.rec); err != nil {
			return &UnsavedError{Pending: len(r.pending), Err: err}
		}
		r.pending = r.pending[1:]
	}
	return nil
}

// Finish scores the completed session, stores the result and reconciles
// it with the latest writing level. It may be called again after an
// UnsavedError; the score is computed only once.
func (r *QuizRun) Finish(ctx context.Context) (quiz.Result, proficiency.FinalLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.Done() {
		return quiz.Result{}, proficiency.FinalLevel{}, ErrQuizInProgress
	}
	if r.result == nil {
		res := quiz.ComputeResult(r.state, time.Now())
		r.result = &res
	}
	res := *r.result

	if err := r.flushLocked(ctx); err != nil {
		return res, proficiency.FinalLevel{}, err
	}
	if err := r.app.recorder.RecordResult(ctx, res); err != nil {
		return res, proficiency.FinalLevel{}, &UnsavedError{Err: err}
	}
	fl, err := r.app.reconciler.ReconcileQuiz(ctx, res.Level)
	if err != nil {
		return res, fl, &UnsavedError{Err: err}
	}
	return res, fl, nil
}
