package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/rylalabs/ryla/internal/questionbank"
	"github.com/rylalabs/ryla/internal/store"
)

// Store paths, relative to the user scope.
const (
	PathResponses    = "responses/quiz"
	PathResults      = "quiz_results"
	PathHistory      = "quiz_history"
	PathLearnedWords = "learnedWords"
)

// LearnedWord is appended to the learner's word list on every correct
// answer.
type LearnedWord struct {
	SourceTerm string            `json:"sourceTerm"`
	TargetTerm string            `json:"targetTerm"`
	LearnedAt  time.Time         `json:"learnedAt"`
	Tier       questionbank.Tier `json:"tier,omitempty"`
	Context    string            `json:"context"`
}

// AddLearnedWord stores w under learnedWords keyed by its unix millis.
// Writing the same word twice overwrites rather than duplicates.
func AddLearnedWord(ctx context.Context, ps store.ProgressStore, w LearnedWord) error {
	key := strconv.FormatInt(w.LearnedAt.UnixMilli(), 10)
	if err := ps.Update(ctx, PathLearnedWords, map[string]any{key: w}); err != nil {
		return fmt.Errorf("add learned word: %w", err)
	}
	return nil
}

type storedResult struct {
	Scores      map[questionbank.Tier]int `json:"scores"`
	Details     storedDetails             `json:"details"`
	UserLevel   string                    `json:"userLevel"`
	SessionID   string                    `json:"sessionId"`
	CompletedAt time.Time                 `json:"completedAt"`
}

type storedDetails struct {
	TotalQuestions int    `json:"totalQuestions"`
	CorrectAnswers int    `json:"correctAnswers"`
	Accuracy       string `json:"accuracy"`
}

// Recorder writes session progress for one user. Every write is
// idempotent so a failed call can simply be repeated.
type Recorder struct {
	store  store.ProgressStore
	logger *slog.Logger
}

// NewRecorder creates a Recorder over a user-scoped store.
func NewRecorder(ps store.ProgressStore, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: ps, logger: logger}
}

// RecordAnswer persists rec together with the session's running score.
// s is the state returned alongside rec.
func (r *Recorder) RecordAnswer(ctx context.Context, s State, rec AnswerRecord) error {
	base := store.Join(PathResponses, s.SessionID)
	err := r.store.Update(ctx, base, map[string]any{
		rec.QuestionID: rec,
		"correctCount": s.CorrectCount,
	})
	if err != nil {
		return fmt.Errorf("record answer %s: %w", rec.QuestionID, err)
	}
	if !rec.IsCorrect {
		return nil
	}

	var note string
	for _, q := range s.Questions {
		if q.ID == rec.QuestionID {
			note = q.Context
			break
		}
	}
	return AddLearnedWord(ctx, r.store, LearnedWord{
		SourceTerm: rec.Question,
		TargetTerm: rec.ChosenOption,
		LearnedAt:  rec.Timestamp,
		Tier:       rec.Tier,
		Context:    note,
	})
}

// RecordResult replaces the latest quiz result and appends it to the
// session history. The level is stored with its legacy quiz spelling.
func (r *Recorder) RecordResult(ctx context.Context, res Result) error {
	sr := storedResult{
		Scores: res.Scores,
		Details: storedDetails{
			TotalQuestions: res.TotalQuestions,
			CorrectAnswers: res.CorrectAnswers,
			Accuracy:       res.AccuracyLabel(),
		},
		UserLevel:   res.Level.QuizLabel(),
		SessionID:   res.SessionID,
		CompletedAt: res.CompletedAt,
	}
	if err := r.store.Set(ctx, PathResults, sr); err != nil {
		return fmt.Errorf("record quiz result: %w", err)
	}
	if err := r.store.Set(ctx, store.Join(PathHistory, res.SessionID), sr); err != nil {
		return fmt.Errorf("record quiz history: %w", err)
	}
	r.logger.Info("quiz finished",
		"session", res.SessionID,
		"correct", res.CorrectAnswers,
		"total", res.TotalQuestions,
		"accuracy", res.AccuracyLabel(),
		"level", res.Level.String(),
	)
	return nil
}

// HistoryEntry is one stored past session.
type HistoryEntry struct {
	SessionID   string
	Accuracy    string
	Level       string
	CompletedAt time.Time
}

// History returns past sessions, oldest first.
func (r *Recorder) History(ctx context.Context) ([]HistoryEntry, error) {
	var stored map[string]storedResult
	ok, err := store.Decode(ctx, r.store, PathHistory, &stored)
	if err != nil || !ok {
		return nil, err
	}
	out := make([]HistoryEntry, 0, len(stored))
	for id, sr := range stored {
		out = append(out, HistoryEntry{
			SessionID:   id,
			Accuracy:    sr.Details.Accuracy,
			Level:       sr.UserLevel,
			CompletedAt: sr.CompletedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletedAt.Before(out[j].CompletedAt)
	})
	return out, nil
}
