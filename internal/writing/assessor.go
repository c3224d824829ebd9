package writing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rylalabs/ryla/internal/proficiency"
	"github.com/rylalabs/ryla/internal/store"
)

// DefaultMinWords is the shortest sample accepted for evaluation.
const DefaultMinWords = 120

// PathAssessment is where the latest writing assessment is stored,
// relative to the user scope.
const PathAssessment = "writing_assessment"

// ValidationError rejects a sample before classification.
type ValidationError struct {
	WordCount int
	MinWords  int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("writing sample has %d words, need at least %d", e.WordCount, e.MinWords)
}

// ClassificationError means the classifier failed or gave an unusable
// answer. No level is assumed in its place.
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify writing: %v", e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// Result is a successful assessment.
type Result struct {
	Level     proficiency.Level
	WordCount int
}

type storedAssessment struct {
	Text             string    `json:"text"`
	WordCount        int       `json:"wordCount"`
	ProficiencyLevel string    `json:"proficiencyLevel"`
	Timestamp        time.Time `json:"timestamp"`
}

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Config holds assessor settings.
type Config struct {
	MinWords int
	Language string
}

// DefaultConfig returns the French assessment settings.
func DefaultConfig() Config {
	return Config{MinWords: DefaultMinWords, Language: "French"}
}

// Assessor evaluates writing samples for one user.
type Assessor struct {
	classifier TextClassifier
	store      store.ProgressStore
	cfg        Config
	logger     *slog.Logger
	now        func() time.Time
}

// NewAssessor creates an Assessor over a user-scoped store.
func NewAssessor(classifier TextClassifier, ps store.ProgressStore, cfg Config, logger *slog.Logger) *Assessor {
	if cfg.MinWords <= 0 {
		cfg.MinWords = DefaultMinWords
	}
	if cfg.Language == "" {
		cfg.Language = "French"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assessor{classifier: classifier, store: ps, cfg: cfg, logger: logger, now: time.Now}
}

// Evaluate classifies text and stores the assessment. Samples below the
// word threshold are rejected without touching the store.
func (a *Assessor) Evaluate(ctx context.Context, text string) (Result, error) {
	n := WordCount(text)
	if n < a.cfg.MinWords {
		return Result{}, &ValidationError{WordCount: n, MinWords: a.cfg.MinWords}
	}

	rubric, err := Rubric(a.cfg.Language)
	if err != nil {
		return Result{}, fmt.Errorf("render rubric: %w", err)
	}
	level, err := a.classifier.Classify(ctx, text, rubric)
	if err != nil {
		a.logger.Warn("writing classification failed", "err", err)
		return Result{}, &ClassificationError{Err: err}
	}
	if !level.Valid() {
		return Result{}, &ClassificationError{Err: fmt.Errorf("classifier returned no level")}
	}

	err = a.store.Set(ctx, PathAssessment, storedAssessment{
		Text:             text,
		WordCount:        n,
		ProficiencyLevel: level.String(),
		Timestamp:        a.now().UTC(),
	})
	if err != nil {
		return Result{}, fmt.Errorf("save writing assessment: %w", err)
	}
	a.logger.Info("writing assessed", "level", level.String(), "words", n)
	return Result{Level: level, WordCount: n}, nil
}
