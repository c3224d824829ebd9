package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/rylalabs/ryla/internal/config"
	"github.com/rylalabs/ryla/internal/hearts"
	"github.com/rylalabs/ryla/internal/llm"
	"github.com/rylalabs/ryla/internal/proficiency"
	"github.com/rylalabs/ryla/internal/progression"
	"github.com/rylalabs/ryla/internal/questionbank"
	"github.com/rylalabs/ryla/internal/quiz"
	"github.com/rylalabs/ryla/internal/store"
	"github.com/rylalabs/ryla/internal/writing"
)

// Options holds the dependencies for an App. Zero fields get defaults.
type Options struct {
	// Store is the unscoped document store. It is wrapped with retry and
	// scoped to the configured user.
	Store     store.ProgressStore
	EventRepo store.EventRepo
	Config    config.Config

	// Classifier overrides the one built from Config.
	Classifier writing.TextClassifier

	Bank   questionbank.Bank
	Path   []progression.Star
	Logger *slog.Logger
	Rand   *rand.Rand
}

// App ties the assessment and progression services together for one
// user.
type App struct {
	cfg    config.Config
	global store.ProgressStore
	user   store.ProgressStore
	bank   questionbank.Bank
	logger *slog.Logger
	rng    *rand.Rand

	recorder   *quiz.Recorder
	reconciler *proficiency.Reconciler
	gate       *progression.Gate

	assessor      *writing.Assessor
	classifierErr error
}

// New validates the bank and path and builds the services.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("app: a store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Config.UserID == "" {
		opts.Config.UserID = "local"
	}
	logger = logger.With("user", opts.Config.UserID)

	if opts.Config.Language == "" {
		opts.Config.Language = "French"
	}

	bank := opts.Bank
	if bank == nil {
		var err error
		if bank, err = questionbank.ForLanguage(opts.Config.Language); err != nil {
			return nil, err
		}
	}
	if err := bank.Validate(); err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}
	path := opts.Path
	if path == nil {
		var err error
		if path, err = progression.PathForLanguage(opts.Config.Language); err != nil {
			return nil, err
		}
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	global := store.WithRetry(opts.Store, opts.Config.StoreRetry)
	user := store.UserScope(global, opts.Config.UserID)

	gate, err := progression.NewGate(path, user, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:        opts.Config,
		global:     global,
		user:       user,
		bank:       bank,
		logger:     logger,
		rng:        rng,
		recorder:   quiz.NewRecorder(user, logger),
		reconciler: proficiency.NewReconciler(user, logger),
		gate:       gate,
	}

	// Only writing assessment needs a classifier; everything else works
	// without one.
	classifier := opts.Classifier
	if classifier == nil {
		classifier, a.classifierErr = NewClassifier(ctx, opts.Config, opts.EventRepo, logger)
	}
	if classifier != nil {
		a.assessor = writing.NewAssessor(classifier, user, writing.Config{
			MinWords: opts.Config.MinWritingWords,
			Language: opts.Config.Language,
		}, logger)
	}
	return a, nil
}

// NewClassifier builds the writing classifier cfg selects.
func NewClassifier(ctx context.Context, cfg config.Config, repo store.EventRepo, logger *slog.Logger) (writing.TextClassifier, error) {
	if cfg.HeuristicClassifier {
		return writing.HeuristicClassifier{}, nil
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM, repo, logger)
	if err != nil {
		return nil, fmt.Errorf("writing classifier: %w (set RYLA_CLASSIFIER=heuristic to work offline)", err)
	}
	return writing.NewLLMClassifier(provider, writing.DefaultLLMClassifierConfig()), nil
}

// AssessWriting evaluates a writing sample and reconciles the result
// with the latest quiz level.
func (a *App) AssessWriting(ctx context.Context, text string) (writing.Result, proficiency.FinalLevel, error) {
	if a.assessor == nil {
		return writing.Result{}, proficiency.FinalLevel{}, a.classifierErr
	}
	res, err := a.assessor.Evaluate(ctx, text)
	if err != nil {
		if store.IsPersistence(err) {
			err = &UnsavedError{Err: err}
		}
		return res, proficiency.FinalLevel{}, err
	}
	fl, err := a.reconciler.ReconcileWriting(ctx, res.Level)
	if err != nil {
		return res, fl, &UnsavedError{Err: err}
	}
	return res, fl, nil
}

// Level returns the stored final level.
func (a *App) Level(ctx context.Context) (proficiency.FinalLevel, bool, error) {
	return a.reconciler.Current(ctx)
}

// QuizHistory returns past quiz sessions, oldest first.
func (a *App) QuizHistory(ctx context.Context) ([]quiz.HistoryEntry, error) {
	return a.recorder.History(ctx)
}

// Gate returns the lesson gate.
func (a *App) Gate() *progression.Gate { return a.gate }

// NewCheckKey returns an idempotency key for one learner check. Retries
// of the same check must reuse it so the attempt is counted once.
func NewCheckKey() string { return uuid.NewString() }

// CheckLesson checks one lesson answer. opKey identifies the learner's
// check; see NewCheckKey.
func (a *App) CheckLesson(ctx context.Context, hs hearts.State, questionID, selected, opKey string) (progression.CheckOutcome, error) {
	out, err := a.gate.CheckLesson(ctx, hs, questionID, selected, opKey)
	if err != nil && store.IsPersistence(err) {
		return out, &UnsavedError{Err: err}
	}
	return out, err
}

// WatchGate calls fn with the recomputed gate after every change to the
// user's lesson progress.
func (a *App) WatchGate(ctx context.Context, fn func(progression.GateSnapshot, error)) (cancel func()) {
	return a.gate.Watch(ctx, fn)
}

// AddAdminQuestion stores an admin-authored question visible to every
// user's next quiz.
func (a *App) AddAdminQuestion(ctx context.Context, quizID, title string, q questionbank.Question) (string, error) {
	return questionbank.AddAdminQuestion(ctx, a.global, quizID, title, q)
}
