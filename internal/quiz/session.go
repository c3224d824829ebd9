package quiz

import (
	"errors"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/rylalabs/ryla/internal/questionbank"
)

// DefaultPerTier is how many questions are sampled from each tier.
const DefaultPerTier = 5

var (
	// ErrNoSelection is returned when an answer is submitted without
	// choosing an option.
	ErrNoSelection = errors.New("quiz: no option selected")

	// ErrInvalidOption is returned when the selection is not one of the
	// current question's options.
	ErrInvalidOption = errors.New("quiz: selection is not one of the options")

	// ErrSessionComplete is returned when answering past the last question.
	ErrSessionComplete = errors.New("quiz: session already complete")
)

// Config controls session construction.
type Config struct {
	PerTier int
}

// DefaultConfig returns the standard placement quiz settings.
func DefaultConfig() Config {
	return Config{PerTier: DefaultPerTier}
}

// AnswerRecord is the outcome of one submitted answer.
type AnswerRecord struct {
	QuestionID   string            `json:"questionId"`
	Question     string            `json:"question"`
	Tier         questionbank.Tier `json:"tier"`
	ChosenOption string            `json:"userAnswer,omitempty"`

	// CorrectAnswer is omitted for unmarked answers.
	CorrectAnswer string    `json:"correctAnswer,omitempty"`
	Unmarked      bool      `json:"unmarked"`
	IsCorrect     bool      `json:"isCorrect"`
	Timestamp     time.Time `json:"timestamp"`
}

// State is one quiz session. It is a value; SubmitAnswer returns the next
// state and leaves its input untouched.
type State struct {
	SessionID    string
	Questions    []questionbank.Question
	CurrentIndex int
	CorrectCount int
	Answered     []AnswerRecord
}

// NewSession samples cfg.PerTier questions from each sampled tier in
// order, then appends every admin question. Each question is given the
// "Don't Know" option.
func NewSession(bank questionbank.Bank, admin []questionbank.Question, cfg Config, rng *rand.Rand) State {
	if cfg.PerTier <= 0 {
		cfg.PerTier = DefaultPerTier
	}

	var qs []questionbank.Question
	for _, tier := range questionbank.SampledTiers() {
		for _, q := range bank.Sample(rng, tier, cfg.PerTier) {
			qs = append(qs, q.WithDontKnow())
		}
	}
	for _, q := range admin {
		q.Tier = questionbank.TierAdmin
		qs = append(qs, q.WithDontKnow())
	}

	return State{
		SessionID: uuid.NewString(),
		Questions: qs,
	}
}

// Total returns the number of questions in the session.
func (s State) Total() int { return len(s.Questions) }

// Done reports whether every question has been answered.
func (s State) Done() bool { return s.CurrentIndex >= len(s.Questions) }

// Current returns the question awaiting an answer.
func (s State) Current() (questionbank.Question, bool) {
	if s.Done() {
		return questionbank.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// SubmitAnswer applies selected to the current question and advances.
// "Don't Know" is recorded as unmarked and never counts as correct.
func SubmitAnswer(s State, selected string, now time.Time) (State, AnswerRecord, error) {
	if selected == "" {
		return s, AnswerRecord{}, ErrNoSelection
	}
	q, ok := s.Current()
	if !ok {
		return s, AnswerRecord{}, ErrSessionComplete
	}
	if !slices.Contains(q.Options, selected) {
		return s, AnswerRecord{}, ErrInvalidOption
	}

	rec := AnswerRecord{
		QuestionID: q.ID,
		Question:   q.Text,
		Tier:       q.Tier,
		Timestamp:  now.UTC(),
	}
	next := State{
		SessionID:    s.SessionID,
		Questions:    s.Questions,
		CurrentIndex: s.CurrentIndex + 1,
		CorrectCount: s.CorrectCount,
	}

	if selected == questionbank.DontKnow {
		rec.Unmarked = true
	} else {
		rec.ChosenOption = selected
		rec.CorrectAnswer = q.CorrectAnswer
		rec.IsCorrect = selected == q.CorrectAnswer
		if rec.IsCorrect {
			next.CorrectCount++
		}
	}

	next.Answered = append(slices.Clip(s.Answered), rec)
	return next, rec, nil
}
