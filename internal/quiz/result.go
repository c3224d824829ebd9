package quiz

import (
	"fmt"
	"time"

	"github.com/rylalabs/ryla/internal/proficiency"
	"github.com/rylalabs/ryla/internal/questionbank"
)

// Result is the finalized outcome of a session.
type Result struct {
	SessionID      string
	TotalQuestions int
	CorrectAnswers int

	// Accuracy is a percentage rounded to one decimal place.
	Accuracy float64
	Level    proficiency.Level

	// Scores holds correct answers per tier; TierTotals and TierAccuracy
	// are for reporting only and do not feed the level.
	Scores       map[questionbank.Tier]int
	TierTotals   map[questionbank.Tier]int
	TierAccuracy map[questionbank.Tier]float64

	CompletedAt time.Time
}

// AccuracyLabel formats the accuracy the way it is stored, e.g. "50.0%".
func (r Result) AccuracyLabel() string {
	return fmt.Sprintf("%.1f%%", r.Accuracy)
}

// ComputeResult scores s. Questions not yet answered count against the
// accuracy. A session with no questions scores 0 and bands as beginner.
func ComputeResult(s State, now time.Time) Result {
	res := Result{
		SessionID:      s.SessionID,
		TotalQuestions: len(s.Questions),
		CorrectAnswers: s.CorrectCount,
		Scores:         make(map[questionbank.Tier]int),
		TierTotals:     make(map[questionbank.Tier]int),
		TierAccuracy:   make(map[questionbank.Tier]float64),
		CompletedAt:    now.UTC(),
	}

	for _, q := range s.Questions {
		res.TierTotals[q.Tier]++
	}
	for tier := range res.TierTotals {
		res.Scores[tier] = 0
	}
	for _, rec := range s.Answered {
		if rec.IsCorrect {
			res.Scores[rec.Tier]++
		}
	}
	for tier, total := range res.TierTotals {
		res.TierAccuracy[tier] = proficiency.RoundAccuracy(float64(res.Scores[tier]) / float64(total) * 100)
	}

	if res.TotalQuestions > 0 {
		res.Accuracy = proficiency.RoundAccuracy(float64(res.CorrectAnswers) / float64(res.TotalQuestions) * 100)
	}
	// Banding uses the rounded value so 50.04 is intermediate, like the
	// stored "50.0%".
	res.Level = proficiency.Band(res.Accuracy)
	return res
}
