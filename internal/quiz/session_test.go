package quiz

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rylalabs/ryla/internal/proficiency"
	"github.com/rylalabs/ryla/internal/questionbank"
)

var testNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func testRNG() *rand.Rand { return rand.New(rand.NewPCG(3, 4)) }

// smallBank has 2 beginner and 2 intermediate questions.
func smallBank() questionbank.Bank {
	return questionbank.Bank{
		questionbank.TierBeginner: {
			{ID: "b1", Text: "Bonjour", Options: []string{"Hello", "Bye"}, CorrectAnswer: "Hello"},
			{ID: "b2", Text: "Merci", Options: []string{"Thanks", "Please"}, CorrectAnswer: "Thanks"},
		},
		questionbank.TierIntermediate: {
			{ID: "i1", Text: "Nous ... au cinéma", Options: []string{"allons", "allez"}, CorrectAnswer: "allons"},
			{ID: "i2", Text: "Elle parle ... lui", Options: []string{"à", "de"}, CorrectAnswer: "à"},
		},
	}
}

func wrongOption(q questionbank.Question) string {
	for _, o := range q.Options {
		if o != q.CorrectAnswer && o != questionbank.DontKnow {
			return o
		}
	}
	return ""
}

func TestNewSession_OrderAndDontKnow(t *testing.T) {
	admin := []questionbank.Question{
		{ID: "travel-x", Text: "la gare", Options: []string{"station", "airport"}, CorrectAnswer: "station"},
	}
	s := NewSession(questionbank.French(), admin, DefaultConfig(), testRNG())

	// 5 beginner + 5 intermediate + 4 hard (short tier) + 1 admin.
	if s.Total() != 15 {
		t.Fatalf("total = %d, want 15", s.Total())
	}
	wantTiers := []questionbank.Tier{}
	for i := 0; i < 5; i++ {
		wantTiers = append(wantTiers, questionbank.TierBeginner)
	}
	for i := 0; i < 5; i++ {
		wantTiers = append(wantTiers, questionbank.TierIntermediate)
	}
	for i := 0; i < 4; i++ {
		wantTiers = append(wantTiers, questionbank.TierHard)
	}
	wantTiers = append(wantTiers, questionbank.TierAdmin)

	for i, q := range s.Questions {
		if q.Tier != wantTiers[i] {
			t.Errorf("question %d tier = %s, want %s", i, q.Tier, wantTiers[i])
		}
		if q.Options[len(q.Options)-1] != questionbank.DontKnow {
			t.Errorf("question %s missing Don't Know option", q.ID)
		}
	}
	if s.SessionID == "" {
		t.Error("empty session id")
	}
	if len(admin[0].Options) != 2 {
		t.Error("admin question options were modified")
	}
}

func TestSubmitAnswer_EndToEnd(t *testing.T) {
	s := NewSession(smallBank(), nil, DefaultConfig(), testRNG())
	if s.Total() != 4 {
		t.Fatalf("total = %d, want 4", s.Total())
	}

	for !s.Done() {
		q, _ := s.Current()
		answer := q.CorrectAnswer
		if q.Tier == questionbank.TierIntermediate {
			answer = wrongOption(q)
		}
		var err error
		s, _, err = SubmitAnswer(s, answer, testNow)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	res := ComputeResult(s, testNow)
	if res.CorrectAnswers != 2 {
		t.Errorf("correct = %d, want 2", res.CorrectAnswers)
	}
	if res.Accuracy != 50.0 {
		t.Errorf("accuracy = %v, want 50.0", res.Accuracy)
	}
	if res.Level != proficiency.Intermediate {
		t.Errorf("level = %v, want intermediate", res.Level)
	}
	if res.AccuracyLabel() != "50.0%" {
		t.Errorf("label = %q", res.AccuracyLabel())
	}
	if res.Scores[questionbank.TierBeginner] != 2 || res.Scores[questionbank.TierIntermediate] != 0 {
		t.Errorf("scores = %v", res.Scores)
	}
	if res.TierAccuracy[questionbank.TierBeginner] != 100 || res.TierAccuracy[questionbank.TierIntermediate] != 0 {
		t.Errorf("tier accuracy = %v", res.TierAccuracy)
	}
}

func TestSubmitAnswer_DontKnow(t *testing.T) {
	s := NewSession(smallBank(), nil, DefaultConfig(), testRNG())

	for !s.Done() {
		var rec AnswerRecord
		var err error
		before := s.CurrentIndex
		s, rec, err = SubmitAnswer(s, questionbank.DontKnow, testNow)
		if err != nil {
			t.Fatal(err)
		}
		if !rec.Unmarked || rec.IsCorrect {
			t.Errorf("record = %+v, want unmarked", rec)
		}
		if s.CurrentIndex != before+1 {
			t.Errorf("index did not advance")
		}
	}
	if s.CorrectCount != 0 {
		t.Errorf("correct = %d, want 0", s.CorrectCount)
	}
	res := ComputeResult(s, testNow)
	if res.TotalQuestions != 4 || res.Accuracy != 0 || res.Level != proficiency.Beginner {
		t.Errorf("result = %+v", res)
	}
}

func TestSubmitAnswer_Errors(t *testing.T) {
	s := NewSession(smallBank(), nil, DefaultConfig(), testRNG())

	next, _, err := SubmitAnswer(s, "", testNow)
	if !errors.Is(err, ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}
	if next.CurrentIndex != 0 {
		t.Error("state advanced on validation error")
	}

	if _, _, err := SubmitAnswer(s, "nonsense", testNow); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("err = %v, want ErrInvalidOption", err)
	}

	for !s.Done() {
		s, _, _ = SubmitAnswer(s, questionbank.DontKnow, testNow)
	}
	if _, _, err := SubmitAnswer(s, questionbank.DontKnow, testNow); !errors.Is(err, ErrSessionComplete) {
		t.Fatalf("err = %v, want ErrSessionComplete", err)
	}
}

func TestSubmitAnswer_DoesNotMutateInput(t *testing.T) {
	s := NewSession(smallBank(), nil, DefaultConfig(), testRNG())
	q, _ := s.Current()

	a, _, _ := SubmitAnswer(s, q.CorrectAnswer, testNow)
	b, _, _ := SubmitAnswer(s, wrongOption(q), testNow)

	if s.CurrentIndex != 0 || s.CorrectCount != 0 || len(s.Answered) != 0 {
		t.Fatalf("input state changed: %+v", s)
	}
	if a.CorrectCount != 1 || b.CorrectCount != 0 {
		t.Errorf("a=%d b=%d", a.CorrectCount, b.CorrectCount)
	}
	if a.Answered[0].IsCorrect == b.Answered[0].IsCorrect {
		t.Error("branches share answer history")
	}
}

func TestComputeResult_Empty(t *testing.T) {
	res := ComputeResult(State{SessionID: "s"}, testNow)
	if res.TotalQuestions != 0 || res.Accuracy != 0 || res.Level != proficiency.Beginner {
		t.Errorf("result = %+v", res)
	}
}
