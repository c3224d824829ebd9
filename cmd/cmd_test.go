package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rylalabs/ryla/internal/app"
	"github.com/rylalabs/ryla/internal/config"
	"github.com/rylalabs/ryla/internal/questionbank"
	"github.com/rylalabs/ryla/internal/quiz"
	"github.com/rylalabs/ryla/internal/store"
	"github.com/rylalabs/ryla/internal/writing"
)

func newCmdApp(t *testing.T) *app.App {
	t.Helper()
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	a, err := app.New(context.Background(), app.Options{
		Store:  s.Documents(),
		Config: config.Config{UserID: "tester", QuestionsPerTier: 1, HeuristicClassifier: true},
	})
	require.NoError(t, err)
	return a
}

func TestRunQuiz(t *testing.T) {
	a := newCmdApp(t)
	ctx := context.Background()

	var out bytes.Buffer
	in := strings.NewReader("nonsense\n1\n1\n1\n")
	require.NoError(t, runQuiz(ctx, a, newChooser(in, &out), &out))

	assert.Contains(t, out.String(), "Pick 1-")
	assert.Contains(t, out.String(), "Quiz complete")

	fl, ok, err := a.Level(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, fl.QuizLevel.Valid())
}

func TestRunQuiz_AbandonKeepsAnswers(t *testing.T) {
	a := newCmdApp(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, runQuiz(ctx, a, newChooser(strings.NewReader("1\n"), &out), &out))
	assert.Contains(t, out.String(), "abandoned")

	_, ok, err := a.Level(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "no level until the quiz is finished")
}

func TestRunLesson(t *testing.T) {
	a := newCmdApp(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, runLesson(ctx, a, "q1", newChooser(strings.NewReader("woman\n2\n"), &out), &out))
	assert.Contains(t, out.String(), "Not quite")
	assert.Contains(t, out.String(), "Correct!")

	out.Reset()
	require.NoError(t, runLesson(ctx, a, "star2q1", newChooser(strings.NewReader(""), &out), &out))
	assert.Contains(t, out.String(), "still locked")

	require.Error(t, runLesson(ctx, a, "nope", newChooser(strings.NewReader(""), &out), &out))
}

func TestQuizReportListsTiers(t *testing.T) {
	a := newCmdApp(t)
	ctx := context.Background()
	run, err := a.StartQuiz(ctx)
	require.NoError(t, err)
	for {
		q, _, ok := run.Current()
		if !ok {
			break
		}
		_, err := run.Answer(ctx, q.CorrectAnswer)
		require.NoError(t, err)
	}
	res, fl, err := run.Finish(ctx)
	require.NoError(t, err)

	report := quizReport(res, fl)
	assert.Contains(t, report, string(questionbank.TierBeginner))
	assert.Contains(t, report, "ryla write")
}

func TestRunQuiz_DontKnowShowsAnswer(t *testing.T) {
	a := newCmdApp(t)
	ctx := context.Background()

	var out bytes.Buffer
	in := strings.NewReader(questionbank.DontKnow + "\n")
	require.NoError(t, runQuiz(ctx, a, newChooser(in, &out), &out))

	assert.Regexp(t, `Skipped\. The answer was: [^\x1b\s]`, out.String())
}

func TestFeedback(t *testing.T) {
	assert.Contains(t, feedback(quiz.AnswerRecord{Unmarked: true}, "Hello"), "The answer was: Hello")
	assert.Contains(t, feedback(quiz.AnswerRecord{ChosenOption: "Bye", CorrectAnswer: "Hello"}, "Hello"), "Not quite. The answer was: Hello")
	assert.Contains(t, feedback(quiz.AnswerRecord{IsCorrect: true}, "Hello"), "Correct!")
}

func TestEventLevel(t *testing.T) {
	eval := func(success bool, body string) store.LLMRequestEventRecord {
		return store.LLMRequestEventRecord{LLMRequestEventData: store.LLMRequestEventData{
			Purpose: writing.Purpose, Success: success, ResponseBody: body,
		}}
	}
	assert.Equal(t, "intermediate", eventLevel(eval(true, `{"level":"intermediate"}`)))
	assert.Equal(t, "-", eventLevel(eval(false, "")))
	assert.Equal(t, "?", eventLevel(eval(true, `{"level":"advanced"}`)))

	var out bytes.Buffer
	printLevelSpread(&out, []store.LLMRequestEventRecord{
		eval(true, `{"level":"expert"}`),
		eval(true, `{"level":"expert"}`),
		eval(false, ""),
	})
	assert.Regexp(t, `Expert\s+2`, out.String())
	assert.Regexp(t, `Unclassified\s+1`, out.String())
}
