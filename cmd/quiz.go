package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rylalabs/ryla/internal/app"
	"github.com/rylalabs/ryla/internal/proficiency"
	"github.com/rylalabs/ryla/internal/questionbank"
	"github.com/rylalabs/ryla/internal/quiz"
	"github.com/rylalabs/ryla/internal/ui/components"
	"github.com/rylalabs/ryla/internal/ui/theme"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take the placement quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return runQuiz(ctx, a, newChooser(cmd.InOrStdin(), cmd.OutOrStdout()), cmd.OutOrStdout())
		})
	},
}

func runQuiz(ctx context.Context, a *app.App, c *chooser, out io.Writer) error {
	run, err := a.StartQuiz(ctx)
	if err != nil {
		return err
	}
	total := run.State().Total()
	if total == 0 {
		fmt.Fprintln(out, "No questions available.")
		return nil
	}

	for {
		q, pos, ok := run.Current()
		if !ok {
			break
		}
		bar := components.ProgressBar{
			Label:    string(q.Tier),
			Fraction: float64(pos-1) / float64(total),
			Width:    60,
			Caption:  fmt.Sprintf("%d/%d", pos, total),
		}
		fmt.Fprintln(out, bar.View())
		fmt.Fprintln(out, components.Choices{Prompt: q.Text, Options: q.Options}.View())

		selected, err := c.choose(q.Options)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out, "\nQuiz abandoned; answers so far are saved.")
			return nil
		}
		if err != nil {
			return err
		}

		var rec quiz.AnswerRecord
		err = retryUnsaved(c, func() error {
			var err error
			if rec.QuestionID == "" {
				rec, err = run.Answer(ctx, selected)
				return err
			}
			return run.Flush(ctx)
		})
		var unsaved *app.UnsavedError
		if err != nil && !errors.As(err, &unsaved) {
			return err
		}
		fmt.Fprintln(out, components.Choices{
			Prompt:   q.Text,
			Options:  q.Options,
			Correct:  q.CorrectAnswer,
			Chosen:   selected,
			Revealed: true,
		}.View())
		fmt.Fprintln(out, feedback(rec, q.CorrectAnswer))
	}

	var (
		res quiz.Result
		fl  proficiency.FinalLevel
	)
	if err := retryUnsaved(c, func() error {
		var err error
		res, fl, err = run.Finish(ctx)
		return err
	}); err != nil {
		return err
	}
	fmt.Fprintln(out, quizReport(res, fl))
	return nil
}

// feedback reports the outcome of one answer. answer is taken from the
// question since unmarked records carry no correct answer.
func feedback(rec quiz.AnswerRecord, answer string) string {
	switch {
	case rec.Unmarked:
		return theme.Unmarked.Render("Skipped. The answer was: " + answer)
	case rec.IsCorrect:
		return theme.Correct.Render("Correct!")
	default:
		return theme.Incorrect.Render("Not quite. The answer was: " + answer)
	}
}

func quizReport(res quiz.Result, fl proficiency.FinalLevel) string {
	body := fmt.Sprintf("%s\n\nScore     %d/%d (%s)\nQuiz      %s\n",
		theme.Title.Render("Quiz complete"),
		res.CorrectAnswers, res.TotalQuestions, res.AccuracyLabel(),
		theme.Level(res.Level))
	for _, t := range questionbank.AllTiers() {
		if n := res.TierTotals[t]; n > 0 {
			body += fmt.Sprintf("  %-12s %d/%d\n", t, res.Scores[t], n)
		}
	}
	body += fmt.Sprintf("Final     %s", theme.Level(fl.Level))
	if fl.WritingLevel == proficiency.Absent {
		body += "\n" + theme.Hint.Render("Run `ryla write` to complete your placement.")
	}
	return theme.Card.Render(body)
}
