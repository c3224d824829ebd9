package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rylalabs/ryla/internal/app"
	"github.com/rylalabs/ryla/internal/hearts"
	"github.com/rylalabs/ryla/internal/progression"
	"github.com/rylalabs/ryla/internal/ui/components"
	"github.com/rylalabs/ryla/internal/ui/theme"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson <question-id>",
	Short: "Answer a lesson question on the path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return runLesson(ctx, a, args[0], newChooser(cmd.InOrStdin(), cmd.OutOrStdout()), cmd.OutOrStdout())
		})
	},
}

func runLesson(ctx context.Context, a *app.App, questionID string, c *chooser, out io.Writer) error {
	g := a.Gate()
	star, q, ok := progression.FindQuestion(g.Path(), questionID)
	if !ok {
		return fmt.Errorf("%w: %q", progression.ErrUnknownQuestion, questionID)
	}
	gs, err := g.State(ctx)
	if err != nil {
		return err
	}
	if !gs[star.Index].Unlocked {
		fmt.Fprintln(out, theme.Warning.Render(fmt.Sprintf("Star %d is still locked.", star.Index)))
		return nil
	}

	options := q.WithDontKnow().Options
	hs := hearts.New()
	for {
		fmt.Fprintln(out, theme.Subtitle.Render(fmt.Sprintf("Star %d: %s", star.Index, star.Title)), " ", components.Hearts(hs.Lives))
		fmt.Fprintln(out, components.Choices{Prompt: q.Text, Options: options}.View())

		selected, err := c.choose(options)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var res progression.CheckOutcome
		key := app.NewCheckKey()
		if err := retryUnsaved(c, func() error {
			var err error
			res, err = a.CheckLesson(ctx, hs, questionID, selected, key)
			return err
		}); err != nil {
			return err
		}
		hs = res.Hearts

		switch {
		case res.Correct:
			fmt.Fprintln(out, theme.Correct.Render("Correct!"))
			for _, n := range res.NewlyUnlocked {
				fmt.Fprintln(out, theme.Warning.Render(fmt.Sprintf("Star %d unlocked!", n)))
			}
			return nil
		case res.OutOfHearts:
			fmt.Fprintln(out, theme.Incorrect.Render("Out of hearts! They have been refilled; take a breath and try again."))
		default:
			fmt.Fprintln(out, theme.Incorrect.Render("Not quite, try again."))
		}
	}
}
