package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rylalabs/ryla/internal/app"
	"github.com/rylalabs/ryla/internal/ui/theme"
)

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Show the current proficiency level and quiz history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			out := cmd.OutOrStdout()
			fl, ok, err := a.Level(ctx)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "No level yet. Run `ryla quiz` or `ryla write` to get placed.")
			} else {
				fmt.Fprintln(out, theme.Card.Render(fmt.Sprintf(
					"%s\n\nQuiz      %s\nWriting   %s\nUpdated   %s",
					theme.Level(fl.Level),
					theme.Level(fl.QuizLevel),
					theme.Level(fl.WritingLevel),
					fl.ComputedAt.Local().Format("2006-01-02 15:04"))))
			}

			hist, err := a.QuizHistory(ctx)
			if err != nil {
				return err
			}
			if len(hist) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, theme.Subtitle.Render("Quiz history"))
			for _, h := range hist {
				fmt.Fprintf(out, "  %s  %-8s  %s\n",
					h.CompletedAt.Local().Format("2006-01-02 15:04"), h.Accuracy, h.Level)
			}
			return nil
		})
	},
}
