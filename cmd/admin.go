package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rylalabs/ryla/internal/app"
	"github.com/rylalabs/ryla/internal/questionbank"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin-authored quiz questions",
}

var adminAddCmd = &cobra.Command{
	Use:   "add-question",
	Short: "Add a question that joins every learner's next quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		quizID, _ := cmd.Flags().GetString("quiz")
		title, _ := cmd.Flags().GetString("title")
		text, _ := cmd.Flags().GetString("text")
		options, _ := cmd.Flags().GetStringSlice("option")
		answer, _ := cmd.Flags().GetString("answer")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			key, err := a.AddAdminQuestion(ctx, quizID, title, questionbank.Question{
				Text:          text,
				Options:       options,
				CorrectAnswer: answer,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added question %s-%s\n", quizID, key)
			return nil
		})
	},
}

func init() {
	adminAddCmd.Flags().String("quiz", "", "Quiz id to group the question under")
	adminAddCmd.Flags().String("title", "", "Quiz title")
	adminAddCmd.Flags().String("text", "", "Question text")
	adminAddCmd.Flags().StringSlice("option", nil, "Answer option (repeat for each)")
	adminAddCmd.Flags().String("answer", "", "The correct option")
	for _, f := range []string{"quiz", "text", "option", "answer"} {
		_ = adminAddCmd.MarkFlagRequired(f)
	}

	adminCmd.AddCommand(adminAddCmd)
}
