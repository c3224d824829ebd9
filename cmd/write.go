package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rylalabs/ryla/internal/app"
	"github.com/rylalabs/ryla/internal/ui/theme"
	"github.com/rylalabs/ryla/internal/writing"
)

var writeCmd = &cobra.Command{
	Use:   "write [file]",
	Short: "Submit a writing sample for assessment",
	Long:  "Reads a writing sample from the given file, or from stdin when no file is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readSample(cmd, args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, fl, err := a.AssessWriting(ctx, text)
			var verr *writing.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintln(cmd.OutOrStdout(), theme.Warning.Render(
					fmt.Sprintf("Please write at least %d words (you wrote %d).", verr.MinWords, verr.WordCount)))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme.Card.Render(fmt.Sprintf(
				"%s\n\nWords     %d\nWriting   %s\nFinal     %s",
				theme.Title.Render("Writing assessed"),
				res.WordCount, theme.Level(res.Level), theme.Level(fl.Level))))
			return nil
		})
	},
}

func readSample(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read sample: %w", err)
		}
		return string(b), nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), theme.Hint.Render("Write your sample, then press Ctrl-D."))
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read sample: %w", err)
	}
	return string(b), nil
}
