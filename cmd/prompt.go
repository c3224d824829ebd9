package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rylalabs/ryla/internal/app"
	"github.com/rylalabs/ryla/internal/ui/components"
	"github.com/rylalabs/ryla/internal/ui/theme"
)

// chooser reads numbered answers from a line-oriented input.
type chooser struct {
	in  *bufio.Scanner
	out io.Writer
}

func newChooser(in io.Reader, out io.Writer) *chooser {
	return &chooser{in: bufio.NewScanner(in), out: out}
}

// choose prompts until the learner picks a valid option. It returns
// io.EOF when input ends.
func (c *chooser) choose(options []string) (string, error) {
	for {
		fmt.Fprint(c.out, theme.Hint.Render("Your answer: "))
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		if picked, ok := components.Pick(options, c.in.Text()); ok {
			return picked, nil
		}
		fmt.Fprintln(c.out, theme.Warning.Render(fmt.Sprintf("Pick 1-%d or type an option.", len(options))))
	}
}

// confirm asks a yes/no question. Empty input means yes.
func (c *chooser) confirm(question string) bool {
	fmt.Fprint(c.out, theme.Hint.Render(question+" [Y/n] "))
	if !c.in.Scan() {
		return false
	}
	ans := strings.ToLower(strings.TrimSpace(c.in.Text()))
	return ans == "" || ans == "y" || ans == "yes"
}

// retryUnsaved repeats fn while it fails with *app.UnsavedError and the
// learner asks to retry.
func retryUnsaved(c *chooser, fn func() error) error {
	for {
		err := fn()
		var unsaved *app.UnsavedError
		if !errors.As(err, &unsaved) {
			return err
		}
		fmt.Fprintln(c.out, theme.Incorrect.Render(unsaved.Error()))
		if !c.confirm("Retry saving?") {
			return err
		}
	}
}
