package components

import (
	"fmt"
	"strings"

	"github.com/rylalabs/ryla/internal/ui/theme"
)

// Choices renders a numbered option list. When Revealed is set the
// correct option and the learner's pick are highlighted.
type Choices struct {
	Prompt   string
	Options  []string
	Correct  string
	Chosen   string
	Revealed bool
}

// View renders the prompt and options.
func (c Choices) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(c.Prompt))
	b.WriteString("\n\n")
	for i, opt := range c.Options {
		line := fmt.Sprintf("  %d) %s", i+1, opt)
		switch {
		case !c.Revealed:
			line = theme.Body.Render(line)
		case opt == c.Correct:
			line = theme.Correct.Render(line)
		case opt == c.Chosen:
			line = theme.Incorrect.Render(line)
		default:
			line = theme.Unmarked.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Pick maps a 1-based menu number or an exact option text to an option.
func Pick(options []string, input string) (string, bool) {
	input = strings.TrimSpace(input)
	var n int
	if _, err := fmt.Sscanf(input, "%d", &n); err == nil && fmt.Sprint(n) == input {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}
	for _, o := range options {
		if strings.EqualFold(o, input) {
			return o, true
		}
	}
	return "", false
}
