package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/rylalabs/ryla/internal/ui/theme"
)

// ProgressBar is a horizontal bar for fractions in [0, 1].
type ProgressBar struct {
	Label    string
	Fraction float64
	Width    int

	// Caption replaces the default percentage after the bar.
	Caption string
}

// View renders the bar with its label and caption.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(theme.Body.Render(p.Label))
		b.WriteString("  ")
	}

	width := p.Width - lipgloss.Width(b.String()) - 8
	if width < 4 {
		width = 4
	}
	filled := int(float64(width) * p.Fraction)
	filled = max(0, min(filled, width))

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", width-filled)))

	caption := p.Caption
	if caption == "" {
		caption = fmt.Sprintf("%d%%", int(p.Fraction*100))
	}
	b.WriteString(theme.Subtitle.Render("  " + caption))
	return b.String()
}
