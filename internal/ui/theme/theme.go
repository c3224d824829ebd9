package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/rylalabs/ryla/internal/proficiency"
)

// Palette
var (
	Primary   = lipgloss.Color("#2563EB") // Bleu
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#E11D48")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	Border    = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Answer feedback
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Unmarked = lipgloss.NewStyle().
			Foreground(TextDim)

	Warning = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// Card frames a report block.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 2)

// Level renders a proficiency level as a colored badge.
func Level(l proficiency.Level) string {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch l {
	case proficiency.Beginner:
		style = style.Foreground(Secondary)
	case proficiency.Intermediate:
		style = style.Foreground(Accent)
	case proficiency.Expert:
		style = style.Foreground(Success)
	default:
		style = style.Foreground(TextDim)
	}
	return style.Render(l.DisplayName())
}
