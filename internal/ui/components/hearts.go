package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/rylalabs/ryla/internal/hearts"
	"github.com/rylalabs/ryla/internal/ui/theme"
)

// Hearts renders remaining lives out of hearts.MaxLives.
func Hearts(lives int) string {
	lives = max(0, min(lives, hearts.MaxLives))
	full := lipgloss.NewStyle().Foreground(theme.Error).Render(strings.Repeat("♥", lives))
	empty := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("♡", hearts.MaxLives-lives))
	return full + empty
}
