package components

import (
	"fmt"
	"strings"

	"github.com/rylalabs/ryla/internal/progression"
	"github.com/rylalabs/ryla/internal/ui/theme"
)

// StarPath renders each star with its lock state and per-question
// completion.
func StarPath(path []progression.Star, gs progression.GateSnapshot, done map[string]bool) string {
	var b strings.Builder
	for _, s := range path {
		node := gs[s.Index]
		var mark string
		switch {
		case node.Completed:
			mark = theme.Correct.Render("★ completed")
		case node.Unlocked:
			mark = theme.Warning.Render("☆ unlocked")
		default:
			mark = theme.Unmarked.Render("🔒 locked")
		}
		fmt.Fprintf(&b, "%s  %s\n", theme.Title.Render(fmt.Sprintf("Star %d: %s", s.Index, s.Title)), mark)
		for _, q := range s.Questions {
			check := theme.Unmarked.Render("·")
			if done[q.ID] {
				check = theme.Correct.Render("✓")
			}
			fmt.Fprintf(&b, "    %s %s  %s\n", check, q.ID, theme.Hint.Render(q.Text))
		}
	}
	return b.String()
}
