package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"piloop/menu"
	"piloop/theme"
)

// RenderPositionBar renders filled of segments beat cells
func RenderPositionBar(th *theme.Theme, filled, segments int) string {
	if filled > segments {
		filled = segments
	}
	if filled < 0 {
		filled = 0
	}
	on := lipgloss.NewStyle().Foreground(th.Success()).
		Render(strings.Repeat(string(th.Symbols.BarFull), filled))
	off := lipgloss.NewStyle().Foreground(th.Surface()).
		Render(strings.Repeat(string(th.Symbols.BarEmpty), segments-filled))
	return on + off
}

// MenuLine is one drawn menu row
type MenuLine struct {
	Text        string
	Highlighted bool
}

// RenderMenu draws up to menu.MaxVisible lines with the scroll indicator
// in a left gutter
func RenderMenu(th *theme.Theme, lines []MenuLine, nav menu.NavBar) string {
	normal := lipgloss.NewStyle().Foreground(th.FG())
	hi := lipgloss.NewStyle().Foreground(th.Warning()).Bold(true)
	gutter := lipgloss.NewStyle().Foreground(th.Muted())

	thumbPos, thumbSize := nav.Thumb(menu.MaxVisible)
	var out []string
	for row := 0; row < menu.MaxVisible; row++ {
		g := "│"
		switch {
		case row == 0 && nav.Up:
			g = string(th.Symbols.NavUp)
		case row == menu.MaxVisible-1 && nav.Down:
			g = string(th.Symbols.NavDown)
		case nav.Count > 0 && row >= thumbPos && row < thumbPos+thumbSize:
			g = "┃"
		}
		text := ""
		if row < len(lines) {
			l := lines[row]
			if l.Highlighted {
				text = hi.Render(fmt.Sprintf("%c %s", th.Symbols.Cursor, l.Text))
			} else {
				text = normal.Render("  " + l.Text)
			}
		}
		out = append(out, gutter.Render(g)+" "+text)
	}
	return strings.Join(out, "\n")
}
