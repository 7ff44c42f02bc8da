package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"piloop/theme"
	"piloop/track"
)

// RenderPad renders one indicator LED; dark LEDs show as an outline
func RenderPad(th *theme.Theme, c track.Color) string {
	if c.IsOff() {
		return lipgloss.NewStyle().Foreground(th.Muted()).Render(string(th.Symbols.PadOff))
	}
	return lipgloss.NewStyle().Foreground(theme.Lip(c)).Render(string(th.Symbols.Pad))
}

// RenderPadRow renders a row of LEDs with spacing
func RenderPadRow(th *theme.Theme, colors []track.Color) string {
	var out strings.Builder
	for i, c := range colors {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderPad(th, c))
	}
	return out.String()
}

// RenderPadGrid renders LEDs row-major, cols per row, first row on top
// the way the keypad is wired
func RenderPadGrid(th *theme.Theme, colors []track.Color, cols int) string {
	if cols <= 0 {
		cols = len(colors)
	}
	var lines []string
	for start := 0; start < len(colors); start += cols {
		end := start + cols
		if end > len(colors) {
			end = len(colors)
		}
		lines = append(lines, RenderPadRow(th, colors[start:end]))
	}
	return strings.Join(lines, "\n")
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(th *theme.Theme, c track.Color, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(th, c), name, desc)
}

// TileWidth is the rendered width of a track tile, borders included
const TileWidth = 11

// RenderTrackTile draws a loop track: border in the track's colour, body
// filled with the state's screen colour and the state glyph in the middle.
func RenderTrackTile(th *theme.Theme, id int, s track.State, g track.Geometry, volume uint8) string {
	fill := track.ScreenColor(s)
	glyph := lipgloss.NewStyle().
		Foreground(theme.Lip(theme.GlyphColor(s))).
		Background(theme.Lip(fill)).
		Render(fmt.Sprintf("  %c  ", th.Glyph(s)))
	body := lipgloss.NewStyle().
		Background(theme.Lip(fill)).
		Width(TileWidth - 2).
		Align(lipgloss.Center).
		Render(glyph)

	label := lipgloss.NewStyle().Foreground(th.FG()).
		Render(fmt.Sprintf("%d %3d", id+1, volume))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Lip(g.Border)).
		Render(body)
	return lipgloss.JoinVertical(lipgloss.Center, box, label)
}

// RenderTrackRow joins tiles side by side
func RenderTrackRow(tiles []string) string {
	spaced := make([]string, 0, 2*len(tiles))
	for i, t := range tiles {
		if i > 0 {
			spaced = append(spaced, " ")
		}
		spaced = append(spaced, t)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
}
