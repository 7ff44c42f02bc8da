package theme

import (
	"github.com/charmbracelet/lipgloss"

	"piloop/track"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Pad    rune // ■ lit indicator
	PadOff rune // □ dark indicator

	// Track tile glyphs
	Play    rune // ▶ stopped loop playing back
	Mute    rune // ⊘ muted
	Record  rune // ● recording
	Overdub rune // ◉ overdubbing

	BarFull  rune // █ elapsed beat segment
	BarEmpty rune // ░ remaining segment

	NavUp   rune // ▲ items above
	NavDown rune // ▼ items below
	Cursor  rune // ▸ highlighted menu item
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Pad:    '■',
			PadOff: '□',

			Play:    '▶',
			Mute:    '⊘',
			Record:  '●',
			Overdub: '◉',

			BarFull:  '█',
			BarEmpty: '░',

			NavUp:   '▲',
			NavDown: '▼',
			Cursor:  '▸',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleSurface = 0.15
	RoleMuted   = 0.35
	RoleFG      = 0.5
	RoleAccent  = 0.67
	RoleWarning = 0.83
	RoleSuccess = 1.0
)

func (t *Theme) BG() lipgloss.Color      { return Lip(t.Palette.Lookup(RoleBG)) }
func (t *Theme) Surface() lipgloss.Color { return Lip(t.Palette.Lookup(RoleSurface)) }
func (t *Theme) Muted() lipgloss.Color   { return Lip(t.Palette.Lookup(RoleMuted)) }
func (t *Theme) FG() lipgloss.Color      { return Lip(t.Palette.Lookup(RoleFG)) }
func (t *Theme) Accent() lipgloss.Color  { return Lip(t.Palette.Lookup(RoleAccent)) }
func (t *Theme) Warning() lipgloss.Color { return Lip(t.Palette.Lookup(RoleWarning)) }
func (t *Theme) Success() lipgloss.Color { return Lip(t.Palette.Lookup(RoleSuccess)) }

// Glyph returns the tile symbol for a track state, ' ' for none
func (t *Theme) Glyph(s track.State) rune {
	switch track.GlyphFor(s) {
	case track.GlyphPlay:
		return t.Symbols.Play
	case track.GlyphMute:
		return t.Symbols.Mute
	case track.GlyphRecord:
		return t.Symbols.Record
	case track.GlyphOverdub:
		return t.Symbols.Overdub
	}
	return ' '
}

// GlyphColor is the colour the screen draws a state's glyph in
func GlyphColor(s track.State) RGB {
	switch s {
	case track.StopRec:
		return track.Green
	case track.MuteRec:
		return track.Gray
	case track.StartRec:
		return track.Red
	case track.StartOverdub:
		return track.Orange
	}
	return track.Black
}

// Lip converts an RGB triple to a lipgloss colour
func Lip(c RGB) lipgloss.Color {
	return lipgloss.Color(toColorful(c).Hex())
}
