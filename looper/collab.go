package looper

import (
	"piloop/debug"
	"piloop/menu"
	"piloop/protocol"
	"piloop/track"
)

// Display receives draw intents. Implementations own all pixel layout.
type Display interface {
	DrawTrack(id int, s track.State, g track.Geometry)
	ClearMenu()
	DrawMenuItem(text string, row int, highlighted bool)
	DrawNavBar(nb menu.NavBar)
	DrawBpm(bpm int)
	DrawPosition(bar PositionBar)
}

// Strip is the addressable indicator LED chain. SetColor stages a colour;
// Flush pushes every staged colour to the LEDs at once.
type Strip interface {
	SetColor(id int, c track.Color)
	Flush() error
}

// Host is the link to the audio host
type Host interface {
	Send(o protocol.Outbound) error
	Receive() (protocol.Message, bool, error)
}

// PositionBar is the loop progress indicator
type PositionBar struct {
	Filled   int
	Segments int
}

// Segments in the position bar
const BarSegments = 16

// NewPositionBar fills two segments per beat; position 0 clears the bar
func NewPositionBar(position int) PositionBar {
	filled := 2 * position
	if filled > BarSegments {
		filled = BarSegments
	}
	if filled < 0 {
		filled = 0
	}
	return PositionBar{Filled: filled, Segments: BarSegments}
}

// NopDisplay discards draw intents
type NopDisplay struct{}

func (NopDisplay) DrawTrack(int, track.State, track.Geometry) {}
func (NopDisplay) ClearMenu()                                 {}
func (NopDisplay) DrawMenuItem(string, int, bool)             {}
func (NopDisplay) DrawNavBar(menu.NavBar)                     {}
func (NopDisplay) DrawBpm(int)                                {}
func (NopDisplay) DrawPosition(PositionBar)                   {}

// LogDisplay writes draw intents to the debug log, for headless runs
type LogDisplay struct{}

func (LogDisplay) DrawTrack(id int, s track.State, g track.Geometry) {
	debug.Log("draw", "track %d %v fill=%s", id, s, track.ScreenColor(s).Hex())
}

func (LogDisplay) ClearMenu() {}

func (LogDisplay) DrawMenuItem(text string, row int, highlighted bool) {
	mark := " "
	if highlighted {
		mark = ">"
	}
	debug.Log("draw", "menu %d %s%s", row, mark, text)
}

func (LogDisplay) DrawNavBar(nb menu.NavBar) {
	debug.Log("draw", "nav %d/%d up=%v down=%v", nb.Selected+1, nb.Count, nb.Up, nb.Down)
}

func (LogDisplay) DrawBpm(bpm int) {
	debug.Log("draw", "bpm %d", bpm)
}

func (LogDisplay) DrawPosition(bar PositionBar) {
	debug.LogEvery(16, "draw", "position %d/%d", bar.Filled, bar.Segments)
}

// NopStrip discards indicator colours
type NopStrip struct{}

func (NopStrip) SetColor(int, track.Color) {}
func (NopStrip) Flush() error              { return nil }
