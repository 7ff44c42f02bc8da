package track

import "fmt"

// Color is an 8-bit RGB triple
type Color [3]uint8

func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

func (c Color) R() uint8 { return c[0] }
func (c Color) G() uint8 { return c[1] }
func (c Color) B() uint8 { return c[2] }

// Hex returns the colour as #rrggbb
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// IsOff reports a fully dark colour
func (c Color) IsOff() bool {
	return c == Off
}

// Named colours, LED chipset values for the indicators and the ILI9341
// equivalents for the screen.
var (
	Off         = Color{0, 0, 0}
	Black       = Color{0, 0, 0}
	Red         = Color{255, 0, 0}
	Green       = Color{0, 255, 0}
	GreenYellow = Color{173, 255, 47}
	Yellow      = Color{255, 255, 0}
	Cyan        = Color{0, 255, 255}
	White       = Color{255, 255, 255}
	Orange      = Color{255, 165, 0}
	Gray        = Color{128, 128, 128}
	SlateGray   = Color{112, 128, 144}
)

// indicator maps a state to its LED colour. StartRec and StartOverdub
// share the alert colour; StopRec is the confirm colour.
var indicator = [NumStates]Color{
	ClearRec:     Off,
	StartRec:     Red,
	StopRec:      Green,
	StartOverdub: Red,
	StopOverdub:  GreenYellow,
	WaitRec:      Yellow,
	MuteRec:      Cyan,
}

// screen maps a state to the inner fill of its tile
var screen = [NumStates]Color{
	ClearRec:     Black,
	StartRec:     White,
	StopRec:      White,
	StartOverdub: Orange,
	StopOverdub:  White,
	WaitRec:      Yellow,
	MuteRec:      Gray,
}

// IndicatorColor returns the LED colour for a state, Off when s is invalid
func IndicatorColor(s State) Color {
	if !s.Valid() {
		return Off
	}
	return indicator[s]
}

// ScreenColor returns the tile fill for a state, Black when s is invalid
func ScreenColor(s State) Color {
	if !s.Valid() {
		return Black
	}
	return screen[s]
}

// Drum pad indicator colours
var (
	PadActive = Cyan
	PadIdle   = Off
)
