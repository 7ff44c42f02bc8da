package track

import "piloop/hw"

// VolumeThreshold is the hysteresis band on the 0..255 volume scale. A new
// reading must differ from the stored one by more than this to count.
const VolumeThreshold = 10

// MaxVolume is the top of the volume scale
const MaxVolume = 255

// MapVolume scales a raw 10-bit sample to 0..255
func MapVolume(raw int) uint8 {
	if raw < 0 {
		raw = 0
	}
	if raw > hw.MaxAnalog {
		raw = hw.MaxAnalog
	}
	return uint8(raw * MaxVolume / hw.MaxAnalog)
}

// VolumeReader returns the raw sample of a potentiometer input
type VolumeReader interface {
	Read(input int) int
}

// Geometry is the tile a track occupies on screen
type Geometry struct {
	X, Y   int
	W, H   int
	Radius int
	Border Color
}

// Track is one loop track: host-reported state plus the local volume control
type Track struct {
	ID    int
	Input int // potentiometer input (mux input or direct channel index)

	State         State
	Volume        uint8
	VolumeChanged bool

	Geometry Geometry
}

// New creates a cleared track at volume zero
func New(id, input int) *Track {
	return &Track{ID: id, Input: input}
}

// Reset clears state and volume
func (t *Track) Reset() {
	t.State = ClearRec
	t.Volume = 0
	t.VolumeChanged = false
}

// ApplyStatus applies a host status report and returns the resulting state
func (t *Track) ApplyStatus(s State) State {
	t.State = Next(t.State, s)
	return t.State
}

// SampleVolume feeds one raw reading through the hysteresis band. The stored
// volume only moves when the change exceeds VolumeThreshold.
func (t *Track) SampleVolume(raw int) bool {
	v := MapVolume(raw)
	d := int(v) - int(t.Volume)
	if d < 0 {
		d = -d
	}
	t.VolumeChanged = d > VolumeThreshold
	if t.VolumeChanged {
		t.Volume = v
	}
	return t.VolumeChanged
}

// Update reads the track's potentiometer from r
func (t *Track) Update(r VolumeReader) bool {
	return t.SampleVolume(r.Read(t.Input))
}

// Screen layout: tiles sit in a grid under the position bar and BPM line.
const (
	ScreenWidth  = 320
	ScreenHeight = 240

	tileCols    = 4
	tileSize    = 70
	tileSpacing = 8
	tileTop     = 60
	tileRadius  = 8
)

var borders = []Color{Red, Orange, Yellow, Green, Cyan, White, GreenYellow, SlateGray}

// DefaultLayout returns tile geometry for n tracks, four per row
func DefaultLayout(n int) []Geometry {
	left := (ScreenWidth - tileCols*tileSize - (tileCols-1)*tileSpacing) / 2
	out := make([]Geometry, n)
	for i := range out {
		out[i] = Geometry{
			X:      left + (i%tileCols)*(tileSize+tileSpacing),
			Y:      tileTop + (i/tileCols)*(tileSize+tileSpacing),
			W:      tileSize,
			H:      tileSize,
			Radius: tileRadius,
			Border: borders[i%len(borders)],
		}
	}
	return out
}
