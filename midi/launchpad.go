package midi

import (
	"io"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"

	"piloop/debug"
	"piloop/track"
)

// GridSize is the Launchpad's main pad grid
const GridSize = 8

// PadStrip mirrors the indicator LEDs onto a Launchpad X. Indicator id i
// lights pad (row i/8, col i%8) counting from the bottom left.
type PadStrip struct {
	send func(gomidi.Message) error
	port io.Closer

	mu      sync.Mutex
	pending map[int]uint8
	shown   map[int]uint8
}

// OpenPadStrip opens the named Launchpad output and switches it to
// programmer mode
func OpenPadStrip(outName string) (*PadStrip, error) {
	_, out, err := findPorts("", outName, DefaultScanTimeout)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, errors.Wrapf(err, "open MIDI output %s", out)
	}
	s := newPadStrip(send)
	s.port = out

	// Programmer mode: F0 00 20 29 02 0C 00 7F F7
	s.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}))
	// Full brightness: F0 00 20 29 02 0C 08 <brightness> F7
	s.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}))
	return s, nil
}

func newPadStrip(send func(gomidi.Message) error) *PadStrip {
	return &PadStrip{
		send:    send,
		pending: make(map[int]uint8),
		shown:   make(map[int]uint8),
	}
}

// SetColor stages a colour; nothing is sent until Flush
func (s *PadStrip) SetColor(id int, c track.Color) {
	if id < 0 || id >= GridSize*GridSize {
		return
	}
	s.mu.Lock()
	s.pending[id] = nearestPadColor(c)
	s.mu.Unlock()
}

// Flush sends the staged pads whose colour actually changed
func (s *PadStrip) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sent := 0
	for id, v := range s.pending {
		delete(s.pending, id)
		if old, ok := s.shown[id]; ok && old == v {
			continue
		}
		if err := s.send(gomidi.NoteOn(0, padNote(id), v)); err != nil {
			return errors.Wrapf(err, "light pad %d", id)
		}
		s.shown[id] = v
		sent++
	}
	if sent > 0 {
		debug.LogEvery(100, "lp-send", "flushed %d pads", sent)
	}
	return nil
}

// Close turns every lit pad off and closes the port
func (s *PadStrip) Close() error {
	s.mu.Lock()
	for id := range s.shown {
		s.pending[id] = padOff
	}
	s.mu.Unlock()
	err := s.Flush()
	if cerr := s.release(); err == nil {
		err = cerr
	}
	return err
}

// release closes the port without touching the pads; the device may
// already be gone
func (s *PadStrip) release() error {
	s.mu.Lock()
	port := s.port
	s.port = nil
	s.mu.Unlock()
	if port == nil {
		return nil
	}
	return errors.Wrap(port.Close(), "close MIDI port")
}

// padNote maps an indicator id to a programmer-mode note: row 0 (bottom)
// is notes 11-18, row 7 is 81-88
func padNote(id int) uint8 {
	row, col := id/GridSize, id%GridSize
	return uint8((row+1)*10 + col + 1)
}

const padOff uint8 = 0

// Launchpad X palette entries used for indicators: velocity and the
// approximate colour it shows.
var padPalette = []struct {
	velocity uint8
	rgb      track.Color
}{
	{0, track.Color{0, 0, 0}},
	{5, track.Color{255, 0, 0}},
	{9, track.Color{255, 100, 0}},
	{13, track.Color{255, 200, 0}},
	{17, track.Color{0, 180, 0}},
	{21, track.Color{0, 255, 0}},
	{37, track.Color{0, 200, 200}},
	{45, track.Color{0, 100, 255}},
	{49, track.Color{150, 0, 200}},
	{53, track.Color{255, 80, 180}},
	{87, track.Color{150, 255, 100}},
	{97, track.Color{180, 180, 60}},
	{119, track.Color{255, 255, 255}},
}

// nearestPadColor picks the palette velocity perceptually closest to c
func nearestPadColor(c track.Color) uint8 {
	if c.IsOff() {
		return padOff
	}
	want := toColorful(c)
	best, bestDist := padOff, 0.0
	for i, p := range padPalette {
		d := want.DistanceLab(toColorful(p.rgb))
		if i == 0 || d < bestDist {
			best, bestDist = p.velocity, d
		}
	}
	return best
}

func toColorful(c track.Color) colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}
