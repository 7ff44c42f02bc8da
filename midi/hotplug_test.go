package midi

import (
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"

	"piloop/track"
)

type fakePads struct {
	present string
	opened  int
	closed  int
	notes   map[uint8]uint8
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func (f *fakePads) mirror() *PadMirror {
	m := NewPadMirror()
	m.find = func() (string, error) { return f.present, nil }
	m.open = func(name string) (*PadStrip, error) {
		f.opened++
		s := newPadStrip(func(msg gomidi.Message) error {
			var ch, key, vel uint8
			if msg.GetNoteOn(&ch, &key, &vel) {
				f.notes[key] = vel
			}
			return nil
		})
		s.port = closerFunc(func() error { f.closed++; return nil })
		return s, nil
	}
	return m
}

func TestPadMirrorReplaysOnConnect(t *testing.T) {
	f := &fakePads{notes: make(map[uint8]uint8)}
	m := f.mirror()

	m.SetColor(0, track.Red)
	m.SetColor(9, track.Green)
	if err := m.Flush(); err != nil {
		t.Fatal(err)
	}
	m.scan()
	if m.Connected() != "" || f.opened != 0 {
		t.Fatal("nothing plugged in yet")
	}

	f.present = "Launchpad X LPX MIDI"
	m.scan()
	if m.Connected() != f.present || f.opened != 1 {
		t.Fatalf("connected %q opened %d", m.Connected(), f.opened)
	}
	if f.notes[padNote(0)] != nearestPadColor(track.Red) || f.notes[padNote(9)] != nearestPadColor(track.Green) {
		t.Fatalf("notes %v", f.notes)
	}

	m.scan()
	if f.opened != 1 {
		t.Fatal("reopened an attached strip")
	}

	m.SetColor(0, track.Cyan)
	m.Flush()
	if f.notes[padNote(0)] != nearestPadColor(track.Cyan) {
		t.Fatal("live update not sent")
	}
}

func TestPadMirrorDetaches(t *testing.T) {
	f := &fakePads{present: "Launchpad X LPX MIDI", notes: make(map[uint8]uint8)}
	m := f.mirror()
	m.scan()
	f.present = ""
	m.scan()
	if m.Connected() != "" {
		t.Fatal("still attached")
	}
	if f.closed != 1 {
		t.Fatalf("port closed %d times on unplug", f.closed)
	}
	m.SetColor(3, track.White)
	if err := m.Flush(); err != nil {
		t.Fatal(err)
	}
	f.present = "Launchpad X LPX MIDI"
	m.scan()
	if f.opened != 2 || f.notes[padNote(3)] != nearestPadColor(track.White) {
		t.Fatalf("opened %d notes %v", f.opened, f.notes)
	}
}

func TestPadMirrorCloseReleasesPort(t *testing.T) {
	f := &fakePads{present: "Launchpad X LPX MIDI", notes: make(map[uint8]uint8)}
	m := f.mirror()
	m.SetColor(2, track.Red)
	m.scan()
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if f.closed != 1 || m.Connected() != "" {
		t.Fatalf("closed %d connected %q", f.closed, m.Connected())
	}
	if err := m.Close(); err != nil || f.closed != 1 {
		t.Fatalf("second close: %v, closed %d", err, f.closed)
	}
}
