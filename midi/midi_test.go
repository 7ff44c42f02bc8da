package midi

import (
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"

	"piloop/protocol"
	"piloop/track"
)

func TestCCFromOutbound(t *testing.T) {
	cases := []struct {
		in          protocol.Outbound
		ch, cc, val uint8
	}{
		{protocol.Outbound{Channel: protocol.Volume, ID: 3, Value: 255}, 8, 3, 127},
		{protocol.Outbound{Channel: protocol.AudioMaster, Value: 100}, 0, 0, 50},
		{protocol.Outbound{Channel: protocol.LoopPressed, ID: 5}, 7, 5, 0},
		{protocol.Outbound{Channel: protocol.ButtonPressed, ID: 200, Value: 2}, 2, 72, 2},
		{protocol.Outbound{Channel: protocol.DrumpadSound, Value: 250}, 1, 0, 127},
	}
	for _, c := range cases {
		ch, cc, val := CCFromOutbound(c.in)
		if ch != c.ch || cc != c.cc || val != c.val {
			t.Errorf("%v: got %d/%d/%d, want %d/%d/%d", c.in, ch, cc, val, c.ch, c.cc, c.val)
		}
	}
}

func TestHostLinkRoundTrip(t *testing.T) {
	var sent []gomidi.Message
	l := newHostLink("test", func(m gomidi.Message) error {
		sent = append(sent, m)
		return nil
	})

	if err := l.Send(protocol.Outbound{Channel: protocol.ClearLoop, ID: 4}); err != nil {
		t.Fatal(err)
	}
	var ch, cc, val uint8
	if len(sent) != 1 || !sent[0].GetControlChange(&ch, &cc, &val) || ch != 3 || cc != 4 {
		t.Fatalf("sent %v", sent)
	}

	l.handle(gomidi.ControlChange(0, 6, 3), 0)
	l.handle(gomidi.NoteOn(0, 60, 100), 0) // ignored
	l.handle(gomidi.ControlChange(9, 1, 1), 0)
	l.handle(gomidi.ControlChange(1, 4, 16), 0)

	m, ok, err := l.Receive()
	if !ok || err != nil || m.Kind != protocol.KindStatus || m.Track != 2 || m.State != track.MuteRec {
		t.Fatalf("%v ok=%v err=%v", m, ok, err)
	}
	m, ok, err = l.Receive()
	if !ok || err != nil || m.Position != 4 || m.Count != 16 {
		t.Fatalf("%v ok=%v err=%v", m, ok, err)
	}
	if _, ok, _ := l.Receive(); ok {
		t.Fatal("unexpected extra frame")
	}
}

func TestHostLinkClosesPorts(t *testing.T) {
	var closed []string
	port := func(name string) closerFunc {
		return func() error { closed = append(closed, name); return nil }
	}
	l := newHostLink("test", func(gomidi.Message) error { return nil })
	stopped := false
	l.stop = func() { stopped = true }
	l.ports = append(l.ports, port("out"), port("in"))

	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if !stopped || len(closed) != 2 || closed[0] != "in" || closed[1] != "out" {
		t.Fatalf("stopped %v closed %v", stopped, closed)
	}
	if err := l.Close(); err != nil || len(closed) != 2 {
		t.Fatalf("second close: %v, closed %v", err, closed)
	}
}

func TestNearestPadColor(t *testing.T) {
	cases := map[track.Color]uint8{
		track.Off:   0,
		track.Red:   5,
		track.Green: 21,
		track.Cyan:  37,
		track.White: 119,
	}
	for c, want := range cases {
		if got := nearestPadColor(c); got != want {
			t.Errorf("%s: got %d, want %d", c.Hex(), got, want)
		}
	}
}

func TestPadStripFlushesChangesOnly(t *testing.T) {
	var notes []uint8
	s := newPadStrip(func(m gomidi.Message) error {
		var ch, key, vel uint8
		if m.GetNoteOn(&ch, &key, &vel) {
			notes = append(notes, key)
		}
		return nil
	})

	s.SetColor(0, track.Red)
	s.SetColor(17, track.Green)
	s.SetColor(99, track.Green) // off the grid
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 {
		t.Fatalf("notes %v", notes)
	}

	notes = nil
	s.SetColor(0, track.Red)
	s.Flush()
	if len(notes) != 0 {
		t.Fatalf("unchanged pad resent: %v", notes)
	}
}

func TestPadNote(t *testing.T) {
	if padNote(0) != 11 || padNote(7) != 18 || padNote(8) != 21 || padNote(63) != 88 {
		t.Fatal("pad note mapping")
	}
}

func TestIsLaunchpad(t *testing.T) {
	if !IsLaunchpad("Launchpad X LPX MIDI In") || IsLaunchpad("Launchpad X LPX DAW In") {
		t.Fatal("launchpad detection")
	}
}
