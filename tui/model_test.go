package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"piloop/config"
	"piloop/protocol"
	"piloop/track"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestParseFrame(t *testing.T) {
	f, err := ParseFrame("0 3 0x02")
	if err != nil {
		t.Fatal(err)
	}
	if f != [3]byte{0, 3, 2} {
		t.Fatalf("got %v", f)
	}
	for _, bad := range []string{"", "1 2", "1 2 3 4", "0 1 256", "a b c"} {
		if _, err := ParseFrame(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestScreenFlushStagesColors(t *testing.T) {
	s := NewScreen()
	s.SetColor(18, track.Green)
	if !s.LED(18).IsOff() {
		t.Fatal("colour visible before flush")
	}
	s.Flush()
	if s.LED(18) != track.Green || s.Flushes() != 1 {
		t.Fatalf("led %v flushes %d", s.LED(18), s.Flushes())
	}
}

func TestScreenMenuRows(t *testing.T) {
	s := NewScreen()
	s.DrawMenuItem("Kick", 2, true)
	lines, _ := s.Menu()
	if len(lines) != 3 || lines[2].Text != "Kick" || !lines[2].Highlighted {
		t.Fatalf("%+v", lines)
	}
	s.ClearMenu()
	if lines, _ := s.Menu(); len(lines) != 0 {
		t.Fatalf("%+v", lines)
	}
}

func TestModelDrawsTracksOnStart(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < m.cfg.Tracks; i++ {
		if _, _, ok := m.screen.Track(i); !ok {
			t.Fatalf("track %d not drawn", i)
		}
	}
}

func TestInjectedStatusReachesTrack(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(runes(":"))
	m = next.(Model)
	if !m.entering {
		t.Fatal("expected frame entry")
	}
	for _, r := range "0 1 2" {
		next, _ = m.Update(runes(string(r)))
		m = next.(Model)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.entering {
		t.Fatal("entry still open")
	}
	m.runCycle()
	if got := m.looper.Track(1).State; got != track.StartRec {
		t.Fatalf("track 2 state %v (status %q)", got, m.status)
	}
}

func TestClearAllIsSent(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = next.(Model)
	m.runCycle()
	want := protocol.Outbound{Channel: protocol.ClearAll}
	for _, o := range m.sent {
		if o == want {
			return
		}
	}
	t.Fatalf("sent %v", m.sent)
}

func TestFaderSelectWraps(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if m.fader != len(m.raw)-1 {
		t.Fatalf("fader %d", m.fader)
	}
	next, _ = m.Update(runes("="))
	m = next.(Model)
	if m.raw[m.fader] != faderStep {
		t.Fatalf("raw %d", m.raw[m.fader])
	}
}

func TestViewShowsLegendAndRecording(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	for s := track.State(0); s < track.NumStates; s++ {
		if !strings.Contains(view, s.String()) {
			t.Errorf("legend missing %s", s)
		}
	}
	if header := strings.Split(view, "\n")[1]; strings.Contains(header, "REC") {
		t.Fatalf("header %q with nothing recording", header)
	}
	if err := m.looper.ApplyStatus(0, track.StartRec); err != nil {
		t.Fatal(err)
	}
	if header := strings.Split(m.View(), "\n")[1]; !strings.Contains(header, "REC") {
		t.Fatalf("header %q", header)
	}
}
