package tui

import (
	"sync"

	"piloop/looper"
	"piloop/menu"
	"piloop/track"
	"piloop/widgets"
)

// Screen records what the looper asked to be drawn so the terminal view can
// repaint it. It stands in for both the TFT and the indicator LED chain.
type Screen struct {
	mu sync.Mutex

	tracks map[int]trackTile
	menu   []widgets.MenuLine
	nav    menu.NavBar
	bpm    int
	bar    looper.PositionBar

	staged  map[int]track.Color
	leds    map[int]track.Color
	flushes int
}

type trackTile struct {
	state track.State
	geo   track.Geometry
}

func NewScreen() *Screen {
	return &Screen{
		tracks: make(map[int]trackTile),
		staged: make(map[int]track.Color),
		leds:   make(map[int]track.Color),
		bar:    looper.NewPositionBar(0),
	}
}

func (s *Screen) DrawTrack(id int, st track.State, g track.Geometry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks[id] = trackTile{state: st, geo: g}
}

func (s *Screen) ClearMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu = s.menu[:0]
}

func (s *Screen) DrawMenuItem(text string, row int, highlighted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.menu) <= row {
		s.menu = append(s.menu, widgets.MenuLine{})
	}
	s.menu[row] = widgets.MenuLine{Text: text, Highlighted: highlighted}
}

func (s *Screen) DrawNavBar(nb menu.NavBar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = nb
}

func (s *Screen) DrawBpm(bpm int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bpm = bpm
}

func (s *Screen) DrawPosition(bar looper.PositionBar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bar = bar
}

// SetColor stages an LED colour; it shows after Flush
func (s *Screen) SetColor(id int, c track.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged[id] = c
}

func (s *Screen) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.staged {
		s.leds[id] = c
	}
	s.staged = make(map[int]track.Color)
	s.flushes++
	return nil
}

// LED returns the last flushed colour of an indicator
func (s *Screen) LED(id int) track.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leds[id]
}

// Track returns the last drawn state of a tile
func (s *Screen) Track(id int) (track.State, track.Geometry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tracks[id]
	return t.state, t.geo, ok
}

func (s *Screen) Menu() ([]widgets.MenuLine, menu.NavBar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]widgets.MenuLine(nil), s.menu...), s.nav
}

func (s *Screen) Header() (bpm int, bar looper.PositionBar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bpm, s.bar
}

// Flushes counts LED chain updates
func (s *Screen) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

var (
	_ looper.Display = (*Screen)(nil)
	_ looper.Strip   = (*Screen)(nil)
)
