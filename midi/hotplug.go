package midi

import (
	"context"
	"sync"
	"time"

	"piloop/debug"
	"piloop/track"
)

// DefaultPollRate is how often PadMirror looks for a Launchpad
const DefaultPollRate = time.Second

// PadMirror is an indicator strip backed by whichever Launchpad is plugged
// in. It keeps the full set of indicator colours so a pad grid connected
// mid-session is brought up to date on attach; with no Launchpad present it
// only records.
type PadMirror struct {
	mu     sync.Mutex
	colors map[int]track.Color
	strip  *PadStrip
	name   string

	pollRate time.Duration
	find     func() (string, error)
	open     func(name string) (*PadStrip, error)
}

// NewPadMirror creates a mirror that attaches the first Launchpad found
func NewPadMirror() *PadMirror {
	return &PadMirror{
		colors:   make(map[int]track.Color),
		pollRate: DefaultPollRate,
		find:     func() (string, error) { return FindLaunchpad(DefaultScanTimeout) },
		open:     OpenPadStrip,
	}
}

func (m *PadMirror) SetColor(id int, c track.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.colors[id] = c
	if m.strip != nil {
		m.strip.SetColor(id, c)
	}
}

func (m *PadMirror) Flush() error {
	m.mu.Lock()
	s := m.strip
	m.mu.Unlock()
	if s == nil {
		return nil
	}
	if err := s.Flush(); err != nil {
		m.detach("flush failed: " + err.Error())
		return err
	}
	return nil
}

// Connected returns the attached port name, "" when none
func (m *PadMirror) Connected() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// Run polls for connects and disconnects until ctx is done (blocking - run
// in a goroutine)
func (m *PadMirror) Run(ctx context.Context) {
	ticker := time.NewTicker(m.pollRate)
	defer ticker.Stop()

	m.scan()
	for {
		select {
		case <-ctx.Done():
			m.Close()
			return
		case <-ticker.C:
			m.scan()
		}
	}
}

func (m *PadMirror) scan() {
	name, err := m.find()
	if err != nil {
		// a hung backend skips this scan
		debug.LogEvery(10, "lp", "scan: %v", err)
		return
	}

	m.mu.Lock()
	current := m.name
	m.mu.Unlock()

	switch {
	case name == current:
		return
	case name == "":
		m.detach("disconnected")
		return
	case current != "":
		m.detach("replaced by " + name)
	}

	s, err := m.open(name)
	if err != nil {
		debug.Log("lp", "open %s: %v", name, err)
		return
	}

	m.mu.Lock()
	m.strip, m.name = s, name
	for id, c := range m.colors {
		s.SetColor(id, c)
	}
	m.mu.Unlock()
	debug.Log("lp", "connected %s", name)

	if err := s.Flush(); err != nil {
		m.detach("initial flush failed: " + err.Error())
	}
}

func (m *PadMirror) detach(reason string) {
	m.mu.Lock()
	name, s := m.name, m.strip
	m.strip, m.name = nil, ""
	m.mu.Unlock()
	if s != nil {
		if err := s.release(); err != nil {
			debug.Log("lp", "%v", err)
		}
	}
	if name != "" {
		debug.Log("lp", "detached %s: %s", name, reason)
	}
}

// Close turns the attached pads off
func (m *PadMirror) Close() error {
	m.mu.Lock()
	s := m.strip
	m.strip, m.name = nil, ""
	m.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Close()
}
