package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"piloop/config"
	"piloop/encoder"
	"piloop/hw"
	"piloop/keypad"
	"piloop/link"
	"piloop/looper"
	"piloop/protocol"
	"piloop/theme"
	"piloop/track"
	"piloop/widgets"
)

// TickInterval is how often the simulated board runs a control cycle
const TickInterval = 2 * time.Millisecond

const (
	tapTime   = 60 * time.Millisecond
	faderStep = 64
	sentLog   = 8
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type release struct {
	at time.Duration
	fn func()
}

// Model drives a looper wired to a simulated board. Keyboard input becomes
// contact closures, encoder detents and fader voltages; host frames are
// typed in and outbound messages are listed as they are sent.
type Model struct {
	cfg    *config.Config
	clock  hw.Clock
	sim    *hw.Sim
	looper *looper.Looper
	pipe   *link.Pipe
	screen *Screen
	theme  *theme.Theme

	keys     keyMap
	help     help.Model
	input    textinput.Model
	entering bool

	drumMatrix  int
	trackMatrix int
	mux         int

	releases []release
	fader    int   // tracks then master
	raw      []int // raw fader samples, same order
	muteDown bool

	sent     []protocol.Outbound
	status   string
	quitting bool
}

// NewModel builds a simulated board from cfg and wires a looper onto it
func NewModel(cfg *config.Config, th *theme.Theme) (Model, error) {
	if th == nil {
		th = theme.New(nil)
	}
	clock := hw.NewSystemClock()
	sim := hw.NewSim(clock)
	pipe := link.NewPipe(protocol.ModeBinary)
	screen := NewScreen()

	m := Model{
		cfg:         cfg,
		clock:       clock,
		sim:         sim,
		pipe:        pipe,
		screen:      screen,
		theme:       th,
		keys:        newKeyMap(),
		help:        help.New(),
		drumMatrix:  sim.AttachMatrix(cfg.Drumpad.Rows, cfg.Drumpad.Cols),
		trackMatrix: sim.AttachMatrix(cfg.Trackpad.Rows, cfg.Trackpad.Cols),
		mux:         sim.AttachMux(cfg.Volume.Select, cfg.Volume.Channel),
		raw:         make([]int, cfg.Tracks+1),
	}
	if cfg.HasEncoder() {
		sim.SetDigital(cfg.Encoder.CLK, true)
		sim.SetDigital(cfg.Encoder.DT, true)
	}

	l, err := looper.Build(cfg, sim, pipe, screen, screen)
	if err != nil {
		return Model{}, err
	}
	if err := l.Init(); err != nil {
		return Model{}, errors.Wrap(err, "init looper")
	}
	m.looper = l

	ti := textinput.New()
	ti.Placeholder = "kind a b"
	ti.CharLimit = 16
	ti.Width = 16
	m.input = ti
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.runCycle()
		return m, tick()

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if m.entering {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// runCycle lets go of expired key presses, advances the encoder one step
// and runs the control loop once
func (m *Model) runCycle() {
	now := m.clock.Now()
	pending := m.releases[:0]
	for _, r := range m.releases {
		if now >= r.at {
			r.fn()
		} else {
			pending = append(pending, r)
		}
	}
	m.releases = pending

	m.sim.Tick()
	m.looper.Cycle()

	if out := m.pipe.Drain(); len(out) > 0 {
		m.sent = append(m.sent, out...)
		if n := len(m.sent); n > sentLog {
			m.sent = append([]protocol.Outbound(nil), m.sent[n-sentLog:]...)
		}
	}
}

func (m *Model) after(d time.Duration, fn func()) {
	m.releases = append(m.releases, release{at: m.clock.Now() + d, fn: fn})
}

func (m *Model) press(matrix, index int, d time.Duration) {
	sim := m.sim
	sim.PressKey(matrix, index, true)
	m.after(d, func() { sim.PressKey(matrix, index, false) })
}

func (m *Model) turn(d encoder.Direction) {
	if !m.cfg.HasEncoder() {
		return
	}
	m.sim.QueueTurn(m.cfg.Encoder.CLK, m.cfg.Encoder.DT, d == encoder.PhasesDifferDirection)
}

func (m *Model) setFader(v int) {
	if v < 0 {
		v = 0
	}
	if v > hw.MaxAnalog {
		v = hw.MaxAnalog
	}
	m.raw[m.fader] = v
	if m.fader < m.cfg.Tracks {
		m.sim.SetMuxInput(m.mux, m.looper.Track(m.fader).Input, v)
		return
	}
	if m.cfg.Volume.Master != config.NoPin {
		m.sim.SetAnalog(m.cfg.Volume.Master, v)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := msg.String()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Loop):
		m.press(m.trackMatrix, strings.Index(loopTapKeys, s), tapTime)

	case key.Matches(msg, m.keys.Hold):
		m.press(m.trackMatrix, strings.Index(loopHoldKeys, s), m.cfg.Timing.Hold+200*time.Millisecond)

	case key.Matches(msg, m.keys.Drum):
		m.press(m.drumMatrix, strings.Index(drumKeys, s), tapTime)

	case key.Matches(msg, m.keys.Mute):
		if m.cfg.MuteKey == config.NoPin {
			m.status = "no mute key fitted"
			break
		}
		m.muteDown = !m.muteDown
		m.sim.SetDigital(m.cfg.MuteKey, !m.muteDown)

	case key.Matches(msg, m.keys.Left):
		m.turn(encoder.CounterClockwise)

	case key.Matches(msg, m.keys.Right):
		m.turn(encoder.Clockwise)

	case key.Matches(msg, m.keys.Push):
		if sw := m.cfg.Encoder.SW; sw != config.NoPin {
			sim := m.sim
			sim.SetDigital(sw, false)
			m.after(tapTime, func() { sim.SetDigital(sw, true) })
		}

	case key.Matches(msg, m.keys.VolSel):
		n := len(m.raw)
		if s == "up" {
			m.fader = (m.fader + n - 1) % n
		} else {
			m.fader = (m.fader + 1) % n
		}

	case key.Matches(msg, m.keys.VolDown):
		m.setFader(m.raw[m.fader] - faderStep)

	case key.Matches(msg, m.keys.VolUp):
		m.setFader(m.raw[m.fader] + faderStep)

	case key.Matches(msg, m.keys.Inject):
		m.entering = true
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Clear):
		m.looper.ClearAll()

	case key.Matches(msg, m.keys.Input):
		m.looper.SetAudioInput(!m.looper.AudioInput())

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.entering = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.entering = false
		m.input.Blur()
		frame, err := ParseFrame(m.input.Value())
		if err != nil {
			m.status = err.Error()
		} else {
			m.pipe.Inject(frame[:])
			m.status = fmt.Sprintf("injected % x", frame[:])
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ParseFrame reads three space separated byte values
func ParseFrame(s string) ([protocol.FrameSize]byte, error) {
	var frame [protocol.FrameSize]byte
	fields := strings.Fields(s)
	if len(fields) != protocol.FrameSize {
		return frame, errors.Errorf("want %d values, got %d", protocol.FrameSize, len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 0, 8)
		if err != nil {
			return frame, errors.Wrapf(err, "value %d", i)
		}
		frame[i] = byte(v)
	}
	return frame, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	th := m.theme
	headerStyle := lipgloss.NewStyle().Foreground(th.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	titleStyle := lipgloss.NewStyle().Foreground(th.FG()).Bold(true)

	bpm, bar := m.screen.Header()
	pos, count := m.looper.Metronome()
	input := "off"
	if m.looper.AudioInput() {
		input = "on"
	}
	mute := ""
	if m.muteDown {
		mute = "  MUTE"
	}
	if m.recording() {
		mute += "  REC"
	}
	header := headerStyle.Render(fmt.Sprintf("piloop  %3dbpm  beat:%d/%d  input:%s%s", bpm, pos, count, input, mute))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(widgets.RenderPositionBar(th, bar.Filled, bar.Segments))
	out.WriteString("\n\n")
	out.WriteString(m.viewTracks())
	out.WriteString("\n\n")

	lines, nav := m.screen.Menu()
	panel := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("menu")+"\n"+widgets.RenderMenu(th, lines, nav),
		"    ",
		titleStyle.Render("drumpad")+"\n"+m.viewPads(m.looper.Drumpad(), len(m.cfg.Drumpad.Cols)),
		"    ",
		titleStyle.Render("trackpad")+"\n"+m.viewPads(m.looper.Trackpad(), len(m.cfg.Trackpad.Cols))+
			"\n\n"+m.viewLegend(),
		"    ",
		titleStyle.Render("faders")+"\n"+m.viewFaders(),
		"    ",
		titleStyle.Render("sent")+"\n"+m.viewSent(),
	)
	out.WriteString(panel)
	out.WriteString("\n\n")

	if m.entering {
		out.WriteString("frame: " + m.input.View() + "\n")
	} else if m.status != "" {
		out.WriteString(dimStyle.Render(m.status) + "\n")
	}
	out.WriteString(m.help.View(m.keys))
	return out.String()
}

func (m Model) viewTracks() string {
	tracks := m.looper.Tracks()
	var rows []string
	var tiles []string
	for i, t := range tracks {
		st, geo, ok := m.screen.Track(i)
		if !ok {
			st, geo = t.State, t.Geometry
		}
		tiles = append(tiles, widgets.RenderTrackTile(m.theme, i, st, geo, t.Volume))
		if len(tiles) == 4 || i == len(tracks)-1 {
			rows = append(rows, widgets.RenderTrackRow(tiles))
			tiles = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) viewPads(kp *keypad.Keypad, cols int) string {
	keys := kp.Keys()
	colors := make([]track.Color, len(keys))
	for i, k := range keys {
		if k.LED != keypad.NoLED {
			colors[i] = m.screen.LED(k.LED)
		}
	}
	return widgets.RenderPadGrid(m.theme, colors, cols)
}

var stateHelp = [track.NumStates]string{
	"empty",
	"recording",
	"playing",
	"overdubbing",
	"playing",
	"armed",
	"muted",
}

// viewLegend lists the trackpad LED colour for each state
func (m Model) viewLegend() string {
	lines := make([]string, 0, track.NumStates)
	for s := track.State(0); s < track.NumStates; s++ {
		lines = append(lines, widgets.RenderLegendItem(m.theme, track.IndicatorColor(s), s.String(), stateHelp[s]))
	}
	return strings.Join(lines, "\n")
}

// recording reports whether the host is writing into any track
func (m Model) recording() bool {
	for _, t := range m.looper.Tracks() {
		if t.State.Recording() {
			return true
		}
	}
	return false
}

func (m Model) viewFaders() string {
	hi := lipgloss.NewStyle().Foreground(m.theme.Warning())
	var lines []string
	for i := range m.raw {
		name := fmt.Sprintf("trk%d", i+1)
		vol := uint8(0)
		if i < m.cfg.Tracks {
			vol = m.looper.Track(i).Volume
		} else if mst := m.looper.Master(); mst != nil {
			name = "mstr"
			vol = mst.Volume
		} else {
			continue
		}
		line := fmt.Sprintf("%-4s %4d %3d", name, m.raw[i], vol)
		if i == m.fader {
			line = hi.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewSent() string {
	if len(m.sent) == 0 {
		return lipgloss.NewStyle().Foreground(m.theme.Muted()).Render("-")
	}
	lines := make([]string, len(m.sent))
	for i, o := range m.sent {
		lines[i] = o.String()
	}
	return strings.Join(lines, "\n")
}
