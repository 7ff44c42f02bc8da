// Package looper runs the control cycle: it turns local input into messages
// for the audio host and applies the host's reports to the track model,
// emitting indicator colours and draw intents along the way.
package looper

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"piloop/debug"
	"piloop/encoder"
	"piloop/hw"
	"piloop/keypad"
	"piloop/menu"
	"piloop/protocol"
	"piloop/track"
)

var (
	ErrTrackRange = errors.New("track index out of range")
	ErrStateRange = errors.New("track state out of range")
)

// DefaultCyclePeriod paces Run
const DefaultCyclePeriod = time.Millisecond

// Options wires a Looper. Drumpad, MuteKey, Encoder, Menu, volume readers
// and Master are optional.
type Options struct {
	Clock hw.Clock
	Pins  hw.Pins // reads the mute key

	Drumpad  *keypad.Keypad
	Trackpad *keypad.Keypad
	MuteKey  *keypad.Key

	Encoder *encoder.Encoder
	Menu    *menu.Controller

	Tracks       []*track.Track
	Volumes      track.VolumeReader
	Master       *track.Track
	MasterVolume track.VolumeReader

	Host    Host
	Display Display
	Strip   Strip
}

// Looper is the orchestration core. All methods run on the cycle goroutine.
type Looper struct {
	opts Options

	position, count int
	lastBeat        time.Duration
	beatSeen        bool
	bpm             int

	stripDirty bool
	audioInput bool
}

// New checks the wiring and fills in no-op collaborators
func New(opts Options) (*Looper, error) {
	if opts.Clock == nil {
		return nil, errors.New("looper needs a clock")
	}
	if opts.Trackpad == nil {
		return nil, errors.New("looper needs a trackpad")
	}
	if opts.Host == nil {
		return nil, errors.New("looper needs a host link")
	}
	if len(opts.Tracks) == 0 {
		return nil, errors.New("looper needs at least one track")
	}
	if opts.MuteKey != nil && opts.Pins == nil {
		return nil, errors.New("mute key needs pins")
	}
	if opts.Display == nil {
		opts.Display = NopDisplay{}
	}
	if opts.Strip == nil {
		opts.Strip = NopStrip{}
	}
	return &Looper{opts: opts}, nil
}

// Init configures every input, clears the tracks and draws the first frame
func (l *Looper) Init() error {
	o := &l.opts
	if o.Drumpad != nil {
		o.Drumpad.Init()
	}
	o.Trackpad.Init()
	if o.MuteKey != nil {
		o.MuteKey.Init(o.Pins)
	}
	if o.Encoder != nil {
		o.Encoder.Init()
	}
	for _, r := range []track.VolumeReader{o.Volumes, o.MasterVolume} {
		if in, ok := r.(interface{ Init() }); ok {
			in.Init()
		}
	}

	for i, t := range o.Tracks {
		t.Reset()
		o.Strip.SetColor(l.trackLED(i), track.IndicatorColor(t.State))
		o.Display.DrawTrack(t.ID, t.State, t.Geometry)
	}
	if o.Master != nil {
		o.Master.Reset()
	}
	if o.Drumpad != nil {
		for _, k := range o.Drumpad.Keys() {
			o.Strip.SetColor(k.LED, track.PadIdle)
		}
	}
	if o.Menu != nil {
		o.Menu.Reset(o.Clock.Now())
		l.drawMenu()
	}
	o.Display.DrawPosition(NewPositionBar(0))

	l.position, l.count, l.bpm, l.beatSeen = 0, 0, 0, false
	l.stripDirty = false
	return errors.Wrap(o.Strip.Flush(), "flush indicators")
}

// Cycle runs one pass of the control loop. Local input is handled before
// inbound frames; only inbound status frames change track state.
func (l *Looper) Cycle() {
	l.updateDrumpad()
	l.updateTrackpad()
	l.updateMenu()
	l.updateVolumes()
	l.receive()

	if l.stripDirty {
		if err := l.opts.Strip.Flush(); err != nil {
			debug.LogEvery(100, "looper", "indicator flush: %v", err)
		}
		l.stripDirty = false
	}
}

// Run cycles every period until ctx is done
func (l *Looper) Run(ctx context.Context, period time.Duration) error {
	if period <= 0 {
		period = DefaultCyclePeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Cycle()
		}
	}
}

func (l *Looper) send(ch protocol.Channel, id, value int) {
	o := protocol.Outbound{Channel: ch, ID: uint8(id), Value: uint8(value)}
	if err := l.opts.Host.Send(o); err != nil {
		debug.LogEvery(100, "looper", "send: %v", err)
		return
	}
	debug.Log("looper", "-> %v", o)
}

func (l *Looper) setColor(id int, c track.Color) {
	l.opts.Strip.SetColor(id, c)
	l.stripDirty = true
}

func (l *Looper) updateDrumpad() {
	kp := l.opts.Drumpad
	if kp == nil || !kp.Poll() {
		return
	}
	for _, k := range kp.Keys() {
		if !k.Changed {
			continue
		}
		if k.State != keypad.Released {
			l.send(protocol.ButtonPressed, k.ID, int(k.State))
			l.setColor(k.LED, track.PadActive)
		} else {
			l.setColor(k.LED, track.PadIdle)
		}
	}
}

// muteHeld reports whether the mute modifier is down
func (l *Looper) muteHeld() bool {
	k := l.opts.MuteKey
	return k != nil && k.State != keypad.Released
}

// updateTrackpad maps trackpad keys to loop commands: holding a key clears
// its loop; pressing a stopped loop overdubs it unless the mute key is held,
// in which case it is a plain loop press (mute toggle on the host). The mute
// key is sampled on the trackpad's scan cadence so it shares its debounce.
func (l *Looper) updateTrackpad() {
	kp := l.opts.Trackpad
	if !kp.Due() {
		return
	}
	if l.opts.MuteKey != nil {
		l.opts.MuteKey.Read(l.opts.Pins, l.opts.Clock.Now())
	}
	if !kp.Poll() {
		return
	}
	for i, k := range kp.Keys() {
		if !k.Changed || k.State == keypad.Released {
			continue
		}
		if i >= len(l.opts.Tracks) {
			debug.Log("looper", "trackpad key %d has no track", i)
			continue
		}
		ch := protocol.LoopPressed
		switch {
		case k.State == keypad.Hold:
			ch = protocol.ClearLoop
		case l.opts.Tracks[i].State == track.StopRec && l.opts.MuteKey != nil && !l.muteHeld():
			ch = protocol.Overdub
		}
		l.send(ch, i, 0)
	}
}

func (l *Looper) updateMenu() {
	o := &l.opts
	if o.Encoder == nil || o.Menu == nil {
		return
	}
	o.Encoder.Update()
	if o.Menu.Update(o.Encoder.Direction(), o.Encoder.Pressed(), o.Clock.Now()) {
		l.drawMenu()
	}
	switch {
	case o.Menu.LoadSound():
		idx, name := o.Menu.SelectedItem()
		debug.Log("looper", "load sound %d %s", idx, name)
		l.send(protocol.DrumpadSound, 0, idx)
	case o.Menu.ToggleInput():
		l.SetAudioInput(!l.audioInput)
	case o.Menu.ClearLoops():
		l.ClearAll()
	}
}

func (l *Looper) drawMenu() {
	d, m := l.opts.Display, l.opts.Menu
	d.ClearMenu()
	for _, it := range m.Items() {
		d.DrawMenuItem(it.Label, it.Row, it.Highlighted)
	}
	d.DrawNavBar(m.NavBar())
}

func (l *Looper) updateVolumes() {
	o := &l.opts
	if o.Volumes != nil {
		for i, t := range o.Tracks {
			if t.Update(o.Volumes) {
				l.send(protocol.Volume, i, int(t.Volume))
			}
		}
	}
	if o.Master != nil && o.MasterVolume != nil && o.Master.Update(o.MasterVolume) {
		l.send(protocol.AudioMaster, 0, int(o.Master.Volume))
	}
}

// receive drains every complete inbound frame
func (l *Looper) receive() {
	for {
		m, ok, err := l.opts.Host.Receive()
		if !ok {
			return
		}
		if err != nil {
			continue // unknown kind, already logged
		}
		switch m.Kind {
		case protocol.KindStatus:
			if err := l.ApplyStatus(m.Track, m.State); err != nil {
				debug.Log("looper", "drop %v: %v", m, err)
			}
		case protocol.KindCounter:
			l.ApplyCounter(m.Position, m.Count)
		}
	}
}

// ApplyStatus applies a host status report to track idx (0-based)
func (l *Looper) ApplyStatus(idx int, s track.State) error {
	if idx < 0 || idx >= len(l.opts.Tracks) {
		return errors.Wrapf(ErrTrackRange, "track %d of %d", idx, len(l.opts.Tracks))
	}
	if !s.Valid() {
		return errors.Wrapf(ErrStateRange, "state %d", uint8(s))
	}
	t := l.opts.Tracks[idx]
	prev := t.State
	t.ApplyStatus(s)
	debug.Log("looper", "track %d %v -> %v", idx, prev, t.State)

	l.setColor(l.trackLED(idx), track.IndicatorColor(t.State))
	l.opts.Display.DrawTrack(t.ID, t.State, t.Geometry)
	return nil
}

// ApplyCounter records the metronome and redraws the position bar. Each
// change of position is taken as one beat for the tempo estimate.
func (l *Looper) ApplyCounter(position, count int) {
	now := l.opts.Clock.Now()
	moved := position != l.position
	l.position, l.count = position, count
	l.opts.Display.DrawPosition(NewPositionBar(position))

	if !moved {
		return
	}
	if l.beatSeen {
		if bpm := bpmFor(now - l.lastBeat); bpm > 0 && bpm != l.bpm {
			l.bpm = bpm
			l.opts.Display.DrawBpm(bpm)
		}
	}
	l.lastBeat = now
	l.beatSeen = true
}

func bpmFor(beat time.Duration) int {
	if beat <= 0 {
		return 0
	}
	return int(math.Round(float64(time.Minute) / float64(beat)))
}

// ClearAll asks the host to clear every loop
func (l *Looper) ClearAll() {
	l.send(protocol.ClearAll, 0, 0)
}

// SetAudioInput turns the host's live input monitoring on or off
func (l *Looper) SetAudioInput(on bool) {
	l.audioInput = on
	v := 0
	if on {
		v = 1
	}
	l.send(protocol.AudioInput, 0, v)
}

// AudioInput reports the last requested input state
func (l *Looper) AudioInput() bool {
	return l.audioInput
}

// trackLED is the indicator id of track idx: its trackpad key's LED
func (l *Looper) trackLED(idx int) int {
	if k := l.opts.Trackpad.Key(idx); k != nil && k.LED != keypad.NoLED {
		return k.LED
	}
	return idx
}

// Tracks returns the loop tracks
func (l *Looper) Tracks() []*track.Track {
	return l.opts.Tracks
}

// Track returns track idx or nil
func (l *Looper) Track(idx int) *track.Track {
	if idx < 0 || idx >= len(l.opts.Tracks) {
		return nil
	}
	return l.opts.Tracks[idx]
}

// Master returns the master track, nil when not fitted
func (l *Looper) Master() *track.Track {
	return l.opts.Master
}

// Metronome returns the last reported beat position and beat count
func (l *Looper) Metronome() (position, count int) {
	return l.position, l.count
}

// BPM returns the estimated tempo, 0 before two beats were seen
func (l *Looper) BPM() int {
	return l.bpm
}

// Menu returns the menu controller, nil when no encoder is fitted
func (l *Looper) Menu() *menu.Controller {
	return l.opts.Menu
}

func (l *Looper) Drumpad() *keypad.Keypad  { return l.opts.Drumpad }
func (l *Looper) Trackpad() *keypad.Keypad { return l.opts.Trackpad }
