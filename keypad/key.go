package keypad

import (
	"time"

	"piloop/hw"
)

// State is the logical state of a key
type State uint8

const (
	Released State = iota
	Pressed
	Hold
)

func (s State) String() string {
	switch s {
	case Released:
		return "RELEASED"
	case Pressed:
		return "PRESSED"
	case Hold:
		return "HOLD"
	default:
		return "UNKNOWN"
	}
}

const (
	NoKey = 255
	NoLED = 255
)

const (
	DefaultDebounceTime = 10 * time.Millisecond
	DefaultHoldTime     = 500 * time.Millisecond
)

// Key is a single debounced button. Matrix keys are fed by the Keypad scan;
// standalone keys (the mute key) read their own pin.
type Key struct {
	ID      int
	Pin     int
	LED     int
	State   State
	Changed bool // state differs from the previous update
	Active  bool // last raw sample, after active-low inversion

	HoldTime  time.Duration
	holdStart time.Duration
}

// NewKey creates a released key
func NewKey(id, pin, led int) Key {
	return Key{
		ID:       id,
		Pin:      pin,
		LED:      led,
		HoldTime: DefaultHoldTime,
	}
}

// Init configures the key's own pin as a pulled-up input
func (k *Key) Init(pins hw.Pins) {
	hw.SetMode(pins, k.Pin, hw.InputPullUp)
	k.State = Released
	k.Changed = false
}

// Read samples the key's pin (active low) and updates it
func (k *Key) Read(pins hw.Pins, now time.Duration) bool {
	return k.Update(!pins.ReadDigital(k.Pin), now)
}

// Update advances the key state machine with one raw sample. An inactive
// sample always wins over an expired hold timer, so Hold is only reached by
// a key that read active for longer than HoldTime.
func (k *Key) Update(active bool, now time.Duration) bool {
	k.Active = active
	next := k.State
	switch k.State {
	case Released:
		if active {
			next = Pressed
			k.holdStart = now
		}
	case Pressed:
		if !active {
			next = Released
		} else if now-k.holdStart > k.HoldTime {
			next = Hold
		}
	case Hold:
		if !active {
			next = Released
		}
	}
	k.Changed = next != k.State
	k.State = next
	return k.Changed
}
