// Package encoder decodes a quadrature rotary encoder with a push switch.
package encoder

import (
	"piloop/hw"
)

// Direction is the rotation seen on the current update
type Direction uint8

const (
	Idle Direction = iota
	Clockwise
	CounterClockwise
)

func (d Direction) String() string {
	switch d {
	case Idle:
		return "Idle"
	case Clockwise:
		return "Clockwise"
	case CounterClockwise:
		return "Counter Clockwise"
	default:
		return "Unknown"
	}
}

// PhasesDifferDirection is the rotation reported when DT differs from CLK on
// a rising edge of CLK. Every consumer derives the mapping from this constant.
const PhasesDifferDirection = Clockwise

// Opposite returns the other rotation; Idle stays Idle
func (d Direction) Opposite() Direction {
	switch d {
	case Clockwise:
		return CounterClockwise
	case CounterClockwise:
		return Clockwise
	}
	return d
}

// Config describes the encoder wiring and resolution
type Config struct {
	CLK, DT, SW int
	PPR         int // pulses per revolution, the counter range is [0, PPR]
	Divider     int // raw pulses per detent reported by Pulses
}

const (
	DefaultPPR     = 20
	DefaultDivider = 1
)

// Encoder counts pulses from 0 to PPR, wrapping at both ends
type Encoder struct {
	pins hw.Pins
	cfg  Config

	lastCLK, curCLK bool
	lastSW          bool
	count           int
	dir             Direction
	pressed         bool
}

// New creates an encoder; call Init before the first Update
func New(pins hw.Pins, cfg Config) *Encoder {
	if cfg.PPR <= 0 {
		cfg.PPR = DefaultPPR
	}
	if cfg.Divider <= 0 {
		cfg.Divider = DefaultDivider
	}
	return &Encoder{pins: pins, cfg: cfg}
}

// Init configures the pins, latches the current CLK level and resets the count
func (e *Encoder) Init() {
	hw.SetMode(e.pins, e.cfg.CLK, hw.Input)
	hw.SetMode(e.pins, e.cfg.DT, hw.Input)
	hw.SetMode(e.pins, e.cfg.SW, hw.InputPullUp)
	e.lastCLK = e.pins.ReadDigital(e.cfg.CLK)
	e.lastSW = !e.pins.ReadDigital(e.cfg.SW)
	e.count = 0
	e.dir = Idle
	e.pressed = false
}

// Update reads CLK, DT and SW once. Direction is only set on the update that
// sees a rising CLK edge; Pressed only on the update where the switch closes.
func (e *Encoder) Update() {
	e.curCLK = e.pins.ReadDigital(e.cfg.CLK)
	sw := !e.pins.ReadDigital(e.cfg.SW) // active low

	e.dir = Idle
	if e.curCLK && !e.lastCLK {
		if e.pins.ReadDigital(e.cfg.DT) != e.curCLK {
			e.dir = PhasesDifferDirection
		} else {
			e.dir = PhasesDifferDirection.Opposite()
		}
		e.count += step(e.dir)
		if e.count > e.cfg.PPR {
			e.count = 0
		} else if e.count < 0 {
			e.count = e.cfg.PPR
		}
	}

	e.pressed = sw && !e.lastSW

	e.lastCLK = e.curCLK
	e.lastSW = sw
}

// step is the counter change for a rotation: clockwise counts down
func step(d Direction) int {
	switch d {
	case Clockwise:
		return -1
	case CounterClockwise:
		return 1
	}
	return 0
}

// Pulses returns the count in detents (count / Divider, truncated)
func (e *Encoder) Pulses() int {
	return e.count / e.cfg.Divider
}

// Count returns the raw pulse counter
func (e *Encoder) Count() int {
	return e.count
}

func (e *Encoder) Direction() Direction {
	return e.dir
}

// Moving reports a rotation on the last update
func (e *Encoder) Moving() bool {
	return e.dir != Idle
}

// Pressed reports a switch closure on the last update
func (e *Encoder) Pressed() bool {
	return e.pressed
}

// Config returns the effective configuration
func (e *Encoder) Config() Config {
	return e.cfg
}
