// Package hw defines the I/O capabilities the looper core consumes: logical
// digital pins, analog channels and a monotonic clock. Components receive
// these as explicit handles so they can run against real GPIO or the Sim board.
package hw

import (
	"sync"
	"time"
)

// PinMode configures a logical pin
type PinMode int

const (
	Input PinMode = iota
	InputPullUp
	Output
)

// Pins reads and drives logical digital pins. true is a high level.
type Pins interface {
	ReadDigital(pin int) bool
	WriteDigital(pin int, high bool)
}

// Analog reads an analog channel, 0..MaxAnalog
type Analog interface {
	ReadAnalog(channel int) int
}

// Clock returns the time elapsed since an arbitrary fixed origin
type Clock interface {
	Now() time.Duration
}

// IO is the full capability handle of a board
type IO interface {
	Pins
	Analog
	Clock
}

// ModeSetter is implemented by boards whose pins need configuring before use
type ModeSetter interface {
	SetMode(pin int, mode PinMode)
}

// MaxAnalog is the full-scale reading of a 10-bit ADC
const MaxAnalog = 1023

// SetMode configures pin when the board supports it
func SetMode(p Pins, pin int, mode PinMode) {
	if ms, ok := p.(ModeSetter); ok {
		ms.SetMode(pin, mode)
	}
}

// SystemClock measures time since its creation
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock starting at zero now
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualClock only moves when told to
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// Set jumps the clock to t
func (c *ManualClock) Set(t time.Duration) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}
