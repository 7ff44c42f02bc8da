// Package keypad scans a row/column button matrix into debounced key events.
package keypad

import (
	"time"

	"github.com/pkg/errors"

	"piloop/hw"
)

// Matrix size limits. Keys live in a fixed array indexed row-major.
const (
	MaxRows = 8
	MaxCols = 8
	MaxKeys = MaxRows * MaxCols
)

// Config describes how a keypad is wired
type Config struct {
	RowPins []int
	ColPins []int
	IDs     []int // key id per row-major position, defaults to the position
	LEDs    []int // indicator id per position, defaults to the key id

	DebounceTime time.Duration
	HoldTime     time.Duration
}

// Keypad scans a matrix: rows are driven low one at a time and every column
// is sampled, active low.
type Keypad struct {
	pins  hw.Pins
	clock hw.Clock

	rows, cols []int
	keys       [MaxKeys]Key
	n          int

	debounce  time.Duration
	lastScan  time.Duration
	scannedAt bool
}

// New creates a keypad. It does not touch the pins until Init.
func New(pins hw.Pins, clock hw.Clock, cfg Config) (*Keypad, error) {
	nr, nc := len(cfg.RowPins), len(cfg.ColPins)
	if nr == 0 || nc == 0 {
		return nil, errors.New("keypad needs at least one row and one column")
	}
	if nr > MaxRows || nc > MaxCols {
		return nil, errors.Errorf("keypad %dx%d exceeds %dx%d", nr, nc, MaxRows, MaxCols)
	}
	n := nr * nc
	if cfg.IDs != nil && len(cfg.IDs) != n {
		return nil, errors.Errorf("keypad has %d keys but %d ids", n, len(cfg.IDs))
	}
	if cfg.LEDs != nil && len(cfg.LEDs) != n {
		return nil, errors.Errorf("keypad has %d keys but %d leds", n, len(cfg.LEDs))
	}

	kp := &Keypad{
		pins:     pins,
		clock:    clock,
		rows:     append([]int(nil), cfg.RowPins...),
		cols:     append([]int(nil), cfg.ColPins...),
		n:        n,
		debounce: cfg.DebounceTime,
	}
	if kp.debounce <= 0 {
		kp.debounce = DefaultDebounceTime
	}
	hold := cfg.HoldTime
	if hold <= 0 {
		hold = DefaultHoldTime
	}

	for i := 0; i < n; i++ {
		id := i
		if cfg.IDs != nil {
			id = cfg.IDs[i]
		}
		led := id
		if cfg.LEDs != nil {
			led = cfg.LEDs[i]
		}
		kp.keys[i] = NewKey(id, NoKey, led)
		kp.keys[i].HoldTime = hold
	}
	return kp, nil
}

// Init sets rows as outputs (idle high) and columns as pulled-up inputs
func (kp *Keypad) Init() {
	for _, r := range kp.rows {
		hw.SetMode(kp.pins, r, hw.Output)
		kp.pins.WriteDigital(r, true)
	}
	for _, c := range kp.cols {
		hw.SetMode(kp.pins, c, hw.InputPullUp)
	}
	for i := 0; i < kp.n; i++ {
		kp.keys[i].State = Released
		kp.keys[i].Changed = false
		kp.keys[i].Active = false
	}
	kp.scannedAt = false
}

// Poll scans at most once per debounce interval and reports whether any key
// changed state. Between scans it returns false and leaves the change flags
// from the last scan in place.
func (kp *Keypad) Poll() bool {
	if !kp.Due() {
		return false
	}
	kp.lastScan = kp.clock.Now()
	kp.scannedAt = true
	return kp.Scan()
}

// Due reports whether the next Poll will scan
func (kp *Keypad) Due() bool {
	return !kp.scannedAt || kp.clock.Now()-kp.lastScan > kp.debounce
}

// Scan samples the whole matrix once, unthrottled. Callers that bypass Poll
// must keep scans at least DebounceTime apart themselves.
func (kp *Keypad) Scan() bool {
	now := kp.clock.Now()
	activity := false
	idx := 0
	for _, r := range kp.rows {
		kp.pins.WriteDigital(r, false) // begin row pulse
		for _, c := range kp.cols {
			if kp.keys[idx].Update(!kp.pins.ReadDigital(c), now) {
				activity = true
			}
			idx++
		}
		kp.pins.WriteDigital(r, true) // end row pulse
	}
	return activity
}

// Keys returns the live keys in row-major order
func (kp *Keypad) Keys() []Key {
	return kp.keys[:kp.n]
}

// Key returns the key at row-major position i, nil when out of range
func (kp *Keypad) Key(i int) *Key {
	if i < 0 || i >= kp.n {
		return nil
	}
	return &kp.keys[i]
}

// Len returns rows*cols
func (kp *Keypad) Len() int {
	return kp.n
}

// Size returns the matrix dimensions
func (kp *Keypad) Size() (rows, cols int) {
	return len(kp.rows), len(kp.cols)
}
