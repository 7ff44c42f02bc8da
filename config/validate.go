package config

import (
	"github.com/pkg/errors"

	"piloop/hw"
	"piloop/keypad"
)

// MaxTracks is bounded by the multiplexer inputs
const MaxTracks = hw.MuxInputs

// Validate checks counts, ranges and that no pin is wired twice
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportSerial:
		if c.Serial.Baud < 1 {
			return errors.Errorf("serial.baud must be positive, got %d", c.Serial.Baud)
		}
	case TransportMIDI:
		if c.MIDI.Out == "" {
			return errors.New("midi transport needs midi.out")
		}
	default:
		return errors.Errorf("unknown transport %q", c.Transport)
	}

	if err := c.Drumpad.validate(); err != nil {
		return errors.Wrap(err, "drumpad")
	}
	if err := c.Trackpad.validate(); err != nil {
		return errors.Wrap(err, "trackpad")
	}

	if c.Tracks < 1 || c.Tracks > MaxTracks {
		return errors.Errorf("tracks must be 1..%d, got %d", MaxTracks, c.Tracks)
	}
	if n := len(c.Trackpad.Rows) * len(c.Trackpad.Cols); c.Tracks > n {
		return errors.Errorf("%d tracks but only %d trackpad keys", c.Tracks, n)
	}
	if c.HasEncoder() && c.Encoder.PPR < 1 {
		return errors.Errorf("encoder.ppr must be positive, got %d", c.Encoder.PPR)
	}
	if c.Volume.Channel < 0 || c.Volume.Channel > 7 {
		return errors.Errorf("volume.channel must be an MCP3008 channel 0..7, got %d", c.Volume.Channel)
	}
	if c.Volume.Master != NoPin && (c.Volume.Master < 0 || c.Volume.Master > 7 || c.Volume.Master == c.Volume.Channel) {
		return errors.Errorf("volume.master must be a free ADC channel or %d, got %d", NoPin, c.Volume.Master)
	}
	if c.Timing.Cycle < 0 || c.Timing.Debounce < 0 || c.Timing.Hold < 0 || c.Timing.MenuTimeout < 0 {
		return errors.New("timings must not be negative")
	}
	return c.checkPins()
}

func (k KeypadConfig) validate() error {
	if len(k.Rows) == 0 || len(k.Cols) == 0 {
		return errors.New("needs rows and cols")
	}
	if len(k.Rows) > keypad.MaxRows || len(k.Cols) > keypad.MaxCols {
		return errors.Errorf("%dx%d exceeds %dx%d", len(k.Rows), len(k.Cols), keypad.MaxRows, keypad.MaxCols)
	}
	n := len(k.Rows) * len(k.Cols)
	if k.IDs != nil && len(k.IDs) != n {
		return errors.Errorf("%d keys but %d ids", n, len(k.IDs))
	}
	if k.LEDs != nil && len(k.LEDs) != n {
		return errors.Errorf("%d keys but %d leds", n, len(k.LEDs))
	}
	return nil
}

// HasEncoder reports whether a menu encoder is fitted. An encoder with
// encoder.clk set to NoPin is left out along with the menu.
func (c *Config) HasEncoder() bool {
	return c.Encoder.CLK != NoPin
}

// Pins returns every digital pin the config uses, by role
func (c *Config) Pins() map[string][]int {
	pins := map[string][]int{
		"drumpad.rows":  c.Drumpad.Rows,
		"drumpad.cols":  c.Drumpad.Cols,
		"trackpad.rows": c.Trackpad.Rows,
		"trackpad.cols": c.Trackpad.Cols,
		"volume.select": c.Volume.Select[:],
	}
	if c.HasEncoder() {
		pins["encoder"] = []int{c.Encoder.CLK, c.Encoder.DT, c.Encoder.SW}
	}
	if c.MuteKey != NoPin {
		pins["muteKey"] = []int{c.MuteKey}
	}
	return pins
}

func (c *Config) checkPins() error {
	seen := make(map[int]string)
	for role, list := range c.Pins() {
		for _, p := range list {
			if p < 0 {
				return errors.Errorf("%s: invalid pin %d", role, p)
			}
			if other, dup := seen[p]; dup && other != role {
				return errors.Errorf("pin %d used by both %s and %s", p, other, role)
			} else if dup {
				return errors.Errorf("pin %d repeated in %s", p, role)
			}
			seen[p] = role
		}
	}
	return nil
}

// AllPins returns the distinct digital pins in use
func (c *Config) AllPins() []int {
	var out []int
	seen := make(map[int]bool)
	for _, list := range c.Pins() {
		for _, p := range list {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}
