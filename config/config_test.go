package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"piloop/protocol"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Serial.Mode = protocol.ModeText
	cfg.Tracks = 4
	cfg.Timing.Hold = 700 * time.Millisecond
	if err := cfg.SaveFile(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "mode: text") || !strings.Contains(string(data), "hold: 700ms") {
		t.Fatalf("unexpected yaml:\n%s", data)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Serial.Mode != protocol.ModeText || got.Tracks != 4 || got.Timing.Hold != 700*time.Millisecond {
		t.Fatalf("round trip lost fields: %+v", got)
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tracks != 8 || cfg.Transport != TransportSerial {
		t.Fatalf("%+v", cfg)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("transport: midi\nmidi:\n  out: loopMIDI\n"), 0644)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Transport != TransportMIDI || cfg.Encoder.PPR != 20 || len(cfg.Drumpad.Rows) != 4 {
		t.Fatalf("%+v", cfg)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := map[string]func(c *Config){
		"transport":    func(c *Config) { c.Transport = "carrier-pigeon" },
		"dup pin":      func(c *Config) { c.MuteKey = c.Encoder.CLK },
		"too many":     func(c *Config) { c.Tracks = 9 },
		"few keys":     func(c *Config) { c.Trackpad.Cols = []int{12} },
		"ids":          func(c *Config) { c.Drumpad.IDs = []int{1} },
		"adc":          func(c *Config) { c.Volume.Master = c.Volume.Channel },
		"empty keypad": func(c *Config) { c.Drumpad.Rows = nil },
		"midi out":     func(c *Config) { c.Transport = TransportMIDI },
		"baud":         func(c *Config) { c.Serial.Baud = 0 },
		"encoder ppr":  func(c *Config) { c.Encoder.PPR = 0 },
		"encoder dt":   func(c *Config) { c.Encoder.DT = NoPin },
	}
	for name, mutate := range cases {
		c := DefaultConfig()
		mutate(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestNoMuteKey(t *testing.T) {
	c := DefaultConfig()
	c.MuteKey = NoPin
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	for _, p := range c.AllPins() {
		if p == NoPin {
			t.Fatal("NoPin listed as a pin")
		}
	}
}

func TestNoEncoder(t *testing.T) {
	c := DefaultConfig()
	c.Encoder = EncoderConfig{CLK: NoPin, DT: NoPin, SW: NoPin}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.HasEncoder() {
		t.Fatal("encoder reported fitted")
	}
	if _, ok := c.Pins()["encoder"]; ok {
		t.Fatal("encoder pins listed")
	}
	for _, p := range c.AllPins() {
		if p == NoPin {
			t.Fatal("NoPin listed as a pin")
		}
	}
}

func TestSerialPortAuto(t *testing.T) {
	c := DefaultConfig()
	c.Serial.Port = ""
	if err := c.Validate(); err != nil {
		t.Fatalf("empty port should mean auto: %v", err)
	}
}

func TestKeypadErrorOrder(t *testing.T) {
	for i := 0; i < 20; i++ {
		c := DefaultConfig()
		c.Drumpad.Rows = nil
		c.Trackpad.Cols = nil
		err := c.Validate()
		if err == nil || !strings.HasPrefix(err.Error(), "drumpad: ") {
			t.Fatalf("got %v", err)
		}
	}
}
