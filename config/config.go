package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"piloop/keypad"
	"piloop/menu"
	"piloop/protocol"
)

// Transport selects how the looper reaches the audio host
type Transport string

const (
	TransportSerial Transport = "serial"
	TransportMIDI   Transport = "midi"
)

// NoPin disables an optional input
const NoPin = -1

// SerialConfig is the UART link to the host
type SerialConfig struct {
	Port string        `yaml:"port"` // empty picks the first USB serial port found
	Baud int           `yaml:"baud"`
	Mode protocol.Mode `yaml:"mode"`
}

// MIDIConfig names MIDI ports by case-insensitive substring
type MIDIConfig struct {
	In  string `yaml:"in,omitempty"`
	Out string `yaml:"out,omitempty"`
	// Launchpad mirrors the indicator LEDs; "auto" picks the first one found
	Launchpad string `yaml:"launchpad,omitempty"`
}

// BoardConfig locates the GPIO and ADC drivers
type BoardConfig struct {
	PinPrefix string `yaml:"pinPrefix"` // logical pin n is gpioreg name prefix+n
	SPIBus    string `yaml:"spiBus"`    // MCP3008 port, "" for the first one
}

// KeypadConfig is one button matrix
type KeypadConfig struct {
	Rows []int `yaml:"rows"`
	Cols []int `yaml:"cols"`
	IDs  []int `yaml:"ids,omitempty"`
	LEDs []int `yaml:"leds,omitempty"`
}

// EncoderConfig is the menu encoder
type EncoderConfig struct {
	CLK     int `yaml:"clk"`
	DT      int `yaml:"dt"`
	SW      int `yaml:"sw"`
	PPR     int `yaml:"ppr"`
	Divider int `yaml:"divider"`
}

// VolumeConfig is the potentiometer bank. Track pots go through the
// multiplexer; the master pot has its own ADC channel.
type VolumeConfig struct {
	Select  [3]int `yaml:"select"`
	Channel int    `yaml:"channel"`
	Master  int    `yaml:"master"` // ADC channel, NoPin for none
}

// TimingConfig holds the control loop intervals
type TimingConfig struct {
	Debounce    time.Duration `yaml:"debounce"`
	Hold        time.Duration `yaml:"hold"`
	MenuTimeout time.Duration `yaml:"menuTimeout"`
	Cycle       time.Duration `yaml:"cycle"`
}

// Config is the main configuration structure
type Config struct {
	Transport Transport     `yaml:"transport"`
	Serial    SerialConfig  `yaml:"serial"`
	MIDI      MIDIConfig    `yaml:"midi"`
	Board     BoardConfig   `yaml:"board"`
	Drumpad   KeypadConfig  `yaml:"drumpad"`
	Trackpad  KeypadConfig  `yaml:"trackpad"`
	MuteKey   int           `yaml:"muteKey"`
	Encoder   EncoderConfig `yaml:"encoder"`
	Volume    VolumeConfig  `yaml:"volume"`
	Timing    TimingConfig  `yaml:"timing"`
	Tracks    int           `yaml:"tracks"`
	Palette   string        `yaml:"palette,omitempty"` // GIMP palette for the simulator
}

// DefaultConfig returns the stock wiring: a Raspberry Pi 40-pin header with
// an MCP3008 on SPI0.0 and a 4051 multiplexer in front of ADC channel 0.
func DefaultConfig() *Config {
	return &Config{
		Transport: TransportSerial,
		Serial: SerialConfig{
			Port: "/dev/ttyACM0",
			Baud: 115200,
			Mode: protocol.ModeBinary,
		},
		Board: BoardConfig{PinPrefix: "GPIO"},
		Drumpad: KeypadConfig{
			Rows: []int{2, 3, 4, 17},
			Cols: []int{27, 22, 23, 24},
			IDs:  seq(0, 16),
		},
		Trackpad: KeypadConfig{
			Rows: []int{5, 6},
			Cols: []int{12, 13, 19, 26},
			IDs:  seq(16, 8),
		},
		MuteKey: 25,
		Encoder: EncoderConfig{CLK: 20, DT: 21, SW: 16, PPR: 20, Divider: 1},
		Volume: VolumeConfig{
			Select:  [3]int{14, 15, 18},
			Channel: 0,
			Master:  1,
		},
		Timing: TimingConfig{
			Debounce:    keypad.DefaultDebounceTime,
			Hold:        keypad.DefaultHoldTime,
			MenuTimeout: menu.DefaultTimeout,
			Cycle:       time.Millisecond,
		},
		Tracks: 8,
	}
}

func seq(from, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = from + i
	}
	return out
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "locate home directory")
	}
	return filepath.Join(home, ".config", "piloop"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the default config file, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write config %s", path)
}

// Marshal returns the YAML form
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	return data, errors.Wrap(err, "encode config")
}
