package hw

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"piloop/debug"
)

var hostOnce struct {
	sync.Once
	err error
}

// InitHost loads the periph.io host drivers once per process
func InitHost() error {
	hostOnce.Do(func() {
		_, hostOnce.err = host.Init()
	})
	return errors.Wrap(hostOnce.err, "periph host init")
}

// PeriphBoard maps logical pins onto GPIO lines and analog channels onto an
// MCP3008 ADC over SPI.
type PeriphBoard struct {
	*SystemClock
	pins map[int]gpio.PinIO
	adc  *MCP3008
}

// NewPeriphBoard resolves each logical pin to the line "<prefix><n>"
// (GPIO17 for pin 17 with prefix "GPIO"). adc may be nil when no analog
// inputs are wired.
func NewPeriphBoard(prefix string, logical []int, adc *MCP3008) (*PeriphBoard, error) {
	if err := InitHost(); err != nil {
		return nil, err
	}

	b := &PeriphBoard{
		SystemClock: NewSystemClock(),
		pins:        make(map[int]gpio.PinIO, len(logical)),
		adc:         adc,
	}
	for _, n := range logical {
		name := fmt.Sprintf("%s%d", prefix, n)
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, errors.Errorf("gpio line %s not found", name)
		}
		b.pins[n] = p
	}
	return b, nil
}

func (b *PeriphBoard) SetMode(pin int, mode PinMode) {
	p, ok := b.pins[pin]
	if !ok {
		return
	}
	var err error
	switch mode {
	case Input:
		err = p.In(gpio.Float, gpio.NoEdge)
	case InputPullUp:
		err = p.In(gpio.PullUp, gpio.NoEdge)
	case Output:
		err = p.Out(gpio.High)
	}
	if err != nil {
		debug.Log("hw", "set mode %s: %v", p.Name(), err)
	}
}

func (b *PeriphBoard) ReadDigital(pin int) bool {
	p, ok := b.pins[pin]
	if !ok {
		return true
	}
	return p.Read() == gpio.High
}

func (b *PeriphBoard) WriteDigital(pin int, high bool) {
	p, ok := b.pins[pin]
	if !ok {
		return
	}
	if err := p.Out(gpio.Level(high)); err != nil {
		debug.LogEvery(100, "hw", "write %s: %v", p.Name(), err)
	}
}

func (b *PeriphBoard) ReadAnalog(channel int) int {
	if b.adc == nil {
		return 0
	}
	return b.adc.ReadAnalog(channel)
}

// MCP3008 is an 8-channel 10-bit SPI ADC
type MCP3008 struct {
	port spi.PortCloser
	conn spi.Conn
	w, r [3]byte
}

// OpenMCP3008 opens the ADC on an SPI bus ("" picks the first bus)
func OpenMCP3008(bus string, speed physic.Frequency) (*MCP3008, error) {
	if err := InitHost(); err != nil {
		return nil, err
	}
	port, err := spireg.Open(bus)
	if err != nil {
		return nil, errors.Wrapf(err, "open spi %q", bus)
	}
	conn, err := port.Connect(speed, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, errors.Wrap(err, "connect mcp3008")
	}
	return &MCP3008{port: port, conn: conn}, nil
}

// ReadAnalog performs a single-ended conversion on channel 0..7
func (m *MCP3008) ReadAnalog(channel int) int {
	// start bit, then SGL/DIFF=1 and the channel in the high nibble
	m.w = [3]byte{0x01, byte(0x80 | (channel&0x07)<<4), 0x00}
	if err := m.conn.Tx(m.w[:], m.r[:]); err != nil {
		debug.LogEvery(100, "hw", "mcp3008 ch%d: %v", channel, err)
		return 0
	}
	return int(m.r[1]&0x03)<<8 | int(m.r[2])
}

// Close releases the SPI port
func (m *MCP3008) Close() error {
	return m.port.Close()
}

// DefaultSPISpeed is well below the MCP3008 limit at 3.3V
const DefaultSPISpeed = physic.MegaHertz
