package hw

// MuxInputs is the number of inputs on a 3-bit analog multiplexer (4051)
const MuxInputs = 8

// Mux reads one of eight potentiometers through an analog multiplexer: the
// select lines S0..S2 are driven from the input number, then the shared ADC
// channel is sampled.
type Mux struct {
	pins    Pins
	adc     Analog
	sel     [3]int
	channel int
}

// NewMux creates a multiplexer reader on the given select pins and ADC channel
func NewMux(pins Pins, adc Analog, sel [3]int, channel int) *Mux {
	return &Mux{pins: pins, adc: adc, sel: sel, channel: channel}
}

// Init configures the select lines as outputs
func (m *Mux) Init() {
	for _, p := range m.sel {
		SetMode(m.pins, p, Output)
		m.pins.WriteDigital(p, false)
	}
}

// Read selects input and returns its raw sample
func (m *Mux) Read(input int) int {
	input &= MuxInputs - 1
	for bit, p := range m.sel {
		m.pins.WriteDigital(p, input>>bit&1 == 1)
	}
	return m.adc.ReadAnalog(m.channel)
}

// Direct reads each input from its own ADC channel, no multiplexer
type Direct struct {
	adc      Analog
	channels []int
}

// NewDirect maps input i to channels[i]
func NewDirect(adc Analog, channels []int) *Direct {
	return &Direct{adc: adc, channels: channels}
}

func (d *Direct) Read(input int) int {
	if input < 0 || input >= len(d.channels) {
		return 0
	}
	return d.adc.ReadAnalog(d.channels[input])
}
