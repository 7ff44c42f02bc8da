package hw

import (
	"sync"
	"time"
)

// Sim is an in-memory board. It emulates the electrical behaviour of the
// parts the looper is wired to: key matrices (a column reads low while a
// pressed key sits on a row driven low), analog multiplexers (the sample
// depends on the select lines) and a quadrature encoder fed from a step queue.
type Sim struct {
	clock Clock

	mu       sync.Mutex
	levels   map[int]bool
	modes    map[int]PinMode
	analog   map[int]int
	matrices []*simMatrix
	muxes    []*simMux
	steps    []func()
}

type simMatrix struct {
	rows, cols []int
	pressed    []bool
}

type simMux struct {
	sel     [3]int
	channel int
	inputs  [MuxInputs]int
}

// NewSim creates a board that reads time from clock
func NewSim(clock Clock) *Sim {
	return &Sim{
		clock:  clock,
		levels: make(map[int]bool),
		modes:  make(map[int]PinMode),
		analog: make(map[int]int),
	}
}

func (s *Sim) Now() time.Duration {
	return s.clock.Now()
}

func (s *Sim) SetMode(pin int, mode PinMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modes[pin] = mode
}

// Mode returns the configured mode of pin
func (s *Sim) Mode(pin int) PinMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modes[pin]
}

func (s *Sim) WriteDigital(pin int, high bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[pin] = high
}

func (s *Sim) ReadDigital(pin int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.matrices {
		for c, cp := range m.cols {
			if cp != pin {
				continue
			}
			for r, rp := range m.rows {
				if m.pressed[r*len(m.cols)+c] && !s.level(rp) {
					return false
				}
			}
			return true
		}
	}
	return s.level(pin)
}

// level must be called with mu held. Unset pins float high when pulled up.
func (s *Sim) level(pin int) bool {
	if v, ok := s.levels[pin]; ok {
		return v
	}
	return s.modes[pin] == InputPullUp
}

// SetDigital forces an input level, as an external circuit would
func (s *Sim) SetDigital(pin int, high bool) {
	s.WriteDigital(pin, high)
}

func (s *Sim) ReadAnalog(channel int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.muxes {
		if m.channel != channel {
			continue
		}
		input := 0
		for bit, p := range m.sel {
			if s.level(p) {
				input |= 1 << bit
			}
		}
		return m.inputs[input]
	}
	return s.analog[channel]
}

// SetAnalog sets the raw sample of an unmultiplexed channel
func (s *Sim) SetAnalog(channel, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analog[channel] = clampAnalog(value)
}

// AttachMatrix wires a key matrix to the board and returns its handle
func (s *Sim) AttachMatrix(rows, cols []int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matrices = append(s.matrices, &simMatrix{
		rows:    append([]int(nil), rows...),
		cols:    append([]int(nil), cols...),
		pressed: make([]bool, len(rows)*len(cols)),
	})
	return len(s.matrices) - 1
}

// PressKey sets the contact state of the row-major key index on a matrix
func (s *Sim) PressKey(matrix, index int, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if matrix < 0 || matrix >= len(s.matrices) {
		return
	}
	m := s.matrices[matrix]
	if index < 0 || index >= len(m.pressed) {
		return
	}
	m.pressed[index] = down
}

// AttachMux wires a multiplexer feeding ADC channel and returns its handle
func (s *Sim) AttachMux(sel [3]int, channel int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muxes = append(s.muxes, &simMux{sel: sel, channel: channel})
	return len(s.muxes) - 1
}

// SetMuxInput sets the voltage (raw sample) on one multiplexer input
func (s *Sim) SetMuxInput(mux, input, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mux < 0 || mux >= len(s.muxes) || input < 0 || input >= MuxInputs {
		return
	}
	s.muxes[mux].inputs[input] = clampAnalog(value)
}

// MuxInput returns the raw sample on a multiplexer input
func (s *Sim) MuxInput(mux, input int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mux < 0 || mux >= len(s.muxes) || input < 0 || input >= MuxInputs {
		return 0
	}
	return s.muxes[mux].inputs[input]
}

// QueueTurn queues one detent of quadrature output on clk/dt. When
// phasesDiffer is set, dt is opposite to clk on the rising edge of clk.
func (s *Sim) QueueTurn(clk, dt int, phasesDiffer bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps,
		func() { s.levels[clk] = false },
		func() {
			s.levels[dt] = !phasesDiffer
			s.levels[clk] = true
		},
	)
}

// Tick applies the next queued encoder step, if any
func (s *Sim) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.steps) == 0 {
		return false
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	step()
	return true
}

// Pending returns the number of queued encoder steps
func (s *Sim) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps)
}

func clampAnalog(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxAnalog {
		return MaxAnalog
	}
	return v
}
