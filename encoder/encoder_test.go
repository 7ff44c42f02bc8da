package encoder

import (
	"testing"

	"piloop/hw"
)

const (
	pinCLK = 28
	pinDT  = 29
	pinSW  = 30
)

func newSimEncoder(ppr, div int) (*Encoder, *hw.Sim) {
	sim := hw.NewSim(&hw.ManualClock{})
	sim.SetDigital(pinCLK, true)
	sim.SetDigital(pinDT, true)
	e := New(sim, Config{CLK: pinCLK, DT: pinDT, SW: pinSW, PPR: ppr, Divider: div})
	e.Init()
	return e, sim
}

// turn plays one queued detent through the encoder and returns the
// direction seen on the rising edge
func turn(e *Encoder, sim *hw.Sim, phasesDiffer bool) Direction {
	sim.QueueTurn(pinCLK, pinDT, phasesDiffer)
	seen := Idle
	for sim.Tick() {
		e.Update()
		if e.Direction() != Idle {
			seen = e.Direction()
		}
	}
	return seen
}

func TestDirectionMapping(t *testing.T) {
	e, sim := newSimEncoder(20, 1)

	if d := turn(e, sim, true); d != PhasesDifferDirection {
		t.Fatalf("phases differ: got %v", d)
	}
	if e.Count() != 20 {
		t.Fatalf("clockwise from 0 should wrap to PPR, count=%d", e.Count())
	}
	if d := turn(e, sim, false); d != PhasesDifferDirection.Opposite() {
		t.Fatalf("phases equal: got %v", d)
	}
	if e.Count() != 0 {
		t.Fatalf("count=%d, want 0", e.Count())
	}
}

func TestDirectionIsEdgeTriggered(t *testing.T) {
	e, sim := newSimEncoder(20, 1)
	turn(e, sim, false)
	e.Update() // no edge: levels unchanged
	if e.Direction() != Idle || e.Moving() {
		t.Fatalf("direction held as %v without an edge", e.Direction())
	}
	if e.Count() != 1 {
		t.Fatalf("count=%d", e.Count())
	}
}

func TestFallingEdgeIgnored(t *testing.T) {
	e, sim := newSimEncoder(20, 1)
	sim.SetDigital(pinCLK, false)
	e.Update()
	if e.Moving() || e.Count() != 0 {
		t.Fatalf("falling edge counted: dir=%v count=%d", e.Direction(), e.Count())
	}
}

func TestCounterStaysInRange(t *testing.T) {
	const ppr = 7
	e, sim := newSimEncoder(ppr, 3)
	seq := []bool{true, true, false, true, false, false, false, false, false, false, false, false, true, true, true, true, true, true, true, true, true, true}
	for i, differ := range seq {
		turn(e, sim, differ)
		c := e.Count()
		if c < 0 || c > ppr {
			t.Fatalf("step %d: count %d outside [0,%d]", i, c, ppr)
		}
		if e.Pulses() != c/3 {
			t.Fatalf("step %d: pulses %d, want %d", i, e.Pulses(), c/3)
		}
	}
}

func TestOverflowWrapsToZero(t *testing.T) {
	e, sim := newSimEncoder(3, 1)
	for i := 0; i < 3; i++ {
		turn(e, sim, false)
	}
	if e.Count() != 3 {
		t.Fatalf("count=%d, want 3", e.Count())
	}
	turn(e, sim, false)
	if e.Count() != 0 {
		t.Fatalf("overflow count=%d, want 0", e.Count())
	}
}

func TestPushIsEdgeTriggered(t *testing.T) {
	e, sim := newSimEncoder(20, 1)

	e.Update()
	if e.Pressed() {
		t.Fatal("idle switch reported a press")
	}
	sim.SetDigital(pinSW, false)
	e.Update()
	if !e.Pressed() {
		t.Fatal("closure not reported")
	}
	e.Update()
	if e.Pressed() {
		t.Fatal("held switch reported a second press")
	}
	sim.SetDigital(pinSW, true)
	e.Update()
	sim.SetDigital(pinSW, false)
	e.Update()
	if !e.Pressed() {
		t.Fatal("second closure not reported")
	}
}

func TestDefaults(t *testing.T) {
	e := New(hw.NewSim(&hw.ManualClock{}), Config{})
	if c := e.Config(); c.PPR != DefaultPPR || c.Divider != DefaultDivider {
		t.Fatalf("defaults not applied: %+v", c)
	}
}
