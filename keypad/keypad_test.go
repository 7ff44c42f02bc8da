package keypad

import (
	"testing"
	"time"

	"piloop/hw"
)

func TestKeyTransitions(t *testing.T) {
	ms := time.Millisecond
	steps := []struct {
		at      time.Duration
		active  bool
		state   State
		changed bool
	}{
		{0, false, Released, false},
		{10 * ms, true, Pressed, true},
		{20 * ms, true, Pressed, false},
		{510 * ms, true, Pressed, false}, // exactly HoldTime is not enough
		{511 * ms, true, Hold, true},
		{600 * ms, true, Hold, false},
		{610 * ms, false, Released, true},
		{620 * ms, false, Released, false},
		{630 * ms, true, Pressed, true},
		{640 * ms, false, Released, true},
	}

	k := NewKey(1, NoKey, 1)
	for i, s := range steps {
		changed := k.Update(s.active, s.at)
		if k.State != s.state || changed != s.changed {
			t.Fatalf("step %d at %v: got %v changed=%v, want %v changed=%v",
				i, s.at, k.State, changed, s.state, s.changed)
		}
		if k.Changed != changed {
			t.Fatalf("step %d: Changed flag %v disagrees with return %v", i, k.Changed, changed)
		}
	}
}

func TestKeyReleaseBeatsExpiredHold(t *testing.T) {
	k := NewKey(0, NoKey, 0)
	k.Update(true, 0)
	// The hold deadline has passed but the sample reads inactive.
	if k.Update(false, time.Second); k.State != Released {
		t.Fatalf("got %v, want RELEASED", k.State)
	}
}

// Hold must only follow an uninterrupted press of more than HoldTime.
func TestKeyHoldProperty(t *testing.T) {
	patterns := [][]bool{
		{true, true, true, true, true, true, true},
		{true, false, true, true, true, true, true},
		{true, true, true, false, true, true, true},
		{false, true, false, true, false, true, false},
	}
	step := 100 * time.Millisecond
	for pi, p := range patterns {
		k := NewKey(0, NoKey, 0)
		var pressStart time.Duration
		wasDown := false
		for i, active := range p {
			now := time.Duration(i) * step
			if active && !wasDown {
				pressStart = now
			}
			wasDown = active
			k.Update(active, now)
			if k.State == Hold && now-pressStart < k.HoldTime {
				t.Fatalf("pattern %d step %d: HOLD after %v", pi, i, now-pressStart)
			}
		}
	}
}

func newSimKeypad(t *testing.T, rows, cols []int) (*Keypad, *hw.Sim, *hw.ManualClock, int) {
	t.Helper()
	clock := &hw.ManualClock{}
	sim := hw.NewSim(clock)
	m := sim.AttachMatrix(rows, cols)
	kp, err := New(sim, clock, Config{RowPins: rows, ColPins: cols})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	kp.Init()
	return kp, sim, clock, m
}

func TestKeypadScan(t *testing.T) {
	rows, cols := []int{9, 8}, []int{5, 4, 3}
	kp, sim, clock, m := newSimKeypad(t, rows, cols)

	if kp.Len() != 6 {
		t.Fatalf("Len = %d, want 6", kp.Len())
	}
	if kp.Scan() {
		t.Fatal("scan with nothing pressed reported activity")
	}

	sim.PressKey(m, 4, true) // row 1, col 1
	clock.Advance(20 * time.Millisecond)
	if !kp.Scan() {
		t.Fatal("expected activity")
	}
	for i, k := range kp.Keys() {
		want := Released
		if i == 4 {
			want = Pressed
		}
		if k.State != want {
			t.Errorf("key %d: %v, want %v", i, k.State, want)
		}
		if k.Changed != (i == 4) {
			t.Errorf("key %d: changed=%v", i, k.Changed)
		}
	}

	// rows must be left idle high after the scan
	for _, r := range rows {
		if !sim.ReadDigital(r) {
			t.Errorf("row pin %d left low", r)
		}
	}
	if sim.Mode(cols[0]) != hw.InputPullUp {
		t.Errorf("column not pulled up")
	}
}

func TestKeypadPollThrottles(t *testing.T) {
	kp, sim, clock, m := newSimKeypad(t, []int{1}, []int{2, 3})

	clock.Set(100 * time.Millisecond)
	if !kp.Due() {
		t.Fatal("first poll must be due")
	}
	if kp.Poll() {
		t.Fatal("first poll with idle matrix reported activity")
	}

	sim.PressKey(m, 1, true)
	clock.Advance(5 * time.Millisecond)
	if kp.Due() {
		t.Fatal("due inside the debounce interval")
	}
	if kp.Poll() {
		t.Fatal("poll inside the debounce interval must not scan")
	}
	if kp.Key(1).State != Released {
		t.Fatal("key updated without a scan")
	}

	clock.Advance(6 * time.Millisecond)
	if !kp.Due() {
		t.Fatal("not due after the debounce interval")
	}
	if !kp.Poll() {
		t.Fatal("poll after the debounce interval should see the press")
	}
	if kp.Key(1).State != Pressed {
		t.Fatalf("key 1 = %v", kp.Key(1).State)
	}
}

func TestKeypadIdentity(t *testing.T) {
	clock := &hw.ManualClock{}
	sim := hw.NewSim(clock)
	ids := []int{16, 17, 18, 19}
	kp, err := New(sim, clock, Config{RowPins: []int{1, 2}, ColPins: []int{3, 4}, IDs: ids})
	if err != nil {
		t.Fatal(err)
	}
	for i, k := range kp.Keys() {
		if k.ID != ids[i] || k.LED != ids[i] {
			t.Errorf("key %d: id=%d led=%d", i, k.ID, k.LED)
		}
	}
	if kp.Key(4) != nil || kp.Key(-1) != nil {
		t.Error("out-of-range Key should be nil")
	}
}

func TestKeypadConfigErrors(t *testing.T) {
	clock := &hw.ManualClock{}
	sim := hw.NewSim(clock)
	cases := []Config{
		{},
		{RowPins: make([]int, MaxRows+1), ColPins: []int{1}},
		{RowPins: []int{1}, ColPins: []int{2, 3}, IDs: []int{1}},
		{RowPins: []int{1}, ColPins: []int{2}, LEDs: []int{1, 2}},
	}
	for i, c := range cases {
		if _, err := New(sim, clock, c); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestStandaloneKeyRead(t *testing.T) {
	clock := &hw.ManualClock{}
	sim := hw.NewSim(clock)
	k := NewKey(99, 31, NoLED)
	k.Init(sim)

	if k.Read(sim, clock.Now()) {
		t.Fatal("pulled-up idle pin read as a press")
	}
	sim.SetDigital(31, false)
	clock.Advance(time.Millisecond)
	if !k.Read(sim, clock.Now()) || k.State != Pressed {
		t.Fatalf("state %v, want PRESSED", k.State)
	}
}
