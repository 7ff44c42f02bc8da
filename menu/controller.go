package menu

import (
	"time"

	"piloop/debug"
	"piloop/encoder"
)

const (
	// MaxVisible is how many items fit on screen at once
	MaxVisible = 3
	// DefaultTimeout closes sub-pages after this much encoder inactivity
	DefaultTimeout = 5000 * time.Millisecond
)

// Controller is the menu state machine. Feed it one encoder sample per cycle.
type Controller struct {
	topo    Topology
	labels  Labels
	root    State
	timeout time.Duration

	state    State
	items    []string
	sel      int
	scroll   int
	activity time.Duration
}

// New creates a controller showing the root page. Zero timeout means
// DefaultTimeout; nil tables mean the defaults.
func New(topo Topology, labels Labels, timeout time.Duration) *Controller {
	if topo == nil {
		topo = DefaultTopology()
	}
	if labels == nil {
		labels = DefaultLabels()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Controller{topo: topo, labels: labels, root: Main, timeout: timeout}
	c.Reset(0)
	return c
}

// Reset returns to the root page with the first item selected
func (c *Controller) Reset(now time.Duration) {
	c.state = c.root
	c.items = c.labels[c.root]
	c.sel = 0
	c.scroll = 0
	c.activity = now
}

// Update advances the menu with one encoder sample and reports whether the
// screen needs redrawing.
func (c *Controller) Update(dir encoder.Direction, pressed bool, now time.Duration) bool {
	prevState, prevScroll := c.state, c.scroll
	redraw := false

	if dir != encoder.Idle && len(c.items) > 0 {
		n := len(c.items)
		if dir == encoder.Clockwise {
			c.sel = (c.sel + 1) % n
		} else {
			c.sel = (c.sel - 1 + n) % n
		}
		c.activity = now
		redraw = true
	}

	node := c.topo[c.state]
	switch {
	case node.Transient:
		c.Reset(now)
	case pressed:
		if t := node.Target(c.sel); t != None {
			c.enter(t, now)
		}
	case node.Timeout != None && now-c.activity > c.timeout:
		c.enter(node.Timeout, now)
	}

	c.scroll = scrollFor(c.sel)
	if c.state != prevState {
		debug.Log("menu", "%v -> %v sel=%d", prevState, c.state, c.sel)
	}
	return redraw || c.state != prevState || c.scroll != prevScroll
}

func (c *Controller) enter(s State, now time.Duration) {
	c.state = s
	c.activity = now
	if c.topo[s].Transient {
		return
	}
	c.items = c.labels[s]
	c.sel = 0
}

func scrollFor(sel int) int {
	if sel >= MaxVisible {
		return sel - (MaxVisible - 1)
	}
	return 0
}

// State returns the current page
func (c *Controller) State() State {
	return c.state
}

// Selected returns the highlighted item index
func (c *Controller) Selected() int {
	return c.sel
}

// Scroll returns the index of the first visible item
func (c *Controller) Scroll() int {
	return c.scroll
}

// Len returns the number of items on the current page
func (c *Controller) Len() int {
	return len(c.items)
}

// LoadSound reports that a sound was picked on this update
func (c *Controller) LoadSound() bool {
	return c.state == LoadSound
}

// ToggleInput reports that the input monitor toggle was picked on this update
func (c *Controller) ToggleInput() bool {
	return c.state == ToggleInput
}

// ClearLoops reports that clear all was picked on this update
func (c *Controller) ClearLoops() bool {
	return c.state == ClearLoops
}

// SelectedItem returns the highlighted index and its text
func (c *Controller) SelectedItem() (int, string) {
	if c.sel < len(c.items) {
		return c.sel, c.items[c.sel]
	}
	return c.sel, ""
}
