// Package menu runs the encoder-driven on-screen menu. Transitions live in a
// Topology table and the item text in a separate Labels table, so the same
// state machine can be shown with other wording.
package menu

// State is a menu screen
type State uint8

const (
	Main State = iota
	SoundSelect
	LoadSound
	EffectsMenu
	Exit
	ToggleInput
	ClearLoops

	// None marks an absent transition
	None State = 255
)

func (s State) String() string {
	switch s {
	case Main:
		return "MAIN_MENU"
	case SoundSelect:
		return "SOUND_MENU"
	case LoadSound:
		return "LOAD_SOUND"
	case EffectsMenu:
		return "FX_MENU"
	case Exit:
		return "EXIT"
	case ToggleInput:
		return "AUDIO_INPUT"
	case ClearLoops:
		return "CLEAR_ALL"
	case None:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// Node describes the transitions out of one state.
type Node struct {
	// Press is the target for a push, indexed by the selected item. A
	// single entry applies to every item; an empty list ignores pushes.
	Press []State
	// Timeout is entered after the inactivity timeout, None to stay put
	Timeout State
	// Transient states last one update and then fall back to the root
	// state. Entering one keeps the current item list and selection.
	Transient bool
}

// Target returns the press target for selection sel, None when there is none
func (n Node) Target(sel int) State {
	switch {
	case len(n.Press) == 0:
		return None
	case sel >= 0 && sel < len(n.Press):
		return n.Press[sel]
	case len(n.Press) == 1:
		return n.Press[0]
	}
	return None
}

// Topology maps each state to its transitions
type Topology map[State]Node

// Labels maps each listing state to its item text
type Labels map[State][]string

// DefaultTopology is the looper menu: the root lists the sound browser, the
// effects page, the input monitor toggle, clear all and exit. Picking a
// sound loads it and returns to the root; the two actions fire once and
// return to the root; sub-pages close themselves after the inactivity timeout.
func DefaultTopology() Topology {
	return Topology{
		Main:        {Press: []State{SoundSelect, EffectsMenu, ToggleInput, ClearLoops, Exit}, Timeout: None},
		SoundSelect: {Press: []State{LoadSound}, Timeout: Exit},
		LoadSound:   {Timeout: None, Transient: true},
		EffectsMenu: {Press: []State{Exit}, Timeout: Exit},
		ToggleInput: {Timeout: None, Transient: true},
		ClearLoops:  {Timeout: None, Transient: true},
		Exit:        {Timeout: None, Transient: true},
	}
}

// Sound names in drum pad sample order
var Sounds = []string{"Crash", "HH", "Kick", "Snare", "Piano", "Organ"}

// Effects lists the effect page entries. The page is informational only.
var Effects = []string{"Reverb", "Delay", "Filter"}

// DefaultLabels returns the English item text
func DefaultLabels() Labels {
	return Labels{
		Main:        {"Load Sound", "Apply FX", "Audio In", "Clear All", "Exit"},
		SoundSelect: Sounds,
		EffectsMenu: Effects,
	}
}
