package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Keyboard stand-ins for the panel. Loop keys tap the trackpad, their
// shifted forms hold it; the two letter rows are the drumpad.
const (
	loopTapKeys  = "12345678"
	loopHoldKeys = "!@#$%^&*"
	drumKeys     = "qwertyuiasdfghjk"
)

type keyMap struct {
	Loop    key.Binding
	Hold    key.Binding
	Drum    key.Binding
	Mute    key.Binding
	Left    key.Binding
	Right   key.Binding
	Push    key.Binding
	VolSel  key.Binding
	VolDown key.Binding
	VolUp   key.Binding
	Inject  key.Binding
	Clear   key.Binding
	Input   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func chars(s string) []string {
	return strings.Split(s, "")
}

func newKeyMap() keyMap {
	return keyMap{
		Loop:    key.NewBinding(key.WithKeys(chars(loopTapKeys)...), key.WithHelp("1-8", "tap loop")),
		Hold:    key.NewBinding(key.WithKeys(chars(loopHoldKeys)...), key.WithHelp("shift+1-8", "hold loop (clear)")),
		Drum:    key.NewBinding(key.WithKeys(chars(drumKeys)...), key.WithHelp("q-i a-k", "drum pads")),
		Mute:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle mute key")),
		Left:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "encoder ccw")),
		Right:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "encoder cw")),
		Push:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "encoder push")),
		VolSel:  key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "pick fader")),
		VolDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fader down")),
		VolUp:   key.NewBinding(key.WithKeys("=", "+"), key.WithHelp("=", "fader up")),
		Inject:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "inject host frame")),
		Clear:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear all")),
		Input:   key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "audio input")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Loop, k.Drum, k.Left, k.Right, k.Push, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Loop, k.Hold, k.Mute, k.Drum},
		{k.Left, k.Right, k.Push},
		{k.VolSel, k.VolDown, k.VolUp},
		{k.Inject, k.Clear, k.Input, k.Quit},
	}
}
