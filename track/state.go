// Package track holds the looper's per-track model: the recording state
// reported by the host, the volume potentiometer reading and the indicator
// and screen colours derived from the state.
package track

// State is the recording state of a loop track as reported by the host.
// The ordinals are the values carried on the wire.
type State uint8

const (
	ClearRec State = iota
	StartRec
	StopRec
	StartOverdub
	StopOverdub
	WaitRec
	MuteRec
)

// NumStates is the number of defined states; wire ordinals >= NumStates are invalid
const NumStates = 7

var stateNames = [NumStates]string{
	"CLEAR_REC",
	"START_REC",
	"STOP_REC",
	"START_OVERDUB",
	"STOP_OVERDUB",
	"WAIT_REC",
	"MUTE_REC",
}

func (s State) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// Valid reports whether s is one of the defined states
func (s State) Valid() bool {
	return s < NumStates
}

// Next returns the state a track ends up in when the host reports s while
// the track is in cur. Muting a muted track unmutes it into playback.
func Next(cur, s State) State {
	if cur == MuteRec && s == MuteRec {
		return StopRec
	}
	return s
}

// Recording reports whether the host is writing audio into the track
func (s State) Recording() bool {
	return s == StartRec || s == StartOverdub
}

// Glyph is the symbol drawn in the middle of a track tile
type Glyph uint8

const (
	GlyphNone Glyph = iota
	GlyphPlay
	GlyphMute
	GlyphRecord
	GlyphOverdub
)

// GlyphFor returns the tile symbol for a state
func GlyphFor(s State) Glyph {
	switch s {
	case StopRec:
		return GlyphPlay
	case MuteRec:
		return GlyphMute
	case StartRec:
		return GlyphRecord
	case StartOverdub:
		return GlyphOverdub
	}
	return GlyphNone
}
