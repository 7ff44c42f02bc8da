// Package protocol is the wire contract between the looper and the audio
// host. Every message in either direction is a three byte frame; there is
// no start marker, so a lost byte shifts every following frame.
package protocol

import (
	"fmt"

	"github.com/pkg/errors"

	"piloop/track"
)

// FrameSize is the length of every message
const FrameSize = 3

// SchemaVersion identifies the outbound channel numbering below. Version 1
// was the two field text protocol of the first firmware.
const SchemaVersion = 2

// Kind discriminates inbound messages (byte 0)
type Kind uint8

const (
	KindStatus Kind = iota
	KindCounter
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "STATUS"
	case KindCounter:
		return "COUNTER"
	default:
		return fmt.Sprintf("KIND(%d)", uint8(k))
	}
}

// ErrUnknownKind is returned for a frame whose first byte is not a Kind
var ErrUnknownKind = errors.New("unknown message kind")

// Message is one inbound frame. Status frames fill Track and State;
// Counter frames fill Position and Count.
type Message struct {
	Kind Kind

	Track int // 0-based; the wire carries 1-based track numbers
	State track.State

	Position int // current beat
	Count    int // beats per loop

	Raw [FrameSize]byte
}

func (m Message) String() string {
	switch m.Kind {
	case KindStatus:
		return fmt.Sprintf("STATUS track=%d state=%v", m.Track, m.State)
	case KindCounter:
		return fmt.Sprintf("COUNTER %d/%d", m.Position, m.Count)
	}
	return fmt.Sprintf("%v %v", m.Kind, m.Raw)
}

// Status builds a status message for a 0-based track
func Status(trackIndex int, s track.State) Message {
	m := Message{Kind: KindStatus, Track: trackIndex, State: s}
	m.Raw = [FrameSize]byte{byte(KindStatus), byte(s), byte(trackIndex + 1)}
	return m
}

// Counter builds a metronome message
func Counter(position, count int) Message {
	m := Message{Kind: KindCounter, Position: position, Count: count}
	m.Raw = [FrameSize]byte{byte(KindCounter), byte(position), byte(count)}
	return m
}

// Decode interprets one frame of field values. The track and state are
// not range checked here; that depends on how many tracks are attached.
func Decode(frame [FrameSize]byte) (Message, error) {
	m := Message{Kind: Kind(frame[0]), Raw: frame}
	switch m.Kind {
	case KindStatus:
		m.State = track.State(frame[1])
		m.Track = int(frame[2]) - 1
	case KindCounter:
		m.Position = int(frame[1])
		m.Count = int(frame[2])
	default:
		return m, errors.Wrapf(ErrUnknownKind, "frame %v", frame)
	}
	return m, nil
}

// Channel is the outbound message type (byte 0)
type Channel uint8

const (
	AudioMaster Channel = iota
	DrumpadSound
	ButtonPressed
	ClearLoop
	ClearAll
	Overdub
	AudioInput
	LoopPressed
	Volume
)

var channelNames = [...]string{
	"AUDIO_MASTER",
	"DRUMPAD_SOUND",
	"BTN_PRESSED",
	"CLEAR_LOOP",
	"CLEAR_ALL",
	"OVERDUB",
	"AUDIO_INPUT",
	"LOOP_PRESSED",
	"VOLUME",
}

func (c Channel) String() string {
	if int(c) < len(channelNames) {
		return channelNames[c]
	}
	return fmt.Sprintf("CHANNEL(%d)", uint8(c))
}

// Outbound is one message to the host: channel, target id and value
type Outbound struct {
	Channel Channel
	ID      uint8
	Value   uint8
}

func (o Outbound) String() string {
	return fmt.Sprintf("%v id=%d value=%d", o.Channel, o.ID, o.Value)
}

// Frame returns the binary field values
func (o Outbound) Frame() [FrameSize]byte {
	return [FrameSize]byte{byte(o.Channel), o.ID, o.Value}
}
