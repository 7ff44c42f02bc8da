package protocol

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"piloop/debug"
)

// Mode selects the byte encoding of frames
type Mode uint8

const (
	// ModeBinary sends each field as one raw byte, both directions
	ModeBinary Mode = iota
	// ModeText is the legacy host bridge: outbound fields are decimal text
	// separated by spaces and ended by a newline; inbound fields are single
	// ASCII characters offset from '0'.
	ModeText
)

func (m Mode) String() string {
	if m == ModeText {
		return "text"
	}
	return "binary"
}

// ParseMode accepts "binary" or "text"; empty means binary
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "binary", "bin":
		return ModeBinary, nil
	case "text", "ascii":
		return ModeText, nil
	}
	return ModeBinary, errors.Errorf("unknown protocol mode %q", s)
}

// MarshalText lets Mode appear in config files by name
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ByteSource is a queue of received bytes
type ByteSource interface {
	Available() int
	ReadByte() (byte, error)
}

// Codec converts frames to and from bytes in one fixed mode
type Codec struct {
	mode Mode
}

func NewCodec(mode Mode) *Codec {
	return &Codec{mode: mode}
}

func (c *Codec) Mode() Mode {
	return c.mode
}

// Encode returns the bytes for an outbound message
func (c *Codec) Encode(o Outbound) []byte {
	if c.mode == ModeText {
		return []byte(fmt.Sprintf("%d %d %d\n", o.Channel, o.ID, o.Value))
	}
	f := o.Frame()
	return f[:]
}

// EncodeInbound returns the bytes the host sends for m. The looper never
// sends these; the simulator and tests use them to play the host.
func (c *Codec) EncodeInbound(m Message) []byte {
	out := make([]byte, FrameSize)
	for i, b := range m.Raw {
		if c.mode == ModeText {
			b += '0'
		}
		out[i] = b
	}
	return out
}

// TryDecode consumes exactly one frame when at least FrameSize bytes are
// available. ok is false when not enough bytes were buffered, in which case
// nothing is consumed. A frame of unknown kind is consumed and returned
// with err set so the caller can drop it.
func (c *Codec) TryDecode(src ByteSource) (m Message, ok bool, err error) {
	if src.Available() < FrameSize {
		return Message{}, false, nil
	}
	var frame [FrameSize]byte
	for i := range frame {
		b, rerr := src.ReadByte()
		if rerr != nil {
			return Message{}, false, errors.Wrap(rerr, "read frame")
		}
		if c.mode == ModeText {
			b -= '0'
		}
		frame[i] = b
	}
	m, err = Decode(frame)
	if err != nil {
		debug.Log("proto", "drop %v: %v", frame, err)
	}
	return m, true, err
}
