package midi

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"

	"piloop/debug"
	"piloop/protocol"
)

// HostLink carries the protocol over MIDI for hosts that have no serial
// bridge. Each outbound frame becomes a control change on the MIDI channel
// equal to the protocol channel, with the id as controller number. The host
// answers on MIDI channel 0 (status: controller = state, value = track) and
// channel 1 (counter: controller = position, value = count).
type HostLink struct {
	name  string
	send  func(gomidi.Message) error
	stop  func()
	ports []io.Closer // opened ports, closed in reverse
	codec *protocol.Codec
	in    *protocol.Buffer

	mu sync.Mutex
}

// OpenHostLink opens the named ports (substring match)
func OpenHostLink(inName, outName string) (*HostLink, error) {
	inPort, outPort, err := findPorts(inName, outName, DefaultScanTimeout)
	if err != nil {
		return nil, err
	}
	if outPort == nil {
		return nil, errors.New("midi host link needs an output port")
	}

	send, err := gomidi.SendTo(outPort)
	if err != nil {
		return nil, errors.Wrapf(err, "open MIDI output %s", outPort)
	}
	l := newHostLink(outPort.String(), send)
	l.ports = append(l.ports, outPort)

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, l.handle)
		if err != nil {
			l.Close()
			return nil, errors.Wrapf(err, "open MIDI input %s", inPort)
		}
		l.stop = stop
		l.ports = append(l.ports, inPort)
	}
	debug.Log("link", "midi host link open out=%s in=%v", outPort, inPort)
	return l, nil
}

func newHostLink(name string, send func(gomidi.Message) error) *HostLink {
	return &HostLink{
		name:  name,
		send:  send,
		codec: protocol.NewCodec(protocol.ModeBinary),
		in:    protocol.NewBuffer(0),
	}
}

// handle runs on the driver's goroutine; it only appends to the buffer
func (l *HostLink) handle(msg gomidi.Message, timestampms int32) {
	var ch, cc, val uint8
	if !msg.GetControlChange(&ch, &cc, &val) {
		return
	}
	frame, ok := FrameFromCC(ch, cc, val)
	if !ok {
		debug.LogEvery(50, "link", "ignored CC ch=%d cc=%d", ch, cc)
		return
	}
	l.in.Write(frame[:])
}

// Send emits o as a control change
func (l *HostLink) Send(o protocol.Outbound) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, cc, val := CCFromOutbound(o)
	if err := l.send(gomidi.ControlChange(ch, cc, val)); err != nil {
		return errors.Wrapf(err, "send %v", o)
	}
	return nil
}

// Receive decodes the next buffered frame
func (l *HostLink) Receive() (protocol.Message, bool, error) {
	return l.codec.TryDecode(l.in)
}

func (l *HostLink) Name() string {
	return l.name
}

// Close stops listening and closes the ports
func (l *HostLink) Close() error {
	if l.stop != nil {
		l.stop()
		l.stop = nil
	}
	var first error
	for i := len(l.ports) - 1; i >= 0; i-- {
		if err := l.ports[i].Close(); err != nil && first == nil {
			first = errors.Wrap(err, "close MIDI port")
		}
	}
	l.ports = nil
	return first
}

// CCFromOutbound maps a frame onto 7-bit MIDI data. Volumes are halved to
// keep their full range; other values are clamped.
func CCFromOutbound(o protocol.Outbound) (ch, cc, val uint8) {
	ch = uint8(o.Channel) & 0x0f
	cc = o.ID & 0x7f
	switch o.Channel {
	case protocol.Volume, protocol.AudioMaster:
		val = o.Value >> 1
	default:
		val = o.Value
		if val > 0x7f {
			val = 0x7f
		}
	}
	return ch, cc, val
}

// FrameFromCC maps a host control change to a binary inbound frame
func FrameFromCC(ch, cc, val uint8) ([protocol.FrameSize]byte, bool) {
	switch protocol.Kind(ch) {
	case protocol.KindStatus, protocol.KindCounter:
		return [protocol.FrameSize]byte{ch, cc, val}, true
	}
	return [protocol.FrameSize]byte{}, false
}
