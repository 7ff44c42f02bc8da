// Package link carries protocol frames between the looper and the audio host.
package link

import (
	"io"
	"sync"

	"github.com/pkg/errors"

	"piloop/protocol"
)

// framed is the shared half of a byte transport: outbound messages are
// encoded onto w, inbound bytes queue in a Buffer until the cycle decodes them.
type framed struct {
	codec *protocol.Codec
	in    *protocol.Buffer

	wmu sync.Mutex
	w   io.Writer
}

func newFramed(mode protocol.Mode, w io.Writer) framed {
	return framed{
		codec: protocol.NewCodec(mode),
		in:    protocol.NewBuffer(0),
		w:     w,
	}
}

// Send writes one outbound frame
func (f *framed) Send(o protocol.Outbound) error {
	f.wmu.Lock()
	defer f.wmu.Unlock()
	if _, err := f.w.Write(f.codec.Encode(o)); err != nil {
		return errors.Wrapf(err, "send %v", o)
	}
	return nil
}

// Receive decodes the next buffered frame; ok is false when fewer than a
// frame's worth of bytes are waiting.
func (f *framed) Receive() (protocol.Message, bool, error) {
	return f.codec.TryDecode(f.in)
}

// Mode returns the wire encoding
func (f *framed) Mode() protocol.Mode {
	return f.codec.Mode()
}

// Dropped returns inbound bytes lost to a full buffer
func (f *framed) Dropped() int {
	return f.in.Dropped()
}
