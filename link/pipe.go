package link

import (
	"bytes"
	"sync"

	"piloop/protocol"
)

// Pipe is an in-memory link. The looper side sees an ordinary link; the
// other side injects host bytes and inspects what was sent.
type Pipe struct {
	framed

	mu   sync.Mutex
	out  bytes.Buffer
	sent []protocol.Outbound
}

func NewPipe(mode protocol.Mode) *Pipe {
	p := &Pipe{}
	p.framed = newFramed(mode, &p.out)
	return p
}

// Send records o and encodes it
func (p *Pipe) Send(o protocol.Outbound) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, o)
	return p.framed.Send(o)
}

// Inject queues raw bytes as if the host had sent them
func (p *Pipe) Inject(b []byte) {
	p.in.Write(b)
}

// InjectMessage queues m in the pipe's wire encoding
func (p *Pipe) InjectMessage(m protocol.Message) {
	p.in.Write(p.codec.EncodeInbound(m))
}

// Sent returns every message sent so far
func (p *Pipe) Sent() []protocol.Outbound {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]protocol.Outbound(nil), p.sent...)
}

// Drain returns and forgets the messages sent since the last Drain
func (p *Pipe) Drain() []protocol.Outbound {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.sent
	p.sent = nil
	p.out.Reset()
	return s
}

// Wire returns the encoded bytes sent since the last Drain
func (p *Pipe) Wire() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.out.Bytes()...)
}

func (p *Pipe) Close() error {
	return nil
}
