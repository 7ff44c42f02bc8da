package link

import (
	"bytes"
	"testing"

	"piloop/protocol"
	"piloop/track"
)

func TestPipeSendBinary(t *testing.T) {
	p := NewPipe(protocol.ModeBinary)
	if err := p.Send(protocol.Outbound{Channel: protocol.LoopPressed, ID: 2}); err != nil {
		t.Fatal(err)
	}
	if err := p.Send(protocol.Outbound{Channel: protocol.Volume, ID: 1, Value: 90}); err != nil {
		t.Fatal(err)
	}
	if got := p.Wire(); !bytes.Equal(got, []byte{7, 2, 0, 8, 1, 90}) {
		t.Fatalf("wire %v", got)
	}
	sent := p.Drain()
	if len(sent) != 2 || sent[1].Value != 90 {
		t.Fatalf("sent %v", sent)
	}
	if len(p.Sent()) != 0 || len(p.Wire()) != 0 {
		t.Fatal("drain did not reset")
	}
}

func TestPipeSendText(t *testing.T) {
	p := NewPipe(protocol.ModeText)
	p.Send(protocol.Outbound{Channel: protocol.ButtonPressed, ID: 12, Value: 1})
	if got := string(p.Wire()); got != "2 12 1\n" {
		t.Fatalf("wire %q", got)
	}
}

func TestPipeReceive(t *testing.T) {
	p := NewPipe(protocol.ModeBinary)
	if _, ok, _ := p.Receive(); ok {
		t.Fatal("received from an empty pipe")
	}
	p.InjectMessage(protocol.Status(0, track.StartRec))
	p.Inject([]byte{1, 3})
	m, ok, err := p.Receive()
	if !ok || err != nil || m.State != track.StartRec {
		t.Fatalf("%v ok=%v err=%v", m, ok, err)
	}
	if _, ok, _ := p.Receive(); ok {
		t.Fatal("decoded a partial frame")
	}
	p.Inject([]byte{8})
	if m, ok, _ := p.Receive(); !ok || m.Position != 3 || m.Count != 8 {
		t.Fatalf("%v ok=%v", m, ok)
	}
}
