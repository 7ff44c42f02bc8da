package link

import (
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"

	"piloop/debug"
	"piloop/protocol"
)

// DefaultBaud matches the host bridge
const DefaultBaud = 115200

// readTimeout bounds each blocking read so Close is noticed
const readTimeout = 100 * time.Millisecond

// Serial is a UART link to the host
type Serial struct {
	framed
	name string
	port *serial.Port

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// OpenSerial opens the named port and starts reading it in the background
func OpenSerial(name string, baud int, mode protocol.Mode) (*Serial, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open serial port %s", name)
	}

	s := &Serial{
		framed: newFramed(mode, port),
		name:   name,
		port:   port,
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.readLoop()
	debug.Log("link", "serial %s open at %d baud, %v mode", name, baud, mode)
	return s, nil
}

func (s *Serial) readLoop() {
	defer s.wg.Done()
	buf := make([]byte, 256)
	for {
		n, err := s.port.Read(buf)
		if n > 0 {
			s.in.Write(buf[:n])
		}
		select {
		case <-s.done:
			return
		default:
		}
		if err != nil && err != io.EOF { // EOF is a read timeout
			debug.Log("link", "serial %s read: %v", s.name, err)
			return
		}
	}
}

// Name returns the device path
func (s *Serial) Name() string {
	return s.name
}

// Close stops the reader and closes the port
func (s *Serial) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.port.Close()
		s.wg.Wait()
	})
	return errors.Wrapf(err, "close serial port %s", s.name)
}

var candidatePatterns = []string{
	"/dev/ttyACM*",
	"/dev/ttyUSB*",
	"/dev/ttyAMA*",
	"/dev/serial[0-9]*",
	"/dev/cu.usbmodem*",
	"/dev/cu.usbserial*",
}

// Candidates lists device paths that look like a microcontroller UART
func Candidates() []string {
	var out []string
	for _, p := range candidatePatterns {
		m, _ := filepath.Glob(p)
		out = append(out, m...)
	}
	return out
}
