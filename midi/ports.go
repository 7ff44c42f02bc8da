// Package midi connects the looper to MIDI: a host link that carries the
// protocol as control changes, and an indicator strip mirrored onto a
// Launchpad grid.
package midi

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// DefaultScanTimeout bounds a port listing; some MIDI backends hang
const DefaultScanTimeout = 3 * time.Second

// ErrScanTimeout is returned when the driver does not answer in time
var ErrScanTimeout = errors.New("midi port scan timed out")

// Ports lists the names of the available MIDI ports
type Ports struct {
	In  []string
	Out []string
}

type portsResult struct {
	inPorts  []drivers.In
	outPorts []drivers.Out
}

// scan queries the driver in a goroutine so a hung backend cannot block
// the caller past timeout
func scan(timeout time.Duration) (portsResult, error) {
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}
	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r, nil
	case <-time.After(timeout):
		return portsResult{}, ErrScanTimeout
	}
}

// ListPorts returns the available port names
func ListPorts(timeout time.Duration) (Ports, error) {
	r, err := scan(timeout)
	if err != nil {
		return Ports{}, err
	}
	var p Ports
	for _, in := range r.inPorts {
		p.In = append(p.In, in.String())
	}
	for _, out := range r.outPorts {
		p.Out = append(p.Out, out.String())
	}
	return p, nil
}

// findPorts resolves an input and output by case-insensitive substring.
// An empty name skips that direction.
func findPorts(inName, outName string, timeout time.Duration) (drivers.In, drivers.Out, error) {
	r, err := scan(timeout)
	if err != nil {
		return nil, nil, err
	}
	var in drivers.In
	var out drivers.Out
	if inName != "" {
		for i, p := range r.inPorts {
			if matchName(p.String(), inName) {
				in = r.inPorts[i]
				break
			}
		}
		if in == nil {
			return nil, nil, errors.Errorf("no MIDI input matching %q", inName)
		}
	}
	if outName != "" {
		for i, p := range r.outPorts {
			if matchName(p.String(), outName) {
				out = r.outPorts[i]
				break
			}
		}
		if out == nil {
			return nil, nil, errors.Errorf("no MIDI output matching %q", outName)
		}
	}
	return in, out, nil
}

func matchName(port, want string) bool {
	return strings.Contains(strings.ToLower(port), strings.ToLower(want))
}

// IsLaunchpad reports whether a port name belongs to a Launchpad's MIDI
// interface (not its DAW port)
func IsLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}

// FindLaunchpad returns the name of the first Launchpad output, "" if none
func FindLaunchpad(timeout time.Duration) (string, error) {
	p, err := ListPorts(timeout)
	if err != nil {
		return "", err
	}
	for _, name := range p.Out {
		if IsLaunchpad(name) {
			return name, nil
		}
	}
	return "", nil
}
