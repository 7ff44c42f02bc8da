package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"piloop/config"
	"piloop/debug"
	"piloop/hw"
	"piloop/link"
	"piloop/looper"
	"piloop/midi"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the panel on this board",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runBoard(ctx, cfg)
	},
}

func runBoard(ctx context.Context, cfg *config.Config) error {
	adc, err := hw.OpenMCP3008(cfg.Board.SPIBus, hw.DefaultSPISpeed)
	if err != nil {
		return err
	}
	defer adc.Close()

	board, err := hw.NewPeriphBoard(cfg.Board.PinPrefix, cfg.AllPins(), adc)
	if err != nil {
		return err
	}

	host, closeHost, err := openHost(cfg)
	if err != nil {
		return err
	}
	defer closeHost.Close()

	var strip looper.Strip = looper.NopStrip{}
	switch name := cfg.MIDI.Launchpad; name {
	case "":
	case "auto":
		mirror := midi.NewPadMirror()
		go mirror.Run(ctx)
		strip = mirror
	default:
		pads, err := midi.OpenPadStrip(name)
		if err != nil {
			return err
		}
		defer pads.Close()
		strip = pads
	}

	l, err := looper.Build(cfg, board, host, looper.LogDisplay{}, strip)
	if err != nil {
		return err
	}
	if err := l.Init(); err != nil {
		return err
	}
	debug.Log("main", "running: %d tracks, transport %s", cfg.Tracks, cfg.Transport)
	return l.Run(ctx, cfg.Timing.Cycle)
}

// openHost opens the configured link to the audio host
func openHost(cfg *config.Config) (looper.Host, io.Closer, error) {
	switch cfg.Transport {
	case config.TransportMIDI:
		l, err := midi.OpenHostLink(cfg.MIDI.In, cfg.MIDI.Out)
		if err != nil {
			return nil, nil, err
		}
		return l, l, nil
	case config.TransportSerial:
		port := cfg.Serial.Port
		if port == "" {
			c := link.Candidates()
			if len(c) == 0 {
				return nil, nil, errors.New("no serial port found")
			}
			port = c[0]
		}
		s, err := link.OpenSerial(port, cfg.Serial.Baud, cfg.Serial.Mode)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, errors.Errorf("unknown transport %q", cfg.Transport)
}
