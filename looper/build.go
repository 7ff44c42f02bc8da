package looper

import (
	"github.com/pkg/errors"

	"piloop/config"
	"piloop/encoder"
	"piloop/hw"
	"piloop/keypad"
	"piloop/menu"
	"piloop/track"
)

// Build wires a Looper from a config onto a board
func Build(cfg *config.Config, io hw.IO, host Host, display Display, strip Strip) (*Looper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	kpCfg := func(k config.KeypadConfig) keypad.Config {
		return keypad.Config{
			RowPins:      k.Rows,
			ColPins:      k.Cols,
			IDs:          k.IDs,
			LEDs:         k.LEDs,
			DebounceTime: cfg.Timing.Debounce,
			HoldTime:     cfg.Timing.Hold,
		}
	}
	drumpad, err := keypad.New(io, io, kpCfg(cfg.Drumpad))
	if err != nil {
		return nil, errors.Wrap(err, "drumpad")
	}
	trackpad, err := keypad.New(io, io, kpCfg(cfg.Trackpad))
	if err != nil {
		return nil, errors.Wrap(err, "trackpad")
	}

	var mute *keypad.Key
	if cfg.MuteKey != config.NoPin {
		k := keypad.NewKey(keypad.NoKey, cfg.MuteKey, keypad.NoLED)
		if cfg.Timing.Hold > 0 {
			k.HoldTime = cfg.Timing.Hold
		}
		mute = &k
	}

	var (
		enc  *encoder.Encoder
		ctrl *menu.Controller
	)
	if cfg.HasEncoder() {
		enc = encoder.New(io, encoder.Config{
			CLK:     cfg.Encoder.CLK,
			DT:      cfg.Encoder.DT,
			SW:      cfg.Encoder.SW,
			PPR:     cfg.Encoder.PPR,
			Divider: cfg.Encoder.Divider,
		})
		ctrl = menu.New(nil, nil, cfg.Timing.MenuTimeout)
	}

	layout := track.DefaultLayout(cfg.Tracks)
	tracks := make([]*track.Track, cfg.Tracks)
	for i := range tracks {
		tracks[i] = track.New(i, i)
		tracks[i].Geometry = layout[i]
	}

	opts := Options{
		Clock:    io,
		Pins:     io,
		Drumpad:  drumpad,
		Trackpad: trackpad,
		MuteKey:  mute,
		Encoder:  enc,
		Menu:     ctrl,
		Tracks:   tracks,
		Volumes:  hw.NewMux(io, io, cfg.Volume.Select, cfg.Volume.Channel),
		Host:     host,
		Display:  display,
		Strip:    strip,
	}
	if cfg.Volume.Master != config.NoPin {
		opts.Master = track.New(cfg.Tracks, 0)
		opts.MasterVolume = hw.NewDirect(io, []int{cfg.Volume.Master})
	}
	return New(opts)
}
