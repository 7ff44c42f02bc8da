package track_test

import (
	"testing"

	"piloop/track"
)

func TestNextMuteToggle(t *testing.T) {
	for cur := track.State(0); cur < track.NumStates; cur++ {
		for s := track.State(0); s < track.NumStates; s++ {
			got := track.Next(cur, s)
			want := s
			if cur == track.MuteRec && s == track.MuteRec {
				want = track.StopRec
			}
			if got != want {
				t.Errorf("Next(%v, %v) = %v, want %v", cur, s, got, want)
			}
		}
	}
}

func TestApplyStatus(t *testing.T) {
	tr := track.New(2, 2)
	if got := tr.ApplyStatus(track.MuteRec); got != track.MuteRec {
		t.Fatalf("got %v", got)
	}
	if got := tr.ApplyStatus(track.MuteRec); got != track.StopRec {
		t.Fatalf("mute on muted track: got %v, want STOP_REC", got)
	}
	if tr.State != track.StopRec {
		t.Fatalf("state not stored: %v", tr.State)
	}
}

func TestIndicatorColors(t *testing.T) {
	want := map[track.State]track.Color{
		track.ClearRec:     track.Off,
		track.StartRec:     track.Red,
		track.StopRec:      track.Green,
		track.StartOverdub: track.Red,
		track.StopOverdub:  track.GreenYellow,
		track.WaitRec:      track.Yellow,
		track.MuteRec:      track.Cyan,
	}
	for s, c := range want {
		if got := track.IndicatorColor(s); got != c {
			t.Errorf("%v: got %v, want %v", s, got.Hex(), c.Hex())
		}
	}
	if got := track.IndicatorColor(track.NumStates); got != track.Off {
		t.Errorf("invalid state should be off, got %v", got.Hex())
	}
}

func TestScreenColors(t *testing.T) {
	want := map[track.State]track.Color{
		track.ClearRec:     track.Black,
		track.StartRec:     track.White,
		track.StopRec:      track.White,
		track.StartOverdub: track.Orange,
		track.StopOverdub:  track.White,
		track.WaitRec:      track.Yellow,
		track.MuteRec:      track.Gray,
	}
	for s, c := range want {
		if got := track.ScreenColor(s); got != c {
			t.Errorf("%v: got %v, want %v", s, got.Hex(), c.Hex())
		}
	}
}

func TestMapVolume(t *testing.T) {
	cases := []struct{ raw, want int }{
		{0, 0}, {1023, 255}, {512, 127}, {-5, 0}, {5000, 255},
	}
	for _, c := range cases {
		if got := track.MapVolume(c.raw); int(got) != c.want {
			t.Errorf("MapVolume(%d) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestVolumeHysteresis(t *testing.T) {
	tr := track.New(0, 0)
	steps := []struct {
		raw     int
		changed bool
		volume  uint8
	}{
		{0, false, 0},
		{40, false, 0},    // 9, inside the band
		{45, true, 11},    // 11, just outside the band
		{1023, true, 255}, // jump
		{990, false, 255}, // 246, inside band
		{980, true, 244},  // 244, 11 below
		{0, true, 0},
	}
	for i, s := range steps {
		got := tr.SampleVolume(s.raw)
		if got != s.changed || tr.Volume != s.volume || tr.VolumeChanged != s.changed {
			t.Fatalf("step %d raw=%d: changed=%v volume=%d, want %v %d",
				i, s.raw, got, tr.Volume, s.changed, s.volume)
		}
	}
}

type fixedReader map[int]int

func (f fixedReader) Read(input int) int { return f[input] }

func TestUpdateReadsOwnInput(t *testing.T) {
	tr := track.New(3, 5)
	if !tr.Update(fixedReader{5: 1023, 3: 0}) {
		t.Fatal("expected change")
	}
	if tr.Volume != 255 {
		t.Fatalf("volume %d", tr.Volume)
	}
}

func TestDefaultLayout(t *testing.T) {
	g := track.DefaultLayout(8)
	if len(g) != 8 {
		t.Fatalf("len %d", len(g))
	}
	for i, a := range g {
		if a.X < 0 || a.Y < 0 || a.X+a.W > track.ScreenWidth || a.Y+a.H > track.ScreenHeight {
			t.Errorf("tile %d off screen: %+v", i, a)
		}
		for j, b := range g[:i] {
			if a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H {
				t.Errorf("tiles %d and %d overlap", j, i)
			}
		}
	}
}

func TestGlyphs(t *testing.T) {
	if track.GlyphFor(track.StopRec) != track.GlyphPlay ||
		track.GlyphFor(track.MuteRec) != track.GlyphMute ||
		track.GlyphFor(track.ClearRec) != track.GlyphNone {
		t.Fatal("glyph table")
	}
}
