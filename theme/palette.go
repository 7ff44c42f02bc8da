package theme

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"piloop/track"
)

type RGB = track.Color

type Palette struct {
	Name   string
	Colors []RGB
}

// DefaultPalette is a dark-to-light ramp used when no palette file is set
func DefaultPalette() *Palette {
	return &Palette{
		Name: "piloop",
		Colors: []RGB{
			{16, 18, 28},
			{34, 38, 56},
			{70, 78, 104},
			{150, 158, 180},
			{0, 200, 200},
			{230, 120, 40},
			{240, 220, 90},
		},
	}
}

// LoadGPL reads a GIMP palette file
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open palette")
	}
	defer f.Close()

	p := &Palette{}
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}

		// Skip headers and comments
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		var c RGB
		ok := true
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(fields[i])
			if err != nil || v < 0 || v > 255 {
				ok = false
				break
			}
			c[i] = uint8(v)
		}
		if ok {
			p.Colors = append(p.Colors, c)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read palette %s", path)
	}
	if len(p.Colors) == 0 {
		return nil, errors.Errorf("no colors found in palette %s", path)
	}
	return p, nil
}

// LoadOrDefault loads path, falling back to the default palette when path is empty
func LoadOrDefault(path string) (*Palette, error) {
	if path == "" {
		return DefaultPalette(), nil
	}
	return LoadGPL(path)
}

// Lookup returns the colour at normalized position 0-1, blended in Lab
// between neighbouring entries
func (p *Palette) Lookup(norm float64) RGB {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)
	return Blend(p.Colors[i], p.Colors[i+1], frac)
}

// Index returns the colour at index i, clamped
func (p *Palette) Index(i int) RGB {
	if i < 0 {
		return p.Colors[0]
	}
	if i >= len(p.Colors) {
		return p.Colors[len(p.Colors)-1]
	}
	return p.Colors[i]
}

// Blend mixes a towards b by t in Lab space
func Blend(a, b RGB, t float64) RGB {
	c := toColorful(a).BlendLab(toColorful(b), t).Clamped()
	r, g, bl := c.RGB255()
	return RGB{r, g, bl}
}

func toColorful(c RGB) colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}
