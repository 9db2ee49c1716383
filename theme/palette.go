package theme

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

type RGB [3]uint8

// Palette is a color ramp read from a GIMP .gpl file. Positions along the
// ramp run from 0 (first stop) to 1 (last stop).
type Palette struct {
	Name  string
	Stops []RGB
}

// channelFloor is where channel 0 sits on the ramp. Everything below it is
// left for backgrounds and muted text.
const channelFloor = 0.3

// minShade is the brightness of a velocity 0 note relative to velocity 127
const minShade = 0.45

// DefaultPalette is a plasma-like ramp used when no GPL file is configured
func DefaultPalette() *Palette {
	return &Palette{
		Name: "plasma",
		Stops: []RGB{
			{13, 8, 135},
			{84, 2, 163},
			{139, 10, 165},
			{185, 50, 137},
			{219, 92, 104},
			{244, 136, 73},
			{254, 188, 43},
			{240, 249, 33},
		},
	}
}

// LoadOrDefault loads the GPL file at path, falling back to DefaultPalette
// when path is empty
func LoadOrDefault(path string) (*Palette, error) {
	if path == "" {
		return DefaultPalette(), nil
	}
	return LoadGPL(path)
}

func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := ReadGPL(f)
	if err != nil {
		return nil, fmt.Errorf("palette %s: %w", path, err)
	}
	return p, nil
}

// ReadGPL parses GPL text. Lines that are not "R G B [label]" are ignored,
// apart from the Name header.
func ReadGPL(r io.Reader) (*Palette, error) {
	p := &Palette{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if name, ok := strings.CutPrefix(line, "Name:"); ok {
			p.Name = strings.TrimSpace(name)
			continue
		}
		if c, ok := parseStop(line); ok {
			p.Stops = append(p.Stops, c)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(p.Stops) == 0 {
		return nil, fmt.Errorf("no color stops")
	}
	return p, nil
}

func parseStop(line string) (RGB, bool) {
	if line == "" || line[0] == '#' {
		return RGB{}, false
	}
	var r, g, b int
	if n, _ := fmt.Sscan(line, &r, &g, &b); n != 3 {
		return RGB{}, false
	}
	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return RGB{}, false
		}
	}
	return RGB{uint8(r), uint8(g), uint8(b)}, true
}

// At returns the ramp color at pos, blending the two nearest stops
func (p *Palette) At(pos float64) RGB {
	last := len(p.Stops) - 1
	switch {
	case pos <= 0 || last == 0:
		return p.Stops[0]
	case pos >= 1:
		return p.Stops[last]
	}
	x := pos * float64(last)
	i := int(x)
	return blend(p.Stops[i], p.Stops[i+1], x-float64(i))
}

// Channel spreads the 16 MIDI channels evenly over the upper part of the ramp
func (p *Palette) Channel(ch uint8) RGB {
	return p.At(channelFloor + (1-channelFloor)*float64(ch&0x0F)/15)
}

// Velocity darkens c for quieter notes. Velocity 127 keeps c unchanged.
func (p *Palette) Velocity(c RGB, vel uint8) RGB {
	k := minShade + (1-minShade)*float64(min(vel, 127))/127
	return RGB{scale(c[0], k), scale(c[1], k), scale(c[2], k)}
}

func blend(a, b RGB, t float64) RGB {
	var out RGB
	for i := range out {
		out[i] = uint8(float64(a[i])*(1-t) + float64(b[i])*t)
	}
	return out
}

func scale(v uint8, k float64) uint8 {
	return uint8(float64(v)*k + 0.5)
}
