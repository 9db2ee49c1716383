package theme

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"go-midistream/event"
)

func TestLoadGPL(t *testing.T) {
	content := `GIMP Palette
Name: test
Columns: 3
#
  0   0   0	black
255 128   0	orange
300   0   0	out of range
255 255 255	white
`
	path := filepath.Join(t.TempDir(), "test.gpl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadGPL(path)
	if err != nil {
		t.Fatalf("LoadGPL() error: %v", err)
	}
	if p.Name != "test" {
		t.Errorf("Name = %q, want test", p.Name)
	}
	want := []RGB{{0, 0, 0}, {255, 128, 0}, {255, 255, 255}}
	if !slices.Equal(p.Stops, want) {
		t.Errorf("Stops = %v, want %v", p.Stops, want)
	}
}

func TestLoadGPLErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.gpl")
	if err := os.WriteFile(empty, []byte("GIMP Palette\nName: none\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "no colors", path: empty},
		{name: "missing file", path: filepath.Join(dir, "missing.gpl")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadGPL(tt.path); err == nil {
				t.Errorf("LoadGPL(%s) succeeded", tt.path)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	p, err := LoadOrDefault("")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != DefaultPalette().Name {
		t.Errorf("LoadOrDefault(\"\") = %q palette", p.Name)
	}
}

func TestAt(t *testing.T) {
	p := &Palette{Stops: []RGB{{0, 0, 0}, {200, 100, 50}}}
	tests := []struct {
		pos  float64
		want RGB
	}{
		{pos: -1, want: RGB{0, 0, 0}},
		{pos: 0, want: RGB{0, 0, 0}},
		{pos: 0.5, want: RGB{100, 50, 25}},
		{pos: 1, want: RGB{200, 100, 50}},
		{pos: 2, want: RGB{200, 100, 50}},
	}
	for _, tt := range tests {
		if got := p.At(tt.pos); got != tt.want {
			t.Errorf("At(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}

	single := &Palette{Stops: []RGB{{1, 2, 3}}}
	if got := single.At(0.7); got != (RGB{1, 2, 3}) {
		t.Errorf("single stop At = %v", got)
	}
}

func TestChannelRamp(t *testing.T) {
	p := &Palette{Stops: []RGB{{0, 0, 0}, {100, 100, 100}}}
	if got := p.Channel(0); got != (RGB{30, 30, 30}) {
		t.Errorf("Channel(0) = %v, want the ramp at 0.3", got)
	}
	if got := p.Channel(15); got[0] < 99 {
		t.Errorf("Channel(15) = %v, want the end of the ramp", got)
	}
	if p.Channel(16) != p.Channel(0) {
		t.Errorf("Channel(16) does not wrap to channel 0")
	}
}

func TestVelocityShade(t *testing.T) {
	p := DefaultPalette()
	c := RGB{200, 100, 20}
	tests := []struct {
		vel  uint8
		want RGB
	}{
		{vel: 127, want: c},
		{vel: 200, want: c},
		{vel: 0, want: RGB{90, 45, 9}},
	}
	for _, tt := range tests {
		if got := p.Velocity(c, tt.vel); got != tt.want {
			t.Errorf("Velocity(%v, %d) = %v, want %v", c, tt.vel, got, tt.want)
		}
	}
	if soft, loud := p.Velocity(c, 20), p.Velocity(c, 100); soft[0] >= loud[0] {
		t.Errorf("velocity 20 (%v) not darker than velocity 100 (%v)", soft, loud)
	}
}

func TestSymbols(t *testing.T) {
	th := New(DefaultPalette())
	tests := []struct {
		ev   event.Event
		want rune
	}{
		{ev: event.NewNoteOn(0, 0, 60, 1), want: '●'},
		{ev: event.NewNoteOff(0, 0, 60), want: '○'},
		{ev: &event.ControlChange{}, want: '◆'},
		{ev: &event.Tempo{}, want: '◇'},
		{ev: &event.Text{}, want: '◇'},
		{ev: &event.SysEx{}, want: '■'},
		{ev: &event.Realtime{}, want: '■'},
		{ev: event.NewUndefined(0, 0), want: '?'},
	}
	for _, tt := range tests {
		if got := th.Symbol(tt.ev); got != tt.want {
			t.Errorf("Symbol(%v) = %c, want %c", tt.ev.Kind(), got, tt.want)
		}
	}
}

func TestEventColor(t *testing.T) {
	th := New(DefaultPalette())
	if th.EventColor(&event.ControlChange{Channel: 3}) != th.ChannelColor(3) {
		t.Errorf("channel event not colored by channel")
	}
	if th.EventColor(event.NewNoteOn(0, 3, 60, 127)) != th.ChannelColor(3) {
		t.Errorf("full velocity note not colored by channel")
	}
	if th.EventColor(event.NewNoteOn(0, 3, 60, 10)) == th.ChannelColor(3) {
		t.Errorf("soft note not shaded")
	}
	if th.EventColor(&event.Tempo{}) != th.Muted() {
		t.Errorf("meta event not muted")
	}
	if th.EventColor(event.NewUndefined(0, 0)) != th.Warning() {
		t.Errorf("undefined event not highlighted")
	}
	if th.ChannelRGB(0) == th.ChannelRGB(15) {
		t.Errorf("channels 0 and 15 share a color")
	}
}
