package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"go-midistream/event"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

// Symbols mark event families in the event list
type Symbols struct {
	NoteOn    rune // ● note starts
	NoteOff   rune // ○ note ends
	Channel   rune // ◆ other channel voice messages
	Meta      rune // ◇ meta events
	System    rune // ■ sysex, realtime, system common
	Undefined rune // ? undefined or malformed
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			NoteOn:    '●',
			NoteOff:   '○',
			Channel:   '◆',
			Meta:      '◇',
			System:    '■',
			Undefined: '?',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleCursor  = 0.6 // rose pink
	RoleWarning = 0.8 // orange
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.At(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.At(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.At(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.At(RoleMuted))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.At(RoleCursor))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.At(RoleWarning))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.At(norm))
}

// ChannelRGB is the palette color of a MIDI channel
func (t *Theme) ChannelRGB(ch uint8) RGB {
	return t.Palette.Channel(ch)
}

// ChannelColor returns the lipgloss color for a MIDI channel
func (t *Theme) ChannelColor(ch uint8) lipgloss.Color {
	return rgbToLipgloss(t.ChannelRGB(ch))
}

// Symbol returns the list marker for an event
func (t *Theme) Symbol(ev event.Event) rune {
	switch ev.Kind() {
	case event.KindNoteOn:
		return t.Symbols.NoteOn
	case event.KindNoteOff:
		return t.Symbols.NoteOff
	case event.KindPolyphonicKeyPressure, event.KindControlChange, event.KindProgramChange,
		event.KindChannelPressure, event.KindPitchBend:
		return t.Symbols.Channel
	case event.KindSysEx, event.KindSongPositionPointer, event.KindSongSelect,
		event.KindTuneRequest, event.KindRealtime:
		return t.Symbols.System
	case event.KindUndefined:
		return t.Symbols.Undefined
	}
	return t.Symbols.Meta
}

// EventColor picks the channel color for channel messages, muted otherwise.
// Note starts are shaded by velocity.
func (t *Theme) EventColor(ev event.Event) lipgloss.Color {
	if on, ok := ev.(*event.NoteOn); ok {
		return rgbToLipgloss(t.Palette.Velocity(t.ChannelRGB(on.Channel), on.Velocity))
	}
	if ch, ok := event.ChannelOf(ev); ok {
		return t.ChannelColor(ch)
	}
	if ev.Kind() == event.KindUndefined {
		return t.Warning()
	}
	return t.Muted()
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
