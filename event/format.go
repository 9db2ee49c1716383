package event

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Describe renders the kind-specific fields of ev for listings. Text
// payloads are decoded with the named encoding.
func Describe(ev Event, enc string) string {
	switch e := ev.(type) {
	case *NoteOn, *NoteOff, *PolyphonicKeyPressure, *ControlChange,
		*ProgramChange, *ChannelPressure, *PitchBend:
		return gomidi.Message(ev.Bytes()).String()
	case *SysEx:
		return fmt.Sprintf("% X", e.Data)
	case *SongPositionPointer:
		return fmt.Sprintf("position %d", e.Position)
	case *SongSelect:
		return fmt.Sprintf("song %d", e.Song)
	case *TuneRequest:
		return ""
	case *Realtime:
		return e.Name()
	case *TrackStart:
		return fmt.Sprintf("sequence %d", e.Sequence)
	case *TrackEnd:
		return ""
	case *ChannelPrefix:
		return fmt.Sprintf("channel %d", e.Channel)
	case *MIDIPort:
		return fmt.Sprintf("port %d", e.Port)
	case *Tempo:
		return fmt.Sprintf("%d us/qn (%.2f bpm)", e.MicrosPerQuarter, e.BPM())
	case *SMPTEOffset:
		return fmt.Sprintf("%02d:%02d:%02d:%02d.%02d", e.Hours, e.Minutes, e.Seconds, e.Frames, e.FractionalFrame)
	case *TimeSignature:
		return fmt.Sprintf("%s, %d clocks/click, %d 32nds/qn", e, e.ClocksPerClick, e.ThirtySecondsPerQN)
	case *KeySignature:
		mode := "major"
		if e.Minor != 0 {
			mode = "minor"
		}
		return fmt.Sprintf("%+d %s", e.SharpsFlats, mode)
	case *Text:
		s, err := e.Decode(enc)
		if err != nil {
			s = fmt.Sprintf("% X", e.Data)
		}
		return fmt.Sprintf("%s: %q", e.TypeName(), s)
	case *Color:
		s := fmt.Sprintf("ch %d rgba(%d,%d,%d,%d)", e.Channel, e.Event.R, e.Event.G, e.Event.B, e.Event.A)
		if e.HasTrack {
			s += fmt.Sprintf(" track rgba(%d,%d,%d,%d)", e.Track.R, e.Track.G, e.Track.B, e.Track.A)
		}
		return s
	case *Undefined:
		return fmt.Sprintf("0x%02X", e.Command)
	}
	return ""
}
