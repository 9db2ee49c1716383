package event

import (
	"fmt"

	"go-midistream/vlq"
)

func metaBytes(subtype uint8, data ...byte) []byte {
	out := []byte{StatusMeta, subtype}
	out = vlq.Append(out, uint64(len(data)))
	return append(out, data...)
}

// TrackStart is the sequence number meta event (FF 00 02 ss ss).
type TrackStart struct {
	Timing
	Sequence uint16
}

func (e *TrackStart) Kind() Kind   { return KindTrackStart }
func (e *TrackStart) Clone() Event { c := *e; return &c }
func (e *TrackStart) Bytes() []byte {
	return metaBytes(MetaTrackStart, byte(e.Sequence>>8), byte(e.Sequence))
}

// TrackEnd is never produced by the decoder, which turns it into the end of
// the track sequence. It exists so writers can emit it.
type TrackEnd struct {
	Timing
}

func (e *TrackEnd) Kind() Kind    { return KindTrackEnd }
func (e *TrackEnd) Clone() Event  { c := *e; return &c }
func (e *TrackEnd) Bytes() []byte { return metaBytes(MetaTrackEnd) }

type ChannelPrefix struct {
	Timing
	Channel uint8
}

func (e *ChannelPrefix) Kind() Kind    { return KindChannelPrefix }
func (e *ChannelPrefix) Clone() Event  { c := *e; return &c }
func (e *ChannelPrefix) Bytes() []byte { return metaBytes(MetaChannelPrefix, e.Channel) }

type MIDIPort struct {
	Timing
	Port uint8
}

func (e *MIDIPort) Kind() Kind    { return KindMIDIPort }
func (e *MIDIPort) Clone() Event  { c := *e; return &c }
func (e *MIDIPort) Bytes() []byte { return metaBytes(MetaMIDIPort, e.Port) }

// Tempo is microseconds per quarter note (24 bits on the wire).
type Tempo struct {
	Timing
	MicrosPerQuarter uint32
}

func (e *Tempo) Kind() Kind   { return KindTempo }
func (e *Tempo) Clone() Event { c := *e; return &c }
func (e *Tempo) Bytes() []byte {
	t := e.MicrosPerQuarter
	return metaBytes(MetaTempo, byte(t>>16), byte(t>>8), byte(t))
}

// BPM converts the tempo to beats per minute.
func (e *Tempo) BPM() float64 {
	if e.MicrosPerQuarter == 0 {
		return 0
	}
	return 60_000_000 / float64(e.MicrosPerQuarter)
}

type SMPTEOffset struct {
	Timing
	Hours, Minutes, Seconds uint8
	Frames, FractionalFrame uint8
}

func (e *SMPTEOffset) Kind() Kind   { return KindSMPTEOffset }
func (e *SMPTEOffset) Clone() Event { c := *e; return &c }
func (e *SMPTEOffset) Bytes() []byte {
	return metaBytes(MetaSMPTEOffset, e.Hours, e.Minutes, e.Seconds, e.Frames, e.FractionalFrame)
}

// TimeSignature: Denominator is the power of two exponent (3 means x/8).
type TimeSignature struct {
	Timing
	Numerator          uint8
	Denominator        uint8
	ClocksPerClick     uint8
	ThirtySecondsPerQN uint8
}

func (e *TimeSignature) Kind() Kind   { return KindTimeSignature }
func (e *TimeSignature) Clone() Event { c := *e; return &c }
func (e *TimeSignature) Bytes() []byte {
	return metaBytes(MetaTimeSignature, e.Numerator, e.Denominator, e.ClocksPerClick, e.ThirtySecondsPerQN)
}

func (e *TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", e.Numerator, 1<<(e.Denominator&0x1F))
}

// KeySignature: negative SharpsFlats counts flats. Minor is the raw mode byte
// (0 major, 1 minor).
type KeySignature struct {
	Timing
	SharpsFlats int8
	Minor       uint8
}

func (e *KeySignature) Kind() Kind   { return KindKeySignature }
func (e *KeySignature) Clone() Event { c := *e; return &c }
func (e *KeySignature) Bytes() []byte {
	return metaBytes(MetaKeySignature, byte(e.SharpsFlats), e.Minor)
}

// Text is any length-prefixed meta event in 0x01-0x0A or 0x7F that is not
// a Color event. Type is the meta sub-type.
type Text struct {
	Timing
	Type uint8
	Data []byte
}

func (e *Text) Kind() Kind { return KindText }

func (e *Text) Clone() Event {
	return &Text{e.Timing, e.Type, append([]byte(nil), e.Data...)}
}

func (e *Text) Bytes() []byte { return metaBytes(e.Type, e.Data...) }

// RGBA is one color quadruple of a Color meta event.
type RGBA struct {
	R, G, B, A uint8
}

// Color is the 0x0A meta event carrying a note color for a channel, and
// optionally a second track-scope color.
type Color struct {
	Timing
	Channel  uint8 // 0-15, or 0x7F for all channels
	Event    RGBA
	Track    RGBA
	HasTrack bool
}

func (e *Color) Kind() Kind   { return KindColor }
func (e *Color) Clone() Event { c := *e; return &c }
func (e *Color) Bytes() []byte {
	data := []byte{0x00, 0x0F, e.Channel, 0x00, e.Event.R, e.Event.G, e.Event.B, e.Event.A}
	if e.HasTrack {
		data = append(data, e.Track.R, e.Track.G, e.Track.B, e.Track.A)
	}
	return metaBytes(MetaColor, data...)
}
