// Package event defines the decoded MIDI event variants and the Note entity
// consumed by the absolute-time merges.
package event

// MIDI status bytes (high nibble for channel voice messages)
const (
	StatusNoteOff         uint8 = 0x80
	StatusNoteOn          uint8 = 0x90
	StatusPolyPressure    uint8 = 0xA0
	StatusControlChange   uint8 = 0xB0
	StatusProgramChange   uint8 = 0xC0
	StatusChannelPressure uint8 = 0xD0
	StatusPitchBend       uint8 = 0xE0

	StatusSysEx        uint8 = 0xF0
	StatusTimeCode     uint8 = 0xF1
	StatusSongPosition uint8 = 0xF2
	StatusSongSelect   uint8 = 0xF3
	StatusTuneRequest  uint8 = 0xF6
	StatusSysExEnd     uint8 = 0xF7
	StatusClock        uint8 = 0xF8
	StatusStart        uint8 = 0xFA
	StatusContinue     uint8 = 0xFB
	StatusStop         uint8 = 0xFC
	StatusActiveSense  uint8 = 0xFE
	StatusMeta         uint8 = 0xFF
)

// Meta event sub-types
const (
	MetaTrackStart        uint8 = 0x00
	MetaText              uint8 = 0x01
	MetaCopyright         uint8 = 0x02
	MetaTrackName         uint8 = 0x03
	MetaInstrumentName    uint8 = 0x04
	MetaLyric             uint8 = 0x05
	MetaMarker            uint8 = 0x06
	MetaCuePoint          uint8 = 0x07
	MetaProgramName       uint8 = 0x08
	MetaDeviceName        uint8 = 0x09
	MetaColor             uint8 = 0x0A
	MetaChannelPrefix     uint8 = 0x20
	MetaMIDIPort          uint8 = 0x21
	MetaTrackEnd          uint8 = 0x2F
	MetaTempo             uint8 = 0x51
	MetaSMPTEOffset       uint8 = 0x54
	MetaTimeSignature     uint8 = 0x58
	MetaKeySignature      uint8 = 0x59
	MetaSequencerSpecific uint8 = 0x7F
)

// Event is one decoded MIDI event. The set of implementations is closed:
// every variant lives in this package and embeds Timing.
//
// DeltaTime is ticks since the previous event of the sequence the event
// belongs to. Whether a sequence is delta coded travels with the sequence,
// not with the event.
type Event interface {
	Delta() uint64
	SetDelta(d uint64)
	Kind() Kind
	// Clone returns an independent copy; mutating the copy's time never
	// touches the original.
	Clone() Event
	// Bytes returns the wire encoding of the message, without delta time.
	Bytes() []byte

	sealed()
}

// Timing carries the delta time shared by all variants.
type Timing struct {
	DeltaTime uint64
}

func (t *Timing) Delta() uint64 {
	return t.DeltaTime
}

func (t *Timing) SetDelta(d uint64) {
	t.DeltaTime = d
}

func (t *Timing) sealed() {}

// Kind identifies an event variant
type Kind int

const (
	KindUndefined Kind = iota
	KindNoteOn
	KindNoteOff
	KindPolyphonicKeyPressure
	KindControlChange
	KindProgramChange
	KindChannelPressure
	KindPitchBend
	KindSysEx
	KindSongPositionPointer
	KindSongSelect
	KindTuneRequest
	KindRealtime
	KindTrackStart
	KindTrackEnd
	KindChannelPrefix
	KindMIDIPort
	KindTempo
	KindSMPTEOffset
	KindTimeSignature
	KindKeySignature
	KindText
	KindColor
)

var kindNames = [...]string{
	KindUndefined:             "Undefined",
	KindNoteOn:                "NoteOn",
	KindNoteOff:               "NoteOff",
	KindPolyphonicKeyPressure: "PolyKeyPressure",
	KindControlChange:         "ControlChange",
	KindProgramChange:         "ProgramChange",
	KindChannelPressure:       "ChannelPressure",
	KindPitchBend:             "PitchBend",
	KindSysEx:                 "SysEx",
	KindSongPositionPointer:   "SongPosition",
	KindSongSelect:            "SongSelect",
	KindTuneRequest:           "TuneRequest",
	KindRealtime:              "Realtime",
	KindTrackStart:            "TrackStart",
	KindTrackEnd:              "TrackEnd",
	KindChannelPrefix:         "ChannelPrefix",
	KindMIDIPort:              "MIDIPort",
	KindTempo:                 "Tempo",
	KindSMPTEOffset:           "SMPTEOffset",
	KindTimeSignature:         "TimeSignature",
	KindKeySignature:          "KeySignature",
	KindText:                  "Text",
	KindColor:                 "Color",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}
	return kindNames[k]
}

// Channeled is implemented by events addressed to a MIDI channel.
type Channeled interface {
	Event
	ChannelNumber() uint8
}

// ChannelOf returns the channel of a channel voice event.
func ChannelOf(ev Event) (uint8, bool) {
	if c, ok := ev.(Channeled); ok {
		return c.ChannelNumber(), true
	}
	return 0, false
}
