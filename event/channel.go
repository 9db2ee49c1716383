package event

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// NoteOn starts a note
type NoteOn struct {
	Timing
	Channel  uint8
	Key      uint8
	Velocity uint8
}

func NewNoteOn(delta uint64, channel, key, velocity uint8) *NoteOn {
	return &NoteOn{Timing{delta}, channel, key, velocity}
}

func (e *NoteOn) Kind() Kind           { return KindNoteOn }
func (e *NoteOn) ChannelNumber() uint8 { return e.Channel }
func (e *NoteOn) Clone() Event         { c := *e; return &c }
func (e *NoteOn) Bytes() []byte {
	return gomidi.NoteOn(e.Channel, e.Key, e.Velocity)
}

// NoteOff ends a note. Velocity is the release velocity, 0 when the event
// was decoded from a zero-velocity NoteOn.
type NoteOff struct {
	Timing
	Channel  uint8
	Key      uint8
	Velocity uint8
}

func NewNoteOff(delta uint64, channel, key uint8) *NoteOff {
	return &NoteOff{Timing: Timing{delta}, Channel: channel, Key: key}
}

func (e *NoteOff) Kind() Kind           { return KindNoteOff }
func (e *NoteOff) ChannelNumber() uint8 { return e.Channel }
func (e *NoteOff) Clone() Event         { c := *e; return &c }
func (e *NoteOff) Bytes() []byte {
	return gomidi.NoteOffVelocity(e.Channel, e.Key, e.Velocity)
}

// PolyphonicKeyPressure is per-key aftertouch
type PolyphonicKeyPressure struct {
	Timing
	Channel  uint8
	Key      uint8
	Pressure uint8
}

func (e *PolyphonicKeyPressure) Kind() Kind           { return KindPolyphonicKeyPressure }
func (e *PolyphonicKeyPressure) ChannelNumber() uint8 { return e.Channel }
func (e *PolyphonicKeyPressure) Clone() Event         { c := *e; return &c }
func (e *PolyphonicKeyPressure) Bytes() []byte {
	return gomidi.PolyAfterTouch(e.Channel, e.Key, e.Pressure)
}

type ControlChange struct {
	Timing
	Channel    uint8
	Controller uint8
	Value      uint8
}

func (e *ControlChange) Kind() Kind           { return KindControlChange }
func (e *ControlChange) ChannelNumber() uint8 { return e.Channel }
func (e *ControlChange) Clone() Event         { c := *e; return &c }
func (e *ControlChange) Bytes() []byte {
	return gomidi.ControlChange(e.Channel, e.Controller, e.Value)
}

type ProgramChange struct {
	Timing
	Channel uint8
	Program uint8
}

func (e *ProgramChange) Kind() Kind           { return KindProgramChange }
func (e *ProgramChange) ChannelNumber() uint8 { return e.Channel }
func (e *ProgramChange) Clone() Event         { c := *e; return &c }
func (e *ProgramChange) Bytes() []byte {
	return gomidi.ProgramChange(e.Channel, e.Program)
}

// ChannelPressure is channel-wide aftertouch
type ChannelPressure struct {
	Timing
	Channel  uint8
	Pressure uint8
}

func (e *ChannelPressure) Kind() Kind           { return KindChannelPressure }
func (e *ChannelPressure) ChannelNumber() uint8 { return e.Channel }
func (e *ChannelPressure) Clone() Event         { c := *e; return &c }
func (e *ChannelPressure) Bytes() []byte {
	return gomidi.AfterTouch(e.Channel, e.Pressure)
}

// PitchBend carries a signed bend in [-8192, 8191], 0 being centered.
type PitchBend struct {
	Timing
	Channel uint8
	Value   int16
}

func (e *PitchBend) Kind() Kind           { return KindPitchBend }
func (e *PitchBend) ChannelNumber() uint8 { return e.Channel }
func (e *PitchBend) Clone() Event         { c := *e; return &c }
func (e *PitchBend) Bytes() []byte {
	return gomidi.Pitchbend(e.Channel, e.Value)
}
