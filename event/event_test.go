package event

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/japanese"
)

func TestBytes(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want []byte
	}{
		{name: "note on", ev: NewNoteOn(0, 1, 60, 100), want: []byte{0x91, 60, 100}},
		{name: "note off", ev: &NoteOff{Channel: 2, Key: 61, Velocity: 64}, want: []byte{0x82, 61, 64}},
		{name: "poly pressure", ev: &PolyphonicKeyPressure{Channel: 3, Key: 10, Pressure: 20}, want: []byte{0xA3, 10, 20}},
		{name: "control change", ev: &ControlChange{Channel: 0, Controller: 7, Value: 127}, want: []byte{0xB0, 7, 127}},
		{name: "program change", ev: &ProgramChange{Channel: 9, Program: 5}, want: []byte{0xC9, 5}},
		{name: "channel pressure", ev: &ChannelPressure{Channel: 4, Pressure: 33}, want: []byte{0xD4, 33}},
		{name: "pitch bend center", ev: &PitchBend{Channel: 0, Value: 0}, want: []byte{0xE0, 0x00, 0x40}},
		{name: "pitch bend min", ev: &PitchBend{Channel: 0, Value: -8192}, want: []byte{0xE0, 0x00, 0x00}},
		{name: "pitch bend max", ev: &PitchBend{Channel: 0, Value: 8191}, want: []byte{0xE0, 0x7F, 0x7F}},
		{name: "sysex", ev: &SysEx{Data: []byte{0xF0, 0x7E, 0x7F, 0xF7}}, want: []byte{0xF0, 0x7E, 0x7F, 0xF7}},
		{name: "song position", ev: &SongPositionPointer{Position: 0x3FFF}, want: []byte{0xF2, 0x7F, 0x7F}},
		{name: "song select", ev: &SongSelect{Song: 3}, want: []byte{0xF3, 3}},
		{name: "tune request", ev: &TuneRequest{}, want: []byte{0xF6}},
		{name: "realtime", ev: &Realtime{Command: StatusClock}, want: []byte{0xF8}},
		{name: "track start", ev: &TrackStart{Sequence: 0x0102}, want: []byte{0xFF, 0x00, 0x02, 0x01, 0x02}},
		{name: "track end", ev: &TrackEnd{}, want: []byte{0xFF, 0x2F, 0x00}},
		{name: "channel prefix", ev: &ChannelPrefix{Channel: 5}, want: []byte{0xFF, 0x20, 0x01, 0x05}},
		{name: "midi port", ev: &MIDIPort{Port: 2}, want: []byte{0xFF, 0x21, 0x01, 0x02}},
		{name: "tempo", ev: &Tempo{MicrosPerQuarter: 500000}, want: []byte{0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20}},
		{name: "smpte", ev: &SMPTEOffset{Hours: 1, Minutes: 2, Seconds: 3, Frames: 4, FractionalFrame: 5}, want: []byte{0xFF, 0x54, 0x05, 1, 2, 3, 4, 5}},
		{name: "time signature", ev: &TimeSignature{Numerator: 6, Denominator: 3, ClocksPerClick: 24, ThirtySecondsPerQN: 8}, want: []byte{0xFF, 0x58, 0x04, 6, 3, 24, 8}},
		{name: "key signature", ev: &KeySignature{SharpsFlats: -3, Minor: 1}, want: []byte{0xFF, 0x59, 0x02, 0xFD, 0x01}},
		{name: "text", ev: &Text{Type: MetaTrackName, Data: []byte("Piano")}, want: append([]byte{0xFF, 0x03, 0x05}, "Piano"...)},
		{name: "color", ev: &Color{Channel: 0x7F, Event: RGBA{1, 2, 3, 4}}, want: []byte{0xFF, 0x0A, 0x08, 0x00, 0x0F, 0x7F, 0x00, 1, 2, 3, 4}},
		{name: "undefined", ev: NewUndefined(0, 0xF4), want: []byte{0xF4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.Bytes(); !bytes.Equal(got, tt.want) {
				t.Errorf("Bytes() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	events := []Event{
		NewNoteOn(10, 0, 60, 100),
		NewNoteOff(10, 0, 60),
		&PitchBend{Timing: Timing{10}, Value: -5},
		&SysEx{Timing: Timing{10}, Data: []byte{0xF0, 0x01, 0xF7}},
		&Text{Timing: Timing{10}, Type: MetaLyric, Data: []byte("la")},
		&Color{Timing: Timing{10}, Channel: 1},
		&Tempo{Timing: Timing{10}, MicrosPerQuarter: 1},
		NewUndefined(10, 0),
	}

	for _, ev := range events {
		t.Run(ev.Kind().String(), func(t *testing.T) {
			c := ev.Clone()
			if c.Kind() != ev.Kind() {
				t.Fatalf("Clone() kind = %v, want %v", c.Kind(), ev.Kind())
			}
			if !bytes.Equal(c.Bytes(), ev.Bytes()) {
				t.Errorf("Clone() bytes = % X, want % X", c.Bytes(), ev.Bytes())
			}
			c.SetDelta(99)
			if ev.Delta() != 10 {
				t.Errorf("original delta = %d after changing clone, want 10", ev.Delta())
			}
		})
	}
}

func TestCloneCopiesPayload(t *testing.T) {
	sx := &SysEx{Data: []byte{0xF0, 0x01, 0xF7}}
	sc := sx.Clone().(*SysEx)
	sc.Data[1] = 0x02
	if sx.Data[1] != 0x01 {
		t.Errorf("SysEx clone shares payload")
	}

	tx := &Text{Data: []byte("abc")}
	tc := tx.Clone().(*Text)
	tc.Data[0] = 'x'
	if string(tx.Data) != "abc" {
		t.Errorf("Text clone shares payload")
	}
}

func TestChannelOf(t *testing.T) {
	tests := []struct {
		ev     Event
		want   uint8
		wantOK bool
	}{
		{ev: NewNoteOn(0, 7, 1, 1), want: 7, wantOK: true},
		{ev: &ControlChange{Channel: 15}, want: 15, wantOK: true},
		{ev: &PitchBend{Channel: 3}, want: 3, wantOK: true},
		{ev: &Tempo{}, wantOK: false},
		{ev: &ChannelPrefix{Channel: 4}, wantOK: false},
		{ev: &SysEx{}, wantOK: false},
	}

	for _, tt := range tests {
		got, ok := ChannelOf(tt.ev)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ChannelOf(%v) = %d, %v; want %d, %v", tt.ev.Kind(), got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := KindPolyphonicKeyPressure.String(); got != "PolyKeyPressure" {
		t.Errorf("String() = %q", got)
	}
	if got := KindColor.String(); got != "Color" {
		t.Errorf("String() = %q", got)
	}
	if got := Kind(-1).String(); got != "Kind(?)" {
		t.Errorf("String() = %q", got)
	}
}

func TestTextDecode(t *testing.T) {
	sjis, err := japanese.ShiftJIS.NewEncoder().String("ピアノ")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		data    []byte
		enc     string
		want    string
		wantErr bool
	}{
		{name: "utf-8", data: []byte("héllo"), enc: EncodingUTF8, want: "héllo"},
		{name: "default is utf-8", data: []byte("plain"), enc: "", want: "plain"},
		{name: "invalid utf-8 falls back to latin1", data: []byte{'c', 'a', 'f', 0xE9}, enc: EncodingUTF8, want: "café"},
		{name: "latin1", data: []byte{0xC0, 0xFF}, enc: EncodingLatin1, want: "Àÿ"},
		{name: "shift-jis", data: []byte(sjis), enc: EncodingShiftJIS, want: "ピアノ"},
		{name: "shift-jis alias", data: []byte(sjis), enc: "Shift_JIS", want: "ピアノ"},
		{name: "windows-1252", data: []byte{0x80}, enc: "windows-1252", want: "€"},
		{name: "unknown encoding", data: []byte("x"), enc: "ebcdic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txt := &Text{Type: MetaTrackName, Data: tt.data}
			got, err := txt.Decode(tt.enc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeName(t *testing.T) {
	if got := (&Text{Type: MetaLyric}).TypeName(); got != "lyric" {
		t.Errorf("TypeName() = %q, want lyric", got)
	}
	if got := (&Text{Type: 0x7F}).TypeName(); got != "sequencer specific" {
		t.Errorf("TypeName() = %q", got)
	}
}

func TestMetaHelpers(t *testing.T) {
	ts := &TimeSignature{Numerator: 6, Denominator: 3}
	if got := ts.String(); got != "6/8" {
		t.Errorf("TimeSignature.String() = %q, want 6/8", got)
	}
	if got := (&Tempo{MicrosPerQuarter: 500000}).BPM(); got != 120 {
		t.Errorf("BPM() = %v, want 120", got)
	}
	if got := (&Tempo{}).BPM(); got != 0 {
		t.Errorf("BPM() of zero tempo = %v, want 0", got)
	}
	if got := (&Realtime{Command: StatusStop}).Name(); got != "Stop" {
		t.Errorf("Name() = %q", got)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{name: "note on", ev: NewNoteOn(0, 0, 60, 100), want: "60"},
		{name: "tempo", ev: &Tempo{MicrosPerQuarter: 500000}, want: "120.00 bpm"},
		{name: "text", ev: &Text{Type: MetaMarker, Data: []byte("verse")}, want: `marker: "verse"`},
		{name: "key signature", ev: &KeySignature{SharpsFlats: -2, Minor: 1}, want: "-2 minor"},
		{name: "color with track", ev: &Color{Channel: 3, HasTrack: true, Track: RGBA{9, 9, 9, 9}}, want: "track rgba(9,9,9,9)"},
		{name: "undefined", ev: NewUndefined(0, 0xFD), want: "0xFD"},
		{name: "realtime", ev: &Realtime{Command: StatusClock}, want: "Clock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.ev, EncodingUTF8); !strings.Contains(got, tt.want) {
				t.Errorf("Describe() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestNote(t *testing.T) {
	n := Note{Start: 100, Length: 20}
	if n.End() != 120 {
		t.Errorf("End() = %d, want 120", n.End())
	}
}

func TestTicksToDuration(t *testing.T) {
	tests := []struct {
		ticks uint64
		ppq   uint16
		tempo uint32
		want  time.Duration
	}{
		{ticks: 480, ppq: 480, tempo: 500000, want: 500 * time.Millisecond},
		{ticks: 960, ppq: 480, tempo: 500000, want: time.Second},
		{ticks: 96, ppq: 96, tempo: 1000000, want: time.Second},
		{ticks: 10, ppq: 0, tempo: 500000, want: 0},
	}

	for _, tt := range tests {
		if got := TicksToDuration(tt.ticks, tt.ppq, tt.tempo); got != tt.want {
			t.Errorf("TicksToDuration(%d, %d, %d) = %v, want %v", tt.ticks, tt.ppq, tt.tempo, got, tt.want)
		}
	}
}

func TestPools(t *testing.T) {
	p := NewPools(1)
	on := p.NoteOn()
	on.Key = 60
	p.Put(on)
	p.Put(&Tempo{}) // ignored

	again := p.NoteOn()
	if again != on {
		t.Errorf("NoteOn() did not reuse the returned event")
	}
	if again.Key != 0 {
		t.Errorf("reused NoteOn not zeroed: %+v", again)
	}

	var none *Pools
	if none.NoteOff() == nil || none.NoteOn() == nil {
		t.Errorf("nil Pools must allocate")
	}
	none.Put(on)
}
