package event

// SysEx holds a system exclusive message, including the leading 0xF0 and
// the terminating 0xF7.
type SysEx struct {
	Timing
	Data []byte
}

func (e *SysEx) Kind() Kind { return KindSysEx }

func (e *SysEx) Clone() Event {
	return &SysEx{e.Timing, append([]byte(nil), e.Data...)}
}

func (e *SysEx) Bytes() []byte {
	return append([]byte(nil), e.Data...)
}

// SongPositionPointer is a 14-bit position counted in MIDI beats.
type SongPositionPointer struct {
	Timing
	Position uint16
}

func (e *SongPositionPointer) Kind() Kind   { return KindSongPositionPointer }
func (e *SongPositionPointer) Clone() Event { c := *e; return &c }
func (e *SongPositionPointer) Bytes() []byte {
	return []byte{StatusSongPosition, byte(e.Position & 0x7F), byte(e.Position>>7) & 0x7F}
}

type SongSelect struct {
	Timing
	Song uint8
}

func (e *SongSelect) Kind() Kind    { return KindSongSelect }
func (e *SongSelect) Clone() Event  { c := *e; return &c }
func (e *SongSelect) Bytes() []byte { return []byte{StatusSongSelect, e.Song} }

type TuneRequest struct {
	Timing
}

func (e *TuneRequest) Kind() Kind    { return KindTuneRequest }
func (e *TuneRequest) Clone() Event  { c := *e; return &c }
func (e *TuneRequest) Bytes() []byte { return []byte{StatusTuneRequest} }

// Realtime is one of the zero-argument system realtime messages:
// Clock, Start, Continue, Stop or ActiveSensing.
type Realtime struct {
	Timing
	Command uint8
}

func (e *Realtime) Kind() Kind    { return KindRealtime }
func (e *Realtime) Clone() Event  { c := *e; return &c }
func (e *Realtime) Bytes() []byte { return []byte{e.Command} }

func (e *Realtime) Name() string {
	switch e.Command {
	case StatusClock:
		return "Clock"
	case StatusStart:
		return "Start"
	case StatusContinue:
		return "Continue"
	case StatusStop:
		return "Stop"
	case StatusActiveSense:
		return "ActiveSensing"
	}
	return "Realtime"
}

// Undefined is a reserved system byte or an unrecognized meta sub-type.
// Only the command byte is kept. The tolerant decoder also uses a
// zero-command Undefined as the sentinel for a malformed event.
type Undefined struct {
	Timing
	Command uint8
}

func NewUndefined(delta uint64, command uint8) *Undefined {
	return &Undefined{Timing{delta}, command}
}

func (e *Undefined) Kind() Kind    { return KindUndefined }
func (e *Undefined) Clone() Event  { c := *e; return &c }
func (e *Undefined) Bytes() []byte { return []byte{e.Command} }
