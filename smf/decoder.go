package smf

import (
	"errors"
	"fmt"
	"io"

	"go-midistream/event"
	"go-midistream/vlq"
)

// byteSource is a sequential reader with an explicit one-byte pushback slot.
// It counts consumed bytes so errors can report offsets.
type byteSource struct {
	r          io.ByteReader
	pending    byte
	hasPending bool
	pos        int64
}

func (s *byteSource) ReadByte() (byte, error) {
	if s.hasPending {
		s.hasPending = false
		return s.pending, nil
	}
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}
	s.pos++
	return b, nil
}

func (s *byteSource) unread(b byte) {
	s.pending = b
	s.hasPending = true
}

// offset is the position of the next byte ReadByte will return.
func (s *byteSource) offset() int64 {
	if s.hasPending {
		return s.pos - 1
	}
	return s.pos
}

// Decoder turns the bytes of one track chunk into events, one per Next call.
// A Decoder lives for exactly one pass over a track.
type Decoder struct {
	src   byteSource
	opts  Options
	pools *event.Pools
	base  int64 // file offset of the first track byte, for error reports
	size  int64 // length stated by the chunk header, 0 if unknown

	running   byte // last channel voice status
	trackTime uint64
	lastDelta uint64
	evStart   int64
	ended     bool
}

// NewDecoder creates a decoder reading event bytes from r. The caller bounds
// r to a single track.
func NewDecoder(r io.ByteReader, opts Options) *Decoder {
	opts = opts.withDefaults()
	var pools *event.Pools
	if opts.Pooled {
		pools = event.NewPools(opts.PoolSize)
	}
	return newDecoder(r, opts, pools)
}

func newDecoder(r io.ByteReader, opts Options, pools *event.Pools) *Decoder {
	return &Decoder{
		src:   byteSource{r: r},
		opts:  opts,
		pools: pools,
	}
}

// TrackTime returns the absolute tick of the most recently decoded event.
func (d *Decoder) TrackTime() uint64 {
	return d.trackTime
}

// LastDelta returns the delta time read for the most recent event, including
// one that failed to decode.
func (d *Decoder) LastDelta() uint64 {
	return d.lastDelta
}

// Ended reports whether the end of the track has been reached.
func (d *Decoder) Ended() bool {
	return d.ended
}

// Next decodes the next event. It returns io.EOF once the TrackEnd meta
// event is seen or the track bytes run out between events, and keeps
// returning io.EOF after that. Malformed data yields a *FormatError; the
// decoder stays usable and the next call resumes after the bad element.
func (d *Decoder) Next() (event.Event, error) {
	if d.ended {
		return nil, io.EOF
	}
	d.evStart = d.src.offset()
	d.lastDelta = 0

	delta, err := vlq.Read(&d.src)
	if err != nil {
		if err == io.EOF {
			d.ended = true
			if d.src.pos < d.size {
				return nil, d.fail("delta time", ErrTruncated)
			}
			return nil, io.EOF
		}
		return nil, d.fail("delta time", err)
	}
	d.lastDelta = delta
	d.trackTime += delta

	status, err := d.src.ReadByte()
	if err != nil {
		return nil, d.fail("status", err)
	}
	if status < 0x80 {
		if d.running == 0 {
			return nil, d.fail("running status", ErrRunningStatus)
		}
		d.src.unread(status)
		status = d.running
	}

	if status < 0xF0 {
		d.running = status
		return d.channelEvent(delta, status)
	}
	if status == event.StatusMeta {
		return d.metaEvent(delta)
	}
	return d.systemEvent(delta, status)
}

func (d *Decoder) fail(op string, err error) error {
	if err == io.EOF || errors.Is(err, vlq.ErrTruncated) {
		err = ErrTruncated
	}
	if errors.Is(err, ErrTruncated) {
		// nothing left to resume from
		d.ended = true
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		return err
	}
	switch {
	case errors.Is(err, ErrTruncated), errors.Is(err, ErrBadLength),
		errors.Is(err, ErrRunningStatus), errors.Is(err, ErrStraySysExEnd):
		return &FormatError{Op: op, Offset: d.base + d.evStart, Err: err}
	}
	return fmt.Errorf("smf: read %s: %w", op, err)
}

func (d *Decoder) read1(op string) (byte, error) {
	b, err := d.src.ReadByte()
	if err != nil {
		return 0, d.fail(op, err)
	}
	return b, nil
}

func (d *Decoder) read2(op string) (byte, byte, error) {
	b1, err := d.read1(op)
	if err != nil {
		return 0, 0, err
	}
	b2, err := d.read1(op)
	if err != nil {
		return 0, 0, err
	}
	return b1, b2, nil
}

// readN reads n bytes without trusting n for the allocation size.
func (d *Decoder) readN(op string, n uint64) ([]byte, error) {
	var data []byte
	if n <= 4096 {
		data = make([]byte, 0, n)
	}
	for i := uint64(0); i < n; i++ {
		b, err := d.read1(op)
		if err != nil {
			return nil, err
		}
		data = append(data, b)
	}
	return data, nil
}

func (d *Decoder) skip(op string, n uint64) error {
	for i := uint64(0); i < n; i++ {
		if _, err := d.read1(op); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) channelEvent(delta uint64, status byte) (event.Event, error) {
	ch := status & 0x0F
	switch status & 0xF0 {
	case event.StatusNoteOn:
		key, vel, err := d.read2("note on")
		if err != nil {
			return nil, err
		}
		if vel == 0 && !d.opts.ZeroVelocityNoteOns {
			return d.noteOff(delta, ch, key, 0), nil
		}
		ev := d.pools.NoteOn()
		ev.DeltaTime, ev.Channel, ev.Key, ev.Velocity = delta, ch, key, vel
		return ev, nil

	case event.StatusNoteOff:
		key, vel, err := d.read2("note off")
		if err != nil {
			return nil, err
		}
		return d.noteOff(delta, ch, key, vel), nil

	case event.StatusPolyPressure:
		key, p, err := d.read2("poly pressure")
		if err != nil {
			return nil, err
		}
		return &event.PolyphonicKeyPressure{Timing: event.Timing{DeltaTime: delta}, Channel: ch, Key: key, Pressure: p}, nil

	case event.StatusControlChange:
		cc, v, err := d.read2("control change")
		if err != nil {
			return nil, err
		}
		return &event.ControlChange{Timing: event.Timing{DeltaTime: delta}, Channel: ch, Controller: cc, Value: v}, nil

	case event.StatusProgramChange:
		p, err := d.read1("program change")
		if err != nil {
			return nil, err
		}
		return &event.ProgramChange{Timing: event.Timing{DeltaTime: delta}, Channel: ch, Program: p}, nil

	case event.StatusChannelPressure:
		p, err := d.read1("channel pressure")
		if err != nil {
			return nil, err
		}
		return &event.ChannelPressure{Timing: event.Timing{DeltaTime: delta}, Channel: ch, Pressure: p}, nil

	default: // pitch bend
		lo, hi, err := d.read2("pitch bend")
		if err != nil {
			return nil, err
		}
		v := int16(uint16(hi&0x7F)<<7|uint16(lo&0x7F)) - 8192
		return &event.PitchBend{Timing: event.Timing{DeltaTime: delta}, Channel: ch, Value: v}, nil
	}
}

func (d *Decoder) noteOff(delta uint64, ch, key, vel byte) *event.NoteOff {
	ev := d.pools.NoteOff()
	ev.DeltaTime, ev.Channel, ev.Key, ev.Velocity = delta, ch, key, vel
	return ev
}

func (d *Decoder) systemEvent(delta uint64, status byte) (event.Event, error) {
	t := event.Timing{DeltaTime: delta}
	switch status {
	case event.StatusSysEx:
		data := []byte{status}
		for {
			b, err := d.read1("sysex")
			if err != nil {
				return nil, err
			}
			data = append(data, b)
			if b == event.StatusSysExEnd {
				return &event.SysEx{Timing: t, Data: data}, nil
			}
		}

	case event.StatusSongPosition:
		lo, hi, err := d.read2("song position")
		if err != nil {
			return nil, err
		}
		return &event.SongPositionPointer{Timing: t, Position: uint16(hi&0x7F)<<7 | uint16(lo&0x7F)}, nil

	case event.StatusSongSelect:
		s, err := d.read1("song select")
		if err != nil {
			return nil, err
		}
		return &event.SongSelect{Timing: t, Song: s}, nil

	case event.StatusTuneRequest:
		return &event.TuneRequest{Timing: t}, nil

	case event.StatusSysExEnd:
		return nil, d.fail("sysex end", ErrStraySysExEnd)

	case event.StatusClock, event.StatusStart, event.StatusContinue, event.StatusStop, event.StatusActiveSense:
		return &event.Realtime{Timing: t, Command: status}, nil
	}
	// 0xF1, 0xF4, 0xF5, 0xF9, 0xFD
	return &event.Undefined{Timing: t, Command: status}, nil
}

// fixedMeta reads the single length byte of a fixed-size meta event and its
// payload. On a length mismatch the declared bytes are skipped so the
// stream stays aligned on the next event. A length byte with the high bit
// set is not a length at all, so nothing after it is skipped.
func (d *Decoder) fixedMeta(op string, want uint64) ([]byte, error) {
	n, err := d.read1(op)
	if err != nil {
		return nil, err
	}
	if uint64(n) != want {
		if n < 0x80 {
			if err := d.skip(op, uint64(n)); err != nil {
				return nil, err
			}
		}
		return nil, d.fail(op, fmt.Errorf("%w: expected %d, got %d", ErrBadLength, want, n))
	}
	return d.readN(op, want)
}

func (d *Decoder) metaEvent(delta uint64) (event.Event, error) {
	t := event.Timing{DeltaTime: delta}
	sub, err := d.read1("meta type")
	if err != nil {
		return nil, err
	}

	switch sub {
	case event.MetaTrackStart:
		b, err := d.fixedMeta("track start", 2)
		if err != nil {
			return nil, err
		}
		return &event.TrackStart{Timing: t, Sequence: uint16(b[0])<<8 | uint16(b[1])}, nil

	case event.MetaTrackEnd:
		if _, err := d.fixedMeta("track end", 0); err != nil {
			return nil, err
		}
		d.ended = true
		return nil, io.EOF

	case event.MetaChannelPrefix:
		b, err := d.fixedMeta("channel prefix", 1)
		if err != nil {
			return nil, err
		}
		return &event.ChannelPrefix{Timing: t, Channel: b[0]}, nil

	case event.MetaMIDIPort:
		b, err := d.fixedMeta("midi port", 1)
		if err != nil {
			return nil, err
		}
		return &event.MIDIPort{Timing: t, Port: b[0]}, nil

	case event.MetaTempo:
		b, err := d.fixedMeta("tempo", 3)
		if err != nil {
			return nil, err
		}
		return &event.Tempo{Timing: t, MicrosPerQuarter: uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])}, nil

	case event.MetaSMPTEOffset:
		b, err := d.fixedMeta("smpte offset", 5)
		if err != nil {
			return nil, err
		}
		return &event.SMPTEOffset{Timing: t, Hours: b[0], Minutes: b[1], Seconds: b[2], Frames: b[3], FractionalFrame: b[4]}, nil

	case event.MetaTimeSignature:
		b, err := d.fixedMeta("time signature", 4)
		if err != nil {
			return nil, err
		}
		return &event.TimeSignature{Timing: t, Numerator: b[0], Denominator: b[1], ClocksPerClick: b[2], ThirtySecondsPerQN: b[3]}, nil

	case event.MetaKeySignature:
		b, err := d.fixedMeta("key signature", 2)
		if err != nil {
			return nil, err
		}
		return &event.KeySignature{Timing: t, SharpsFlats: int8(b[0]), Minor: b[1]}, nil
	}

	n, err := vlq.Read(&d.src)
	if err != nil {
		return nil, d.fail("meta length", err)
	}
	if (sub >= event.MetaText && sub <= event.MetaColor) || sub == event.MetaSequencerSpecific {
		data, err := d.readN("meta text", n)
		if err != nil {
			return nil, err
		}
		if c, ok := colorEvent(t, sub, data); ok {
			return c, nil
		}
		return &event.Text{Timing: t, Type: sub, Data: data}, nil
	}

	if err := d.skip("meta", n); err != nil {
		return nil, err
	}
	return &event.Undefined{Timing: t, Command: sub}, nil
}

func colorEvent(t event.Timing, sub byte, data []byte) (*event.Color, bool) {
	if sub != event.MetaColor || (len(data) != 8 && len(data) != 12) {
		return nil, false
	}
	if data[0] != 0x00 || data[1] != 0x0F || !(data[2] < 16 || data[2] == 0x7F) || data[3] != 0x00 {
		return nil, false
	}
	c := &event.Color{
		Timing:  t,
		Channel: data[2],
		Event:   event.RGBA{R: data[4], G: data[5], B: data[6], A: data[7]},
	}
	if len(data) == 12 {
		c.Track = event.RGBA{R: data[8], G: data[9], B: data[10], A: data[11]}
		c.HasTrack = true
	}
	return c, true
}
