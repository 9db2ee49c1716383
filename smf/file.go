// Package smf indexes Standard MIDI Files and decodes their tracks lazily,
// one event per pull.
package smf

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"os"

	"go-midistream/debug"
	"go-midistream/event"
	"go-midistream/merge"
)

const (
	headerMagic = "MThd"
	trackMagic  = "MTrk"

	headerLength = 6
	chunkHeader  = 8
)

// ChunkPointer locates the event bytes of one track chunk.
type ChunkPointer struct {
	Offset int64
	Length uint32
}

// File is an indexed MIDI file. Only chunk headers are read when the file is
// opened; track bytes are decoded on demand.
type File struct {
	r      io.ReaderAt
	closer io.Closer
	size   int64
	opts   Options
	pools  *event.Pools

	format   uint16
	declared uint16
	division uint16
	chunks   []ChunkPointer
}

// Open opens and indexes the file at path.
func Open(path string, opts Options) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	mf, err := NewFile(f, info.Size(), opts)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	mf.closer = f
	return mf, nil
}

// NewFile indexes a MIDI file of the given size read through r.
func NewFile(r io.ReaderAt, size int64, opts Options) (*File, error) {
	opts = opts.withDefaults()
	f := &File{r: r, size: size, opts: opts}
	if opts.Pooled {
		f.pools = event.NewPools(opts.PoolSize)
	}
	if err := f.readHeader(); err != nil {
		return nil, err
	}
	if err := f.scanChunks(); err != nil {
		return nil, err
	}
	debug.Log("smf", "indexed %d track chunks (header declares %d), format %d, division %d",
		len(f.chunks), f.declared, f.format, f.division)
	return f, nil
}

func (f *File) readAt(op string, buf []byte, off int64) error {
	n, err := f.r.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || err == io.EOF {
		return &FormatError{Op: op, Offset: off, Err: ErrTruncated}
	}
	return fmt.Errorf("smf: read %s: %w", op, err)
}

func (f *File) readHeader() error {
	var hdr [chunkHeader + headerLength]byte
	if err := f.readAt("header", hdr[:], 0); err != nil {
		return err
	}
	if string(hdr[:4]) != headerMagic {
		return &FormatError{Op: "header", Offset: 0, Err: fmt.Errorf("%w: %q", ErrBadMagic, hdr[:4])}
	}
	if n := binary.BigEndian.Uint32(hdr[4:8]); n != headerLength {
		return &FormatError{Op: "header", Offset: 4, Err: fmt.Errorf("%w: header chunk is %d bytes, want %d", ErrBadLength, n, headerLength)}
	}
	f.format = binary.BigEndian.Uint16(hdr[8:10])
	f.declared = binary.BigEndian.Uint16(hdr[10:12])
	f.division = binary.BigEndian.Uint16(hdr[12:14])
	return nil
}

// scanChunks records every track chunk. The header's track count is not
// used; the chunks found are the tracks. A chunk running past the end of
// the file is kept with its stated length and ends the scan; decoding that
// track reports the missing bytes.
func (f *File) scanChunks() error {
	off := int64(chunkHeader + headerLength)
	var hdr [chunkHeader]byte
	for off < f.size {
		if err := f.readAt("track chunk", hdr[:], off); err != nil {
			return err
		}
		if string(hdr[:4]) != trackMagic {
			return &FormatError{Op: "track chunk", Offset: off, Err: fmt.Errorf("%w: %q", ErrBadMagic, hdr[:4])}
		}
		length := binary.BigEndian.Uint32(hdr[4:])
		start := off + chunkHeader
		f.chunks = append(f.chunks, ChunkPointer{Offset: start, Length: length})
		if missing := start + int64(length) - f.size; missing > 0 {
			debug.Log("smf", "track %d at offset %d is %d bytes short of its stated length %d",
				len(f.chunks)-1, off, missing, length)
			break
		}
		off = start + int64(length)
	}
	return nil
}

// Format is the SMF format (0, 1 or 2).
func (f *File) Format() uint16 { return f.format }

// DeclaredTracks is the track count stated in the header. It may disagree
// with TrackCount.
func (f *File) DeclaredTracks() uint16 { return f.declared }

// TrackCount is the number of track chunks present.
func (f *File) TrackCount() int { return len(f.chunks) }

// PPQ is the time division in ticks per quarter note.
func (f *File) PPQ() uint16 { return f.division }

// SMPTE decodes the time division when it is given in SMPTE frames rather
// than ticks per quarter note.
func (f *File) SMPTE() (framesPerSecond uint8, ticksPerFrame uint8, ok bool) {
	if f.division&0x8000 == 0 {
		return 0, 0, false
	}
	return uint8(-int8(f.division >> 8)), uint8(f.division), true
}

// Chunk returns the location of track i.
func (f *File) Chunk(i int) ChunkPointer { return f.chunks[i] }

// Decoder starts a fresh decode session over track i.
func (f *File) Decoder(i int) (*Decoder, error) {
	if i < 0 || i >= len(f.chunks) {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoTrack, i, len(f.chunks))
	}
	c := f.chunks[i]
	section := io.NewSectionReader(f.r, c.Offset, int64(c.Length))
	d := newDecoder(bufio.NewReaderSize(section, f.opts.ReadBufferSize), f.opts, f.pools)
	d.base = c.Offset
	d.size = int64(c.Length)
	return d, nil
}

// Track returns the events of track i, stopping at the first decode error.
// Each range over the sequence decodes the track again from its chunk.
func (f *File) Track(i int) iter.Seq2[event.Event, error] {
	return func(yield func(event.Event, error) bool) {
		d, err := f.Decoder(i)
		if err != nil {
			yield(nil, err)
			return
		}
		for ev, err := range Strict(d) {
			if !yield(ev, err) {
				return
			}
		}
	}
}

// TolerantTrack returns the events of track i, substituting malformed
// events with Undefined sentinels.
func (f *File) TolerantTrack(i int) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		d, err := f.Decoder(i)
		if err != nil {
			debug.Log("smf", "%v", err)
			return
		}
		for ev := range Tolerant(d) {
			if !yield(ev) {
				return
			}
		}
	}
}

// Tracks returns a tolerant sequence per track.
func (f *File) Tracks() []iter.Seq[event.Event] {
	seqs := make([]iter.Seq[event.Event], len(f.chunks))
	for i := range f.chunks {
		seqs[i] = f.TolerantTrack(i)
	}
	return seqs
}

// StrictTracks returns a sequence per track that ends at the first decode
// error; the error is recorded in errs.
func (f *File) StrictTracks(errs *Errors) []iter.Seq[event.Event] {
	seqs := make([]iter.Seq[event.Event], len(f.chunks))
	for i := range f.chunks {
		seqs[i] = errs.Events(f.Track(i))
	}
	return seqs
}

// Merged returns all tracks combined into one delta-coded sequence.
func (f *File) Merged() iter.Seq[event.Event] {
	return merge.AllEvents(f.Tracks())
}

// MergeOptions selects how Merge reads the tracks.
type MergeOptions struct {
	// Strict ends a track at its first decode error instead of substituting
	// sentinels. The error is reported through the returned Errors.
	Strict bool
	// Prefetch > 0 decodes every track on its own goroutine, buffering up to
	// Prefetch events per track.
	Prefetch int
}

// Merge combines all tracks into one delta-coded sequence.
func (f *File) Merge(ctx context.Context, mo MergeOptions) (iter.Seq[event.Event], *Errors) {
	errs := &Errors{}
	seqs := f.Tracks()
	if mo.Strict {
		seqs = f.StrictTracks(errs)
	}
	if mo.Prefetch > 0 {
		for i, s := range seqs {
			seqs[i] = merge.Prefetch(ctx, s, mo.Prefetch)
		}
	}
	return merge.AllEvents(seqs), errs
}

// Return hands a consumed event back for reuse when pooling is enabled.
func (f *File) Return(ev event.Event) {
	if f.pools != nil {
		f.pools.Put(ev)
	}
}

// Close releases the file opened by Open.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}
