package smf

import (
	"io"
	"iter"
	"sync"

	"go-midistream/debug"
	"go-midistream/event"
)

// Strict yields the events of d until the end of the track. The first
// decode error is yielded once with a nil event and ends the sequence.
func Strict(d *Decoder) iter.Seq2[event.Event, error] {
	return func(yield func(event.Event, error) bool) {
		for {
			ev, err := d.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// Tolerant yields the events of d, replacing each malformed event with a
// zero-command Undefined sentinel that keeps the delta time read for it.
// Reaching the end of the track never produces a sentinel. A read error
// that is not a format error ends the sequence.
func Tolerant(d *Decoder) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		for {
			ev, err := d.Next()
			switch {
			case err == nil:
			case err == io.EOF:
				return
			case IsStructural(err):
				debug.Log("decode", "substituting sentinel: %v", err)
				ev = event.NewUndefined(d.LastDelta(), 0)
			default:
				debug.Log("decode", "stopping track: %v", err)
				return
			}
			if !yield(ev) {
				return
			}
		}
	}
}

// Errors keeps the first error seen by any of several strict sequences, so
// they can be merged like tolerant ones and checked afterwards.
type Errors struct {
	mu  sync.Mutex
	err error
}

// Err returns the first recorded error.
func (e *Errors) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Errors) record(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
	}
}

// Events drops the error half of seq; a decode error ends the returned
// sequence and is recorded.
func (e *Errors) Events(seq iter.Seq2[event.Event, error]) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		for ev, err := range seq {
			if err != nil {
				e.record(err)
				return
			}
			if !yield(ev) {
				return
			}
		}
	}
}
