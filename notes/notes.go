// Package notes pairs NoteOn and NoteOff events into absolute-time notes.
package notes

import (
	"iter"

	"go-midistream/event"
)

type voice struct {
	channel, key uint8
}

// pending is a note waiting for its NoteOff, kept in Start order.
type pending struct {
	note   event.Note
	closed bool
}

// FromEvents turns a delta-coded event sequence into notes ordered by Start,
// ties kept in NoteOn order. A NoteOff closes the oldest open note on its
// channel and key; unmatched NoteOffs are ignored. Notes still sounding when
// the sequence ends are released at the time of its last event.
//
// A note is yielded once every note that started before it has been closed,
// so memory grows with the number of overlapping notes, not with the
// length of the sequence.
func FromEvents(seq iter.Seq[event.Event]) iter.Seq[event.Note] {
	return func(yield func(event.Note) bool) {
		var now uint64
		var queue []*pending
		open := make(map[voice][]*pending)

		flush := func() bool {
			for len(queue) > 0 && queue[0].closed {
				n := queue[0].note
				queue[0] = nil
				queue = queue[1:]
				if !yield(n) {
					return false
				}
			}
			return true
		}

		for ev := range seq {
			now += ev.Delta()
			switch e := ev.(type) {
			case *event.NoteOn:
				if e.Velocity == 0 {
					if release(open, voice{e.Channel, e.Key}, now) && !flush() {
						return
					}
					continue
				}
				p := &pending{note: event.Note{Start: now, Key: e.Key, Channel: e.Channel, Velocity: e.Velocity}}
				queue = append(queue, p)
				v := voice{e.Channel, e.Key}
				open[v] = append(open[v], p)
			case *event.NoteOff:
				if release(open, voice{e.Channel, e.Key}, now) && !flush() {
					return
				}
			}
		}

		for _, p := range queue {
			if !p.closed {
				p.note.Length = now - p.note.Start
				p.closed = true
			}
		}
		flush()
	}
}

// release closes the oldest open note for v and reports whether one was open.
func release(open map[voice][]*pending, v voice, now uint64) bool {
	ps := open[v]
	if len(ps) == 0 {
		return false
	}
	p := ps[0]
	if len(ps) == 1 {
		delete(open, v)
	} else {
		open[v] = ps[1:]
	}
	p.note.Length = now - p.note.Start
	p.closed = true
	return true
}

// Collect reads every note of seq into a slice.
func Collect(seq iter.Seq[event.Note]) []event.Note {
	var out []event.Note
	for n := range seq {
		out = append(out, n)
	}
	return out
}

// First returns the first note of seq and stops it there.
func First(seq iter.Seq[event.Note]) (event.Note, bool) {
	for n := range seq {
		return n, true
	}
	return event.Note{}, false
}
