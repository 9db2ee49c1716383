package merge

import (
	"iter"

	"go-midistream/event"
)

// Queue is a front-poppable, delta-coded list of events waiting to be merged
// into another sequence. The first entry's delta is measured from the start
// of the sequence it is merged into; each later entry is relative to the
// entry before it.
type Queue struct {
	events []event.Event
	head   int
}

func (q *Queue) Push(ev event.Event) {
	q.events = append(q.events, ev)
}

func (q *Queue) Len() int {
	return len(q.events) - q.head
}

// Front returns the next event without removing it, or nil.
func (q *Queue) Front() event.Event {
	if q.Len() == 0 {
		return nil
	}
	return q.events[q.head]
}

// Pop removes and returns the next event, or nil.
func (q *Queue) Pop() event.Event {
	if q.Len() == 0 {
		return nil
	}
	ev := q.events[q.head]
	q.events[q.head] = nil
	q.head++
	if q.head > 32 && q.head*2 > len(q.events) {
		n := copy(q.events, q.events[q.head:])
		q.events = q.events[:n]
		q.head = 0
	}
	return ev
}

// WithBuffer interleaves the queued events into seq. A queued event is
// emitted before a sequence event only when it is strictly earlier; the
// queue is drained after seq ends.
func WithBuffer(seq iter.Seq[event.Event], buf *Queue) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		// ticks emitted since the last queued event went out
		var spent uint64

		popFront := func() event.Event {
			be := buf.Pop().Clone()
			be.SetDelta(sub(be.Delta(), spent))
			spent = 0
			return be
		}

		for ev := range seq {
			e := ev.Clone()
			for buf.Len() > 0 && sub(buf.Front().Delta(), spent) < e.Delta() {
				be := popFront()
				e.SetDelta(e.Delta() - be.Delta())
				if !yield(be) {
					return
				}
			}
			if !yield(e) {
				return
			}
			spent += e.Delta()
		}
		for buf.Len() > 0 {
			if !yield(popFront()) {
				return
			}
		}
	}
}

// sub is a - b clamped at zero. Events pushed behind the current position
// of a running merge come out immediately.
func sub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
