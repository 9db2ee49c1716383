// Package merge combines lazily produced event and note sequences into one
// ordered sequence.
//
// Two time representations are handled and never mixed in one call: event
// sequences are delta coded (each DeltaTime counts ticks since the previous
// event of the same sequence), note sequences carry absolute Start ticks.
//
// On equal times every merge emits the element of the earlier operand
// first, so merging is stable with respect to input order.
package merge

import (
	"iter"

	"go-midistream/event"
)

// pullClone returns a copy of the next event, or nil when next is exhausted.
// Merges mutate delta times, so they only ever touch copies.
func pullClone(next func() (event.Event, bool)) event.Event {
	ev, ok := next()
	if !ok {
		return nil
	}
	return ev.Clone()
}

// Events merges two delta-coded sequences into one delta-coded sequence in
// chronological order. Emitting an event pays its delta off the pending
// head of the other side. Sequences must not yield nil events.
func Events(a, b iter.Seq[event.Event]) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		nextA, stopA := iter.Pull(a)
		defer stopA()
		nextB, stopB := iter.Pull(b)
		defer stopB()

		ea := pullClone(nextA)
		eb := pullClone(nextB)
		for ea != nil || eb != nil {
			if eb == nil || (ea != nil && ea.Delta() <= eb.Delta()) {
				if eb != nil {
					eb.SetDelta(eb.Delta() - ea.Delta())
				}
				if !yield(ea) {
					return
				}
				ea = pullClone(nextA)
				continue
			}
			if ea != nil {
				ea.SetDelta(ea.Delta() - eb.Delta())
			}
			if !yield(eb) {
				return
			}
			eb = pullClone(nextB)
		}
	}
}

// AllEvents merges any number of delta-coded sequences through a balanced
// tree of pairwise merges. Nothing is pulled until the result is ranged
// over, and each open branch holds at most one pending event.
func AllEvents(seqs []iter.Seq[event.Event]) iter.Seq[event.Event] {
	return tree(seqs, Events)
}

// tree pairs neighbours into a new generation until one sequence remains.
// An odd sequence out is carried into the next generation unchanged.
func tree[T any](seqs []iter.Seq[T], pair func(a, b iter.Seq[T]) iter.Seq[T]) iter.Seq[T] {
	if len(seqs) == 0 {
		return func(func(T) bool) {}
	}
	gen := seqs
	for len(gen) > 1 {
		next := make([]iter.Seq[T], 0, (len(gen)+1)/2)
		for i := 0; i < len(gen); i += 2 {
			if i+1 == len(gen) {
				next = append(next, gen[i])
				continue
			}
			next = append(next, pair(gen[i], gen[i+1]))
		}
		gen = next
	}
	return gen[0]
}
