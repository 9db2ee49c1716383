package merge

import (
	"iter"
	"slices"

	"go-midistream/event"
)

// Notes merges two sequences of notes ordered by Start into one sequence
// ordered by Start. On equal Start the note from a comes first.
func Notes(a, b iter.Seq[event.Note]) iter.Seq[event.Note] {
	return func(yield func(event.Note) bool) {
		nextA, stopA := iter.Pull(a)
		defer stopA()
		nextB, stopB := iter.Pull(b)
		defer stopB()

		na, okA := nextA()
		nb, okB := nextB()
		for okA || okB {
			if !okB || (okA && na.Start <= nb.Start) {
				if !yield(na) {
					return
				}
				na, okA = nextA()
				continue
			}
			if !yield(nb) {
				return
			}
			nb, okB = nextB()
		}
	}
}

// AllNotes merges any number of Start-ordered note sequences through a
// balanced tree of pairwise merges.
func AllNotes(seqs []iter.Seq[event.Note]) iter.Seq[event.Note] {
	return tree(seqs, Notes)
}

type noteCursor struct {
	next func() (event.Note, bool)
	stop func()
	cur  event.Note
}

// ManyNotes merges a lazily produced, possibly very large collection of
// Start-ordered note sequences. A sub-sequence is only opened once its first
// note would be the next one out, so the number of open sub-sequences stays
// close to the number whose time ranges overlap.
//
// The caller must supply the sub-sequences ordered by the Start of their
// first note. This is not checked: out-of-order input produces out-of-order
// output. Empty sub-sequences are skipped.
func ManyNotes(seqs iter.Seq[iter.Seq[event.Note]]) iter.Seq[event.Note] {
	return manyNotes(seqs, nil)
}

// manyNotes is ManyNotes with a hook reporting the open-set size each time a
// sub-sequence is opened.
func manyNotes(seqs iter.Seq[iter.Seq[event.Note]], opened func(open int)) iter.Seq[event.Note] {
	return func(yield func(event.Note) bool) {
		nextSeq, stopOuter := iter.Pull(seqs)
		defer stopOuter()

		var open []*noteCursor
		var waiting *noteCursor // first unopened sub-sequence, already primed
		defer func() {
			for _, c := range open {
				c.stop()
			}
			if waiting != nil {
				waiting.stop()
			}
		}()

		prime := func() {
			waiting = nil
			for {
				s, ok := nextSeq()
				if !ok {
					return
				}
				next, stop := iter.Pull(s)
				n, ok := next()
				if !ok {
					stop()
					continue
				}
				waiting = &noteCursor{next: next, stop: stop, cur: n}
				return
			}
		}

		prime()
		for len(open) > 0 || waiting != nil {
			best := -1
			for i, c := range open {
				if best < 0 || c.cur.Start < open[best].cur.Start {
					best = i
				}
			}
			if best < 0 || (waiting != nil && waiting.cur.Start < open[best].cur.Start) {
				open = append(open, waiting)
				best = len(open) - 1
				prime()
				if opened != nil {
					opened(len(open))
				}
			}

			c := open[best]
			if !yield(c.cur) {
				return
			}
			if n, ok := c.next(); ok {
				c.cur = n
			} else {
				c.stop()
				open = slices.Delete(open, best, best+1)
			}
		}
	}
}
