package merge

import (
	"fmt"
	"slices"
	"testing"

	"go-midistream/event"
)

func queueOf(evs ...event.Event) *Queue {
	q := &Queue{}
	for _, ev := range evs {
		q.Push(ev)
	}
	return q
}

func TestWithBuffer(t *testing.T) {
	tests := []struct {
		name string
		seq  []event.Event
		buf  []event.Event
		want []stamped
	}{
		{
			name: "interleaved",
			seq:  []event.Event{marker(10, "a0"), marker(10, "a1")},
			buf:  []event.Event{marker(5, "b0"), marker(10, "b1")},
			want: []stamped{{5, "b0"}, {10, "a0"}, {15, "b1"}, {20, "a1"}},
		},
		{
			name: "sequence wins ties",
			seq:  []event.Event{marker(10, "a0")},
			buf:  []event.Event{marker(10, "b0")},
			want: []stamped{{10, "a0"}, {10, "b0"}},
		},
		{
			name: "buffer outlives sequence",
			seq:  []event.Event{marker(5, "a0")},
			buf:  []event.Event{marker(3, "b0"), marker(10, "b1")},
			want: []stamped{{3, "b0"}, {5, "a0"}, {13, "b1"}},
		},
		{
			name: "several buffered before one event",
			seq:  []event.Event{marker(0, "a0"), marker(20, "a1")},
			buf:  []event.Event{marker(2, "b0"), marker(3, "b1"), marker(4, "b2")},
			want: []stamped{{0, "a0"}, {2, "b0"}, {5, "b1"}, {9, "b2"}, {20, "a1"}},
		},
		{
			name: "empty buffer",
			seq:  []event.Event{marker(1, "a0"), marker(2, "a1")},
			want: []stamped{{1, "a0"}, {3, "a1"}},
		},
		{
			name: "empty sequence",
			buf:  []event.Event{marker(4, "b0"), marker(6, "b1")},
			want: []stamped{{4, "b0"}, {10, "b1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := queueOf(tt.buf...)
			got := stamp(WithBuffer(slices.Values(tt.seq), q))
			if !slices.Equal(got, tt.want) {
				t.Errorf("WithBuffer() = %v, want %v", got, tt.want)
			}
			if q.Len() != 0 {
				t.Errorf("queue has %d events left", q.Len())
			}
		})
	}
}

func TestWithBufferDoesNotMutateInputs(t *testing.T) {
	seq := []event.Event{marker(10, "a0"), marker(10, "a1")}
	buf := []event.Event{marker(5, "b0"), marker(10, "b1")}

	for range WithBuffer(slices.Values(seq), queueOf(buf...)) {
	}

	for i, want := range []uint64{10, 10} {
		if seq[i].Delta() != want {
			t.Errorf("seq[%d] delta = %d, want %d", i, seq[i].Delta(), want)
		}
	}
	for i, want := range []uint64{5, 10} {
		if buf[i].Delta() != want {
			t.Errorf("buf[%d] delta = %d, want %d", i, buf[i].Delta(), want)
		}
	}
}

func TestWithBufferStopsEarly(t *testing.T) {
	q := queueOf(marker(1, "b0"), marker(1, "b1"), marker(1, "b2"))
	n := 0
	for range WithBuffer(slices.Values([]event.Event{marker(10, "a0")}), q) {
		n++
		if n == 2 {
			break
		}
	}
	if q.Len() != 1 {
		t.Errorf("queue has %d events left, want 1", q.Len())
	}
}

func TestQueue(t *testing.T) {
	q := &Queue{}
	if q.Front() != nil || q.Pop() != nil {
		t.Fatal("empty queue returned an event")
	}

	const n = 200
	for i := range n {
		q.Push(marker(uint64(i), fmt.Sprint(i)))
	}
	if q.Len() != n {
		t.Fatalf("Len() = %d, want %d", q.Len(), n)
	}
	for i := range n {
		front := q.Front()
		ev := q.Pop()
		if front != ev {
			t.Fatalf("Front() and Pop() disagree at %d", i)
		}
		if ev.Delta() != uint64(i) {
			t.Fatalf("Pop() %d returned delta %d", i, ev.Delta())
		}
		if q.Len() != n-i-1 {
			t.Fatalf("Len() = %d after %d pops", q.Len(), i+1)
		}
	}
}

func TestQueuePushWhileDraining(t *testing.T) {
	q := queueOf(marker(1, "0"), marker(2, "1"))
	var got []string
	for i := 2; q.Len() > 0; i++ {
		got = append(got, string(q.Pop().(*event.Text).Data))
		if i < 50 {
			q.Push(marker(1, fmt.Sprint(i)))
		}
	}
	for i, tag := range got {
		if tag != fmt.Sprint(i) {
			t.Fatalf("Pop() %d = %s, queue order broken", i, tag)
		}
	}
	if len(got) != 50 {
		t.Errorf("popped %d events, want 50", len(got))
	}
}
