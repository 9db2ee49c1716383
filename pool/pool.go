// Package pool provides a bounded free-list for reusing allocations.
package pool

// FreeList keeps up to a fixed number of spare values. It is not safe for
// concurrent use; each decode session owns its own.
type FreeList[T any] struct {
	free []*T
	max  int
}

func New[T any](capacity int) *FreeList[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &FreeList[T]{free: make([]*T, 0, capacity), max: capacity}
}

// Get returns a zeroed spare value, or a new one when the list is empty.
func (l *FreeList[T]) Get() *T {
	n := len(l.free)
	if n == 0 {
		return new(T)
	}
	v := l.free[n-1]
	l.free[n-1] = nil
	l.free = l.free[:n-1]
	var zero T
	*v = zero
	return v
}

// Put stores v for reuse. Values beyond capacity are dropped.
func (l *FreeList[T]) Put(v *T) {
	if v == nil || len(l.free) >= l.max {
		return
	}
	l.free = append(l.free, v)
}

// Len returns the number of spare values held.
func (l *FreeList[T]) Len() int {
	return len(l.free)
}
