package merge

import (
	"context"
	"iter"
)

// Prefetch runs seq on its own goroutine, keeping up to size elements
// buffered ahead of the consumer. Several prefetched tracks decode in
// parallel while the merge consuming them stays on one goroutine.
//
// Stopping the range, or cancelling ctx, stops the producer. The range
// returns only after the producer has exited, so the source seq reads can
// be closed once it does.
func Prefetch[T any](ctx context.Context, seq iter.Seq[T], size int) iter.Seq[T] {
	return func(yield func(T) bool) {
		ctx, cancel := context.WithCancel(ctx)
		ch := make(chan T, size)
		done := make(chan struct{})
		defer func() {
			cancel()
			<-done
		}()

		go func() {
			defer close(done)
			defer close(ch)
			for v := range seq {
				select {
				case ch <- v:
				case <-ctx.Done():
					return
				}
			}
		}()

		for v := range ch {
			if !yield(v) {
				return
			}
		}
	}
}
