package event

import (
	"sync"

	"go-midistream/pool"
)

// Pools recycles the two most frequent variants. Returning events is
// optional; events that are never returned are simply not reused.
// Pools may be shared by decoders running on different goroutines.
type Pools struct {
	mu      sync.Mutex
	noteOn  *pool.FreeList[NoteOn]
	noteOff *pool.FreeList[NoteOff]
}

// NewPools creates pools holding at most capacity spare events per variant.
func NewPools(capacity int) *Pools {
	return &Pools{
		noteOn:  pool.New[NoteOn](capacity),
		noteOff: pool.New[NoteOff](capacity),
	}
}

func (p *Pools) NoteOn() *NoteOn {
	if p == nil {
		return &NoteOn{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.noteOn.Get()
}

func (p *Pools) NoteOff() *NoteOff {
	if p == nil {
		return &NoteOff{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.noteOff.Get()
}

// Put hands an event back for reuse. Variants without a pool are ignored.
func (p *Pools) Put(ev Event) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	switch e := ev.(type) {
	case *NoteOn:
		p.noteOn.Put(e)
	case *NoteOff:
		p.noteOff.Put(e)
	}
}
