package smf

// Options controls decoding.
type Options struct {
	// ZeroVelocityNoteOns keeps NoteOn with velocity 0 as a NoteOn instead of
	// turning it into a NoteOff.
	ZeroVelocityNoteOns bool

	// Pooled makes decoders draw NoteOn/NoteOff events from reuse pools.
	// Events go back through File.Return.
	Pooled   bool
	PoolSize int

	// ReadBufferSize is the buffer used for each track reader.
	ReadBufferSize int
}

const (
	defaultReadBufferSize = 100000
	defaultPoolSize       = 1024
)

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		PoolSize:       defaultPoolSize,
		ReadBufferSize: defaultReadBufferSize,
	}
}

func (o Options) withDefaults() Options {
	if o.ReadBufferSize <= 0 {
		o.ReadBufferSize = defaultReadBufferSize
	}
	if o.PoolSize <= 0 {
		o.PoolSize = defaultPoolSize
	}
	return o
}
