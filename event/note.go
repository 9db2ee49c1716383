package event

import "fmt"

// Note is a matched NoteOn/NoteOff pair in absolute time. Start counts ticks
// from the origin of the stream it was taken from.
type Note struct {
	Start    uint64
	Length   uint64
	Key      uint8
	Channel  uint8
	Velocity uint8
}

// End returns the tick at which the note is released.
func (n Note) End() uint64 {
	return n.Start + n.Length
}

func (n Note) String() string {
	return fmt.Sprintf("note ch%d key%d vel%d @%d+%d", n.Channel, n.Key, n.Velocity, n.Start, n.Length)
}
