package event

import "time"

// TicksToDuration converts a tick count to wall time at a fixed tempo.
// A ppq of 0 yields 0.
func TicksToDuration(ticks uint64, ppq uint16, microsPerQuarter uint32) time.Duration {
	if ppq == 0 {
		return 0
	}
	us := ticks * uint64(microsPerQuarter) / uint64(ppq)
	return time.Duration(us) * time.Microsecond
}
