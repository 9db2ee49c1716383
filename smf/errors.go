package smf

import (
	"errors"
	"fmt"
	"io"
)

// Structural format errors
var (
	ErrBadMagic      = errors.New("bad chunk magic")
	ErrBadLength     = errors.New("unexpected length")
	ErrTruncated     = fmt.Errorf("truncated input: %w", io.ErrUnexpectedEOF)
	ErrRunningStatus = errors.New("data byte without running status")
	ErrStraySysExEnd = errors.New("sysex end without sysex start")
	ErrNoTrack       = errors.New("no such track")
)

// FormatError reports malformed file or track data.
type FormatError struct {
	Op     string // what was being decoded
	Offset int64  // file offset where the failing element started
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("smf: %s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsStructural reports whether err is a format error that a tolerant reader
// may replace with a sentinel and continue past.
func IsStructural(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
