// Package vlq reads and writes MIDI variable-length quantities: big-endian
// base-128 integers where every byte but the last has its high bit set.
package vlq

import (
	"errors"
	"io"
)

// ErrTruncated is returned when the input ends between continuation bytes.
var ErrTruncated = errors.New("vlq: truncated quantity")

// Read decodes one quantity. No length cap is enforced; the accumulator is
// wide enough for any realistic tick delta.
//
// io.EOF is returned only when the input ends before the first byte.
func Read(r io.ByteReader) (uint64, error) {
	var acc uint64
	for n := 0; ; n++ {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && n > 0 {
				return acc, ErrTruncated
			}
			return acc, err
		}
		acc = acc<<7 | uint64(b&0x7F)
		if b&0x80 == 0 {
			return acc, nil
		}
	}
}

// Append appends the encoding of n to dst.
func Append(dst []byte, n uint64) []byte {
	var buf [10]byte
	i := len(buf) - 1
	buf[i] = byte(n & 0x7F)
	for n >>= 7; n > 0; n >>= 7 {
		i--
		buf[i] = byte(n&0x7F) | 0x80
	}
	return append(dst, buf[i:]...)
}

// Len returns the encoded size of n in bytes.
func Len(n uint64) int {
	l := 1
	for n >>= 7; n > 0; n >>= 7 {
		l++
	}
	return l
}
