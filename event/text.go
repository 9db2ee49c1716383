package event

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// Text encodings understood by Text.Decode
const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift-jis"
	EncodingLatin1   = "latin1"
)

var textTypeNames = map[uint8]string{
	MetaText:              "text",
	MetaCopyright:         "copyright",
	MetaTrackName:         "track name",
	MetaInstrumentName:    "instrument",
	MetaLyric:             "lyric",
	MetaMarker:            "marker",
	MetaCuePoint:          "cue point",
	MetaProgramName:       "program name",
	MetaDeviceName:        "device name",
	MetaColor:             "color",
	MetaSequencerSpecific: "sequencer specific",
}

// TypeName returns a readable name for the meta sub-type.
func (e *Text) TypeName() string {
	if n, ok := textTypeNames[e.Type]; ok {
		return n
	}
	return fmt.Sprintf("meta 0x%02X", e.Type)
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", EncodingUTF8, "utf8":
		return nil, nil
	case EncodingShiftJIS, "sjis", "shift_jis":
		return japanese.ShiftJIS, nil
	case EncodingLatin1, "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("unknown text encoding %q", name)
}

// Decode converts the payload to a UTF-8 string using the named encoding.
// Invalid UTF-8 under the utf-8 encoding falls back to Latin-1, which
// accepts every byte.
func (e *Text) Decode(enc string) (string, error) {
	codec, err := lookupEncoding(enc)
	if err != nil {
		return "", err
	}
	if codec == nil {
		if utf8.Valid(e.Data) {
			return string(e.Data), nil
		}
		codec = charmap.ISO8859_1
	}
	out, err := codec.NewDecoder().Bytes(e.Data)
	if err != nil {
		return "", fmt.Errorf("decode %s text: %w", e.TypeName(), err)
	}
	return string(out), nil
}
