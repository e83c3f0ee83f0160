package pack

import (
	"encoding/hex"
	"strconv"
)

// A TextEncoder is an Encoder that produces a human-readable representation of
// the LZ77 parse. Matches are replaced with <Length,Distance> symbols.
// It is mostly useful for looking at how a frame was parsed.
type TextEncoder struct {
	// Hex writes unmatched bytes as hexadecimal, which is easier to read
	// than raw bytes for binary frames.
	Hex bool
}

func (t TextEncoder) Header(dst []byte) []byte {
	return dst
}

func (t TextEncoder) Reset() {}

func (t TextEncoder) Encode(dst []byte, src []byte, matches []Match, lastBlock bool) []byte {
	pos := 0
	for _, m := range matches {
		if m.Unmatched > 0 {
			dst = t.appendLiterals(dst, src[pos:pos+m.Unmatched])
			pos += m.Unmatched
		}
		if m.Length > 0 {
			dst = append(dst, '<')
			dst = strconv.AppendInt(dst, int64(m.Length), 10)
			dst = append(dst, ',')
			dst = strconv.AppendInt(dst, int64(m.Distance), 10)
			dst = append(dst, '>')
			pos += m.Length
		}
	}
	if pos < len(src) {
		dst = t.appendLiterals(dst, src[pos:])
	}
	if !lastBlock {
		dst = append(dst, '|')
	}
	return dst
}

func (t TextEncoder) appendLiterals(dst, lit []byte) []byte {
	if !t.Hex {
		return append(dst, lit...)
	}
	return hex.AppendEncode(dst, lit)
}
