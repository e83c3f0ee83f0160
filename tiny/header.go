package tiny

import (
	"encoding/binary"
	"fmt"
)

func appendHeader(dst []byte, dictSize uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, dictSize)
}

// PeekDictSize returns the dictionary size stored in the header of a
// compressed stream, without decoding anything else.
func PeekDictSize(src []byte) (uint32, error) {
	if len(src) < HeaderSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrHeaderTooShort, len(src))
	}
	d := binary.LittleEndian.Uint32(src)
	if d == 0 {
		return 0, ErrInvalidHeader
	}
	return d, nil
}
