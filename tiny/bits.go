package tiny

import (
	"fmt"
	"math"
)

// A bitWriter multiplexes the type channel and the payload channel into one
// buffer. Type bits are packed LSB first into a type byte whose slot is
// reserved at the point its first bit is written; payload bytes are appended
// as they come.
type bitWriter struct {
	buf      []byte
	typePos  int  // index in buf of the open type byte
	typeBits uint // bits used in buf[typePos]; 0 means no type byte is open
}

func (w *bitWriter) writeBit(bit uint32) {
	if w.typeBits == 0 {
		w.typePos = len(w.buf)
		w.buf = append(w.buf, 0)
	}
	if bit != 0 {
		w.buf[w.typePos] |= 1 << w.typeBits
	}
	w.typeBits++
	if w.typeBits == 8 {
		w.typeBits = 0
	}
}

// closeType abandons the rest of the open type byte, so the next type bit
// starts a new one.
func (w *bitWriter) closeType() {
	w.typeBits = 0
}

func (w *bitWriter) writeByte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *bitWriter) writeBytes(p []byte) {
	w.buf = append(w.buf, p...)
}

// writeVarint writes v as groups of width value bits plus a continuation
// bit, most significant group first. Each group after the first adds an
// implicit offset, so every value has exactly one encoding; see readVarint.
func (w *bitWriter) writeVarint(v uint32, width uint) {
	n, base := varintSpan(v, width)
	r := uint64(v) - base
	mask := uint64(1)<<width - 1
	for g := n - 1; g >= 0; g-- {
		group := (r >> (uint(g) * width)) & mask
		for i := uint(0); i < width; i++ {
			w.writeBit(uint32(group>>i) & 1)
		}
		if g > 0 {
			w.writeBit(1)
		} else {
			w.writeBit(0)
		}
	}
}

// varintSpan returns the number of groups needed for v, and the offset
// subtracted from v before its groups are written: the count of values
// that take fewer groups.
func varintSpan(v uint32, width uint) (n int, base uint64) {
	step := uint64(1) << width
	limit := step
	n = 1
	for uint64(v) >= limit {
		base = limit
		step <<= width
		limit += step
		n++
	}
	return n, base
}

// writePosition writes a 1-based match distance. Distances below 128 take
// one byte. Larger ones take a byte with the top bit set, holding the low 7
// bits of d-128, followed by the rest of d-128 as a width-2 varint.
func (w *bitWriter) writePosition(d uint32) {
	if d < shortPosition {
		w.writeByte(byte(d))
		return
	}
	d -= shortPosition
	w.writeByte(byte(d&0x7f) | 0x80)
	w.writeVarint(d>>7, positionWidth)
}

// A bitReader is the inverse of bitWriter. When the current type byte runs
// out, the next type bit pulls a fresh byte from the payload cursor.
type bitReader struct {
	src      []byte
	pos      int
	typeByte byte
	typeLeft uint // unread bits in typeByte
}

func (r *bitReader) readByte() (byte, error) {
	if r.pos >= len(r.src) {
		return 0, fmt.Errorf("%w: at offset %d", ErrReadCode, r.pos)
	}
	b := r.src[r.pos]
	r.pos++
	return b, nil
}

// readBytes returns the next n payload bytes without copying them.
func (r *bitReader) readBytes(n int) ([]byte, error) {
	if n < 0 || n > len(r.src)-r.pos {
		return nil, fmt.Errorf("%w: %d bytes wanted at offset %d, %d left", ErrReadCode, n, r.pos, len(r.src)-r.pos)
	}
	p := r.src[r.pos : r.pos+n]
	r.pos += n
	return p, nil
}

func (r *bitReader) readBit() (uint32, error) {
	if r.typeLeft == 0 {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		r.typeByte = b
		r.typeLeft = 8
	}
	bit := uint32(r.typeByte & 1)
	r.typeByte >>= 1
	r.typeLeft--
	return bit, nil
}

// closeType drops the unread bits of the current type byte.
func (r *bitReader) closeType() {
	r.typeLeft = 0
	r.typeByte = 0
}

// readVarint reads a value written by writeVarint:
// v = 0; repeat { v = v<<width | group; if no continuation, stop; v++ }.
func (r *bitReader) readVarint(width uint) (uint32, error) {
	var v uint64
	for {
		var group uint64
		for i := uint(0); i < width; i++ {
			bit, err := r.readBit()
			if err != nil {
				return 0, err
			}
			group |= uint64(bit) << i
		}
		more, err := r.readBit()
		if err != nil {
			return 0, err
		}
		v = v<<width | group
		if v > math.MaxUint32 {
			return 0, fmt.Errorf("%w: varint overflows 32 bits at offset %d", ErrReadCode, r.pos)
		}
		if more == 0 {
			return uint32(v), nil
		}
		v++
	}
}

func (r *bitReader) readPosition() (uint32, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if b < shortPosition {
		return uint32(b), nil
	}
	ext, err := r.readVarint(positionWidth)
	if err != nil {
		return 0, err
	}
	d := uint64(b&0x7f) + uint64(ext)<<7 + shortPosition
	if d > math.MaxUint32 {
		return 0, fmt.Errorf("%w: position overflows 32 bits at offset %d", ErrReadCode, r.pos)
	}
	return uint32(d), nil
}
