package tiny

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"testing"
)

// typeBits unpacks buf as a pure type channel (no payload bytes), LSB first.
func typeBits(buf []byte) []uint32 {
	var bits []uint32
	for _, b := range buf {
		for i := 0; i < 8; i++ {
			bits = append(bits, uint32(b>>i)&1)
		}
	}
	return bits
}

// canonicalVarint decodes a varint from bits with the reference rule, and
// returns the value and the number of bits used.
func canonicalVarint(bits []uint32, width int) (uint64, int) {
	var v uint64
	i := 0
	for {
		var group uint64
		for k := 0; k < width; k++ {
			group |= uint64(bits[i]) << k
			i++
		}
		more := bits[i]
		i++
		v = v<<width | group
		if more == 0 {
			return v, i
		}
		v++
	}
}

func TestVarintMatchesCanonicalRule(t *testing.T) {
	values := []uint32{0, 1, 2, 3, 4, 5, 19, 20, 21, 83, 84, 255, 256, 1000, 65535, 1 << 20, math.MaxUint32 - 1, math.MaxUint32}
	for width := uint(1); width <= 3; width++ {
		for _, v := range values {
			var w bitWriter
			w.writeVarint(v, width)
			got, used := canonicalVarint(typeBits(w.buf), int(width))
			if got != uint64(v) {
				t.Errorf("width %d: wrote %d, canonical rule reads %d", width, v, got)
			}
			if (used+7)/8 != len(w.buf) {
				t.Errorf("width %d, value %d: %d bits in %d bytes", width, v, used, len(w.buf))
			}
		}
	}
}

func TestVarintRoundTrip(t *testing.T) {
	for _, width := range []uint{lengthWidth, positionWidth} {
		var w bitWriter
		for v := uint32(0); v < 5000; v++ {
			w.writeVarint(v, width)
		}
		r := bitReader{src: w.buf}
		for v := uint32(0); v < 5000; v++ {
			got, err := r.readVarint(width)
			if err != nil {
				t.Fatalf("width %d, value %d: %v", width, v, err)
			}
			if got != v {
				t.Fatalf("width %d: got %d, want %d", width, got, v)
			}
		}
		if r.pos != len(w.buf) {
			t.Errorf("width %d: read %d of %d bytes", width, r.pos, len(w.buf))
		}
	}
}

func TestVarintBits(t *testing.T) {
	tests := []struct {
		v     uint32
		width uint
		want  []byte
	}{
		{0, 1, []byte{0x00}},
		{1, 1, []byte{0x01}},
		{2, 1, []byte{0x02}}, // 0,1 then 0,0
		{3, 1, []byte{0x06}}, // 0,1 then 1,0
		{3, 2, []byte{0x03}},
		{4, 2, []byte{0x04}},  // 00,1 then 00,0
		{19, 2, []byte{0x1f}}, // 11,1 then 11,0
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/w%d", tt.v, tt.width), func(t *testing.T) {
			var w bitWriter
			w.writeVarint(tt.v, tt.width)
			if !bytes.Equal(w.buf, tt.want) {
				t.Errorf("got %#x, want %#x", w.buf, tt.want)
			}
		})
	}
}

func TestVarintOverflow(t *testing.T) {
	r := bitReader{src: bytes.Repeat([]byte{0xff}, 16)}
	_, err := r.readVarint(lengthWidth)
	if !errors.Is(err, ErrReadCode) {
		t.Fatalf("want ErrReadCode, got %v", err)
	}
}

func TestTypeChannelInterleaving(t *testing.T) {
	var w bitWriter
	w.writeBit(1)
	w.writeByte(0xaa)
	w.writeBit(0)
	w.writeBit(1)
	for i := 0; i < 5; i++ {
		w.writeBit(0)
	}
	// The type byte is full now; the next bit needs a new slot after the payload.
	w.writeByte(0xbb)
	w.writeBit(1)

	want := []byte{0x05, 0xaa, 0xbb, 0x01}
	if !bytes.Equal(w.buf, want) {
		t.Fatalf("got %#x, want %#x", w.buf, want)
	}

	r := bitReader{src: w.buf}
	expect := func(want uint32) {
		t.Helper()
		bit, err := r.readBit()
		if err != nil {
			t.Fatal(err)
		}
		if bit != want {
			t.Fatalf("got bit %d, want %d", bit, want)
		}
	}
	expect(1)
	if b, _ := r.readByte(); b != 0xaa {
		t.Fatalf("got byte %#x, want 0xaa", b)
	}
	expect(0)
	expect(1)
	for i := 0; i < 5; i++ {
		expect(0)
	}
	if b, _ := r.readByte(); b != 0xbb {
		t.Fatalf("got byte %#x, want 0xbb", b)
	}
	expect(1)
}

func TestCloseTypeStartsNewByte(t *testing.T) {
	var w bitWriter
	w.writeBit(1)
	w.closeType()
	w.writeBit(1)
	if want := []byte{0x01, 0x01}; !bytes.Equal(w.buf, want) {
		t.Fatalf("got %#x, want %#x", w.buf, want)
	}

	r := bitReader{src: w.buf}
	r.readBit()
	r.closeType()
	bit, err := r.readBit()
	if err != nil || bit != 1 || r.pos != 2 {
		t.Fatalf("after closeType: bit=%d pos=%d err=%v", bit, r.pos, err)
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		d    uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x00}},
		{129, []byte{0x81, 0x00}},
		{639, []byte{0xff, 0x03}},         // 511: low 0x7f, extension 3 in one group
		{640, []byte{0x80, 0x04}},         // 512: extension 4 needs two groups
		{2687, []byte{0xff, 0x1f}},        // largest distance with a two-group extension
		{2688, []byte{0x80, 0x24, 0x00}}, // three groups spill into a second type byte
	}
	for _, tt := range tests {
		var w bitWriter
		w.writePosition(tt.d)
		if !bytes.Equal(w.buf, tt.want) {
			t.Errorf("writePosition(%d) = %#x, want %#x", tt.d, w.buf, tt.want)
		}
	}

	var w bitWriter
	distances := []uint32{0, 1, 127, 128, 129, 255, 639, 640, 2687, 2688, 4096, 65535, 1<<24 - 1, math.MaxUint32}
	for _, d := range distances {
		w.writePosition(d)
	}
	r := bitReader{src: w.buf}
	for _, d := range distances {
		got, err := r.readPosition()
		if err != nil {
			t.Fatalf("readPosition for %d: %v", d, err)
		}
		if got != d {
			t.Fatalf("readPosition = %d, want %d", got, d)
		}
	}
}

func TestReadPastEnd(t *testing.T) {
	var r bitReader
	if _, err := r.readBit(); !errors.Is(err, ErrReadCode) {
		t.Errorf("readBit: want ErrReadCode, got %v", err)
	}
	if _, err := r.readByte(); !errors.Is(err, ErrReadCode) {
		t.Errorf("readByte: want ErrReadCode, got %v", err)
	}
	if _, err := r.readBytes(1); !errors.Is(err, ErrReadCode) {
		t.Errorf("readBytes: want ErrReadCode, got %v", err)
	}
	r = bitReader{src: []byte{0x80}}
	if _, err := r.readPosition(); !errors.Is(err, ErrReadCode) {
		t.Errorf("readPosition without extension: want ErrReadCode, got %v", err)
	}
}
