// Package baseline puts tiny and a set of general-purpose compressors behind
// one interface, so that their output sizes can be compared on the same
// frames.
package baseline

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/tinyframe/pack/tiny"
)

// A Codec compresses and decompresses whole frames.
type Codec interface {
	Name() string
	Compress(src []byte) ([]byte, error)

	// Decompress decodes c, which holds size bytes of original data.
	Decompress(c []byte, size int) ([]byte, error)
}

// Tiny is the tiny format with the given options (nil means defaults).
type Tiny struct {
	Options *tiny.CompressOptions
}

func (t Tiny) Name() string {
	if t.Options == nil || t.Options.DictSize == tiny.DefaultDictSize {
		return "tiny"
	}
	return fmt.Sprintf("tiny-%d", t.Options.DictSize)
}

func (t Tiny) Compress(src []byte) ([]byte, error) {
	return tiny.Compress(src, t.Options)
}

func (t Tiny) Decompress(c []byte, size int) ([]byte, error) {
	return tiny.Decompress(c, size)
}

// Snappy is the snappy block format, without stream framing.
type Snappy struct{}

func (Snappy) Name() string { return "snappy" }

func (Snappy) Compress(src []byte) ([]byte, error) {
	return snappy.Encode(nil, src), nil
}

func (Snappy) Decompress(c []byte, _ int) ([]byte, error) {
	return snappy.Decode(nil, c)
}

// S2 is the S2 block format.
type S2 struct{}

func (S2) Name() string { return "s2" }

func (S2) Compress(src []byte) ([]byte, error) {
	return s2.Encode(nil, src), nil
}

func (S2) Decompress(c []byte, _ int) ([]byte, error) {
	return s2.Decode(nil, c)
}

// Flate is raw DEFLATE at the given level.
type Flate struct {
	Level int
}

func (f Flate) Name() string { return "flate" }

func (f Flate) Compress(src []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	w, err := flate.NewWriter(buf, f.Level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f Flate) Decompress(c []byte, size int) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(c))
	defer r.Close()
	return readAll(r, size)
}

// Zstd is single zstd frames without checksums; empty input still gets a
// frame. A Zstd must be created with NewZstd, and closed when it is no longer
// needed.
type Zstd struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewZstd(level zstd.EncoderLevel) (*Zstd, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithEncoderCRC(false), zstd.WithZeroFrames(true))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &Zstd{enc: enc, dec: dec}, nil
}

func (z *Zstd) Name() string { return "zstd" }

func (z *Zstd) Compress(src []byte) ([]byte, error) {
	return z.enc.EncodeAll(src, nil), nil
}

func (z *Zstd) Decompress(c []byte, size int) ([]byte, error) {
	return z.dec.DecodeAll(c, make([]byte, 0, size))
}

func (z *Zstd) Close() {
	z.enc.Close()
	z.dec.Close()
}

// LZ4 is the LZ4 frame format, without a content checksum.
type LZ4 struct{}

func (LZ4) Name() string { return "lz4" }

func (LZ4) Compress(src []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := lz4.NewWriter(buf)
	if err := w.Apply(lz4.ChecksumOption(false)); err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (LZ4) Decompress(c []byte, size int) ([]byte, error) {
	return readAll(lz4.NewReader(bytes.NewReader(c)), size)
}

// Brotli is brotli at the given quality level.
type Brotli struct {
	Level int
}

func (b Brotli) Name() string { return "brotli" }

func (b Brotli) Compress(src []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := brotli.NewWriterLevel(buf, b.Level)
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b Brotli) Decompress(c []byte, size int) ([]byte, error) {
	return readAll(brotli.NewReader(bytes.NewReader(c)), size)
}

// readAll reads r to the end, failing if it holds more than size bytes.
func readAll(r io.Reader, size int) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, int64(size)+1))
	if err != nil {
		return nil, err
	}
	if len(out) > size {
		return nil, fmt.Errorf("baseline: more than %d bytes of output", size)
	}
	return out, nil
}

// Default returns tiny with default options and the reference codecs at
// their strongest settings. The caller must call the returned function to
// release the zstd coder.
func Default() ([]Codec, func(), error) {
	z, err := NewZstd(zstd.SpeedBestCompression)
	if err != nil {
		return nil, nil, err
	}
	codecs := []Codec{
		Tiny{},
		Snappy{},
		S2{},
		LZ4{},
		Flate{Level: flate.BestCompression},
		z,
		Brotli{Level: brotli.BestCompression},
	}
	return codecs, z.Close, nil
}
