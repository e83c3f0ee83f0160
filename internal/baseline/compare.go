package baseline

import (
	"fmt"

	"github.com/pierrec/xxHash/xxHash32"

	"github.com/tinyframe/pack/tiny"
)

// A Result is one codec's total over a set of frames.
type Result struct {
	Codec       string
	Frames      int
	InputBytes  int
	OutputBytes int

	// Verified is true if every frame decoded to data with the same xxHash32
	// checksum as the input.
	Verified bool
}

// Ratio returns InputBytes/OutputBytes.
func (r Result) Ratio() float64 {
	if r.OutputBytes == 0 {
		return 0
	}
	return float64(r.InputBytes) / float64(r.OutputBytes)
}

// Split cuts data into frames of frameSize bytes; the last one may be
// shorter. A frameSize of 0 or less returns data as a single frame.
func Split(data []byte, frameSize int) [][]byte {
	if frameSize <= 0 || len(data) <= frameSize {
		return [][]byte{data}
	}
	frames := make([][]byte, 0, (len(data)+frameSize-1)/frameSize)
	for len(data) > 0 {
		n := frameSize
		if n > len(data) {
			n = len(data)
		}
		frames = append(frames, data[:n])
		data = data[n:]
	}
	return frames
}

// Compare compresses each frame separately with each codec, decodes it
// again, and returns one Result per codec, in order. An error from any codec
// stops the comparison.
func Compare(frames [][]byte, codecs []Codec) ([]Result, error) {
	sums := make([]uint32, len(frames))
	for i, f := range frames {
		sums[i] = xxHash32.Checksum(f, 0)
	}

	results := make([]Result, 0, len(codecs))
	for _, c := range codecs {
		r := Result{Codec: c.Name(), Frames: len(frames), Verified: true}
		for i, f := range frames {
			enc, err := c.Compress(f)
			if err != nil {
				return nil, fmt.Errorf("%s: compress frame %d: %w", c.Name(), i, err)
			}
			dec, err := c.Decompress(enc, len(f))
			if err != nil {
				return nil, fmt.Errorf("%s: decompress frame %d: %w", c.Name(), i, err)
			}
			if len(dec) != len(f) || xxHash32.Checksum(dec, 0) != sums[i] {
				r.Verified = false
			}
			r.InputBytes += len(f)
			r.OutputBytes += len(enc)
		}
		results = append(results, r)
	}
	return results, nil
}

// A SweepPoint is the total tiny output size for one dictionary size.
type SweepPoint struct {
	DictSize    uint32
	OutputBytes int
	MaxDistance int // largest distance any frame used
}

// Sweep compresses every frame with tiny at each dictionary size from lo to
// hi (inclusive) in increments of step.
func Sweep(frames [][]byte, lo, hi, step uint32) ([]SweepPoint, error) {
	if lo == 0 || step == 0 || hi < lo {
		return nil, fmt.Errorf("baseline: bad sweep range %d..%d step %d", lo, hi, step)
	}
	var points []SweepPoint
	for d := uint64(lo); d <= uint64(hi); d += uint64(step) {
		p := SweepPoint{DictSize: uint32(d)}
		opts := &tiny.CompressOptions{DictSize: uint32(d)}
		for i, f := range frames {
			enc, st, err := tiny.CompressWithStats(f, opts)
			if err != nil {
				return nil, fmt.Errorf("dict size %d, frame %d: %w", d, i, err)
			}
			p.OutputBytes += len(enc)
			if st.MaxDistance > p.MaxDistance {
				p.MaxDistance = st.MaxDistance
			}
		}
		points = append(points, p)
	}
	return points, nil
}
