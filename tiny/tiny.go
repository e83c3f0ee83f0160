package tiny

import (
	"fmt"
	"io"
	"math"

	"github.com/tinyframe/pack"
)

// CompressOptions configures compression.
type CompressOptions struct {
	// DictSize is how far back (in bytes) matches may reach. It is written
	// to the stream header, and must not be zero.
	DictSize uint32
	// MaxMatchLength caps the length of a single match (0 = 65535).
	MaxMatchLength int
	// NoLiteralLines sends every literal as its own DATA token, instead of
	// grouping runs of 15 or more into a LiteralLine.
	NoLiteralLines bool
	// SearchLimit, if nonzero, caps how many earlier positions are tried
	// for each match, and switches to a chained search that only visits
	// positions starting with the same two bytes. The default (0) tries
	// every position in the dictionary.
	SearchLimit int
}

// DefaultCompressOptions returns options with DefaultDictSize and literal
// lines enabled.
func DefaultCompressOptions() *CompressOptions {
	return &CompressOptions{DictSize: DefaultDictSize}
}

// MatchFinder returns the match finder Compress uses with o. It only reports
// matches the format can express.
func (o *CompressOptions) MatchFinder() pack.MatchFinder {
	maxDist := int64(o.DictSize)
	if maxDist > math.MaxInt32 {
		maxDist = math.MaxInt32
	}
	maxLen := o.MaxMatchLength
	if maxLen <= 0 {
		maxLen = maxMatchDefault
	}
	parser := &pack.GreedyParser{MinLength: minMatch}

	if o.SearchLimit > 0 {
		return &pack.PairChain{
			SearchLen:     o.SearchLimit,
			MaxDistance:   int(maxDist),
			MaxLength:     maxLen,
			LongDistance:  longDistance,
			LongMinLength: minMatch + 1,
			Parser:        parser,
		}
	}
	return &pack.WindowSearch{
		MaxDistance:   int(maxDist),
		MaxLength:     maxLen,
		LongDistance:  longDistance,
		LongMinLength: minMatch + 1,
		Parser:        parser,
	}
}

// Compress compresses src into a new buffer. Options nil means
// DefaultCompressOptions().
func Compress(src []byte, opts *CompressOptions) ([]byte, error) {
	out, _, err := CompressWithStats(src, opts)
	return out, err
}

// CompressWithStats is like Compress, and also returns the encoder's counters.
func CompressWithStats(src []byte, opts *CompressOptions) ([]byte, Stats, error) {
	return compressBlocks([][]byte{src}, opts)
}

// CompressSegments compresses segments into a single stream, separated by
// ClipEnd codes. Decompressing it yields the segments concatenated.
func CompressSegments(segments [][]byte, opts *CompressOptions) ([]byte, error) {
	out, _, err := compressBlocks(segments, opts)
	return out, err
}

func compressBlocks(blocks [][]byte, opts *CompressOptions) ([]byte, Stats, error) {
	if opts == nil {
		opts = DefaultCompressOptions()
	}
	if opts.DictSize == 0 {
		return nil, Stats{}, ErrInvalidDictSize
	}

	size := HeaderSize + 2
	for _, b := range blocks {
		size += len(b) + len(b)/8 + 2
	}
	enc := &Encoder{DictSize: opts.DictSize, NoLiteralLines: opts.NoLiteralLines}
	out := pack.CompressBlocks(make([]byte, 0, size), blocks, opts.MatchFinder(), enc)
	return out, enc.Stats(), nil
}

// NewWriter returns a pack.Writer that compresses into w, cutting the input
// into segments of blockSize bytes (0 means 65536). Each segment but the last
// ends with ClipEnd; the stream ends when the Writer is closed.
func NewWriter(w io.Writer, blockSize int, opts *CompressOptions) (*pack.Writer, error) {
	if opts == nil {
		opts = DefaultCompressOptions()
	}
	if opts.DictSize == 0 {
		return nil, ErrInvalidDictSize
	}
	return &pack.Writer{
		Dest:        w,
		MatchFinder: opts.MatchFinder(),
		Encoder:     &Encoder{DictSize: opts.DictSize, NoLiteralLines: opts.NoLiteralLines},
		BlockSize:   blockSize,
	}, nil
}

// CompressInto compresses src with the given dictionary size into dst, and
// returns the number of bytes written. It fails with ErrOutputTooSmall if the
// compressed stream does not fit in len(dst); dst is not written in that case.
func CompressInto(dst, src []byte, dictSize uint32) (int, error) {
	out, err := Compress(src, &CompressOptions{DictSize: dictSize})
	if err != nil {
		return 0, err
	}
	if len(out) > len(dst) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrOutputTooSmall, len(out), len(dst))
	}
	return copy(dst, out), nil
}

// Decompress decompresses src into a new buffer of at most capacity bytes.
func Decompress(src []byte, capacity int) ([]byte, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", ErrOutputTooSmall, capacity)
	}
	dst := make([]byte, capacity)
	n, err := DecompressInto(dst, src)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// DecompressInto decompresses src into dst and returns the number of bytes
// written. Decoding stops at StreamEnd; anything after it is ignored. On
// error the contents of dst are undefined.
func DecompressInto(dst, src []byte) (int, error) {
	if _, err := PeekDictSize(src); err != nil {
		return 0, err
	}
	s := newDecoderState(dst, src)
	if err := decode(&s, nil); err != nil {
		return 0, err
	}
	return s.n, nil
}

// DecompressFromReader reads all of r and calls Decompress.
func DecompressFromReader(r io.Reader, capacity int) ([]byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decompress(src, capacity)
}

// ParseTokens decodes the token stream of src without producing output, and
// returns the tokens up to and including StreamEnd. Distances are checked
// against the output length the tokens would produce.
func ParseTokens(src []byte) ([]Token, error) {
	if _, err := PeekDictSize(src); err != nil {
		return nil, err
	}
	var tokens []Token
	s := newDecoderState(nil, src)
	s.countOnly = true
	err := decode(&s, func(t Token) {
		tokens = append(tokens, t)
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
