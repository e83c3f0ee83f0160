// Package pack is the LZ77 front end of tinypack, a compressor for very small
// buffers such as LED frames and sensor snapshots.
//
// Compression is split into two parts:
//   - Something that looks for repeated sequences of bytes (a MatchFinder)
//   - An encoder for the compressed data format
//
// This package defines the interfaces and the intermediate representation
// that connect the two, plus a brute-force sliding-window match finder. The
// wire format lives in the tiny subpackage.
package pack

// A Match is the basic unit of LZ77 compression.
type Match struct {
	Unmatched int // the number of unmatched bytes since the previous match
	Length    int // the number of bytes in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from (1 means the previous byte)
}

// A MatchFinder performs the LZ77 stage of compression, looking for matches.
type MatchFinder interface {
	// FindMatches looks for matches in src, appends them to dst, and returns dst.
	FindMatches(dst []Match, src []byte) []Match

	// Reset clears any internal state, preparing the MatchFinder to be used with
	// a new stream.
	Reset()
}

// An Encoder encodes the data in its final format.
type Encoder interface {
	// Header appends the appropriate stream header to dst.
	Header(dst []byte) []byte

	// Encode appends the encoded format of src to dst, using the match
	// information from matches.
	Encode(dst []byte, src []byte, matches []Match, lastBlock bool) []byte

	// Reset clears any internal state, preparing the Encoder to be used with
	// a new stream.
	Reset()
}

// Compress runs src through m and e as a single block, appends the complete
// stream (header included) to dst, and returns it.
func Compress(dst []byte, src []byte, m MatchFinder, e Encoder) []byte {
	return CompressBlocks(dst, [][]byte{src}, m, e)
}

// CompressBlocks is like Compress, but encodes each element of blocks as a
// separate block of the same stream. The match finder keeps its history
// between blocks, so matches may refer back into earlier blocks.
func CompressBlocks(dst []byte, blocks [][]byte, m MatchFinder, e Encoder) []byte {
	m.Reset()
	e.Reset()
	dst = e.Header(dst)
	if len(blocks) == 0 {
		return e.Encode(dst, nil, nil, true)
	}

	var matches []Match
	for i, b := range blocks {
		matches = m.FindMatches(matches[:0], b)
		dst = e.Encode(dst, b, matches, i == len(blocks)-1)
	}
	return dst
}
