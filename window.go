package pack

import (
	"encoding/binary"
	"math/bits"
	"runtime"
)

// WindowSearch is an implementation of the MatchFinder interface that
// checks every position in the sliding window, nearest first. It is meant
// for inputs of a few kilobytes at most, where building hash tables costs
// more than it saves; its worst case is O(MaxDistance) comparisons per byte.
type WindowSearch struct {
	// MaxDistance is the maximum distance (in bytes) to look back for
	// a match. The default is 65535.
	MaxDistance int

	// MaxLength is the longest match that will be reported.
	// The default is 65535.
	MaxLength int

	// LongDistance, if it is nonzero, is the distance beyond which matches
	// need to be at least LongMinLength bytes long to be reported.
	LongDistance  int
	LongMinLength int

	// Parser chooses among the matches. The default is a GreedyParser.
	Parser Parser

	history []byte
}

func (w *WindowSearch) Reset() {
	w.history = w.history[:0]
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
// Data from earlier calls since the last Reset stays in the window.
func (w *WindowSearch) FindMatches(dst []Match, src []byte) []Match {
	if w.MaxDistance == 0 {
		w.MaxDistance = 65535
	}
	if w.MaxLength == 0 {
		w.MaxLength = 65535
	}
	if w.Parser == nil {
		w.Parser = &GreedyParser{}
	}

	nextEmit := len(w.history)
	w.history = append(w.history, src...)

	return w.Parser.Parse(dst, w, nextEmit, len(w.history))
}

// Search scans the window in front of pos from the nearest candidate to the
// farthest, and appends a match each time it finds one longer than all the
// nearer ones. So the matches come out in order of increasing length, and
// the nearest candidate wins any tie.
func (w *WindowSearch) Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch {
	src := w.history
	if max > len(src) {
		max = len(src)
	}
	if pos+1 >= max {
		return dst
	}
	limit := max
	if limit-pos > w.MaxLength {
		limit = pos + w.MaxLength
	}
	src = src[:limit]

	windowStart := pos - w.MaxDistance
	if windowStart < 0 {
		windowStart = 0
	}

	best := 0
	for candidate := pos - 1; candidate >= windowStart; candidate-- {
		if src[candidate] != src[pos] {
			continue
		}
		end := extendMatch(src, candidate+1, pos+1)
		length := end - pos
		if length <= best {
			continue
		}
		if w.LongDistance > 0 && pos-candidate > w.LongDistance && length < w.LongMinLength {
			continue
		}
		best = length
		dst = append(dst, AbsoluteMatch{
			Start: pos,
			End:   end,
			Match: candidate,
		})
		if end == limit {
			break
		}
	}

	return dst
}

// extendMatch returns the largest k such that k <= len(src) and that
// src[i:i+k-j] and src[j:k] have the same contents.
//
// It assumes that:
//
//	0 <= i && i < j && j <= len(src)
func extendMatch(src []byte, i, j int) int {
	switch runtime.GOARCH {
	case "amd64":
		// As long as we are 8 or more bytes before the end of src, we can load and
		// compare 8 bytes at a time. If those 8 bytes are equal, repeat.
		for j+8 < len(src) {
			iBytes := binary.LittleEndian.Uint64(src[i:])
			jBytes := binary.LittleEndian.Uint64(src[j:])
			if iBytes != jBytes {
				// If those 8 bytes were not equal, XOR the two 8 byte values, and return
				// the index of the first byte that differs. The BSF instruction finds the
				// least significant 1 bit, the amd64 architecture is little-endian, and
				// the shift by 3 converts a bit index to a byte index.
				return j + bits.TrailingZeros64(iBytes^jBytes)>>3
			}
			i, j = i+8, j+8
		}
	case "386":
		// On a 32-bit CPU, we do it 4 bytes at a time.
		for j+4 < len(src) {
			iBytes := binary.LittleEndian.Uint32(src[i:])
			jBytes := binary.LittleEndian.Uint32(src[j:])
			if iBytes != jBytes {
				return j + bits.TrailingZeros32(iBytes^jBytes)>>3
			}
			i, j = i+4, j+4
		}
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}
