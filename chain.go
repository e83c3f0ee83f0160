package pack

import "encoding/binary"

// PairChain is an implementation of the MatchFinder interface that keeps a
// chain of earlier positions for every 2-byte sequence. With SearchLen 0 it
// visits the same candidates as WindowSearch, in the same order, but skips
// the ones that cannot make a match of 2 bytes or more; so with a
// MinLength of 2 or more in the Parser, the two produce the same matches.
type PairChain struct {
	// SearchLen is how many entries to examine on the chain.
	// The default (0) is to examine all of them.
	SearchLen int

	// MaxDistance is the maximum distance (in bytes) to look back for
	// a match. The default is 65535.
	MaxDistance int

	// MaxLength is the longest match that will be reported.
	// The default is 65535.
	MaxLength int

	// LongDistance and LongMinLength work as in WindowSearch.
	LongDistance  int
	LongMinLength int

	Parser Parser

	// head holds, for each pair of bytes, 1 + the position where it last
	// occurred; 0 means it has not occurred yet.
	head [1 << 16]int32

	// prev[i] is 1 + the previous position with the same pair as i.
	prev    []int32
	history []byte
}

func (q *PairChain) Reset() {
	q.head = [1 << 16]int32{}
	q.history = q.history[:0]
	q.prev = q.prev[:0]
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (q *PairChain) FindMatches(dst []Match, src []byte) []Match {
	if q.MaxDistance == 0 {
		q.MaxDistance = 65535
	}
	if q.MaxLength == 0 {
		q.MaxLength = 65535
	}
	if q.Parser == nil {
		q.Parser = &GreedyParser{}
	}

	nextEmit := len(q.history)
	q.history = append(q.history, src...)
	src = q.history

	// The last byte of the history has no pair until more data arrives.
	prev := q.prev
	for i := len(prev); i+1 < len(src); i++ {
		k := binary.LittleEndian.Uint16(src[i:])
		prev = append(prev, q.head[k])
		q.head[k] = int32(i + 1)
	}
	q.prev = prev

	return q.Parser.Parse(dst, q, nextEmit, len(src))
}

func (q *PairChain) Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch {
	if max > len(q.history) {
		max = len(q.history)
	}
	limit := max
	if limit-pos > q.MaxLength {
		limit = pos + q.MaxLength
	}
	if pos+2 > limit {
		return dst
	}
	src := q.history[:limit]

	best := 0
	steps := 0
	for c := int(q.prev[pos]) - 1; c >= 0 && pos-c <= q.MaxDistance; c = int(q.prev[c]) - 1 {
		if q.SearchLen > 0 && steps == q.SearchLen {
			break
		}
		steps++

		end := extendMatch(src, c+2, pos+2)
		length := end - pos
		if length <= best {
			continue
		}
		if q.LongDistance > 0 && pos-c > q.LongDistance && length < q.LongMinLength {
			continue
		}
		best = length
		dst = append(dst, AbsoluteMatch{
			Start: pos,
			End:   end,
			Match: c,
		})
		if end == limit {
			break
		}
	}

	return dst
}
