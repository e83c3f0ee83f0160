package tiny

import "github.com/tinyframe/pack"

// Stats counts what an Encoder has written since its last Reset.
type Stats struct {
	Literals         int // bytes sent as individual DATA tokens
	LiteralLines     int // LiteralLine runs
	LiteralLineBytes int // bytes sent inside LiteralLine runs
	Matches          int // dictionary matches
	MatchBytes       int // bytes covered by dictionary matches
	ReusedDistances  int // matches whose distance was sent as a single reuse bit
	Segments         int // ClipEnd and StreamEnd codes

	// MaxDistance is the largest match distance used. It is informational
	// only; the header always carries the configured dictionary size.
	MaxDistance int
}

// encoderState is the encoder half of the running state that both sides of
// the format keep in step.
type encoderState struct {
	w            bitWriter
	dictPosBack  uint32
	haveDataBack bool
	literalLines bool
	stats        Stats
}

func (s *encoderState) reset() {
	s.w = bitWriter{buf: s.w.buf[:0]}
	s.dictPosBack = 1
	s.haveDataBack = false
	s.stats = Stats{}
}

// literals writes a run of pending literal bytes.
func (s *encoderState) literals(lit []byte) {
	if len(lit) == 0 {
		return
	}
	if s.literalLines && len(lit) >= minLiteralLine {
		s.control(LiteralLine)
		s.w.writeVarint(uint32(len(lit)-minLiteralLine), lineWidth)
		s.w.writeBytes(lit)
		s.stats.LiteralLines++
		s.stats.LiteralLineBytes += len(lit)
	} else {
		for _, b := range lit {
			s.w.writeBit(typeData)
			s.w.writeByte(b)
		}
		s.stats.Literals += len(lit)
	}
	s.haveDataBack = true
}

// canMatch reports whether a match can be written next, given whether
// literals will be written in front of it. A fresh position beyond
// longDistance costs one length unit, so such matches need at least
// minMatch+1 bytes unless their distance can be reused.
func (s *encoderState) canMatch(length int, distance uint32, afterLiterals bool) bool {
	if length < minMatch || distance == 0 {
		return false
	}
	if length > minMatch || distance <= longDistance {
		return true
	}
	return afterLiterals && distance == s.dictPosBack
}

// match writes a DICT token for a match. The caller must have checked it
// with canMatch.
func (s *encoderState) match(length int, distance uint32) {
	s.w.writeBit(typeDict)
	reuse := s.haveDataBack && distance == s.dictPosBack
	lenValue := uint32(length - minMatch)
	if !reuse && distance > longDistance {
		lenValue--
	}
	s.w.writeVarint(lenValue, lengthWidth)
	if s.haveDataBack {
		if reuse {
			s.w.writeBit(1)
		} else {
			s.w.writeBit(0)
		}
	}
	if !reuse {
		s.w.writePosition(distance)
	}
	if debugEncoder {
		printf("match len=%d dist=%d reuse=%v", length, distance, reuse)
	}

	s.haveDataBack = false
	s.dictPosBack = distance
	s.stats.Matches++
	s.stats.MatchBytes += length
	if reuse {
		s.stats.ReusedDistances++
	}
	if int(distance) > s.stats.MaxDistance {
		s.stats.MaxDistance = int(distance)
	}
}

// control writes a DICT token with position zero carrying code.
func (s *encoderState) control(code ControlCode) {
	s.w.writeBit(typeDict)
	s.w.writeVarint(uint32(code), lengthWidth)
	if s.haveDataBack {
		s.w.writeBit(0)
	}
	s.w.writePosition(0)
	s.haveDataBack = false

	if code == ClipEnd || code == StreamEnd {
		s.dictPosBack = 1
		s.w.closeType()
		s.stats.Segments++
	}
	if debugEncoder {
		printf("control %v", code)
	}
}

// An Encoder implements the pack.Encoder interface, writing the tiny token
// format. Each block ends with ClipEnd, except the last one, which ends with
// StreamEnd.
type Encoder struct {
	// DictSize is the dictionary size written to the header.
	// The default is DefaultDictSize.
	DictSize uint32

	// NoLiteralLines turns off LiteralLine runs, so that every literal is
	// sent as its own DATA token.
	NoLiteralLines bool

	state   encoderState
	written int // input bytes encoded since Reset
	started bool
}

var _ pack.Encoder = (*Encoder)(nil)

func (e *Encoder) Reset() {
	e.state.reset()
	e.written = 0
	e.started = true
}

// Stats returns counters for the data encoded since the last Reset.
func (e *Encoder) Stats() Stats {
	return e.state.stats
}

func (e *Encoder) Header(dst []byte) []byte {
	if e.DictSize == 0 {
		e.DictSize = DefaultDictSize
	}
	return appendHeader(dst, e.DictSize)
}

// Encode appends the tokens for src to dst. Matches that the format cannot
// express (too short, or reaching back before the start of the stream) are
// sent as literals instead.
func (e *Encoder) Encode(dst []byte, src []byte, matches []pack.Match, lastBlock bool) []byte {
	if !e.started {
		e.Reset()
	}
	s := &e.state
	s.literalLines = !e.NoLiteralLines
	s.w.buf = dst

	pos := 0
	litStart := 0
	for _, m := range matches {
		pos += m.Unmatched
		if m.Length == 0 {
			continue
		}
		if m.Distance <= e.written+pos && m.Distance > 0 && pos+m.Length <= len(src) &&
			s.canMatch(m.Length, uint32(m.Distance), pos > litStart) {
			s.literals(src[litStart:pos])
			s.match(m.Length, uint32(m.Distance))
			litStart = pos + m.Length
		}
		pos += m.Length
	}
	s.literals(src[litStart:])

	if lastBlock {
		s.control(StreamEnd)
	} else {
		s.control(ClipEnd)
	}
	e.written += len(src)

	dst = s.w.buf
	s.w.buf = nil
	return dst
}
