package tiny

import (
	"fmt"
	"math"
)

// decoderState is the decoder half of the running state. next parses one
// token and performs the state transitions that go with it; apply writes
// the token's bytes to the output.
type decoderState struct {
	r            bitReader
	dictPosBack  uint32
	haveDataBack bool

	dst []byte
	n   int // bytes written to dst

	// countOnly makes apply track n without writing anything, for
	// ParseTokens.
	countOnly bool
}

func newDecoderState(dst, src []byte) decoderState {
	return decoderState{
		r:           bitReader{src: src, pos: HeaderSize},
		dictPosBack: 1,
		dst:         dst,
	}
}

func (s *decoderState) next() (Token, error) {
	kind, err := s.r.readBit()
	if err != nil {
		return Token{}, err
	}

	if kind == typeData {
		b, err := s.r.readByte()
		if err != nil {
			return Token{}, err
		}
		s.haveDataBack = true
		return Data(b), nil
	}

	lenValue, err := s.r.readVarint(lengthWidth)
	if err != nil {
		return Token{}, err
	}
	length := uint64(lenValue)

	var dist uint32
	reused := false
	if s.haveDataBack {
		bit, err := s.r.readBit()
		if err != nil {
			return Token{}, err
		}
		if bit == 1 {
			dist = s.dictPosBack
			reused = true
		}
	}
	if !reused {
		dist, err = s.r.readPosition()
		if err != nil {
			return Token{}, err
		}
		if dist > longDistance {
			length++
		}
	}
	s.haveDataBack = false

	if dist == 0 {
		return s.control(ControlCode(lenValue))
	}

	length += minMatch
	if length > math.MaxInt32 {
		return Token{}, fmt.Errorf("%w: match length %d", ErrOutputTooSmall, length)
	}
	s.dictPosBack = dist
	return MatchToken(int(length), int(dist)), nil
}

func (s *decoderState) control(code ControlCode) (Token, error) {
	switch code {
	case LiteralLine:
		extra, err := s.r.readVarint(lineWidth)
		if err != nil {
			return Token{}, err
		}
		n := uint64(extra) + minLiteralLine
		if n > uint64(len(s.r.src)-s.r.pos) {
			return Token{}, fmt.Errorf("%w: literal line of %d bytes at offset %d, %d left", ErrReadCode, n, s.r.pos, len(s.r.src)-s.r.pos)
		}
		lit, err := s.r.readBytes(int(n))
		if err != nil {
			return Token{}, err
		}
		s.haveDataBack = true
		return Control(LiteralLine, lit), nil

	case ClipEnd:
		s.dictPosBack = 1
		s.r.closeType()
		return Control(ClipEnd, nil), nil

	case StreamEnd:
		s.dictPosBack = 1
		s.r.closeType()
		s.haveDataBack = false
		return Control(StreamEnd, nil), nil
	}

	if debugDecoder {
		printf("unknown control code %d at offset %d", code, s.r.pos)
	}
	return Token{}, fmt.Errorf("%w: %d", ErrUnknownControlCode, code)
}

func (s *decoderState) apply(t Token) error {
	switch t.Kind {
	case KindData:
		if !s.countOnly {
			if s.n >= len(s.dst) {
				return fmt.Errorf("%w: capacity %d", ErrOutputTooSmall, len(s.dst))
			}
			s.dst[s.n] = t.Literal
		}
		s.n++

	case KindMatch:
		if t.Distance > s.n {
			return fmt.Errorf("%w: distance %d at output offset %d", ErrInvalidDistance, t.Distance, s.n)
		}
		if !s.countOnly {
			if t.Length > len(s.dst)-s.n {
				return fmt.Errorf("%w: match of %d bytes at output offset %d, capacity %d", ErrOutputTooSmall, t.Length, s.n, len(s.dst))
			}
			copyMatch(s.dst, s.n, t.Distance, t.Length)
		}
		s.n += t.Length

	case KindControl:
		if t.Code != LiteralLine {
			return nil
		}
		if !s.countOnly {
			if len(t.Literals) > len(s.dst)-s.n {
				return fmt.Errorf("%w: literal line of %d bytes at output offset %d, capacity %d", ErrOutputTooSmall, len(t.Literals), s.n, len(s.dst))
			}
			copy(s.dst[s.n:], t.Literals)
		}
		s.n += len(t.Literals)
	}
	return nil
}

// copyMatch copies length bytes from dst[pos-dist:] to dst[pos:]. When dist
// is less than length the ranges overlap, and each byte written becomes the
// source of a later one; that is how runs are encoded, so the copy has to go
// one byte at a time.
func copyMatch(dst []byte, pos, dist, length int) {
	from := pos - dist
	for i := 0; i < length; i++ {
		dst[pos+i] = dst[from+i]
	}
}

// decode runs the token loop until StreamEnd. If visit is not nil, it is
// called with each token, StreamEnd included.
func decode(s *decoderState, visit func(Token)) error {
	for {
		t, err := s.next()
		if err != nil {
			return err
		}
		if visit != nil {
			visit(t)
		}
		if t.Kind == KindControl && t.Code == StreamEnd {
			return nil
		}
		if err := s.apply(t); err != nil {
			return err
		}
	}
}
