package tiny

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tinyframe/pack"
)

// encodeTokens writes a complete stream for tokens, followed by StreamEnd.
// It does not check that the tokens make sense.
func encodeTokens(tokens ...Token) ([]byte, Stats) {
	var s encoderState
	s.reset()
	s.literalLines = true
	s.w.buf = appendHeader(nil, DefaultDictSize)
	for _, t := range tokens {
		switch t.Kind {
		case KindData:
			s.literals([]byte{t.Literal})
		case KindMatch:
			s.match(t.Length, uint32(t.Distance))
		case KindControl:
			if t.Code == LiteralLine {
				s.literals(t.Literals)
			} else {
				s.control(t.Code)
			}
		}
	}
	s.control(StreamEnd)
	return s.w.buf, s.stats
}

func literalTokens(s string) []Token {
	var tokens []Token
	for i := 0; i < len(s); i++ {
		tokens = append(tokens, Data(s[i]))
	}
	return tokens
}

func decodeString(t *testing.T, stream []byte) string {
	t.Helper()
	out, err := Decompress(stream, 1024)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	return string(out)
}

func TestEncodeEmptyStream(t *testing.T) {
	got, err := Compress(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Header, then one type byte holding DICT + varint(3) and a zero position.
	want := []byte{0xff, 0xff, 0x00, 0x00, 0x0d, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %#x, want %#x", got, want)
	}
}

func TestDistanceReuseAfterLiteral(t *testing.T) {
	// abcX, <3,4>, Y, <3,4>: the second match follows a literal and has the
	// same distance, so its position is a single reuse bit.
	reused := append(literalTokens("abcX"), MatchToken(3, 4), Data('Y'), MatchToken(3, 4))
	// Same shape with a different distance for the second match.
	fresh := append(literalTokens("abcX"), MatchToken(3, 4), Data('Y'), MatchToken(3, 5))
	// No literal between the matches: the position must be sent again.
	adjacent := append(literalTokens("abcX"), MatchToken(3, 4), MatchToken(3, 4))

	reusedStream, reusedStats := encodeTokens(reused...)
	freshStream, freshStats := encodeTokens(fresh...)
	adjacentStream, adjacentStats := encodeTokens(adjacent...)

	if got := decodeString(t, reusedStream); got != "abcXabcYabc" {
		t.Errorf("reused: decoded %q", got)
	}
	if got := decodeString(t, freshStream); got != "abcXabcYXab" {
		t.Errorf("fresh: decoded %q", got)
	}
	if got := decodeString(t, adjacentStream); got != "abcXabcXab" {
		t.Errorf("adjacent: decoded %q", got)
	}

	if reusedStats.ReusedDistances != 1 {
		t.Errorf("reused: %d reused distances, want 1", reusedStats.ReusedDistances)
	}
	if freshStats.ReusedDistances != 0 || adjacentStats.ReusedDistances != 0 {
		t.Errorf("fresh/adjacent: reused distances %d/%d, want 0", freshStats.ReusedDistances, adjacentStats.ReusedDistances)
	}

	// The reuse bit replaces the selector bit and the whole position byte.
	if len(freshStream)-len(reusedStream) != 1 {
		t.Errorf("fresh stream is %d bytes, reused %d; want a difference of 1", len(freshStream), len(reusedStream))
	}
	// Dropping the literal saves its byte and its type bit, but the second
	// match pays for a position byte instead of a reuse bit.
	if len(reusedStream)-len(adjacentStream) != 1 {
		t.Errorf("reused stream is %d bytes, adjacent %d; want a difference of 1", len(reusedStream), len(adjacentStream))
	}
}

func TestLongDistanceLengthDiscount(t *testing.T) {
	prefix := make([]byte, 3000)
	for i := range prefix {
		prefix[i] = byte(i * 7)
	}
	var tokens []Token
	tokens = append(tokens, Control(LiteralLine, prefix))
	tokens = append(tokens, MatchToken(3, 3000), MatchToken(4, 2688), MatchToken(5, 2687))
	stream, _ := encodeTokens(tokens...)

	out, err := Decompress(stream, 4096)
	if err != nil {
		t.Fatal(err)
	}
	want := append([]byte(nil), prefix...)
	for _, m := range []struct{ length, dist int }{{3, 3000}, {4, 2688}, {5, 2687}} {
		for i := 0; i < m.length; i++ {
			want = append(want, want[len(want)-m.dist])
		}
	}
	if !bytes.Equal(out, want) {
		t.Fatal("decoded output mismatch")
	}

	parsed, err := ParseTokens(stream)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 5 {
		t.Fatalf("got %d tokens: %v", len(parsed), parsed)
	}
	for i, want := range []Token{MatchToken(3, 3000), MatchToken(4, 2688), MatchToken(5, 2687)} {
		if got := parsed[i+1]; got.Kind != want.Kind || got.Length != want.Length || got.Distance != want.Distance {
			t.Errorf("token %d = %v, want %v", i+1, got, want)
		}
	}
}

func TestCanMatch(t *testing.T) {
	var s encoderState
	s.reset()
	s.dictPosBack = 3000

	tests := []struct {
		length        int
		distance      uint32
		afterLiterals bool
		want          bool
	}{
		{1, 1, false, false},
		{2, 0, false, false},
		{2, 1, false, true},
		{2, longDistance, false, true},
		{2, longDistance + 1, false, false},
		{3, longDistance + 1, false, true},
		{2, 3000, true, true}, // reused, so no length discount
		{2, 3000, false, false},
	}
	for _, tt := range tests {
		if got := s.canMatch(tt.length, tt.distance, tt.afterLiterals); got != tt.want {
			t.Errorf("canMatch(%d, %d, %v) = %v, want %v", tt.length, tt.distance, tt.afterLiterals, got, tt.want)
		}
	}
}

func TestEncoderFallsBackToLiterals(t *testing.T) {
	src := []byte("abcabcab")
	matches := []pack.Match{
		{Unmatched: 3, Length: 2, Distance: 9}, // before the start of the stream
		{Unmatched: 0, Length: 1, Distance: 1}, // too short
		{Unmatched: 0, Length: 2, Distance: 3},
	}
	e := &Encoder{}
	out := pack.CompressBlocks(nil, [][]byte{src}, fixedMatches(matches), e)

	got, err := Decompress(out, len(src))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("got %q, want %q", got, src)
	}
	if st := e.Stats(); st.Matches != 1 || st.Literals != 6 {
		t.Errorf("stats = %+v, want 1 match and 6 literals", st)
	}
}

// fixedMatches is a MatchFinder that always returns the same matches.
type fixedMatches []pack.Match

func (f fixedMatches) Reset() {}

func (f fixedMatches) FindMatches(dst []pack.Match, src []byte) []pack.Match {
	return append(dst, f...)
}

func TestEncoderStats(t *testing.T) {
	frame := bytes.Repeat([]byte{0x10, 0x20, 0x30, 0x00, 0x00, 0x00}, 10)
	frame = append([]byte("0123456789abcdefgh"), frame...)
	_, st, err := CompressWithStats(frame, nil)
	if err != nil {
		t.Fatal(err)
	}
	if st.LiteralLines != 1 || st.LiteralLineBytes < minLiteralLine {
		t.Errorf("stats = %+v, want one literal line", st)
	}
	if st.Matches == 0 || st.MaxDistance == 0 {
		t.Errorf("stats = %+v, want matches", st)
	}
	if st.Literals+st.LiteralLineBytes+st.MatchBytes != len(frame) {
		t.Errorf("stats = %+v do not add up to %d bytes", st, len(frame))
	}
	if st.Segments != 1 {
		t.Errorf("stats = %+v, want 1 segment", st)
	}
}

func TestInvalidDictSize(t *testing.T) {
	if _, err := Compress([]byte("x"), &CompressOptions{}); !errors.Is(err, ErrInvalidDictSize) {
		t.Fatalf("want ErrInvalidDictSize, got %v", err)
	}
	if _, err := CompressInto(make([]byte, 64), []byte("x"), 0); !errors.Is(err, ErrInvalidDictSize) {
		t.Fatalf("CompressInto: want ErrInvalidDictSize, got %v", err)
	}
}
