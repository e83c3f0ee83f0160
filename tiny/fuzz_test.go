package tiny

import (
	"bytes"
	"testing"
)

func FuzzDecompress(f *testing.F) {
	for _, src := range testInputs() {
		enc, err := Compress(src, nil)
		if err != nil {
			f.Fatal(err)
		}
		f.Add(enc)
	}
	f.Add([]byte{1, 0, 0, 0, 0xff, 0xff, 0xff, 0xff, 0xff})
	f.Fuzz(func(t *testing.T, src []byte) {
		out, err := Decompress(src, 1<<12)
		if err != nil {
			return
		}
		tokens, err := ParseTokens(src)
		if err != nil {
			t.Fatalf("Decompress succeeded but ParseTokens failed: %v", err)
		}
		if tokens[len(tokens)-1].Code != StreamEnd {
			t.Fatalf("last token is %v", tokens[len(tokens)-1])
		}
		if len(out) > 1<<12 {
			t.Fatalf("%d bytes of output", len(out))
		}
	})
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte("abcXabcYabc"), uint32(65535))
	f.Add(ledFrame(30, 1), uint32(128))
	f.Add(bytes.Repeat([]byte{0xff}, 20), uint32(1))
	f.Fuzz(func(t *testing.T, src []byte, dictSize uint32) {
		if dictSize == 0 {
			dictSize = 1
		}
		enc, err := Compress(src, &CompressOptions{DictSize: dictSize})
		if err != nil {
			t.Fatal(err)
		}
		dec, err := Decompress(enc, len(src))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(dec, src) {
			t.Fatal("round trip mismatch")
		}
	})
}
