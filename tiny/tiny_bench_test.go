package tiny

import (
	"bytes"
	"io"
	"testing"
)

func benchmarkCompress(b *testing.B, frame []byte, opts *CompressOptions) {
	b.StopTimer()
	b.ReportAllocs()
	b.SetBytes(int64(len(frame)))
	enc, err := Compress(frame, opts)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportMetric(float64(len(frame))/float64(len(enc)), "ratio")
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		Compress(frame, opts)
	}
}

func benchmarkDecompress(b *testing.B, frame []byte) {
	b.StopTimer()
	b.ReportAllocs()
	b.SetBytes(int64(len(frame)))
	enc, err := Compress(frame, nil)
	if err != nil {
		b.Fatal(err)
	}
	dst := make([]byte, len(frame))
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecompressInto(dst, enc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompressLED60(b *testing.B) {
	benchmarkCompress(b, ledFrame(60, 0), nil)
}

func BenchmarkCompressLED300(b *testing.B) {
	benchmarkCompress(b, ledFrame(300, 0), nil)
}

func BenchmarkCompressLED300Dict256(b *testing.B) {
	benchmarkCompress(b, ledFrame(300, 0), &CompressOptions{DictSize: 256})
}

func BenchmarkCompressRandom1k(b *testing.B) {
	benchmarkCompress(b, randomBytes(1, 1024), nil)
}

func BenchmarkDecompressLED300(b *testing.B) {
	benchmarkDecompress(b, ledFrame(300, 0))
}

func BenchmarkWriterLED(b *testing.B) {
	b.StopTimer()
	b.ReportAllocs()
	var data []byte
	for phase := 0; phase < 16; phase++ {
		data = append(data, ledFrame(100, phase)...)
	}
	b.SetBytes(int64(len(data)))

	buf := new(bytes.Buffer)
	w, err := NewWriter(buf, 300, nil)
	if err != nil {
		b.Fatal(err)
	}
	w.Write(data)
	w.Close()
	b.ReportMetric(float64(len(data))/float64(buf.Len()), "ratio")
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		w.Reset(io.Discard)
		w.Write(data)
		w.Close()
	}
}
