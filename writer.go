package pack

import (
	"errors"
	"io"
)

// A Writer compresses data written to it and writes the compressed stream to
// Dest. The data is cut into blocks of BlockSize bytes; the last block is
// encoded when Close is called.
type Writer struct {
	Dest        io.Writer
	MatchFinder MatchFinder
	Encoder     Encoder

	// BlockSize is the number of bytes to put in each block.
	// The default is 65536.
	BlockSize int

	inBuf   []byte
	outBuf  []byte
	matches []Match
	started bool
	closed  bool
	err     error
}

var errClosed = errors.New("pack: write to closed Writer")

// Write buffers p, and encodes each full block.
func (w *Writer) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.closed {
		return 0, errClosed
	}
	if w.BlockSize == 0 {
		w.BlockSize = 65536
	}

	for len(p) > 0 {
		// The last block has to wait for Close, so a full buffer is only
		// encoded once more data arrives.
		if len(w.inBuf) == w.BlockSize {
			if err := w.encodeBlock(false); err != nil {
				return n, err
			}
		}
		free := w.BlockSize - len(w.inBuf)
		if free > len(p) {
			free = len(p)
		}
		w.inBuf = append(w.inBuf, p[:free]...)
		p = p[free:]
		n += free
	}
	return n, nil
}

func (w *Writer) encodeBlock(lastBlock bool) error {
	if !w.started {
		w.MatchFinder.Reset()
		w.Encoder.Reset()
		w.outBuf = w.Encoder.Header(w.outBuf[:0])
		w.started = true
	}
	w.matches = w.MatchFinder.FindMatches(w.matches[:0], w.inBuf)
	w.outBuf = w.Encoder.Encode(w.outBuf, w.inBuf, w.matches, lastBlock)
	w.inBuf = w.inBuf[:0]

	_, w.err = w.Dest.Write(w.outBuf)
	w.outBuf = w.outBuf[:0]
	return w.err
}

// Close encodes the last block and ends the stream. It does not close Dest.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return nil
	}
	w.closed = true
	return w.encodeBlock(true)
}

// Reset discards the Writer's state and starts a new stream on dest, with
// the same MatchFinder, Encoder and BlockSize.
func (w *Writer) Reset(dest io.Writer) {
	w.Dest = dest
	w.inBuf = w.inBuf[:0]
	w.outBuf = w.outBuf[:0]
	w.started = false
	w.closed = false
	w.err = nil
}
