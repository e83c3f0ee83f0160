/*
Package tiny implements a compressed format for very small, repetitive
buffers (tens of bytes to a few kilobytes), such as LED frames and sensor
snapshots, where the fixed overhead of general-purpose formats outweighs what
they save.

Format: a 4-byte little-endian dictionary size (never zero), then a token
stream. Tokens are selected by type bits, packed LSB first eight to a type
byte; a type byte is placed in the output where its first bit is needed, and
payload bytes (literals, positions) follow in the order they are produced.

  - DATA (type bit 0): one literal byte.
  - DICT (type bit 1): a match length as a width-1 varint, an optional reuse
    bit, and a position. Position 0 turns the token into a control code:
    LiteralLine (a run of 15+ literal bytes), ClipEnd (segment boundary) or
    StreamEnd.

A match right after literals may reuse the previous match's distance with a
single bit. Fresh positions beyond 2687 bytes have their length stored one
less than usual.

# Examples

Round trip with the default dictionary size:

	enc, err := tiny.Compress(frame, nil)
	if err != nil {
		return err
	}
	dec, err := tiny.Decompress(enc, len(frame))
	if err != nil {
		return err
	}
	// dec equals frame

Compress into and decompress from caller-owned buffers:

	n, err := tiny.CompressInto(buf, frame, 256)
	m, err := tiny.DecompressInto(out, buf[:n])

Read the dictionary size without decoding:

	dictSize, err := tiny.PeekDictSize(enc)
*/
package tiny
