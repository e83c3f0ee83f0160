package tiny

import "strconv"

// Wire format constants.
const (
	HeaderSize      = 4     // little-endian uint32 dictionary size in front of every stream
	DefaultDictSize = 65535 // dictionary size used when the caller has no preference

	minMatch        = 2  // shortest dictionary match worth a DICT token
	minLiteralLine  = 15 // shortest literal run sent as a LiteralLine
	maxMatchDefault = 65535

	// longDistance is the largest distance whose position fits in one byte
	// plus two width-2 varint groups. Fresh positions beyond it get one
	// added to their length, so matches there are at least minMatch+1 long.
	longDistance = 2687

	shortPosition = 128 // distances below this take a single position byte

	lengthWidth   = 1 // varint group width of match lengths and control codes
	positionWidth = 2 // varint group width of position extensions
	lineWidth     = 2 // varint group width of literal-line lengths
)

// Type bits.
const (
	typeData = 0
	typeDict = 1
)

// A ControlCode is the length field of a DICT token whose position is zero.
type ControlCode uint32

// Control codes.
const (
	LiteralLine ControlCode = 1 // a literal run of at least 15 bytes follows
	ClipEnd     ControlCode = 2 // segment boundary; resets the distance state
	StreamEnd   ControlCode = 3 // end of the stream
)

func (c ControlCode) String() string {
	switch c {
	case LiteralLine:
		return "LiteralLine"
	case ClipEnd:
		return "ClipEnd"
	case StreamEnd:
		return "StreamEnd"
	}
	return "ControlCode(" + strconv.FormatUint(uint64(c), 10) + ")"
}
