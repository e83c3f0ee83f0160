package tiny

import "errors"

// Sentinel errors for compression and decompression. Errors returned by this
// package wrap one of these with details; match them with errors.Is.
var (
	// ErrHeaderTooShort is returned when the input is shorter than the 4-byte header.
	ErrHeaderTooShort = errors.New("tiny: header too short")
	// ErrInvalidHeader is returned when the header's dictionary size is zero.
	ErrInvalidHeader = errors.New("tiny: invalid header")
	// ErrInvalidDictSize is returned when compression is asked for a zero dictionary size.
	ErrInvalidDictSize = errors.New("tiny: dictionary size must be nonzero")
	// ErrOutputTooSmall is returned when the destination buffer cannot hold the result.
	ErrOutputTooSmall = errors.New("tiny: output buffer too small")
	// ErrReadCode is returned when the input ends (or overflows) in the middle of a token.
	ErrReadCode = errors.New("tiny: unexpected end of compressed data")
	// ErrInvalidDistance is returned when a match refers back past the start of the output.
	ErrInvalidDistance = errors.New("tiny: match distance before start of output")
	// ErrUnknownControlCode is returned for a control code other than LiteralLine, ClipEnd or StreamEnd.
	ErrUnknownControlCode = errors.New("tiny: unknown control code")
)
