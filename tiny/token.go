package tiny

import "fmt"

// A TokenKind says which member of a Token is in use.
type TokenKind uint8

const (
	KindData    TokenKind = iota // a single literal byte
	KindMatch                    // a dictionary match
	KindControl                  // a control code
)

// A Token is one unit of the token stream.
type Token struct {
	Kind TokenKind

	// Literal is the byte of a KindData token.
	Literal byte

	// Length and Distance describe a KindMatch token. Distance is 1-based:
	// 1 refers to the byte just before the current position.
	Length   int
	Distance int

	// Code is the control code of a KindControl token. For LiteralLine,
	// Literals holds the bytes of the run.
	Code     ControlCode
	Literals []byte
}

// Data returns a KindData token.
func Data(b byte) Token {
	return Token{Kind: KindData, Literal: b}
}

// MatchToken returns a KindMatch token.
func MatchToken(length, distance int) Token {
	return Token{Kind: KindMatch, Length: length, Distance: distance}
}

// Control returns a KindControl token. lit is only used with LiteralLine.
func Control(code ControlCode, lit []byte) Token {
	return Token{Kind: KindControl, Code: code, Literals: lit}
}

func (t Token) String() string {
	switch t.Kind {
	case KindData:
		return fmt.Sprintf("Data(%#02x)", t.Literal)
	case KindMatch:
		return fmt.Sprintf("Match(%d,%d)", t.Length, t.Distance)
	case KindControl:
		if t.Code == LiteralLine {
			return fmt.Sprintf("LiteralLine(%d)", len(t.Literals))
		}
		return t.Code.String()
	}
	return fmt.Sprintf("Token(kind=%d)", t.Kind)
}
