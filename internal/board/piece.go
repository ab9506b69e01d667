package board

import (
	"fmt"
	"strings"
)

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// MarshalText encodes the color as "white" or "black".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(c.String())), nil
}

// UnmarshalText decodes "white", "black" or "nocolor" in any case.
func (c *Color) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "white", "w":
		*c = White
	case "black", "b":
		*c = Black
	case "nocolor", "":
		*c = NoColor
	default:
		return fmt.Errorf("invalid color %q", text)
	}
	return nil
}

// PawnDirection returns the row delta of a forward pawn step.
// White moves toward row 0, Black toward row 7.
func (c Color) PawnDirection() int {
	if c == White {
		return -1
	}
	return 1
}

// PawnStartRow returns the row pawns of this color start on.
func (c Color) PawnStartRow() int {
	if c == White {
		return 6
	}
	return 1
}

// BackRow returns the row of this color's back rank.
func (c Color) BackRow() int {
	if c == White {
		return 7
	}
	return 0
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// MarshalText encodes the piece type as its lowercase name.
func (pt PieceType) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(pt.String())), nil
}

// UnmarshalText decodes a piece type name in any case.
func (pt *PieceType) UnmarshalText(text []byte) error {
	for t := Pawn; t <= NoPieceType; t++ {
		if strings.EqualFold(string(text), t.String()) {
			*pt = t
			return nil
		}
	}
	return fmt.Errorf("invalid piece type %q", text)
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if pt > NoPieceType {
		return ' '
	}
	return chars[pt]
}

// PieceTypeFromChar converts a FEN letter (either case) into a type and color.
func PieceTypeFromChar(c byte) (PieceType, Color, bool) {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	switch c {
	case 'P':
		return Pawn, color, true
	case 'N':
		return Knight, color, true
	case 'B':
		return Bishop, color, true
	case 'R':
		return Rook, color, true
	case 'Q':
		return Queen, color, true
	case 'K':
		return King, color, true
	}
	return NoPieceType, NoColor, false
}

// Piece is one entry of the board's piece collection.
// Pieces are never removed: a capture clears Alive and moves the piece
// to OffBoard so that indices stay stable.
type Piece struct {
	ID       string
	Type     PieceType
	Color    Color
	Square   Square
	Alive    bool
	HasMoved bool
}

// Char returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) Char() byte {
	c := p.Type.Char()
	if p.Color == White && c != ' ' {
		c -= 'a' - 'A'
	}
	return c
}

// String returns a short description such as "White Knight g1".
func (p Piece) String() string {
	if !p.Alive {
		return fmt.Sprintf("%s %s (captured)", p.Color, p.Type)
	}
	return fmt.Sprintf("%s %s %s", p.Color, p.Type, p.Square)
}
