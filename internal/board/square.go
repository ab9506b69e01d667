// Package board implements the chess rules engine: a mailbox board of indexed
// pieces, move legality, attack reach, check and checkmate detection.
package board

import "fmt"

// Board dimensions.
const (
	Rows = 8
	Cols = 8
)

// Square is a (row, column) coordinate on the board.
// Row 0 is Black's back rank (rank 8) and row 7 is White's back rank (rank 1).
// Column 0 is the a-file.
type Square struct {
	Row int
	Col int
}

// OffBoard is the position recorded for captured pieces.
var OffBoard = Square{Row: -1, Col: -1}

// NewSquare creates a square from row and column.
func NewSquare(row, col int) Square {
	return Square{Row: row, Col: col}
}

// IsValid returns true if the square lies inside the 8x8 board.
func (sq Square) IsValid() bool {
	return sq.Row >= 0 && sq.Row < Rows && sq.Col >= 0 && sq.Col < Cols
}

// Rank returns the chess rank (1-8) of the square.
func (sq Square) Rank() int {
	return Rows - sq.Row
}

// Offset returns the square shifted by the given row and column deltas.
// The result may be off the board.
func (sq Square) Offset(dRow, dCol int) Square {
	return Square{Row: sq.Row + dRow, Col: sq.Col + dCol}
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+sq.Col, sq.Rank())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return OffBoard, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}

	col := int(s[0]) - 'a'
	rank := int(s[1]) - '0'

	sq := Square{Row: Rows - rank, Col: col}
	if rank < 1 || rank > 8 || !sq.IsValid() {
		return OffBoard, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	return sq, nil
}

// MarshalText encodes the square in algebraic notation.
func (sq Square) MarshalText() ([]byte, error) {
	return []byte(sq.String()), nil
}

// UnmarshalText decodes algebraic notation; "-" decodes to OffBoard.
func (sq *Square) UnmarshalText(text []byte) error {
	if string(text) == "-" {
		*sq = OffBoard
		return nil
	}
	parsed, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*sq = parsed
	return nil
}

// MustSquare is like ParseSquare but panics on malformed input.
// Intended for literals in tests and setup code.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// sign returns -1, 0 or 1.
func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
