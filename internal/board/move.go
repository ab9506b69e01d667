package board

import (
	"fmt"
	"strings"
)

// MoveRecord describes one applied ply.
type MoveRecord struct {
	From     Square `json:"from"`
	To       Square `json:"to"`
	Piece    int    `json:"piece"`
	Captured int    `json:"captured"` // NoPiece when nothing was taken
	Castle   bool   `json:"castle,omitempty"`
}

// IsCapture returns true if the move took a piece.
func (m MoveRecord) IsCapture() bool {
	return m.Captured != NoPiece
}

// String returns the move in coordinate notation (e.g., "e2e4").
func (m MoveRecord) String() string {
	return m.From.String() + m.To.String()
}

// ParseMove parses coordinate notation such as "e2e4" or "e2-e4".
func ParseMove(s string) (from, to Square, err error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	if len(s) != 4 {
		return OffBoard, OffBoard, fmt.Errorf("%w: invalid move string: %q", ErrInvalidPosition, s)
	}

	from, err = ParseSquare(s[0:2])
	if err != nil {
		return OffBoard, OffBoard, err
	}
	to, err = ParseSquare(s[2:4])
	if err != nil {
		return OffBoard, OffBoard, err
	}
	return from, to, nil
}
