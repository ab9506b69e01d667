package board

import (
	"fmt"
	"slices"
	"strings"
)

// NoPiece marks an empty grid cell.
const NoPiece = -1

// Board is the logical 8x8 occupancy grid plus the ordered piece collection.
// Each grid cell holds the index of the occupying piece or NoPiece.
//
// For every living piece P on (r, c), grid[r][c] == index(P), and no cell
// references a captured piece. All exported operations keep this invariant.
// A Board is not safe for concurrent use.
type Board struct {
	grid   [Rows][Cols]int
	pieces []Piece
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	b := &Board{}
	b.Clear()
	return b
}

// Clear removes every piece.
func (b *Board) Clear() {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			b.grid[r][c] = NoPiece
		}
	}
	b.pieces = b.pieces[:0]
}

// AddPiece appends a living, unmoved piece on sq and returns its index.
func (b *Board) AddPiece(pt PieceType, c Color, sq Square) (int, error) {
	if !sq.IsValid() {
		return NoPiece, fmt.Errorf("%w: %v", ErrInvalidPosition, sq)
	}
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece, fmt.Errorf("invalid piece %v %v", c, pt)
	}
	if b.grid[sq.Row][sq.Col] != NoPiece {
		return NoPiece, fmt.Errorf("%w: %v", ErrOccupied, sq)
	}

	idx := len(b.pieces)
	b.pieces = append(b.pieces, Piece{
		ID:     fmt.Sprintf("%s_%s_%d", strings.ToLower(c.String()), strings.ToLower(pt.String()), idx),
		Type:   pt,
		Color:  c,
		Square: sq,
		Alive:  true,
	})
	b.grid[sq.Row][sq.Col] = idx
	return idx, nil
}

// Occupant returns the index of the piece on sq.
// The second result is false for empty or off-board squares.
func (b *Board) Occupant(sq Square) (int, bool) {
	if !sq.IsValid() {
		return NoPiece, false
	}
	idx := b.grid[sq.Row][sq.Col]
	return idx, idx != NoPiece
}

// PieceAt returns the piece standing on sq.
func (b *Board) PieceAt(sq Square) (Piece, bool) {
	idx, ok := b.Occupant(sq)
	if !ok {
		return Piece{}, false
	}
	return b.pieces[idx], true
}

// Piece returns a copy of the piece at index idx.
func (b *Board) Piece(idx int) (Piece, error) {
	if idx < 0 || idx >= len(b.pieces) {
		return Piece{}, fmt.Errorf("%w: %d", ErrInvalidPieceIndex, idx)
	}
	return b.pieces[idx], nil
}

// Len returns the size of the piece collection, captured pieces included.
func (b *Board) Len() int {
	return len(b.pieces)
}

// Pieces returns a copy of the piece collection.
func (b *Board) Pieces() []Piece {
	return slices.Clone(b.pieces)
}

// living returns the piece at idx if it exists and is alive.
func (b *Board) living(idx int) (*Piece, bool) {
	if idx < 0 || idx >= len(b.pieces) {
		return nil, false
	}
	p := &b.pieces[idx]
	if !p.Alive || !p.Square.IsValid() {
		return nil, false
	}
	return p, true
}

// isEmpty reports whether an on-board square is unoccupied.
func (b *Board) isEmpty(sq Square) bool {
	return b.grid[sq.Row][sq.Col] == NoPiece
}

// ApplyMove executes an already approved transition of piece idx from
// from to to. Any piece on the destination is captured. A king moving
// exactly two columns also brings the rook from that edge to the square
// the king skipped. No legality checks are made here, and the mover
// always leaves its recorded square even when from disagrees.
func (b *Board) ApplyMove(from, to Square, idx int) {
	p, ok := b.living(idx)
	if !ok || !to.IsValid() {
		return
	}
	b.makeMove(p.Square, to, idx)
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	return &Board{
		grid:   b.grid,
		pieces: slices.Clone(b.pieces),
	}
}

// Equal reports whether two boards hold the same grid and piece collection.
func (b *Board) Equal(other *Board) bool {
	if other == nil {
		return false
	}
	return b.grid == other.grid && slices.Equal(b.pieces, other.pieces)
}

// Validate checks the grid/piece consistency invariant.
func (b *Board) Validate() error {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			idx := b.grid[r][c]
			if idx == NoPiece {
				continue
			}
			if idx < 0 || idx >= len(b.pieces) {
				return fmt.Errorf("cell %v references unknown piece %d", NewSquare(r, c), idx)
			}
			p := b.pieces[idx]
			if !p.Alive {
				return fmt.Errorf("cell %v references captured piece %d", NewSquare(r, c), idx)
			}
			if p.Square != NewSquare(r, c) {
				return fmt.Errorf("cell %v holds piece %d recorded at %v", NewSquare(r, c), idx, p.Square)
			}
		}
	}

	for i, p := range b.pieces {
		if !p.Alive {
			if p.Square != OffBoard {
				return fmt.Errorf("captured piece %d still at %v", i, p.Square)
			}
			continue
		}
		if !p.Square.IsValid() {
			return fmt.Errorf("living piece %d has no square", i)
		}
		if b.grid[p.Square.Row][p.Square.Col] != i {
			return fmt.Errorf("piece %d at %v missing from grid", i, p.Square)
		}
	}
	return nil
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for r := 0; r < Rows; r++ {
		fmt.Fprintf(&sb, "%d  ", Rows-r)
		for c := 0; c < Cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			if idx := b.grid[r][c]; idx == NoPiece {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(b.pieces[idx].Char())
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
