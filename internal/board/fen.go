package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string into a board and the side to move.
//
// Castling rights become HasMoved flags: a king keeps HasMoved=false while
// its side has any right, and an edge rook keeps it while the right for its
// edge is present. En passant, half-move and full-move fields are accepted
// and ignored.
func ParseFEN(fen string) (*Board, Color, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return nil, NoColor, fmt.Errorf("%w: need at least 2 fields, got %d", ErrInvalidFEN, len(parts))
	}

	b := NewBoard()

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, NoColor, err
	}

	// Parse side to move (field 1)
	var turn Color
	switch parts[1] {
	case "w":
		turn = White
	case "b":
		turn = Black
	default:
		return nil, NoColor, fmt.Errorf("%w: invalid side to move: %s", ErrInvalidFEN, parts[1])
	}

	// Parse castling rights (field 2, optional)
	castling := "-"
	if len(parts) > 2 {
		castling = parts[2]
	}
	if err := applyCastlingRights(b, castling); err != nil {
		return nil, NoColor, err
	}

	return b, turn, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != Rows {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for row, rankStr := range ranks {
		col := 0

		for _, c := range rankStr {
			if col > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, Rows-row)
			}

			if c >= '1' && c <= '8' {
				// Skip empty squares
				col += int(c - '0')
				continue
			}

			pt, color, ok := PieceTypeFromChar(byte(c))
			if !ok {
				return fmt.Errorf("%w: invalid piece character: %c", ErrInvalidFEN, c)
			}
			idx, err := b.AddPiece(pt, color, NewSquare(row, col))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidFEN, err)
			}
			if pt == Pawn && row != color.PawnStartRow() {
				b.pieces[idx].HasMoved = true
			}
			col++
		}

		if col != Cols {
			return fmt.Errorf("%w: invalid number of squares in rank %d: got %d", ErrInvalidFEN, Rows-row, col)
		}
	}

	return nil
}

// applyCastlingRights marks kings and rooks as moved unless a castling
// right keeps them eligible.
func applyCastlingRights(b *Board, castling string) error {
	var kingSide, queenSide [2]bool

	if castling != "-" {
		for _, c := range castling {
			switch c {
			case 'K':
				kingSide[White] = true
			case 'Q':
				queenSide[White] = true
			case 'k':
				kingSide[Black] = true
			case 'q':
				queenSide[Black] = true
			default:
				return fmt.Errorf("%w: invalid castling character: %c", ErrInvalidFEN, c)
			}
		}
	}

	for i := range b.pieces {
		p := &b.pieces[i]
		switch p.Type {
		case King:
			home := p.Square == NewSquare(p.Color.BackRow(), 4)
			p.HasMoved = !home || !(kingSide[p.Color] || queenSide[p.Color])
		case Rook:
			switch p.Square {
			case NewSquare(p.Color.BackRow(), Cols-1):
				p.HasMoved = !kingSide[p.Color]
			case NewSquare(p.Color.BackRow(), 0):
				p.HasMoved = !queenSide[p.Color]
			default:
				p.HasMoved = true
			}
		}
	}
	return nil
}

// castlingRights returns the FEN castling field implied by the HasMoved flags.
func (b *Board) castlingRights() string {
	s := ""
	for _, c := range []Color{White, Black} {
		kingIdx, ok := b.KingIndex(c)
		if !ok {
			continue
		}
		king := b.pieces[kingIdx]
		if king.HasMoved || king.Square != NewSquare(c.BackRow(), 4) {
			continue
		}
		for _, side := range []struct {
			col  int
			char byte
		}{{Cols - 1, 'K'}, {0, 'Q'}} {
			rook, ok := b.PieceAt(NewSquare(c.BackRow(), side.col))
			if !ok || rook.Type != Rook || rook.Color != c || rook.HasMoved {
				continue
			}
			ch := side.char
			if c == Black {
				ch += 'a' - 'A'
			}
			s += string(ch)
		}
	}
	if s == "" {
		return "-"
	}
	return s
}

// ToFEN returns the FEN representation of the board with the given side to move.
func (b *Board) ToFEN(turn Color) string {
	var sb strings.Builder

	// Piece placement
	for row := 0; row < Rows; row++ {
		empty := 0
		for col := 0; col < Cols; col++ {
			idx := b.grid[row][col]
			if idx == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(b.pieces[idx].Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < Rows-1 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if turn == Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}

	sb.WriteByte(' ')
	sb.WriteString(b.castlingRights())

	// No en passant; clocks are not tracked.
	sb.WriteString(" - 0 1")

	return sb.String()
}
