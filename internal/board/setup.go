package board

// backRank is the piece order of a back rank from the a-file to the h-file.
var backRank = [Cols]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewStandardBoard returns the standard starting layout.
// White pieces occupy indices 0-15 (pawns a-h, then the back rank a-h)
// and Black pieces indices 16-31 in the same order.
func NewStandardBoard() *Board {
	b := NewBoard()
	for _, c := range []Color{White, Black} {
		for col := 0; col < Cols; col++ {
			b.mustAdd(Pawn, c, NewSquare(c.PawnStartRow(), col))
		}
		for col, pt := range backRank {
			b.mustAdd(pt, c, NewSquare(c.BackRow(), col))
		}
	}
	return b
}

// mustAdd places a piece during setup of a known-good layout.
func (b *Board) mustAdd(pt PieceType, c Color, sq Square) {
	if _, err := b.AddPiece(pt, c, sq); err != nil {
		panic(err)
	}
}
