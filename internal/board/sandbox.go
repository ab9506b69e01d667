package board

// cellChange records the previous content of one grid cell.
type cellChange struct {
	sq   Square
	prev int
}

// pieceChange records the previous state of one piece record.
type pieceChange struct {
	idx  int
	prev Piece
}

// undo holds exactly the cells and piece records touched by makeMove.
// A move touches at most four cells (king origin and destination, rook
// origin and destination) and three pieces (mover, victim, rook).
type undo struct {
	cells     [4]cellChange
	numCells  int
	pieces    [3]pieceChange
	numPieces int
}

func (u *undo) saveCell(b *Board, sq Square) {
	u.cells[u.numCells] = cellChange{sq: sq, prev: b.grid[sq.Row][sq.Col]}
	u.numCells++
}

func (u *undo) savePiece(b *Board, idx int) {
	u.pieces[u.numPieces] = pieceChange{idx: idx, prev: b.pieces[idx]}
	u.numPieces++
}

// makeMove applies a move and returns the information needed to revert it.
// It is the single implementation of move application: ApplyMove keeps the
// result, the sandbox reverts it.
func (b *Board) makeMove(from, to Square, idx int) undo {
	var u undo

	u.savePiece(b, idx)
	if from.IsValid() {
		u.saveCell(b, from)
		b.grid[from.Row][from.Col] = NoPiece
	}

	// Capture: the victim leaves the board before the mover takes the cell.
	if victim := b.grid[to.Row][to.Col]; victim != NoPiece && victim != idx {
		u.savePiece(b, victim)
		b.pieces[victim].Alive = false
		b.pieces[victim].Square = OffBoard
	}
	u.saveCell(b, to)
	b.grid[to.Row][to.Col] = idx

	mover := &b.pieces[idx]
	mover.Square = to
	mover.HasMoved = true

	// Castling: the rook jumps to the square the king passed over.
	if mover.Type == King && from.Row == to.Row && abs(to.Col-from.Col) == 2 {
		dir := sign(to.Col - from.Col)
		rookFrom := NewSquare(from.Row, 0)
		if dir > 0 {
			rookFrom = NewSquare(from.Row, Cols-1)
		}
		rookTo := NewSquare(from.Row, from.Col+dir)

		if rook := b.grid[rookFrom.Row][rookFrom.Col]; rook != NoPiece {
			u.savePiece(b, rook)
			u.saveCell(b, rookFrom)
			u.saveCell(b, rookTo)
			b.grid[rookFrom.Row][rookFrom.Col] = NoPiece
			b.grid[rookTo.Row][rookTo.Col] = rook
			b.pieces[rook].Square = rookTo
			b.pieces[rook].HasMoved = true
		}
	}

	return u
}

// unmakeMove reverts a move made by makeMove.
// Changes are replayed newest first so repeated cells end at their oldest value.
func (b *Board) unmakeMove(u undo) {
	for i := u.numCells - 1; i >= 0; i-- {
		c := u.cells[i]
		b.grid[c.sq.Row][c.sq.Col] = c.prev
	}
	for i := u.numPieces - 1; i >= 0; i-- {
		p := u.pieces[i]
		b.pieces[p.idx] = p.prev
	}
}

// WouldCauseSelfCheck plays the move of piece idx to to on the board,
// reports whether the mover's own king is then in check, and restores the
// board to exactly its previous state before returning.
//
// The move must already have passed IsLegal. An unknown or captured piece,
// or an off-board destination, reports false without touching the board.
func (b *Board) WouldCauseSelfCheck(idx int, to Square) bool {
	p, ok := b.living(idx)
	if !ok || !to.IsValid() {
		return false
	}
	color := p.Color

	u := b.makeMove(p.Square, to, idx)
	defer b.unmakeMove(u)

	return b.InCheck(color)
}
