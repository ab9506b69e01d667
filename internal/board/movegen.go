package board

// IsLegal reports whether piece idx may move to the destination according to
// its movement geometry, path clearance and occupancy rules, including castling.
// It does not consider whether the move leaves the mover's own king in check;
// see WouldCauseSelfCheck.
func (b *Board) IsLegal(idx int, to Square) bool {
	if !to.IsValid() {
		return false
	}
	p, ok := b.living(idx)
	if !ok {
		return false
	}
	from := p.Square
	if from == to {
		return false
	}

	// Never capture own piece
	if occ := b.grid[to.Row][to.Col]; occ != NoPiece && b.pieces[occ].Color == p.Color {
		return false
	}

	dRow := to.Row - from.Row
	dCol := to.Col - from.Col
	adRow, adCol := abs(dRow), abs(dCol)

	switch p.Type {
	case Pawn:
		return b.pawnMoveLegal(p, to, dRow, dCol)
	case Rook:
		if dRow != 0 && dCol != 0 {
			return false
		}
		return b.pathClear(from, to)
	case Bishop:
		if adRow != adCol {
			return false
		}
		return b.pathClear(from, to)
	case Queen:
		if dRow != 0 && dCol != 0 && adRow != adCol {
			return false
		}
		return b.pathClear(from, to)
	case Knight:
		return (adRow == 1 && adCol == 2) || (adRow == 2 && adCol == 1)
	case King:
		if adRow <= 1 && adCol <= 1 {
			return true
		}
		if dRow == 0 && adCol == 2 {
			return b.castlingLegal(p, to)
		}
		return false
	}
	return false
}

// pawnMoveLegal handles pushes, the double push from the start row, and
// diagonal captures. There is no en passant.
func (b *Board) pawnMoveLegal(p *Piece, to Square, dRow, dCol int) bool {
	dir := p.Color.PawnDirection()
	from := p.Square

	switch {
	case dCol == 0 && dRow == dir:
		return b.isEmpty(to)
	case dCol == 0 && dRow == 2*dir:
		if from.Row != p.Color.PawnStartRow() {
			return false
		}
		return b.isEmpty(from.Offset(dir, 0)) && b.isEmpty(to)
	case abs(dCol) == 1 && dRow == dir:
		occ := b.grid[to.Row][to.Col]
		return occ != NoPiece && b.pieces[occ].Color != p.Color
	}
	return false
}

// pathClear walks the straight or diagonal line from one step after from to
// one step before to. Any occupied or off-board square blocks the move.
func (b *Board) pathClear(from, to Square) bool {
	dRow := sign(to.Row - from.Row)
	dCol := sign(to.Col - from.Col)

	sq := from.Offset(dRow, dCol)
	for sq != to {
		if !sq.IsValid() || !b.isEmpty(sq) {
			return false
		}
		sq = sq.Offset(dRow, dCol)
	}
	return true
}

// castlingLegal checks the preconditions of a two-column king move: the king
// and the rook on that edge are unmoved, everything between them is empty, and
// none of the king's start, transit or landing squares is attacked.
//
// Square safety is asked of the attack oracle, never of IsLegal, so that
// castling legality does not recurse into castling legality.
func (b *Board) castlingLegal(king *Piece, to Square) bool {
	if king.HasMoved {
		return false
	}
	from := king.Square
	dir := sign(to.Col - from.Col)

	rookCol := 0
	if dir > 0 {
		rookCol = Cols - 1
	}
	rookSq := NewSquare(from.Row, rookCol)

	rookIdx, ok := b.Occupant(rookSq)
	if !ok {
		return false
	}
	rook := b.pieces[rookIdx]
	if !rook.Alive || rook.Type != Rook || rook.Color != king.Color || rook.HasMoved {
		return false
	}

	for c := min(from.Col, rookCol) + 1; c < max(from.Col, rookCol); c++ {
		if !b.isEmpty(NewSquare(from.Row, c)) {
			return false
		}
	}

	enemy := king.Color.Other()
	for _, sq := range []Square{from, from.Offset(0, dir), to} {
		if !sq.IsValid() || b.SquareAttacked(enemy, sq) {
			return false
		}
	}
	return true
}

// LegalDestinations returns every square piece idx may legally move to,
// scanning the board in row-major order. The result is computed fresh on each
// call. Self-check is not filtered; combine with WouldCauseSelfCheck.
func (b *Board) LegalDestinations(idx int) []Square {
	if _, ok := b.living(idx); !ok {
		return nil
	}
	var dests []Square
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			sq := NewSquare(r, c)
			if b.IsLegal(idx, sq) {
				dests = append(dests, sq)
			}
		}
	}
	return dests
}

// SafeDestinations returns the legal destinations of piece idx that do not
// leave its own king in check.
func (b *Board) SafeDestinations(idx int) []Square {
	var dests []Square
	for _, sq := range b.LegalDestinations(idx) {
		if !b.WouldCauseSelfCheck(idx, sq) {
			dests = append(dests, sq)
		}
	}
	return dests
}
