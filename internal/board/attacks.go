package board

// CanAttack reports whether piece idx reaches target as an attack.
//
// This is a reduced rule set used only for square safety. It differs from
// IsLegal in three ways: a pawn attacks its forward diagonals whether or not
// they are occupied and never attacks with a push; castling is never an
// attack; and the occupant of the target, friend or foe, is ignored.
func (b *Board) CanAttack(idx int, target Square) bool {
	if !target.IsValid() {
		return false
	}
	p, ok := b.living(idx)
	if !ok {
		return false
	}
	from := p.Square
	if from == target {
		return false
	}

	dRow := target.Row - from.Row
	dCol := target.Col - from.Col
	adRow, adCol := abs(dRow), abs(dCol)

	switch p.Type {
	case Pawn:
		return adCol == 1 && dRow == p.Color.PawnDirection()
	case Rook:
		if dRow != 0 && dCol != 0 {
			return false
		}
		return b.pathClear(from, target)
	case Bishop:
		if adRow != adCol {
			return false
		}
		return b.pathClear(from, target)
	case Queen:
		if dRow != 0 && dCol != 0 && adRow != adCol {
			return false
		}
		return b.pathClear(from, target)
	case Knight:
		return (adRow == 1 && adCol == 2) || (adRow == 2 && adCol == 1)
	case King:
		return adRow <= 1 && adCol <= 1
	}
	return false
}

// SquareAttacked reports whether any living piece of color by attacks sq.
func (b *Board) SquareAttacked(by Color, sq Square) bool {
	for i := range b.pieces {
		if !b.pieces[i].Alive || b.pieces[i].Color != by {
			continue
		}
		if b.CanAttack(i, sq) {
			return true
		}
	}
	return false
}

// Attackers returns the indices of the living pieces of color by that attack sq.
func (b *Board) Attackers(by Color, sq Square) []int {
	var out []int
	for i := range b.pieces {
		if b.pieces[i].Alive && b.pieces[i].Color == by && b.CanAttack(i, sq) {
			out = append(out, i)
		}
	}
	return out
}
