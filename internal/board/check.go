package board

// KingIndex returns the index of the living king of color c.
func (b *Board) KingIndex(c Color) (int, bool) {
	for i, p := range b.pieces {
		if p.Alive && p.Type == King && p.Color == c {
			return i, true
		}
	}
	return NoPiece, false
}

// InCheck reports whether the king of color c is attacked.
// A side without a king is never in check.
//
// Check is decided with full move legality rather than the attack oracle,
// so blocking follows the same path rules as ordinary moves.
func (b *Board) InCheck(c Color) bool {
	kingIdx, ok := b.KingIndex(c)
	if !ok {
		return false
	}
	kingSq := b.pieces[kingIdx].Square
	if !kingSq.IsValid() {
		return false
	}

	for i := range b.pieces {
		if !b.pieces[i].Alive || b.pieces[i].Color == c {
			continue
		}
		if b.IsLegal(i, kingSq) {
			return true
		}
	}
	return false
}

// Checkers returns the indices of opposing pieces giving check to color c.
func (b *Board) Checkers(c Color) []int {
	kingIdx, ok := b.KingIndex(c)
	if !ok {
		return nil
	}
	kingSq := b.pieces[kingIdx].Square

	var out []int
	for i := range b.pieces {
		if b.pieces[i].Alive && b.pieces[i].Color != c && b.IsLegal(i, kingSq) {
			out = append(out, i)
		}
	}
	return out
}

// IsCheckmate reports whether color c is in check with no escaping move.
// Every legal destination of every living piece of c is tried in the sandbox;
// the first move that does not leave the king attacked refutes the mate.
func (b *Board) IsCheckmate(c Color) bool {
	if !b.InCheck(c) {
		return false
	}
	return !b.hasEscape(c)
}

// hasEscape reports whether color c has a legal move that does not leave its
// king in check.
func (b *Board) hasEscape(c Color) bool {
	for i := range b.pieces {
		if !b.pieces[i].Alive || b.pieces[i].Color != c {
			continue
		}
		for r := 0; r < Rows; r++ {
			for col := 0; col < Cols; col++ {
				sq := NewSquare(r, col)
				if !b.IsLegal(i, sq) {
					continue
				}
				if !b.WouldCauseSelfCheck(i, sq) {
					return true
				}
			}
		}
	}
	return false
}
