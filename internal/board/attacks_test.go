package board

import (
	"slices"
	"testing"
)

func TestCanAttack(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from string
		to   string
		want bool
	}{
		{"pawn attacks empty diagonal", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", "e2", "d3", true},
		{"pawn does not attack ahead", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", "e2", "e3", false},
		{"pawn does not attack backwards", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", "e2", "d1", false},
		{"black pawn attacks downwards", "4k3/8/8/8/8/8/4p3/4K3 w - - 0 1", "e2", "f1", true},
		{"king covers own piece", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", "e1", "e2", true},
		{"rook covers own piece", "4k3/8/8/8/8/8/8/R2NK3 w - - 0 1", "a1", "d1", true},
		{"rook blocked", "4k3/8/8/8/8/8/8/R2NK3 w - - 0 1", "a1", "e1", false},
		{"castling is not an attack", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1", "g1", false},
		{"knight", "4k3/8/8/8/8/8/8/4K1N1 w - - 0 1", "g1", "f3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := mustParse(t, tt.fen)
			idx := indexOn(t, b, tt.from)
			if got := b.CanAttack(idx, MustSquare(tt.to)); got != tt.want {
				t.Errorf("CanAttack(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestSquareAttacked(t *testing.T) {
	b := NewStandardBoard()

	if !b.SquareAttacked(White, MustSquare("f3")) {
		t.Error("f3 should be attacked by White")
	}
	if b.SquareAttacked(White, MustSquare("e4")) {
		t.Error("e4 should not be attacked by White")
	}
	if !b.SquareAttacked(Black, MustSquare("e6")) {
		t.Error("e6 should be attacked by Black")
	}

	got := b.Attackers(White, MustSquare("f3"))
	want := []int{indexOn(t, b, "e2"), indexOn(t, b, "g2"), indexOn(t, b, "g1")}
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("Attackers(f3) = %v, want %v", got, want)
	}
}
