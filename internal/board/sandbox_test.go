package board

import "testing"

func TestWouldCauseSelfCheckLeavesBoardUnchanged(t *testing.T) {
	for _, fen := range testPositions {
		b, _ := mustParse(t, fen)
		for i := 0; i < b.Len(); i++ {
			for r := 0; r < Rows; r++ {
				for c := 0; c < Cols; c++ {
					sq := NewSquare(r, c)
					if !b.IsLegal(i, sq) {
						continue
					}
					before := b.Clone()
					b.WouldCauseSelfCheck(i, sq)
					if !b.Equal(before) {
						p, _ := before.Piece(i)
						t.Fatalf("%s: simulating %s to %v mutated the board", fen, p, sq)
					}
				}
			}
		}
	}
}

func TestWouldCauseSelfCheck(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from string
		to   string
		want bool
	}{
		{"pinned bishop leaves file", "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1", "e2", "d3", true},
		{"king steps off attacked file", "4k3/4r3/8/8/8/8/8/4K3 w - - 0 1", "e1", "d1", false},
		{"king stays on attacked file", "4k3/4r3/8/8/8/8/8/4K3 w - - 0 1", "e1", "e2", true},
		{"king steps next to enemy king", "8/8/8/8/8/3k4/8/4K3 w - - 0 1", "e1", "e2", true},
		{"capture the checker", "4k3/8/8/8/8/8/4q3/4K3 w - - 0 1", "e1", "e2", false},
		{"capture protected checker", "4k3/8/8/8/8/2n5/4q3/4K3 w - - 0 1", "e1", "e2", true},
		{"block the check", "4k3/4r3/8/8/8/8/3B4/4K3 w - - 0 1", "d2", "e3", false},
		{"ignore the check", "4k3/4r3/8/8/8/8/3B4/4K3 w - - 0 1", "d2", "c3", true},
		{"quiet opening move", StartFEN, "e2", "e4", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := mustParse(t, tt.fen)
			idx := indexOn(t, b, tt.from)
			to := MustSquare(tt.to)
			if !b.IsLegal(idx, to) {
				t.Fatalf("%s%s is not legal\n%s", tt.from, tt.to, b)
			}
			before := b.Clone()
			if got := b.WouldCauseSelfCheck(idx, to); got != tt.want {
				t.Errorf("WouldCauseSelfCheck(%s%s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
			if !b.Equal(before) {
				t.Error("board changed")
			}
		})
	}
}

func TestWouldCauseSelfCheckCastling(t *testing.T) {
	b, _ := mustParse(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	king := indexOn(t, b, "e1")
	before := b.Clone()

	for _, to := range []string{"g1", "c1"} {
		if b.WouldCauseSelfCheck(king, MustSquare(to)) {
			t.Errorf("castling to %s reported as self-check", to)
		}
		if !b.Equal(before) {
			t.Fatalf("castling to %s was not undone\n%s", to, b)
		}
	}
}

func TestWouldCauseSelfCheckBadInput(t *testing.T) {
	b := NewStandardBoard()
	before := b.Clone()
	if b.WouldCauseSelfCheck(-1, MustSquare("e4")) {
		t.Error("unknown piece reported self-check")
	}
	if b.WouldCauseSelfCheck(indexOn(t, b, "e2"), NewSquare(9, 9)) {
		t.Error("off-board destination reported self-check")
	}
	if !b.Equal(before) {
		t.Error("board changed")
	}
}
