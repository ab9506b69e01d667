package board

import (
	"slices"
	"testing"
)

// positions exercised by the property tests below.
var testPositions = []string{
	StartFEN,
	"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1",
	"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 0 1",
}

func TestIsLegal(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from string
		to   string
		want bool
	}{
		{"pawn single push", StartFEN, "e2", "e3", true},
		{"pawn double push", StartFEN, "e2", "e4", true},
		{"pawn triple push", StartFEN, "e2", "e5", false},
		{"pawn diagonal onto empty", StartFEN, "e2", "d3", false},
		{"black pawn double push", StartFEN, "e7", "e5", true},
		{"black pawn backwards", StartFEN, "e7", "e8", false},
		{"knight jumps", StartFEN, "g1", "f3", true},
		{"knight onto own pawn", StartFEN, "g1", "e2", false},
		{"rook blocked", StartFEN, "a1", "a3", false},
		{"bishop blocked", StartFEN, "c1", "e3", false},
		{"queen blocked", StartFEN, "d1", "d3", false},
		{"king onto own piece", StartFEN, "e1", "e2", false},
		{"double push from moved pawn", "4k3/8/8/8/8/4P3/8/4K3 w - - 0 1", "e3", "e5", false},
		{"pawn push blocked", "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1", "e2", "e3", false},
		{"double push jumps blocker", "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1", "e2", "e4", false},
		{"double push onto blocker", "4k3/8/8/8/4n3/8/4P3/4K3 w - - 0 1", "e2", "e4", false},
		{"pawn capture", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4", "d5", true},
		{"pawn push onto enemy", "4k3/8/8/4p3/4P3/8/8/4K3 w - - 0 1", "e4", "e5", false},
		{"pawn backwards", "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1", "e4", "e3", false},
		{"rook captures along file", "4k3/8/8/r7/8/8/8/R3K3 w - - 0 1", "a1", "a5", true},
		{"rook beyond capture", "4k3/r7/8/p7/8/8/8/R3K3 w - - 0 1", "a1", "a7", false},
		{"rook diagonal", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1", "b2", false},
		{"bishop diagonal", "4k3/8/8/8/8/8/8/2B1K3 w - - 0 1", "c1", "h6", true},
		{"bishop straight", "4k3/8/8/8/8/8/8/2B1K3 w - - 0 1", "c1", "c4", false},
		{"queen knight shape", "4k3/8/8/8/8/8/8/3QK3 w - - 0 1", "d1", "e3", false},
		{"queen long diagonal", "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1", "a1", "h8", true},
		{"king two squares forward", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "e1", "e3", false},
		{"king may step next to enemy", "8/8/8/8/8/3k4/8/4K3 w - - 0 1", "e1", "e2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := mustParse(t, tt.fen)
			idx := indexOn(t, b, tt.from)
			if got := b.IsLegal(idx, MustSquare(tt.to)); got != tt.want {
				t.Errorf("IsLegal(%s%s) = %v, want %v\n%s", tt.from, tt.to, got, tt.want, b)
			}
		})
	}
}

func TestIsLegalRejectsBadInput(t *testing.T) {
	b := NewStandardBoard()
	if b.IsLegal(-1, MustSquare("e4")) || b.IsLegal(99, MustSquare("e4")) {
		t.Error("unknown piece index accepted")
	}
	if b.IsLegal(indexOn(t, b, "e2"), NewSquare(-1, 4)) {
		t.Error("off-board destination accepted")
	}

	b.ApplyMove(MustSquare("d1"), MustSquare("d7"), indexOn(t, b, "d1"))
	victim := NewStandardBoard()
	dead, _ := victim.Occupant(MustSquare("d7"))
	if b.IsLegal(dead, MustSquare("d6")) {
		t.Error("captured piece accepted as mover")
	}
}

func TestIsLegalIrreflexive(t *testing.T) {
	for _, fen := range testPositions {
		b, _ := mustParse(t, fen)
		for i, p := range b.Pieces() {
			if b.IsLegal(i, p.Square) {
				t.Errorf("%s: piece %s may move to its own square", fen, p)
			}
		}
	}
}

func TestSlidingPathIsClear(t *testing.T) {
	for _, fen := range testPositions {
		b, _ := mustParse(t, fen)
		for i, p := range b.Pieces() {
			if p.Type != Rook && p.Type != Bishop && p.Type != Queen {
				continue
			}
			for _, to := range b.LegalDestinations(i) {
				dRow, dCol := sign(to.Row-p.Square.Row), sign(to.Col-p.Square.Col)
				for sq := p.Square.Offset(dRow, dCol); sq != to; sq = sq.Offset(dRow, dCol) {
					if _, occupied := b.Occupant(sq); occupied {
						t.Errorf("%s: %s reaches %v through occupied %v", fen, p, to, sq)
					}
				}
			}
		}
	}
}

func TestLegalDestinationsOrder(t *testing.T) {
	b := NewStandardBoard()

	tests := []struct {
		from string
		want []string
	}{
		{"g1", []string{"f3", "h3"}},
		{"e2", []string{"e4", "e3"}},
		{"b8", []string{"a6", "c6"}},
		{"a1", nil},
	}
	for _, tt := range tests {
		var got []string
		for _, sq := range b.LegalDestinations(indexOn(t, b, tt.from)) {
			got = append(got, sq.String())
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("LegalDestinations(%s) = %v, want %v", tt.from, got, tt.want)
		}
	}
}

func TestCastling(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		to   string
		want bool
	}{
		{"king side", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "g1", true},
		{"queen side", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "c1", true},
		{"black king side", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "g8", true},
		{"black queen side", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "c8", true},
		{"king has moved", "r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1", "g1", false},
		{"rook has moved", "r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1", "g1", false},
		{"other rook unmoved", "r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1", "c1", true},
		{"no rook", "r3k2r/8/8/8/8/8/8/R3K3 w KQkq - 0 1", "g1", false},
		{"enemy rook in corner", "r3k2r/8/8/8/8/8/8/R3K2r w Qkq - 0 1", "g1", false},
		{"bishop between", "r3k2r/8/8/8/8/8/8/R3KB1R w KQkq - 0 1", "g1", false},
		{"knight on b1", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", "c1", false},
		{"king in check", "r3k2r/8/8/8/4r3/8/8/R3K2R w KQkq - 0 1", "g1", false},
		{"transit attacked", "r3k2r/8/8/8/5r2/8/8/R3K2R w KQkq - 0 1", "g1", false},
		{"transit attacked other side fine", "r3k2r/8/8/8/5r2/8/8/R3K2R w KQkq - 0 1", "c1", true},
		{"landing attacked", "r3k2r/8/8/8/6r1/8/8/R3K2R w KQkq - 0 1", "g1", false},
		{"b1 attacked does not matter", "r3k2r/8/8/8/1r6/8/8/R3K2R w KQkq - 0 1", "c1", true},
		{"pawn attacks transit", "r3k2r/8/8/8/8/8/4p3/R3K2R w KQkq - 0 1", "g1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, turn := mustParse(t, tt.fen)
			king, ok := b.KingIndex(turn)
			if !ok {
				t.Fatal("no king")
			}
			if got := b.IsLegal(king, MustSquare(tt.to)); got != tt.want {
				t.Errorf("castle to %s = %v, want %v\n%s", tt.to, got, tt.want, b)
			}
		})
	}
}

func TestCastlingMovesRook(t *testing.T) {
	tests := []struct {
		fen      string
		kingTo   string
		rookFrom string
		rookTo   string
	}{
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "g1", "h1", "f1"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "c1", "a1", "d1"},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "g8", "h8", "f8"},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "c8", "a8", "d8"},
	}

	for _, tt := range tests {
		b, turn := mustParse(t, tt.fen)
		king, _ := b.KingIndex(turn)
		rook := indexOn(t, b, tt.rookFrom)
		kp, _ := b.Piece(king)

		b.ApplyMove(kp.Square, MustSquare(tt.kingTo), king)

		if err := b.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
		r, _ := b.Piece(rook)
		if r.Square != MustSquare(tt.rookTo) || !r.HasMoved {
			t.Errorf("castle to %s: rook at %v moved=%v, want %s", tt.kingTo, r.Square, r.HasMoved, tt.rookTo)
		}
		if _, ok := b.Occupant(MustSquare(tt.rookFrom)); ok {
			t.Errorf("castle to %s: %s not vacated", tt.kingTo, tt.rookFrom)
		}
	}
}
