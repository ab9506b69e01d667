package board

import (
	"errors"
	"strings"
	"testing"
)

// mustParse parses a FEN position or fails the test.
func mustParse(t *testing.T, fen string) (*Board, Color) {
	t.Helper()
	b, turn, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b, turn
}

// indexOn returns the index of the piece on the named square or fails the test.
func indexOn(t *testing.T, b *Board, name string) int {
	t.Helper()
	idx, ok := b.Occupant(MustSquare(name))
	if !ok {
		t.Fatalf("no piece on %s\n%s", name, b)
	}
	return idx
}

func TestStandardBoard(t *testing.T) {
	b := NewStandardBoard()

	if b.Len() != 32 {
		t.Fatalf("expected 32 pieces, got %d", b.Len())
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	for i, p := range b.Pieces() {
		if !p.Alive || p.HasMoved {
			t.Errorf("piece %d (%s): alive=%v hasMoved=%v", i, p.ID, p.Alive, p.HasMoved)
		}
		if idx, ok := b.Occupant(p.Square); !ok || idx != i {
			t.Errorf("piece %d on %v, grid holds %d", i, p.Square, idx)
		}
	}

	tests := []struct {
		square string
		want   string
	}{
		{"a1", "White Rook a1"},
		{"e1", "White King e1"},
		{"d8", "Black Queen d8"},
		{"g8", "Black Knight g8"},
		{"e2", "White Pawn e2"},
		{"h7", "Black Pawn h7"},
	}
	for _, tt := range tests {
		p, ok := b.PieceAt(MustSquare(tt.square))
		if !ok {
			t.Errorf("%s: empty", tt.square)
			continue
		}
		if p.String() != tt.want {
			t.Errorf("%s: got %q, want %q", tt.square, p, tt.want)
		}
	}

	for _, sq := range []string{"e4", "d5", "a3", "h6"} {
		if _, ok := b.Occupant(MustSquare(sq)); ok {
			t.Errorf("%s should be empty", sq)
		}
	}

	if b.InCheck(White) || b.InCheck(Black) {
		t.Error("neither side should be in check at the start")
	}
}

func TestAddPiece(t *testing.T) {
	b := NewBoard()

	idx, err := b.AddPiece(Queen, Black, MustSquare("d8"))
	if err != nil {
		t.Fatalf("AddPiece: %v", err)
	}
	p, _ := b.Piece(idx)
	if p.ID != "black_queen_0" {
		t.Errorf("unexpected ID %q", p.ID)
	}

	if _, err := b.AddPiece(Rook, White, MustSquare("d8")); !errors.Is(err, ErrOccupied) {
		t.Errorf("expected ErrOccupied, got %v", err)
	}
	if _, err := b.AddPiece(Rook, White, NewSquare(8, 0)); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}
	if _, err := b.Piece(5); !errors.Is(err, ErrInvalidPieceIndex) {
		t.Errorf("expected ErrInvalidPieceIndex, got %v", err)
	}
	if _, ok := b.Occupant(OffBoard); ok {
		t.Error("OffBoard should never be occupied")
	}
}

func TestApplyMoveCapture(t *testing.T) {
	b, _ := mustParse(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	pawn := indexOn(t, b, "e4")
	victim := indexOn(t, b, "d5")

	b.ApplyMove(MustSquare("e4"), MustSquare("d5"), pawn)

	if err := b.Validate(); err != nil {
		t.Fatalf("Validate after capture: %v", err)
	}
	if idx, _ := b.Occupant(MustSquare("d5")); idx != pawn {
		t.Errorf("d5 holds %d, want %d", idx, pawn)
	}
	if _, ok := b.Occupant(MustSquare("e4")); ok {
		t.Error("e4 should be empty")
	}

	v, _ := b.Piece(victim)
	if v.Alive || v.Square != OffBoard {
		t.Errorf("captured piece: alive=%v square=%v", v.Alive, v.Square)
	}
	m, _ := b.Piece(pawn)
	if !m.HasMoved {
		t.Error("mover should be marked as moved")
	}
}

func TestApplyMoveIgnoresDeadPiece(t *testing.T) {
	b, _ := mustParse(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	pawn := indexOn(t, b, "e4")
	victim := indexOn(t, b, "d5")
	b.ApplyMove(MustSquare("e4"), MustSquare("d5"), pawn)

	before := b.Clone()
	b.ApplyMove(OffBoard, MustSquare("a1"), victim)
	b.ApplyMove(MustSquare("d5"), OffBoard, pawn)
	if !b.Equal(before) {
		t.Error("ApplyMove with a captured piece or off-board target changed the board")
	}
}

func TestApplyMoveUsesRecordedSquare(t *testing.T) {
	b, _ := mustParse(t, "4k3/8/8/8/8/8/3P4/4K3 w - - 0 1")
	pawn := indexOn(t, b, "d2")

	b.ApplyMove(MustSquare("a7"), MustSquare("d4"), pawn)

	if err := b.Validate(); err != nil {
		t.Fatalf("Validate after mismatched origin: %v", err)
	}
	if _, ok := b.Occupant(MustSquare("d2")); ok {
		t.Error("d2 should be empty")
	}
	if idx, _ := b.Occupant(MustSquare("d4")); idx != pawn {
		t.Errorf("d4 holds %d, want %d", idx, pawn)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewStandardBoard()
	c := b.Clone()
	if !b.Equal(c) {
		t.Fatal("clone differs from original")
	}

	c.ApplyMove(MustSquare("e2"), MustSquare("e4"), indexOn(t, c, "e2"))
	if b.Equal(c) {
		t.Error("moving on the clone changed equality")
	}
	if _, ok := b.Occupant(MustSquare("e4")); ok {
		t.Error("original board was mutated through the clone")
	}
}

func TestBoardString(t *testing.T) {
	s := NewStandardBoard().String()
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if lines[0] != "8  r n b q k b n r" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if lines[7] != "1  R N B Q K B N R" {
		t.Errorf("unexpected eighth line %q", lines[7])
	}
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in      string
		want    Square
		wantErr bool
	}{
		{"a8", Square{0, 0}, false},
		{"h1", Square{7, 7}, false},
		{"e4", Square{4, 4}, false},
		{"i1", OffBoard, true},
		{"a9", OffBoard, true},
		{"a0", OffBoard, true},
		{"e", OffBoard, true},
		{"e44", OffBoard, true},
	}
	for _, tt := range tests {
		got, err := ParseSquare(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSquare(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSquare(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && got.String() != tt.in {
			t.Errorf("round trip %q -> %q", tt.in, got.String())
		}
	}
}
