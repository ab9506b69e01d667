package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R b Kq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/8/8/8/8/4K3 b - - 0 1",
	}

	for _, fen := range fens {
		b, turn := mustParse(t, fen)
		if err := b.Validate(); err != nil {
			t.Errorf("%s: Validate: %v", fen, err)
		}
		if got := b.ToFEN(turn); got != fen {
			t.Errorf("round trip:\n got %s\nwant %s", got, fen)
		}
	}
}

func TestParseFENFlags(t *testing.T) {
	b, turn := mustParse(t, "r3k2r/8/8/8/4P3/8/3P4/R3K2R b Kq - 3 20")
	if turn != Black {
		t.Errorf("turn = %v, want Black", turn)
	}

	tests := []struct {
		square string
		moved  bool
	}{
		{"e1", false},
		{"h1", false},
		{"a1", true},
		{"e8", false},
		{"a8", false},
		{"h8", true},
		{"e4", true},
		{"d2", false},
	}
	for _, tt := range tests {
		p, ok := b.PieceAt(MustSquare(tt.square))
		if !ok {
			t.Fatalf("%s empty", tt.square)
		}
		if p.HasMoved != tt.moved {
			t.Errorf("%s (%s): HasMoved = %v, want %v", tt.square, p, p.HasMoved, tt.moved)
		}
	}
}

func TestParseFENWithoutCastlingField(t *testing.T) {
	b, turn := mustParse(t, "4k3/8/8/8/8/8/8/R3K2R w")
	if turn != White {
		t.Errorf("turn = %v", turn)
	}
	king := indexOn(t, b, "e1")
	if b.IsLegal(king, MustSquare("g1")) {
		t.Error("castling allowed without castling rights")
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/7/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KX - 0 1",
	}
	for _, fen := range bad {
		if _, _, err := ParseFEN(fen); !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("ParseFEN(%q) error = %v, want ErrInvalidFEN", fen, err)
		}
	}
}
