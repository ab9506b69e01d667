package board

import (
	"fmt"
	"slices"
)

// Outcome is the result of a move attempt.
type Outcome int

const (
	// Applied means the move was executed.
	Applied Outcome = iota
	// RejectedIllegal covers off-board destinations and geometry, path,
	// occupancy or castling failures.
	RejectedIllegal
	// RejectedSelfCheck means the move is geometrically legal but would
	// leave the mover's king attacked.
	RejectedSelfCheck
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case RejectedIllegal:
		return "rejected: illegal"
	case RejectedSelfCheck:
		return "rejected: self-check"
	default:
		return "unknown"
	}
}

// Err maps a rejection to its sentinel error. Applied maps to nil.
func (o Outcome) Err() error {
	switch o {
	case Applied:
		return nil
	case RejectedSelfCheck:
		return ErrSelfCheckMove
	default:
		return ErrIllegalMove
	}
}

// Game wraps a Board with the side to move and the move history.
// It is the surface consumed by front ends. A Game is not safe for
// concurrent use; callers serialise access.
type Game struct {
	board    *Board
	turn     Color
	history  []MoveRecord
	startFEN string
}

// NewGame creates a game in the standard starting position, White to move.
func NewGame() *Game {
	return &Game{
		board:    NewStandardBoard(),
		turn:     White,
		startFEN: StartFEN,
	}
}

// NewGameFromFEN creates a game from a FEN position.
func NewGameFromFEN(fen string) (*Game, error) {
	b, turn, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{
		board:    b,
		turn:     turn,
		startFEN: fen,
	}, nil
}

// ReplayGame rebuilds a game from its starting FEN and coordinate moves.
// An empty startFEN means the standard starting position.
func ReplayGame(startFEN string, moves []string) (*Game, error) {
	g := NewGame()
	if startFEN != "" && startFEN != StartFEN {
		var err error
		if g, err = NewGameFromFEN(startFEN); err != nil {
			return nil, err
		}
	}

	for i, s := range moves {
		from, to, err := ParseMove(s)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		if _, err := g.Move(from, to); err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", i+1, s, err)
		}
	}
	return g, nil
}

// Board returns the underlying board. Mutating it directly bypasses the
// history and turn bookkeeping.
func (g *Game) Board() *Board {
	return g.board
}

// Turn returns the side to move.
func (g *Game) Turn() Color {
	return g.turn
}

// History returns a copy of the applied moves.
func (g *Game) History() []MoveRecord {
	return slices.Clone(g.history)
}

// Moves returns the applied moves in coordinate notation.
func (g *Game) Moves() []string {
	out := make([]string, len(g.history))
	for i, m := range g.history {
		out[i] = m.String()
	}
	return out
}

// LastMove returns the most recent move.
func (g *Game) LastMove() (MoveRecord, bool) {
	if len(g.history) == 0 {
		return MoveRecord{}, false
	}
	return g.history[len(g.history)-1], true
}

// StartFEN returns the position the game started from.
func (g *Game) StartFEN() string {
	return g.startFEN
}

// FEN returns the current position.
func (g *Game) FEN() string {
	return g.board.ToFEN(g.turn)
}

// LegalDestinations returns the squares piece idx may move to, ignoring
// self-check. Intended for highlighting.
func (g *Game) LegalDestinations(idx int) []Square {
	return g.board.LegalDestinations(idx)
}

// SafeDestinations returns the legal destinations of piece idx that do not
// leave its own king in check.
func (g *Game) SafeDestinations(idx int) []Square {
	return g.board.SafeDestinations(idx)
}

// AttemptMove validates and, if allowed, applies the move of piece idx to to.
// Nothing is changed unless the outcome is Applied. The side to move is not
// enforced here; after an applied move it passes to the mover's opponent.
func (g *Game) AttemptMove(idx int, to Square) Outcome {
	if !to.IsValid() || !g.board.IsLegal(idx, to) {
		return RejectedIllegal
	}
	if g.board.WouldCauseSelfCheck(idx, to) {
		return RejectedSelfCheck
	}

	p := g.board.pieces[idx]
	rec := MoveRecord{
		From:     p.Square,
		To:       to,
		Piece:    idx,
		Captured: g.board.grid[to.Row][to.Col],
		Castle:   p.Type == King && abs(to.Col-p.Square.Col) == 2,
	}

	g.board.ApplyMove(p.Square, to, idx)
	g.history = append(g.history, rec)
	g.turn = p.Color.Other()
	return Applied
}

// Move plays the piece standing on from to to on behalf of the side to move.
func (g *Game) Move(from, to Square) (MoveRecord, error) {
	if !from.IsValid() {
		return MoveRecord{}, fmt.Errorf("%w: %v", ErrInvalidPosition, from)
	}
	if !to.IsValid() {
		return MoveRecord{}, fmt.Errorf("%w: %v", ErrInvalidPosition, to)
	}
	idx, ok := g.board.Occupant(from)
	if !ok {
		return MoveRecord{}, fmt.Errorf("%w: %v", ErrEmptySquare, from)
	}
	if c := g.board.pieces[idx].Color; c != g.turn {
		return MoveRecord{}, fmt.Errorf("%w: %v to move, piece on %v is %v", ErrWrongTurn, g.turn, from, c)
	}

	if outcome := g.AttemptMove(idx, to); outcome != Applied {
		return MoveRecord{}, fmt.Errorf("%w: %v%v", outcome.Err(), from, to)
	}
	return g.history[len(g.history)-1], nil
}

// InCheck reports whether color c is in check.
func (g *Game) InCheck(c Color) bool {
	return g.board.InCheck(c)
}

// IsCheckmate reports whether color c is checkmated.
func (g *Game) IsCheckmate(c Color) bool {
	return g.board.IsCheckmate(c)
}

// Status is a snapshot of the flags a front end displays.
type Status struct {
	Turn            Color `json:"turn"`
	WhiteInCheck    bool  `json:"whiteInCheck"`
	BlackInCheck    bool  `json:"blackInCheck"`
	WhiteCheckmated bool  `json:"whiteCheckmated"`
	BlackCheckmated bool  `json:"blackCheckmated"`
	Winner          Color `json:"winner"`
}

// GameOver returns true once either side is checkmated.
func (s Status) GameOver() bool {
	return s.WhiteCheckmated || s.BlackCheckmated
}

// Summary returns the status line shown to players.
func (s Status) Summary() string {
	switch {
	case s.WhiteCheckmated:
		return "Checkmate - Black wins"
	case s.BlackCheckmated:
		return "Checkmate - White wins"
	case s.WhiteInCheck:
		return "Check - White"
	case s.BlackInCheck:
		return "Check - Black"
	}
	return "Turn: " + s.Turn.String()
}

// Status evaluates check and checkmate for both sides.
func (g *Game) Status() Status {
	s := Status{
		Turn:            g.turn,
		WhiteInCheck:    g.board.InCheck(White),
		BlackInCheck:    g.board.InCheck(Black),
		WhiteCheckmated: g.board.IsCheckmate(White),
		BlackCheckmated: g.board.IsCheckmate(Black),
		Winner:          NoColor,
	}
	switch {
	case s.WhiteCheckmated:
		s.Winner = Black
	case s.BlackCheckmated:
		s.Winner = White
	}
	return s
}
