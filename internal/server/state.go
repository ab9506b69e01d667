package server

import (
	"github.com/hailam/chessrules/internal/board"
)

// PieceState is a living piece as sent to clients.
type PieceState struct {
	Index  int             `json:"index"`
	ID     string          `json:"id"`
	Type   board.PieceType `json:"type"`
	Color  board.Color     `json:"color"`
	Square board.Square    `json:"square"`
	Moved  bool            `json:"moved"`
}

// GameState is the JSON view of a game.
type GameState struct {
	ID      string             `json:"id"`
	FEN     string             `json:"fen"`
	Turn    board.Color        `json:"turn"`
	Status  board.Status       `json:"status"`
	Summary string             `json:"summary"`
	Pieces  []PieceState       `json:"pieces"`
	History []board.MoveRecord `json:"history"`
}

// newGameState snapshots g. The caller holds the session lock.
func newGameState(id string, g *board.Game) GameState {
	status := g.Status()
	state := GameState{
		ID:      id,
		FEN:     g.FEN(),
		Turn:    g.Turn(),
		Status:  status,
		Summary: status.Summary(),
		History: g.History(),
	}
	for i, p := range g.Board().Pieces() {
		if !p.Alive {
			continue
		}
		state.Pieces = append(state.Pieces, PieceState{
			Index:  i,
			ID:     p.ID,
			Type:   p.Type,
			Color:  p.Color,
			Square: p.Square,
			Moved:  p.HasMoved,
		})
	}
	if state.History == nil {
		state.History = []board.MoveRecord{}
	}
	return state
}
