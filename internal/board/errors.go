package board

import "errors"

var (
	ErrInvalidPosition   = errors.New("invalid position")
	ErrInvalidPieceIndex = errors.New("invalid piece index")
	ErrIllegalMove       = errors.New("illegal move")
	ErrSelfCheckMove     = errors.New("move leaves own king in check")
	ErrWrongTurn         = errors.New("not this side's turn")
	ErrEmptySquare       = errors.New("no piece on square")
	ErrOccupied          = errors.New("square already occupied")
	ErrInvalidFEN        = errors.New("invalid FEN")
)
