package apperror

import "errors"

var (
	ErrGameFinished  = errors.New("game is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrNotSeated     = errors.New("player is not seated in this game")
	ErrRoomFull      = errors.New("room is full")
	ErrRoomExists    = errors.New("room already exists")
	ErrRoomNotFound  = errors.New("room not found")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrInvalidCell   = errors.New("invalid cell index")
	ErrWrongPhase    = errors.New("action is not valid in the current turn phase")
	ErrUnknownAction = errors.New("unknown move action")
	ErrInvalidToken  = errors.New("invalid token index")
	ErrTokenBlocked  = errors.New("token cannot move with this roll")
	ErrOvershoot     = errors.New("move overshoots the winning position")
)
