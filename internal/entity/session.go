package entity

import "math/rand"

const (
	GameTicTacToe = "tictactoe"
	GameSnakes    = "snake-and-ladders"
	GameLudo      = "ludo"
)

const (
	ActionPlace = "place"
	ActionRoll  = "roll"
	ActionMove  = "move"
	ActionPass  = "pass"
)

const emptySeat = ""

// Move is a single validated intent against a session. Cell is used by
// tic-tac-toe, TokenIndex by ludo; the dice games carry only Action.
type Move struct {
	Action     string `json:"action"`
	Cell       int    `json:"index"`
	TokenIndex int    `json:"tokenIndex"`
}

// Roller draws one die value in [1,6]. Sessions take it as a dependency
// so tests can script exact rolls.
type Roller func() int

func DefaultRoller() int {
	return rand.Intn(6) + 1 //nolint: gosec // game dice, not crypto
}

// GameSession is the capability set shared by the three game variants.
// The gateway and registry depend on it only, never on a concrete type.
// Seats hold connection identifiers; the seat index is the turn-order
// position. Implementations are not safe for concurrent use; callers
// serialize access per room.
type GameSession interface {
	GameType() string

	// AddPlayer seats a connection, idempotently: re-adding a seated
	// identity returns its existing seat. Returns apperror.ErrRoomFull
	// when every seat is occupied by someone else.
	AddPlayer(connID, name string) (int, error)

	// RemovePlayer vacates the seat held by connID, if any.
	RemovePlayer(connID string)

	// HandleMove validates and applies one move intent. Rejections are
	// apperror sentinels and never mutate state.
	HandleMove(connID string, move Move) error

	// Reset restores the initial playable state, preserving seats.
	Reset()

	// State returns the full broadcast payload for this game.
	State() any

	// Seats returns the seat table; empty string marks a vacant seat.
	Seats() []string

	// Occupied reports how many seats are currently held.
	Occupied() int

	// RoleFor returns the game-specific role label for a seat.
	RoleFor(seat int) string

	MaxPlayers() int
}

func countOccupied(seats []string) int {
	count := 0
	for _, s := range seats {
		if s != emptySeat {
			count++
		}
	}
	return count
}

func seatOf(seats []string, connID string) int {
	for i, s := range seats {
		if s == connID {
			return i
		}
	}
	return -1
}
