package entity

import (
	"fmt"

	"github.com/rocketscienceinc/boardroom-backend/internal/apperror"
)

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	ticTacToeSeats = 2
)

// WinCombos are the 8 winning lines: 3 rows, 3 columns, 2 diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// TicTacToeState is the full broadcast payload for a tic-tac-toe room.
type TicTacToeState struct {
	GameType    string    `json:"gameType"`
	Squares     [9]string `json:"squares"`
	XIsNext     bool      `json:"xIsNext"`
	Winner      string    `json:"winner,omitempty"`
	IsDraw      bool      `json:"isDraw"`
	Seats       [2]string `json:"seats"`
	PlayerNames [2]string `json:"playerNames"`
}

// TicTacToeSession holds one authoritative tic-tac-toe match.
// Seat 0 plays X, seat 1 plays O.
type TicTacToeSession struct {
	board   [9]string
	xIsNext bool
	winner  string
	isDraw  bool
	seats   [ticTacToeSeats]string
	names   [ticTacToeSeats]string
}

func NewTicTacToeSession() *TicTacToeSession {
	return &TicTacToeSession{
		xIsNext: true,
	}
}

func (that *TicTacToeSession) GameType() string { return GameTicTacToe }

func (that *TicTacToeSession) MaxPlayers() int { return ticTacToeSeats }

func (that *TicTacToeSession) AddPlayer(connID, name string) (int, error) {
	if seat := seatOf(that.seats[:], connID); seat >= 0 {
		if name != "" {
			that.names[seat] = name
		}
		return seat, nil
	}

	// a fresh seating must never inherit a stale finished board
	if that.Occupied() == 0 {
		that.Reset()
	}

	for i, occupant := range that.seats {
		if occupant != emptySeat {
			continue
		}
		that.seats[i] = connID
		that.names[i] = name
		return i, nil
	}

	return -1, fmt.Errorf("%w: %d seats taken", apperror.ErrRoomFull, ticTacToeSeats)
}

func (that *TicTacToeSession) RemovePlayer(connID string) {
	seat := seatOf(that.seats[:], connID)
	if seat < 0 {
		return
	}

	that.seats[seat] = emptySeat
	that.names[seat] = ""

	if that.winner != "" || that.isDraw {
		return
	}

	// abandonment: the remaining occupant, if present, wins outright
	remaining := 1 - seat
	if that.seats[remaining] != emptySeat {
		that.winner = that.RoleFor(remaining)
	}
}

func (that *TicTacToeSession) HandleMove(connID string, move Move) error {
	seat := seatOf(that.seats[:], connID)
	if seat < 0 {
		return apperror.ErrNotSeated
	}

	if that.winner != "" || that.isDraw {
		return apperror.ErrGameFinished
	}

	if that.RoleFor(seat) != that.nextSymbol() {
		return apperror.ErrNotYourTurn
	}

	if move.Cell < 0 || move.Cell >= len(that.board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, move.Cell)
	}

	if that.board[move.Cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.board[move.Cell] = that.nextSymbol()
	that.xIsNext = !that.xIsNext
	that.updateResult()

	return nil
}

func (that *TicTacToeSession) Reset() {
	that.board = [9]string{}
	that.xIsNext = true
	that.winner = ""
	that.isDraw = false
}

func (that *TicTacToeSession) State() any {
	return TicTacToeState{
		GameType:    GameTicTacToe,
		Squares:     that.board,
		XIsNext:     that.xIsNext,
		Winner:      that.winner,
		IsDraw:      that.isDraw,
		Seats:       that.seats,
		PlayerNames: that.names,
	}
}

func (that *TicTacToeSession) Seats() []string {
	seats := make([]string, ticTacToeSeats)
	copy(seats, that.seats[:])
	return seats
}

func (that *TicTacToeSession) Occupied() int {
	return countOccupied(that.seats[:])
}

func (that *TicTacToeSession) RoleFor(seat int) string {
	if seat == 0 {
		return PlayerX
	}
	return PlayerO
}

func (that *TicTacToeSession) nextSymbol() string {
	if that.xIsNext {
		return PlayerX
	}
	return PlayerO
}

// updateResult - checks the board for a winning line, then for a draw.
func (that *TicTacToeSession) updateResult() {
	for _, combo := range WinCombos {
		a, b, c := that.board[combo[0]], that.board[combo[1]], that.board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			that.winner = a
			return
		}
	}

	for _, cell := range that.board {
		if cell == EmptyCell {
			return
		}
	}

	that.isDraw = true
}
