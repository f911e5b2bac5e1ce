package entity

import (
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/boardroom-backend/internal/apperror"
)

const (
	snakesFinalCell = 100
	snakesStartCell = 1

	snakesMinSeats = 2
	snakesMaxSeats = 4
)

// BoardPreset is one fixed 10x10 layout: cell -> destination mappings
// for snake heads and ladder bottoms.
type BoardPreset struct {
	ID      int
	Snakes  map[int]int
	Ladders map[int]int
}

var snakesBoards = []BoardPreset{
	{
		ID:      1,
		Snakes:  map[int]int{16: 6, 47: 26, 49: 11, 56: 53, 62: 19, 64: 60, 87: 24, 93: 73, 95: 75, 98: 78},
		Ladders: map[int]int{1: 38, 4: 14, 9: 31, 21: 42, 28: 84, 36: 44, 51: 67, 71: 91, 80: 100},
	},
	{
		ID:      2,
		Snakes:  map[int]int{17: 7, 54: 34, 62: 19, 64: 60, 87: 36, 92: 73, 95: 75, 98: 79},
		Ladders: map[int]int{3: 38, 24: 33, 42: 93, 72: 84},
	},
	{
		ID:      3,
		Snakes:  map[int]int{26: 10, 39: 5, 51: 6, 54: 36, 56: 1, 60: 23, 75: 28, 83: 45, 85: 59, 90: 48, 92: 25, 97: 87, 99: 63},
		Ladders: map[int]int{2: 23, 8: 34, 20: 77, 32: 68, 41: 79, 74: 88, 82: 100, 89: 91},
	},
	{
		ID:      4,
		Snakes:  map[int]int{24: 5, 33: 2, 37: 12, 46: 14, 52: 29, 69: 9, 84: 63, 91: 71, 96: 80, 99: 7},
		Ladders: map[int]int{6: 25, 11: 40, 18: 45, 30: 64, 48: 77, 57: 96, 61: 78, 73: 86},
	},
	{
		ID:      5,
		Snakes:  map[int]int{21: 3, 35: 22, 44: 16, 59: 41, 68: 50, 79: 30, 86: 74, 94: 55, 98: 64},
		Ladders: map[int]int{5: 27, 13: 46, 25: 53, 38: 58, 50: 91, 66: 89, 77: 95},
	},
}

type SnakesPlayerState struct {
	Seat       int    `json:"seat"`
	Name       string `json:"name,omitempty"`
	Pos        int    `json:"pos"`
	HasStarted bool   `json:"hasStarted"`
}

// SnakesState is the full broadcast payload for a snake-and-ladders room.
type SnakesState struct {
	GameType           string              `json:"gameType"`
	BoardID            int                 `json:"boardId"`
	Players            []SnakesPlayerState `json:"players"`
	CurrentPlayerIndex int                 `json:"currentPlayerIndex"`
	DiceValue          int                 `json:"diceValue"`
	MoveLog            []string            `json:"moveLog"`
	Winner             int                 `json:"winner"`
	Seats              []string            `json:"seats"`
}

// SnakesSession holds one authoritative snake-and-ladders match of up
// to four players. Winner is a seat index, -1 while the game runs.
type SnakesSession struct {
	roll    Roller
	board   BoardPreset
	seats   []string
	names   []string
	pos     []int
	started []bool
	turn    int
	dice    int
	winner  int
	moveLog []string
}

func NewSnakesSession(maxPlayers int, roll Roller) *SnakesSession {
	if maxPlayers < snakesMinSeats {
		maxPlayers = snakesMinSeats
	}
	if maxPlayers > snakesMaxSeats {
		maxPlayers = snakesMaxSeats
	}
	if roll == nil {
		roll = DefaultRoller
	}

	that := &SnakesSession{
		roll:    roll,
		seats:   make([]string, maxPlayers),
		names:   make([]string, maxPlayers),
		pos:     make([]int, maxPlayers),
		started: make([]bool, maxPlayers),
		winner:  -1,
	}
	that.board = pickBoard()
	for i := range that.pos {
		that.pos[i] = snakesStartCell
	}

	return that
}

func pickBoard() BoardPreset {
	return snakesBoards[rand.Intn(len(snakesBoards))] //nolint: gosec // cosmetic choice
}

func (that *SnakesSession) GameType() string { return GameSnakes }

func (that *SnakesSession) MaxPlayers() int { return len(that.seats) }

func (that *SnakesSession) AddPlayer(connID, name string) (int, error) {
	if seat := seatOf(that.seats, connID); seat >= 0 {
		if name != "" {
			that.names[seat] = name
		}
		return seat, nil
	}

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

	return -1, fmt.Errorf("%w: %d seats taken", apperror.ErrRoomFull, len(that.seats))
}

func (that *SnakesSession) RemovePlayer(connID string) {
	seat := seatOf(that.seats, connID)
	if seat < 0 {
		return
	}

	that.seats[seat] = emptySeat
	that.names[seat] = ""

	// a vacated seat must not hold the turn hostage
	if that.winner < 0 && that.turn == seat && that.Occupied() > 0 {
		that.advanceTurn()
	}
}

func (that *SnakesSession) HandleMove(connID string, move Move) error {
	seat := seatOf(that.seats, connID)
	if seat < 0 {
		return apperror.ErrNotSeated
	}

	if that.winner >= 0 {
		return apperror.ErrGameFinished
	}

	if seat != that.turn {
		return apperror.ErrNotYourTurn
	}

	if move.Action != ActionRoll {
		return fmt.Errorf("%w: %q", apperror.ErrUnknownAction, move.Action)
	}

	roll := that.roll()
	that.dice = roll
	that.applyRoll(seat, roll)

	// a 6 keeps the turn; a win ends the game on the spot
	if that.winner < 0 && roll != 6 {
		that.advanceTurn()
	}

	return nil
}

// applyRoll mutates the roller's position for one die value.
func (that *SnakesSession) applyRoll(seat, roll int) {
	label := that.playerLabel(seat)

	if !that.started[seat] {
		if roll == 1 || roll == 6 {
			that.started[seat] = true
			that.logMove("%s rolled %d and entered the board", label, roll)
		} else {
			that.logMove("%s rolled %d and needs 1 or 6 to start", label, roll)
		}
		return
	}

	next := that.pos[seat] + roll
	if next > snakesFinalCell {
		that.logMove("%s rolled %d and stays at %d", label, roll, that.pos[seat])
		return
	}

	switch {
	case that.board.Snakes[next] != 0:
		tail := that.board.Snakes[next]
		that.logMove("%s rolled %d, hit a snake at %d and slid to %d", label, roll, next, tail)
		next = tail
	case that.board.Ladders[next] != 0:
		top := that.board.Ladders[next]
		that.logMove("%s rolled %d, climbed a ladder from %d to %d", label, roll, next, top)
		next = top
	default:
		that.logMove("%s rolled %d and moved to %d", label, roll, next)
	}

	that.pos[seat] = next
	if next == snakesFinalCell {
		that.winner = seat
		that.logMove("%s reached %d and won", label, snakesFinalCell)
	}
}

func (that *SnakesSession) Reset() {
	for i := range that.pos {
		that.pos[i] = snakesStartCell
		that.started[i] = false
	}
	that.winner = -1
	that.dice = 0
	that.moveLog = nil
	that.board = pickBoard()
	that.turn = that.firstOccupied()
}

func (that *SnakesSession) State() any {
	players := make([]SnakesPlayerState, len(that.seats))
	for i := range that.seats {
		players[i] = SnakesPlayerState{
			Seat:       i,
			Name:       that.names[i],
			Pos:        that.pos[i],
			HasStarted: that.started[i],
		}
	}

	return SnakesState{
		GameType:           GameSnakes,
		BoardID:            that.board.ID,
		Players:            players,
		CurrentPlayerIndex: that.turn,
		DiceValue:          that.dice,
		MoveLog:            that.moveLog,
		Winner:             that.winner,
		Seats:              that.Seats(),
	}
}

func (that *SnakesSession) Seats() []string {
	seats := make([]string, len(that.seats))
	copy(seats, that.seats)
	return seats
}

func (that *SnakesSession) Occupied() int {
	return countOccupied(that.seats)
}

func (that *SnakesSession) RoleFor(seat int) string {
	return fmt.Sprintf("P%d", seat+1)
}

// advanceTurn moves the cursor to the next occupied seat.
func (that *SnakesSession) advanceTurn() {
	for i := 1; i <= len(that.seats); i++ {
		next := (that.turn + i) % len(that.seats)
		if that.seats[next] != emptySeat {
			that.turn = next
			return
		}
	}
}

func (that *SnakesSession) firstOccupied() int {
	for i, s := range that.seats {
		if s != emptySeat {
			return i
		}
	}
	return 0
}

func (that *SnakesSession) playerLabel(seat int) string {
	if that.names[seat] != "" {
		return that.names[seat]
	}
	return that.RoleFor(seat)
}

func (that *SnakesSession) logMove(format string, args ...any) {
	that.moveLog = append(that.moveLog, fmt.Sprintf(format, args...))
}
