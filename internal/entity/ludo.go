package entity

import (
	"fmt"

	"github.com/rocketscienceinc/boardroom-backend/internal/apperror"
)

const (
	// LudoWinningPos is the single authoritative finish position: a
	// token walks relative ring steps 0..50, home stretch 51..56, home
	// at 57.
	LudoWinningPos = 57

	ludoMainPath = 51
	ludoRingSize = 52

	ludoBasePos = -1

	ludoSeatCount  = 4
	ludoTokenCount = 4

	ludoMaxConsecutiveSixes = 3
)

const (
	PhaseRoll    = "ROLL"
	PhaseMove    = "MOVE"
	PhaseNoMoves = "NO_MOVES"
)

// Fixed color mapping: seat index equals color index.
var ludoColors = [ludoSeatCount]string{"red", "green", "yellow", "blue"}

// ludoOffsets maps a color's relative ring position to the shared
// global ring: global = (relative + offset) % 52.
var ludoOffsets = [ludoSeatCount]int{0, 13, 26, 39}

// ludoSafeCells are the 8 global star cells where no capture happens.
var ludoSafeCells = map[int]bool{0: true, 8: true, 13: true, 21: true, 26: true, 34: true, 39: true, 47: true}

// ludoActiveSeats fixes which color indices are playable per capacity;
// the subsets are not contiguous.
var ludoActiveSeats = map[int][]int{
	2: {0, 2},
	3: {0, 1, 2},
	4: {0, 1, 2, 3},
}

type LudoPlayerState struct {
	Seat     int                 `json:"seat"`
	Color    string              `json:"color"`
	Name     string              `json:"name,omitempty"`
	Tokens   [ludoTokenCount]int `json:"tokens"`
	Finished int                 `json:"finished"`
	Active   bool                `json:"active"`
}

// LudoState is the full broadcast payload for a ludo room.
type LudoState struct {
	GameType    string            `json:"gameType"`
	Players     []LudoPlayerState `json:"players"`
	CurrentTurn int               `json:"currentTurn"`
	DiceValue   int               `json:"diceValue"`
	TurnPhase   string            `json:"turnPhase"`
	Seats       []string          `json:"seats"`
	Winner      int               `json:"winner"`
	LastMove    string            `json:"lastMove,omitempty"`
}

// ludoOutcome classifies what a resolved token move produced; the
// transition table below maps it to the next phase and turn.
type ludoOutcome int

const (
	outcomeAdvance ludoOutcome = iota
	outcomeExtraSix
	outcomeCapture
	outcomeFinish
	outcomeWin
)

type ludoTransition struct {
	extraRoll bool
	advance   bool
	terminal  bool
}

// ludoTransitions is the explicit outcome -> (phase, turn) table.
// Extra rolls keep the seat in ROLL phase with the dice cleared.
var ludoTransitions = map[ludoOutcome]ludoTransition{
	outcomeAdvance:  {advance: true},
	outcomeExtraSix: {extraRoll: true},
	outcomeCapture:  {extraRoll: true},
	outcomeFinish:   {extraRoll: true},
	outcomeWin:      {terminal: true},
}

// LudoSession holds one authoritative ludo match. Only the seats listed
// in ludoActiveSeats for the configured capacity are ever filled.
type LudoSession struct {
	roll       Roller
	maxPlayers int
	active     []int

	seats    [ludoSeatCount]string
	names    [ludoSeatCount]string
	tokens   [ludoSeatCount][ludoTokenCount]int
	finished [ludoSeatCount]int

	turn     int
	dice     int
	phase    string
	sixes    int
	winner   int
	lastMove string
}

func NewLudoSession(maxPlayers int, roll Roller) *LudoSession {
	active, ok := ludoActiveSeats[maxPlayers]
	if !ok {
		maxPlayers = ludoSeatCount
		active = ludoActiveSeats[ludoSeatCount]
	}
	if roll == nil {
		roll = DefaultRoller
	}

	that := &LudoSession{
		roll:       roll,
		maxPlayers: maxPlayers,
		active:     active,
	}
	that.Reset()

	return that
}

func (that *LudoSession) GameType() string { return GameLudo }

func (that *LudoSession) MaxPlayers() int { return that.maxPlayers }

func (that *LudoSession) AddPlayer(connID, name string) (int, error) {
	if seat := seatOf(that.seats[:], connID); seat >= 0 {
		if name != "" {
			that.names[seat] = name
		}
		return seat, nil
	}

	// guard against stale terminal state leaking into a fresh seating
	if that.Occupied() == 0 {
		that.Reset()
	}

	for _, seat := range that.active {
		if that.seats[seat] != emptySeat {
			continue
		}
		that.seats[seat] = connID
		that.names[seat] = name
		return seat, nil
	}

	return -1, fmt.Errorf("%w: %d seats taken", apperror.ErrRoomFull, that.maxPlayers)
}

func (that *LudoSession) RemovePlayer(connID string) {
	seat := seatOf(that.seats[:], connID)
	if seat < 0 {
		return
	}

	that.seats[seat] = emptySeat
	that.names[seat] = ""

	if that.winner < 0 && that.turn == seat && that.Occupied() > 0 {
		that.advanceTurn()
	}
}

func (that *LudoSession) HandleMove(connID string, move Move) error {
	seat := seatOf(that.seats[:], connID)
	if seat < 0 {
		return apperror.ErrNotSeated
	}

	if that.winner >= 0 {
		return apperror.ErrGameFinished
	}

	if seat != that.turn {
		return apperror.ErrNotYourTurn
	}

	switch move.Action {
	case ActionRoll:
		return that.handleRoll(seat)
	case ActionMove:
		return that.handleTokenMove(seat, move.TokenIndex)
	case ActionPass:
		return that.handlePass()
	default:
		return fmt.Errorf("%w: %q", apperror.ErrUnknownAction, move.Action)
	}
}

func (that *LudoSession) handleRoll(seat int) error {
	if that.phase != PhaseRoll {
		return fmt.Errorf("%w: expected %s", apperror.ErrWrongPhase, that.phase)
	}

	roll := that.roll()
	that.dice = roll

	if !that.anyMovable(seat, roll) {
		that.phase = PhaseNoMoves
		that.lastMove = fmt.Sprintf("%s rolled %d with no legal moves", that.playerLabel(seat), roll)
		return nil
	}

	if roll != 6 {
		that.sixes = 0
	} else {
		that.sixes++
		if that.sixes >= ludoMaxConsecutiveSixes {
			that.lastMove = fmt.Sprintf("%s rolled three sixes and forfeits the turn", that.playerLabel(seat))
			that.advanceTurn()
			return nil
		}
	}

	that.phase = PhaseMove

	return nil
}

func (that *LudoSession) handleTokenMove(seat, tokenIndex int) error {
	if that.phase != PhaseMove {
		return fmt.Errorf("%w: expected %s", apperror.ErrWrongPhase, that.phase)
	}

	if tokenIndex < 0 || tokenIndex >= ludoTokenCount {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidToken, tokenIndex)
	}

	pos := that.tokens[seat][tokenIndex]

	if pos == ludoBasePos {
		return that.enterToken(seat, tokenIndex)
	}

	if pos >= LudoWinningPos {
		return apperror.ErrTokenBlocked
	}

	next := pos + that.dice
	if next > LudoWinningPos {
		return fmt.Errorf("%w: token %d at %d with roll %d", apperror.ErrOvershoot, tokenIndex, pos, that.dice)
	}

	that.tokens[seat][tokenIndex] = next
	that.applyTransition(that.resolveOutcome(seat, tokenIndex, next))

	return nil
}

// enterToken brings a based token onto the ring; entering grants an
// immediate re-roll and does not consume the six.
func (that *LudoSession) enterToken(seat, tokenIndex int) error {
	if that.dice != 6 {
		return apperror.ErrTokenBlocked
	}

	that.tokens[seat][tokenIndex] = 0
	that.lastMove = fmt.Sprintf("%s entered token %d", that.playerLabel(seat), tokenIndex)
	that.phase = PhaseRoll
	that.dice = 0

	return nil
}

func (that *LudoSession) handlePass() error {
	if that.phase != PhaseNoMoves {
		return fmt.Errorf("%w: expected %s", apperror.ErrWrongPhase, that.phase)
	}

	that.advanceTurn()

	return nil
}

// resolveOutcome classifies a completed token move. Captures only
// happen on the shared ring, never on safe cells or the home stretch.
func (that *LudoSession) resolveOutcome(seat, tokenIndex, pos int) ludoOutcome {
	label := that.playerLabel(seat)

	if pos == LudoWinningPos {
		that.finished[seat]++
		if that.finished[seat] == ludoTokenCount {
			that.winner = seat
			that.lastMove = fmt.Sprintf("%s brought all tokens home and won", label)
			return outcomeWin
		}
		that.lastMove = fmt.Sprintf("%s finished token %d", label, tokenIndex)
		return outcomeFinish
	}

	if pos < ludoMainPath {
		global := (pos + ludoOffsets[seat]) % ludoRingSize
		if !ludoSafeCells[global] && that.captureAt(seat, global) {
			that.lastMove = fmt.Sprintf("%s captured on cell %d", label, global)
			return outcomeCapture
		}
	}

	if that.dice == 6 {
		that.lastMove = fmt.Sprintf("%s moved token %d and rolls again", label, tokenIndex)
		return outcomeExtraSix
	}

	that.lastMove = fmt.Sprintf("%s moved token %d to %d", label, tokenIndex, pos)
	return outcomeAdvance
}

// captureAt sends every opposing ring token on the global cell back to
// base; reports whether anything was captured.
func (that *LudoSession) captureAt(seat, global int) bool {
	captured := false
	for _, other := range that.active {
		if other == seat || that.seats[other] == emptySeat {
			continue
		}
		for i, pos := range that.tokens[other] {
			if pos < 0 || pos >= ludoMainPath {
				continue
			}
			if (pos+ludoOffsets[other])%ludoRingSize == global {
				that.tokens[other][i] = ludoBasePos
				captured = true
			}
		}
	}
	return captured
}

func (that *LudoSession) applyTransition(outcome ludoOutcome) {
	tr := ludoTransitions[outcome]

	switch {
	case tr.terminal:
		that.dice = 0
	case tr.extraRoll:
		that.phase = PhaseRoll
		that.dice = 0
	case tr.advance:
		that.advanceTurn()
	}
}

// anyMovable reports whether any of the seat's tokens can legally use
// the roll: based tokens need a 6, finished tokens never move, ring
// tokens must not overshoot.
func (that *LudoSession) anyMovable(seat, roll int) bool {
	for _, pos := range that.tokens[seat] {
		if pos == ludoBasePos {
			if roll == 6 {
				return true
			}
			continue
		}
		if pos >= LudoWinningPos {
			continue
		}
		if pos+roll <= LudoWinningPos {
			return true
		}
	}
	return false
}

func (that *LudoSession) Reset() {
	for seat := range that.tokens {
		for i := range that.tokens[seat] {
			that.tokens[seat][i] = ludoBasePos
		}
		that.finished[seat] = 0
	}
	that.dice = 0
	that.sixes = 0
	that.phase = PhaseRoll
	that.winner = -1
	that.lastMove = ""
	that.turn = that.firstActiveOccupied()
}

func (that *LudoSession) State() any {
	players := make([]LudoPlayerState, 0, len(that.active))
	for _, seat := range that.active {
		players = append(players, LudoPlayerState{
			Seat:     seat,
			Color:    ludoColors[seat],
			Name:     that.names[seat],
			Tokens:   that.tokens[seat],
			Finished: that.finished[seat],
			Active:   true,
		})
	}

	return LudoState{
		GameType:    GameLudo,
		Players:     players,
		CurrentTurn: that.turn,
		DiceValue:   that.dice,
		TurnPhase:   that.phase,
		Seats:       that.Seats(),
		Winner:      that.winner,
		LastMove:    that.lastMove,
	}
}

func (that *LudoSession) Seats() []string {
	seats := make([]string, ludoSeatCount)
	copy(seats, that.seats[:])
	return seats
}

func (that *LudoSession) Occupied() int {
	return countOccupied(that.seats[:])
}

func (that *LudoSession) RoleFor(seat int) string {
	if seat < 0 || seat >= ludoSeatCount {
		return ""
	}
	return ludoColors[seat]
}

// advanceTurn hands the dice to the next active, occupied seat and
// resets the per-turn sub-state.
func (that *LudoSession) advanceTurn() {
	that.sixes = 0
	that.dice = 0
	that.phase = PhaseRoll

	cur := that.activeIndex(that.turn)
	for i := 1; i <= len(that.active); i++ {
		seat := that.active[(cur+i)%len(that.active)]
		if that.seats[seat] != emptySeat {
			that.turn = seat
			return
		}
	}
}

func (that *LudoSession) activeIndex(seat int) int {
	for i, s := range that.active {
		if s == seat {
			return i
		}
	}
	return 0
}

func (that *LudoSession) firstActiveOccupied() int {
	for _, seat := range that.active {
		if that.seats[seat] != emptySeat {
			return seat
		}
	}
	return that.active[0]
}

func (that *LudoSession) playerLabel(seat int) string {
	if that.names[seat] != "" {
		return that.names[seat]
	}
	return ludoColors[seat]
}
