package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/boardroom-backend/internal/apperror"
	"github.com/rocketscienceinc/boardroom-backend/internal/entity"
	"github.com/rocketscienceinc/boardroom-backend/internal/metrics"
)

var ErrUnknownGameType = errors.New("unknown game type")

// Room binds one identifier to one live session. The room mutex
// serializes every session access; rooms never block each other.
type Room struct {
	ID     string
	Public bool

	mu      sync.Mutex
	session entity.GameSession
}

// Do runs fn with the room's session under the room lock.
func (that *Room) Do(fn func(session entity.GameSession) error) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return fn(that.session)
}

// RoomInfo is a read-only occupancy snapshot for listings.
type RoomInfo struct {
	ID       string `json:"id"`
	GameType string `json:"gameType"`
	Players  int    `json:"players"`
	Max      int    `json:"max"`
}

// Registry owns the room table. It is injected into the gateway and
// the reaper; nothing reaches it through package state.
type Registry struct {
	logger *slog.Logger

	mu    sync.RWMutex
	rooms map[string]*Room
}

func New(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logger.With("component", "registry"),
		rooms:  make(map[string]*Room),
	}
}

// Create registers a new room with a fresh session of the requested
// game type. An empty id gets a generated one. Fails with ErrRoomExists
// when the id is taken; join never creates implicitly.
func (that *Registry) Create(id, gameType string, maxPlayers int, public bool) (*Room, error) {
	session, err := newSession(gameType, maxPlayers)
	if err != nil {
		return nil, err
	}

	if id == "" {
		id = generateRoomID()
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[id]; ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomExists, id)
	}

	room := &Room{
		ID:      id,
		Public:  public,
		session: session,
	}
	that.rooms[id] = room

	metrics.Rooms.Set(float64(len(that.rooms)))
	metrics.RoomsCreatedTotal.WithLabelValues(gameType).Inc()

	that.logger.Info("room created", "roomID", id, "gameType", gameType, "maxPlayers", session.MaxPlayers())

	return room, nil
}

// Get resolves an existing room; unknown ids are an explicit error.
func (that *Registry) Get(id string) (*Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, id)
	}

	return room, nil
}

func (that *Registry) Delete(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, id)
	metrics.Rooms.Set(float64(len(that.rooms)))
}

// Public lists rooms flagged public at creation with live occupancy,
// optionally filtered by game type.
func (that *Registry) Public(gameType string) []RoomInfo {
	that.mu.RLock()
	defer that.mu.RUnlock()

	infos := make([]RoomInfo, 0)
	for _, room := range that.rooms {
		if !room.Public {
			continue
		}

		room.mu.Lock()
		info := RoomInfo{
			ID:       room.ID,
			GameType: room.session.GameType(),
			Players:  room.session.Occupied(),
			Max:      room.session.MaxPlayers(),
		}
		room.mu.Unlock()

		if gameType != "" && info.GameType != gameType {
			continue
		}
		infos = append(infos, info)
	}

	return infos
}

// ReapEmpty deletes every room whose session has no occupied seats and
// returns the reaped ids. A move cannot race this: moves require an
// occupant, and occupancy is re-checked under both locks.
func (that *Registry) ReapEmpty() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	var reaped []string
	for id, room := range that.rooms {
		room.mu.Lock()
		empty := room.session.Occupied() == 0
		room.mu.Unlock()

		if empty {
			delete(that.rooms, id)
			reaped = append(reaped, id)
		}
	}

	metrics.Rooms.Set(float64(len(that.rooms)))

	return reaped
}

func newSession(gameType string, maxPlayers int) (entity.GameSession, error) {
	switch gameType {
	case entity.GameTicTacToe:
		return entity.NewTicTacToeSession(), nil
	case entity.GameSnakes:
		return entity.NewSnakesSession(maxPlayers, nil), nil
	case entity.GameLudo:
		return entity.NewLudoSession(maxPlayers, nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGameType, gameType)
	}
}

func generateRoomID() string {
	return strings.Split(uuid.NewString(), "-")[0]
}
