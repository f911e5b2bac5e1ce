package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/boardroom-backend/internal/apperror"
	"github.com/rocketscienceinc/boardroom-backend/internal/entity"
	"github.com/rocketscienceinc/boardroom-backend/internal/metrics"
	"github.com/rocketscienceinc/boardroom-backend/internal/registry"
)

func (that *Server) handleJoinRoom(ctx context.Context, c *client, message *Message) error {
	log := that.logger.With("method", "handleJoinRoom", "connID", c.id)

	var payload JoinRoomPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	var room *registry.Room
	var err error

	switch payload.Action {
	case JoinActionCreate:
		room, err = that.registry.Create(payload.Room, payload.GameType, payload.MaxPlayers, payload.IsPublic)
	case JoinActionJoin:
		roomID := payload.Room
		if roomID == "" {
			// fall back to the last room recorded in the profile
			if profile, profErr := that.players.GetByID(ctx, c.id); profErr == nil {
				roomID = profile.Room
			}
		}
		room, err = that.registry.Get(roomID)
	default:
		err = fmt.Errorf("join action must be %q or %q", JoinActionCreate, JoinActionJoin)
	}

	if err != nil {
		log.Error("failed to resolve room", "error", err)
		that.sendError(c, err.Error())
		return nil
	}

	name := payload.UserName
	if name == "" {
		if profile, profErr := that.players.GetByID(ctx, c.id); profErr == nil {
			name = profile.Name
		}
	}

	var seat, maxPlayers int
	var role string
	var state any
	var seats []string

	joinErr := room.Do(func(session entity.GameSession) error {
		var addErr error
		seat, addErr = session.AddPlayer(c.id, name)
		state = session.State()
		if addErr != nil {
			return addErr
		}

		role = session.RoleFor(seat)
		maxPlayers = session.MaxPlayers()
		seats = session.Seats()

		return nil
	})

	if errors.Is(joinErr, apperror.ErrRoomFull) {
		// seat table untouched; the joiner may still observe the state
		that.sendTo(c, EventRoomFull, RoomPayload{Room: room.ID})
		that.sendTo(c, EventState, state)
		return nil
	}

	if joinErr != nil {
		that.sendError(c, joinErr.Error())
		return nil
	}

	// a connection holds at most one seat; switching rooms vacates the
	// old one so the reaper can collect it
	if prev, bound := that.boundRoom(c.id); bound && prev != room.ID {
		that.unbind(c.id)
		that.vacateSeat(ctx, c, prev)
	}

	that.bind(c.id, room.ID)

	that.sendTo(c, EventPlayerRole, PlayerRolePayload{Role: role, Index: seat, MaxPlayers: maxPlayers})
	that.broadcast(seats, c.id, EventUserJoined, UserJoinedPayload{Role: role, Index: seat})
	that.broadcast(seats, "", EventState, state)

	if err = that.players.CreateOrUpdate(ctx, &entity.PlayerProfile{ID: c.id, Name: name, Room: room.ID}); err != nil {
		log.Error("failed to save player profile", "error", err)
	}

	log.Info("player joined room", "roomID", room.ID, "seat", seat, "role", role)

	return nil
}

func (that *Server) handleMakeMove(_ context.Context, c *client, message *Message) error {
	log := that.logger.With("method", "handleMakeMove", "connID", c.id)

	var payload MakeMovePayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.registry.Get(payload.Room)
	if err != nil {
		that.sendError(c, err.Error())
		return nil
	}

	move := entity.Move{Action: payload.Action, Cell: -1, TokenIndex: -1}
	if payload.Index != nil {
		move.Cell = *payload.Index
	}
	if payload.TokenIndex != nil {
		move.TokenIndex = *payload.TokenIndex
	}

	var state any
	var seats []string
	var gameType string

	moveErr := room.Do(func(session entity.GameSession) error {
		if err := session.HandleMove(c.id, move); err != nil {
			return err
		}

		state = session.State()
		seats = session.Seats()
		gameType = session.GameType()

		return nil
	})

	// rejections go to the requester only, never to the room
	if moveErr != nil {
		that.sendError(c, moveErr.Error())
		return nil
	}

	metrics.MovesTotal.WithLabelValues(gameType).Inc()
	that.broadcast(seats, "", EventState, state)

	log.Info("move accepted", "roomID", room.ID, "gameType", gameType)

	return nil
}

func (that *Server) handleLeaveRoom(ctx context.Context, c *client, message *Message) error {
	var payload RoomPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	roomID := payload.Room
	if roomID == "" {
		if bound, ok := that.boundRoom(c.id); ok {
			roomID = bound
		}
	}

	that.unbind(c.id)
	that.vacateSeat(ctx, c, roomID)

	return nil
}

// vacateSeat removes the connection's seat from a room and tells the
// remaining occupants. Deleting an emptied room is the reaper's job.
func (that *Server) vacateSeat(ctx context.Context, c *client, roomID string) {
	log := that.logger.With("method", "vacateSeat", "connID", c.id, "roomID", roomID)

	room, err := that.registry.Get(roomID)
	if err != nil {
		return
	}

	var seat int
	var state any
	var seats []string

	_ = room.Do(func(session entity.GameSession) error {
		seat = seatIndex(session.Seats(), c.id)
		if seat < 0 {
			return nil
		}

		session.RemovePlayer(c.id)
		state = session.State()
		seats = session.Seats()

		return nil
	})

	if seat < 0 {
		return
	}

	that.broadcast(seats, c.id, EventOpponentLeft, OpponentLeftPayload{Index: seat})
	that.broadcast(seats, c.id, EventState, state)

	if profile, profErr := that.players.GetByID(ctx, c.id); profErr == nil {
		profile.Room = ""
		if err = that.players.CreateOrUpdate(ctx, profile); err != nil {
			log.Error("failed to update player profile", "error", err)
		}
	}

	log.Info("player left room", "seat", seat)
}

func (that *Server) handleRequestRematch(_ context.Context, c *client, message *Message) error {
	var payload RoomPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, seats, err := that.memberSeats(c, payload.Room)
	if err != nil {
		that.sendError(c, err.Error())
		return nil
	}

	that.broadcast(seats, c.id, EventRematchRequest, RoomPayload{Room: room.ID})

	return nil
}

func (that *Server) handleRespondRematch(_ context.Context, c *client, message *Message) error {
	log := that.logger.With("method", "handleRespondRematch", "connID", c.id)

	var payload RespondRematchPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, seats, err := that.memberSeats(c, payload.Room)
	if err != nil {
		that.sendError(c, err.Error())
		return nil
	}

	if !payload.Accept {
		that.broadcast(seats, c.id, EventRematchDeclined, RoomPayload{Room: room.ID})
		return nil
	}

	var state any
	_ = room.Do(func(session entity.GameSession) error {
		session.Reset()
		state = session.State()
		seats = session.Seats()
		return nil
	})

	that.broadcast(seats, "", EventState, state)
	that.broadcast(seats, "", EventRematchAccepted, RoomPayload{Room: room.ID})

	log.Info("rematch accepted", "roomID", room.ID)

	return nil
}

func (that *Server) handlePublicRooms(_ context.Context, c *client, message *Message) error {
	var payload PublicRoomsPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.sendTo(c, EventPublicRooms, that.registry.Public(payload.GameType))

	return nil
}

// handleVoiceRelay forwards signaling events to the room minus the
// sender. The gateway never inspects the signaling data; voice carries
// no game-state invariants.
func (that *Server) handleVoiceRelay(_ context.Context, c *client, message *Message) error {
	var payload VoicePayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	_, seats, err := that.memberSeats(c, payload.Room)
	if err != nil {
		that.sendError(c, err.Error())
		return nil
	}

	payload.From = c.id
	that.broadcast(seats, c.id, message.Action, payload)

	return nil
}

// memberSeats resolves a room and verifies the sender holds a seat.
func (that *Server) memberSeats(c *client, roomID string) (*registry.Room, []string, error) {
	room, err := that.registry.Get(roomID)
	if err != nil {
		return nil, nil, err
	}

	var seats []string
	_ = room.Do(func(session entity.GameSession) error {
		seats = session.Seats()
		return nil
	})

	if seatIndex(seats, c.id) < 0 {
		return nil, nil, apperror.ErrNotSeated
	}

	return room, seats, nil
}

func seatIndex(seats []string, connID string) int {
	for i, s := range seats {
		if s == connID {
			return i
		}
	}
	return -1
}
