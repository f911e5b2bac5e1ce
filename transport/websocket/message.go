package websocket

import (
	"encoding/json"
	"fmt"
)

// Inbound message actions.
const (
	ActionJoinRoom       = "join_room"
	ActionMakeMove       = "make_move"
	ActionLeaveRoom      = "leave_room"
	ActionRequestRematch = "request_rematch"
	ActionRespondRematch = "respond_rematch"
	ActionPublicRooms    = "get_public_rooms"

	ActionVoiceJoin   = "voice_join"
	ActionVoiceSignal = "voice_signal"
	ActionVoiceLeave  = "voice_leave"
)

// Outbound event actions.
const (
	EventPlayerRole      = "player_role"
	EventUserJoined      = "user_joined"
	EventState           = "receive_message"
	EventRoomFull        = "room_full"
	EventError           = "error_message"
	EventOpponentLeft    = "opponent_left"
	EventRematchRequest  = "rematch_requested"
	EventRematchAccepted = "rematch_accepted"
	EventRematchDeclined = "rematch_declined"
	EventPublicRooms     = "public_rooms_list"
)

// Join semantics carried by join_room.
const (
	JoinActionCreate = "create"
	JoinActionJoin   = "join"
)

// Message is the wire envelope: one action string plus an
// action-specific payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinRoomPayload struct {
	Room       string `json:"room"`
	GameType   string `json:"gameType"`
	MaxPlayers int    `json:"maxPlayers,omitempty"`
	Action     string `json:"action"`
	IsPublic   bool   `json:"isPublic,omitempty"`
	UserName   string `json:"userName,omitempty"`
}

type MakeMovePayload struct {
	Room       string `json:"room"`
	Action     string `json:"action,omitempty"`
	TokenIndex *int   `json:"tokenIndex,omitempty"`
	Index      *int   `json:"index,omitempty"`
}

type RoomPayload struct {
	Room string `json:"room"`
}

type RespondRematchPayload struct {
	Room   string `json:"room"`
	Accept bool   `json:"accept"`
}

type PublicRoomsPayload struct {
	GameType string `json:"gameType,omitempty"`
}

// VoicePayload is relayed opaquely; the gateway never inspects Data.
type VoicePayload struct {
	Room string          `json:"room"`
	From string          `json:"from,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type PlayerRolePayload struct {
	Role       string `json:"role"`
	Index      int    `json:"index"`
	MaxPlayers int    `json:"maxPlayers"`
}

type UserJoinedPayload struct {
	Role  string `json:"role"`
	Index int    `json:"index"`
}

type OpponentLeftPayload struct {
	Index int `json:"index"`
}

type ErrorPayload struct {
	Text string `json:"text"`
}

func newMessage(action string, payload any) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	messageJSON, err := json.Marshal(Message{Action: action, Payload: payloadJSON})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return messageJSON, nil
}
