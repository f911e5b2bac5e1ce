package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/boardroom-backend/internal/entity"
	"github.com/rocketscienceinc/boardroom-backend/internal/metrics"
	"github.com/rocketscienceinc/boardroom-backend/internal/registry"
)

type roomRegistry interface {
	Create(id, gameType string, maxPlayers int, public bool) (*registry.Room, error)
	Get(id string) (*registry.Room, error)
	Public(gameType string) []registry.RoomInfo
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.PlayerProfile) error
	GetByID(ctx context.Context, id string) (*entity.PlayerProfile, error)
	DeleteByID(ctx context.Context, id string) error
}

// Server is the session gateway: it authenticates a connection's seat
// membership, forwards validated intents to the right session and fans
// resulting state out to the room.
type Server struct {
	logger   *slog.Logger
	registry roomRegistry
	players  playerRepo
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	clients  map[string]*client
	bindings map[string]string // connID -> roomID

	handlers map[string]func(ctx context.Context, c *client, message *Message) error
}

func New(logger *slog.Logger, reg roomRegistry, players playerRepo) *Server {
	server := &Server{
		logger:   logger.With("component", "gateway"),
		registry: reg,
		players:  players,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		clients:  make(map[string]*client),
		bindings: make(map[string]string),
		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers[ActionJoinRoom] = server.handleJoinRoom
	server.handlers[ActionMakeMove] = server.handleMakeMove
	server.handlers[ActionLeaveRoom] = server.handleLeaveRoom
	server.handlers[ActionRequestRematch] = server.handleRequestRematch
	server.handlers[ActionRespondRematch] = server.handleRespondRematch
	server.handlers[ActionPublicRooms] = server.handlePublicRooms

	server.handlers[ActionVoiceJoin] = server.handleVoiceRelay
	server.handlers[ActionVoiceSignal] = server.handleVoiceRelay
	server.handlers[ActionVoiceLeave] = server.handleVoiceRelay

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{
		id:     uuid.NewString(),
		server: that,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}

	that.mu.Lock()
	that.clients[c.id] = c
	that.mu.Unlock()

	metrics.Connections.Inc()
	log.Info("connection established", "connID", c.id)

	go c.writePump()
	go c.readPump(ctx)
}

func (that *Server) dispatch(ctx context.Context, c *client, message *Message) {
	log := that.logger.With("method", "dispatch", "connID", c.id, "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Error("unknown action")
		that.sendError(c, fmt.Sprintf("unknown action %q", message.Action))
		return
	}

	if err := handler(ctx, c, message); err != nil {
		log.Error("error processing message", "error", err)
	}
}

// disconnect tears a connection down: the seat is vacated exactly as
// on an explicit leave, the room itself is the reaper's business.
func (that *Server) disconnect(ctx context.Context, c *client) {
	log := that.logger.With("method", "disconnect", "connID", c.id)

	that.mu.Lock()
	delete(that.clients, c.id)
	roomID, bound := that.bindings[c.id]
	delete(that.bindings, c.id)
	that.mu.Unlock()

	metrics.Connections.Dec()
	close(c.send)

	if bound {
		that.vacateSeat(ctx, c, roomID)
	}

	log.Info("connection closed")
}

func (that *Server) bind(connID, roomID string) {
	that.mu.Lock()
	that.bindings[connID] = roomID
	that.mu.Unlock()
}

func (that *Server) unbind(connID string) {
	that.mu.Lock()
	delete(that.bindings, connID)
	that.mu.Unlock()
}

func (that *Server) boundRoom(connID string) (string, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	roomID, ok := that.bindings[connID]
	return roomID, ok
}

// sendTo marshals and enqueues one event for one connection. A peer
// whose send buffer is full just loses the event; the next broadcast
// carries full state anyway.
func (that *Server) sendTo(c *client, action string, payload any) {
	data, err := newMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to build message", "action", action, "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		that.logger.Warn("send buffer full, dropping event", "connID", c.id, "action", action)
	}
}

func (that *Server) sendError(c *client, text string) {
	that.sendTo(c, EventError, ErrorPayload{Text: text})
}

// broadcast sends one event to every occupied seat, optionally
// skipping one connection.
func (that *Server) broadcast(seats []string, except, action string, payload any) {
	data, err := newMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to build message", "action", action, "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, connID := range seats {
		if connID == "" || connID == except {
			continue
		}

		c, ok := that.clients[connID]
		if !ok {
			continue
		}

		select {
		case c.send <- data:
		default:
			that.logger.Warn("send buffer full, dropping event", "connID", connID, "action", action)
		}
	}
}
