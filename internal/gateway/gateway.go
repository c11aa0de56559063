// Package gateway is the per-connection message dispatcher: it decodes
// inbound websocket frames, invokes room operations, and routes outbound
// events to the affected connections. It holds no game state of its own,
// only the side table associating connections with room seats.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/duelware/rps-arena/internal/model"
	"github.com/duelware/rps-arena/internal/room"
)

// session ties a connection to the room seat it occupies
type session struct {
	code          model.RoomCode
	participantID model.ParticipantID
}

// Gateway translates between transport events and room operations
type Gateway struct {
	rooms    *room.Controller
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[Conn]session
	conns    map[model.ParticipantID]Conn
}

// New creates a new Gateway
func New(rooms *room.Controller, logger *slog.Logger) *Gateway {
	return &Gateway{
		rooms:  rooms,
		logger: logger.With(slog.String("component", "gateway")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessions: make(map[Conn]session),
		conns:    make(map[model.ParticipantID]Conn),
	}
}

// ServeWS upgrades an HTTP request and services the connection until it
// closes
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	conn := newWSConn(ws)
	go conn.writePump()
	g.readPump(r.Context(), conn, ws)
}

// readPump reads frames until the connection drops, then reports the
// disconnect. Graceful and abrupt closes take the same path.
func (g *Gateway) readPump(ctx context.Context, conn Conn, ws *websocket.Conn) {
	defer func() {
		g.HandleClose(ctx, conn)
		conn.Close()
	}()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(g.deadline())
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(g.deadline())
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Debug("websocket read error", slog.String("error", err.Error()))
			}
			return
		}
		g.HandleMessage(ctx, conn, data)
	}
}

// HandleMessage dispatches one inbound frame. Exported so tests can drive
// the gateway through fake connections.
func (g *Gateway) HandleMessage(ctx context.Context, c Conn, data []byte) {
	msg, err := decodeClientMessage(data)
	if err != nil {
		c.Send(errorEvent{Type: eventError, Message: err.Error()})
		return
	}

	switch m := msg.(type) {
	case createRoomMessage:
		g.handleCreate(ctx, c, m)
	case joinRoomMessage:
		g.handleJoin(ctx, c, m)
	case makeChoiceMessage:
		g.handleChoice(ctx, c, m)
	}
}

// HandleClose reports a dropped connection: the room is torn down and the
// remaining participant, if any, is notified
func (g *Gateway) HandleClose(ctx context.Context, c Conn) {
	g.mu.Lock()
	sess, ok := g.sessions[c]
	if ok {
		delete(g.sessions, c)
		delete(g.conns, sess.participantID)
	}
	g.mu.Unlock()

	if !ok {
		return
	}

	notice, err := g.rooms.Disconnect(ctx, sess.code, sess.participantID)
	if err != nil {
		g.logger.Error("disconnect handling failed",
			slog.String("code", string(sess.code)),
			slog.String("error", err.Error()))
		return
	}
	if notice == nil {
		return
	}

	// The peer's seat died with the room; unbind it so the connection can
	// create or join a fresh room
	g.mu.Lock()
	peer := g.conns[notice.PeerID]
	if peer != nil {
		delete(g.sessions, peer)
		delete(g.conns, notice.PeerID)
	}
	g.mu.Unlock()

	if peer != nil {
		peer.Send(opponentDisconnectedEvent{Type: eventOpponentDisconnected})
	}
}

func (g *Gateway) handleCreate(ctx context.Context, c Conn, m createRoomMessage) {
	if g.hasSession(c) {
		c.Send(errorEvent{Type: eventError, Message: "Already in a room"})
		return
	}

	r, host, err := g.rooms.Create(ctx, m.PlayerName)
	if err != nil {
		g.sendError(c, err)
		return
	}
	g.bind(c, r.Code, host.ID)

	c.Send(roomCreatedEvent{
		Type:       eventRoomCreated,
		RoomCode:   r.Code,
		PlayerName: host.Name,
	})
}

func (g *Gateway) handleJoin(ctx context.Context, c Conn, m joinRoomMessage) {
	if g.hasSession(c) {
		c.Send(errorEvent{Type: eventError, Message: "Already in a room"})
		return
	}

	result, err := g.rooms.Join(ctx, m.RoomCode, m.PlayerName)
	if err != nil {
		g.sendError(c, err)
		return
	}
	g.bind(c, result.Room.Code, result.Joiner.ID)

	g.mu.Lock()
	hostConn := g.conns[result.Host.ID]
	g.mu.Unlock()

	if hostConn != nil {
		hostConn.Send(gameReadyEvent{
			Type:         eventGameReady,
			RoomCode:     result.Room.Code,
			PlayerName:   result.Host.Name,
			OpponentName: result.Joiner.Name,
		})
	}
	c.Send(gameReadyEvent{
		Type:         eventGameReady,
		RoomCode:     result.Room.Code,
		PlayerName:   result.Joiner.Name,
		OpponentName: result.Host.Name,
	})
}

func (g *Gateway) handleChoice(ctx context.Context, c Conn, m makeChoiceMessage) {
	g.mu.Lock()
	sess, ok := g.sessions[c]
	g.mu.Unlock()

	if !ok {
		// The connection never joined a room; the wire room code alone
		// does not identify a seat
		g.sendError(c, model.ErrUnknownParticipant)
		return
	}

	result, err := g.rooms.SubmitChoice(ctx, sess.code, sess.participantID, m.Choice)
	if err != nil {
		g.sendError(c, err)
		return
	}

	if !result.Resolved {
		c.Send(choiceReceivedEvent{Type: eventChoiceReceived, Choice: result.Choice})
		return
	}

	for _, pr := range result.Results {
		g.mu.Lock()
		conn := g.conns[pr.ParticipantID]
		g.mu.Unlock()
		if conn != nil {
			conn.Send(gameResultEvent{
				Type:           eventGameResult,
				YourChoice:     pr.YourChoice,
				OpponentChoice: pr.OpponentChoice,
				Result:         pr.Result,
			})
		}
	}
}

// bind records the connection's seat in the side table
func (g *Gateway) bind(c Conn, code model.RoomCode, id model.ParticipantID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[c] = session{code: code, participantID: id}
	g.conns[id] = c
}

func (g *Gateway) hasSession(c Conn) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.sessions[c]
	return ok
}

// SessionCount returns the number of connections currently bound to a seat
func (g *Gateway) SessionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}

// sendError maps a room error onto an error event for the originating
// connection. Errors never terminate the connection.
func (g *Gateway) sendError(c Conn, err error) {
	var message string
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		message = "Room not found"
	case errors.Is(err, model.ErrRoomFull):
		message = "Room is full"
	case errors.Is(err, model.ErrUnknownParticipant):
		message = "Unknown participant"
	case errors.Is(err, model.ErrInvalidChoice):
		message = "Choice must be rock, paper or scissors"
	default:
		g.logger.Error("unexpected room error", slog.String("error", err.Error()))
		message = "Internal error"
	}
	c.Send(errorEvent{Type: eventError, Message: message})
}

// deadline computes the next read deadline
func (g *Gateway) deadline() time.Time {
	return time.Now().Add(pongWait)
}
