package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/duelware/rps-arena/internal/dependencies/mocks"
	"github.com/duelware/rps-arena/internal/model"
	"github.com/duelware/rps-arena/internal/room"
	"github.com/duelware/rps-arena/internal/storage/memory"
	"github.com/duelware/rps-arena/internal/testutil"
)

// fakeConn records every event the gateway sends to it
type fakeConn struct {
	mu     sync.Mutex
	events []any
	closed bool
}

var _ Conn = (*fakeConn)(nil)

func (c *fakeConn) Send(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, v)
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) sent() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.events...)
}

func (c *fakeConn) last() any {
	events := c.sent()
	if len(events) == 0 {
		return nil
	}
	return events[len(events)-1]
}

type GatewaySuite struct {
	suite.Suite
	storage *memory.Storage
	random  *mocks.MockRandom
	rooms   *room.Controller
	gateway *Gateway
	ctx     context.Context
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.storage = memory.New()
	s.random = mocks.NewMockRandom()
	clk := mocks.NewMockClock(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	s.rooms = room.NewController(s.storage, clk, s.random, testutil.NopLogger())
	s.gateway = New(s.rooms, testutil.NopLogger())
	s.ctx = context.Background()
}

// send marshals a frame and pushes it through the gateway
func (s *GatewaySuite) send(c Conn, frame map[string]any) {
	data, err := json.Marshal(frame)
	s.Require().NoError(err)
	s.gateway.HandleMessage(s.ctx, c, data)
}

// createRoom drives a create_room with deterministic code and seat ID
func (s *GatewaySuite) createRoom(c Conn, code, name string) {
	s.random.QueueString(code, "HOST"+code+"00")
	s.send(c, map[string]any{"type": "create_room", "playerName": name})
}

// joinRoom drives a join_room with a deterministic seat ID
func (s *GatewaySuite) joinRoom(c Conn, code, name string) {
	s.random.QueueString("JOIN" + code + "00")
	s.send(c, map[string]any{"type": "join_room", "roomCode": code, "playerName": name})
}

// Create / join flow

func (s *GatewaySuite) TestCreateRoomEmitsRoomCreated() {
	p1 := &fakeConn{}
	s.createRoom(p1, "ABC123", "Alice")

	s.Equal(roomCreatedEvent{
		Type:       eventRoomCreated,
		RoomCode:   "ABC123",
		PlayerName: "Alice",
	}, p1.last())
	s.Equal(1, s.gateway.SessionCount())
}

func (s *GatewaySuite) TestJoinNotifiesBothSides() {
	p1, p2 := &fakeConn{}, &fakeConn{}
	s.createRoom(p1, "ABC123", "Alice")
	s.joinRoom(p2, "ABC123", "Bob")

	s.Equal(gameReadyEvent{
		Type:         eventGameReady,
		RoomCode:     "ABC123",
		PlayerName:   "Alice",
		OpponentName: "Bob",
	}, p1.last())
	s.Equal(gameReadyEvent{
		Type:         eventGameReady,
		RoomCode:     "ABC123",
		PlayerName:   "Bob",
		OpponentName: "Alice",
	}, p2.last())
}

func (s *GatewaySuite) TestJoinIsCaseInsensitive() {
	p1, p2 := &fakeConn{}, &fakeConn{}
	s.createRoom(p1, "ABC123", "Alice")
	s.joinRoom(p2, "abc123", "Bob")

	s.IsType(gameReadyEvent{}, p2.last())
}

func (s *GatewaySuite) TestJoinUnknownRoomFails() {
	p2 := &fakeConn{}
	s.joinRoom(p2, "ZZZZZZ", "Bob")

	s.Equal(errorEvent{Type: eventError, Message: "Room not found"}, p2.last())
	s.Equal(0, s.rooms.RoomCount())
	s.Equal(0, s.gateway.SessionCount())
}

func (s *GatewaySuite) TestJoinFullRoomFails() {
	p1, p2, p3 := &fakeConn{}, &fakeConn{}, &fakeConn{}
	s.createRoom(p1, "ABC123", "Alice")
	s.joinRoom(p2, "ABC123", "Bob")
	s.joinRoom(p3, "ABC123", "Carol")

	s.Equal(errorEvent{Type: eventError, Message: "Room is full"}, p3.last())

	// The seated pair is untouched and can still play
	s.send(p1, map[string]any{"type": "make_choice", "choice": "rock"})
	s.IsType(choiceReceivedEvent{}, p1.last())
}

func (s *GatewaySuite) TestSecondCreateOnSameConnectionFails() {
	p1 := &fakeConn{}
	s.createRoom(p1, "ABC123", "Alice")
	s.send(p1, map[string]any{"type": "create_room", "playerName": "Alice"})

	s.Equal(errorEvent{Type: eventError, Message: "Already in a room"}, p1.last())
	s.Equal(1, s.rooms.RoomCount())
}

// Choice flow

func (s *GatewaySuite) TestFullRound() {
	p1, p2 := &fakeConn{}, &fakeConn{}
	s.createRoom(p1, "ABC123", "Alice")
	s.joinRoom(p2, "ABC123", "Bob")

	s.send(p1, map[string]any{"type": "make_choice", "choice": "rock"})
	s.Equal(choiceReceivedEvent{Type: eventChoiceReceived, Choice: model.ChoiceRock}, p1.last())

	s.send(p2, map[string]any{"type": "make_choice", "choice": "scissors"})

	s.Equal(gameResultEvent{
		Type:           eventGameResult,
		YourChoice:     model.ChoiceRock,
		OpponentChoice: model.ChoiceScissors,
		Result:         model.OutcomeWin,
	}, p1.last())
	s.Equal(gameResultEvent{
		Type:           eventGameResult,
		YourChoice:     model.ChoiceScissors,
		OpponentChoice: model.ChoiceRock,
		Result:         model.OutcomeLose,
	}, p2.last())
}

func (s *GatewaySuite) TestRoomIsPlayableAcrossRounds() {
	p1, p2 := &fakeConn{}, &fakeConn{}
	s.createRoom(p1, "ABC123", "Alice")
	s.joinRoom(p2, "ABC123", "Bob")

	s.send(p1, map[string]any{"type": "make_choice", "choice": "paper"})
	s.send(p2, map[string]any{"type": "make_choice", "choice": "paper"})
	s.Equal(model.OutcomeDraw, p1.last().(gameResultEvent).Result)

	// Next round starts without re-joining
	s.send(p2, map[string]any{"type": "make_choice", "choice": "rock"})
	s.Equal(choiceReceivedEvent{Type: eventChoiceReceived, Choice: model.ChoiceRock}, p2.last())

	s.send(p1, map[string]any{"type": "make_choice", "choice": "paper"})
	s.Equal(model.OutcomeWin, p1.last().(gameResultEvent).Result)
	s.Equal(model.OutcomeLose, p2.last().(gameResultEvent).Result)
}

func (s *GatewaySuite) TestChoiceWithoutJoiningFails() {
	p := &fakeConn{}
	s.send(p, map[string]any{"type": "make_choice", "roomCode": "ABC123", "choice": "rock"})

	s.Equal(errorEvent{Type: eventError, Message: "Unknown participant"}, p.last())
}

// Malformed input

func (s *GatewaySuite) TestMalformedFramesAreRejected() {
	tests := []struct {
		name    string
		raw     string
		message string
	}{
		{"invalid json", `{not json`, "Invalid message"},
		{"unknown type", `{"type":"steal_room"}`, "Unknown message type"},
		{"missing player name", `{"type":"create_room"}`, "Player name is required"},
		{"blank player name", `{"type":"create_room","playerName":"   "}`, "Player name is required"},
		{"missing room code", `{"type":"join_room","playerName":"Bob"}`, "Room code is required"},
		{"illegal choice", `{"type":"make_choice","roomCode":"ABC123","choice":"lizard"}`, "Choice must be rock, paper or scissors"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			p := &fakeConn{}
			s.gateway.HandleMessage(s.ctx, p, []byte(tt.raw))
			s.Equal(errorEvent{Type: eventError, Message: tt.message}, p.last())
			s.Equal(0, s.rooms.RoomCount())
		})
	}
}

// Disconnect flow

func (s *GatewaySuite) TestDisconnectNotifiesPeerAndClosesRoom() {
	p1, p2 := &fakeConn{}, &fakeConn{}
	s.createRoom(p1, "ABC123", "Alice")
	s.joinRoom(p2, "ABC123", "Bob")

	s.gateway.HandleClose(s.ctx, p1)

	s.Equal(opponentDisconnectedEvent{Type: eventOpponentDisconnected}, p2.last())
	s.Equal(0, s.rooms.RoomCount())
	s.Equal(0, s.gateway.SessionCount())
}

func (s *GatewaySuite) TestStaleCodeCannotBeRejoined() {
	p1, p2 := &fakeConn{}, &fakeConn{}
	s.createRoom(p1, "ABC123", "Alice")
	s.joinRoom(p2, "ABC123", "Bob")
	s.gateway.HandleClose(s.ctx, p1)

	p3 := &fakeConn{}
	s.joinRoom(p3, "ABC123", "Carol")
	s.Equal(errorEvent{Type: eventError, Message: "Room not found"}, p3.last())
}

func (s *GatewaySuite) TestSoleParticipantDisconnectIsSilent() {
	p1 := &fakeConn{}
	s.createRoom(p1, "ABC123", "Alice")

	s.gateway.HandleClose(s.ctx, p1)

	s.Equal(0, s.rooms.RoomCount())
	s.Equal(0, s.gateway.SessionCount())
}

func (s *GatewaySuite) TestCloseOfUnjoinedConnectionIsNoOp() {
	p := &fakeConn{}
	s.gateway.HandleClose(s.ctx, p)
	s.Empty(p.sent())
}

func (s *GatewaySuite) TestPeerCanStartOverAfterOpponentLeft() {
	p1, p2 := &fakeConn{}, &fakeConn{}
	s.createRoom(p1, "ABC123", "Alice")
	s.joinRoom(p2, "ABC123", "Bob")
	s.gateway.HandleClose(s.ctx, p1)

	// The survivor's connection is unbound and may host a new room
	s.createRoom(p2, "XYZ789", "Bob")
	s.Equal(roomCreatedEvent{
		Type:       eventRoomCreated,
		RoomCode:   "XYZ789",
		PlayerName: "Bob",
	}, p2.last())
}
