// Package room implements the room registry and the per-room pairing and
// round-resolution state machine.
package room

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/duelware/rps-arena/internal/dependencies/clock"
	"github.com/duelware/rps-arena/internal/dependencies/random"
	"github.com/duelware/rps-arena/internal/game"
	"github.com/duelware/rps-arena/internal/model"
	"github.com/duelware/rps-arena/internal/storage"
)

const (
	// CodeLength is the length of generated room codes
	CodeLength = 6
	// CodeAlphabet is the characters used in room codes (avoid confusing chars)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// participantIDLength is the length of generated participant IDs
	participantIDLength = 12
)

// Controller owns all live rooms. The single mutex serializes every room
// operation, so the "both choices present" check and the clear-and-resolve
// step are one uninterruptible unit per room.
type Controller struct {
	mu    sync.Mutex
	rooms map[model.RoomCode]*model.Room

	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new room Controller
func NewController(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		rooms:   make(map[model.RoomCode]*model.Room),
		storage: store,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "room")),
	}
}

// JoinResult describes a successful join: both seats, so the caller can
// notify each side of the other's name
type JoinResult struct {
	Room   *model.Room
	Host   *model.Participant // seat 0, the creator
	Joiner *model.Participant // seat 1
}

// ParticipantResult is one participant's view of a resolved round
type ParticipantResult struct {
	ParticipantID  model.ParticipantID
	YourChoice     model.Choice
	OpponentChoice model.Choice
	Result         model.Outcome
}

// SubmitResult is the outcome of submitting a choice. When Resolved is
// false only the submitter is acknowledged; when true, Results holds both
// participants' views of the round.
type SubmitResult struct {
	Resolved bool
	Choice   model.Choice // the recorded choice, echoed in the acknowledgment
	Results  []ParticipantResult
}

// DisconnectNotice addresses the participant left behind when their
// opponent's connection goes away
type DisconnectNotice struct {
	PeerID model.ParticipantID
}

// normalizeCode maps user-supplied codes onto the stored form
func normalizeCode(code model.RoomCode) model.RoomCode {
	return model.RoomCode(strings.ToUpper(strings.TrimSpace(string(code))))
}

// Create allocates a new room with the given player as its sole participant
func (c *Controller) Create(ctx context.Context, playerName string) (*model.Room, *model.Participant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Generate a unique room code; regenerate on collision rather than
	// overwriting an existing room
	var code model.RoomCode
	for {
		code = model.RoomCode(c.random.String(CodeLength, CodeAlphabet))
		if _, exists := c.rooms[code]; !exists {
			break
		}
	}

	now := c.clock.Now()
	host := &model.Participant{
		ID:       model.ParticipantID(c.random.String(participantIDLength, CodeAlphabet)),
		Name:     playerName,
		JoinedAt: now,
	}
	room := &model.Room{
		Code:         code,
		Status:       model.RoomStatusWaiting,
		Participants: []*model.Participant{host},
		CreatedAt:    now,
	}
	c.rooms[code] = room

	c.logger.Info("room created",
		slog.String("code", string(code)),
		slog.String("player", playerName))

	return room, host, nil
}

// RoomSnapshot is a point-in-time copy of a room's public state, safe to
// read after the controller lock is released
type RoomSnapshot struct {
	Code         model.RoomCode
	Status       model.RoomStatus
	PlayerNames  []string
	RoundsPlayed int
	CreatedAt    time.Time
}

// Snapshot returns a copy of a live room's public state
func (c *Controller) Snapshot(code model.RoomCode) (*RoomSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[normalizeCode(code)]
	if !ok {
		return nil, model.ErrRoomNotFound
	}

	names := make([]string, 0, len(room.Participants))
	for _, p := range room.Participants {
		names = append(names, p.Name)
	}
	return &RoomSnapshot{
		Code:         room.Code,
		Status:       room.Status,
		PlayerNames:  names,
		RoundsPlayed: room.RoundsPlayed,
		CreatedAt:    room.CreatedAt,
	}, nil
}

// Join adds a player to a waiting room and flips it to ready. It fails
// without mutating anything if the room is unknown or already full.
func (c *Controller) Join(ctx context.Context, code model.RoomCode, playerName string) (*JoinResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[normalizeCode(code)]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	if room.IsFull() {
		return nil, model.ErrRoomFull
	}

	joiner := &model.Participant{
		ID:       model.ParticipantID(c.random.String(participantIDLength, CodeAlphabet)),
		Name:     playerName,
		JoinedAt: c.clock.Now(),
	}
	room.Participants = append(room.Participants, joiner)
	room.Status = model.RoomStatusReady

	c.logger.Info("player joined room",
		slog.String("code", string(room.Code)),
		slog.String("player", playerName))

	return &JoinResult{
		Room:   room,
		Host:   room.Participants[0],
		Joiner: joiner,
	}, nil
}

// SubmitChoice records a participant's choice, overwriting any earlier
// choice this round. When both seats hold a pending choice the round
// resolves: both outcomes are computed, pending choices are cleared so the
// room is immediately playable again, and the round is written to history.
func (c *Controller) SubmitChoice(ctx context.Context, code model.RoomCode, id model.ParticipantID, choice model.Choice) (*SubmitResult, error) {
	c.mu.Lock()

	room, ok := c.rooms[normalizeCode(code)]
	if !ok {
		c.mu.Unlock()
		return nil, model.ErrRoomNotFound
	}
	p := room.GetParticipant(id)
	if p == nil {
		c.mu.Unlock()
		return nil, model.ErrUnknownParticipant
	}

	p.PendingChoice = &choice

	opp := room.Opponent(id)
	if opp == nil || opp.PendingChoice == nil {
		c.mu.Unlock()
		return &SubmitResult{Resolved: false, Choice: choice}, nil
	}

	// Both choices present: score from seat 0's perspective and invert
	// for seat 1
	host, guest := room.Participants[0], room.Participants[1]
	hostChoice, guestChoice := *host.PendingChoice, *guest.PendingChoice
	outcome := game.Evaluate(hostChoice, guestChoice)

	room.RoundsPlayed++
	record := &model.RoundRecord{
		RoomCode:    room.Code,
		RoundNumber: room.RoundsPlayed,
		HostName:    host.Name,
		HostChoice:  hostChoice,
		GuestName:   guest.Name,
		GuestChoice: guestChoice,
		Result:      outcome,
		PlayedAt:    c.clock.Now(),
	}

	result := &SubmitResult{
		Resolved: true,
		Results: []ParticipantResult{
			{
				ParticipantID:  host.ID,
				YourChoice:     hostChoice,
				OpponentChoice: guestChoice,
				Result:         outcome,
			},
			{
				ParticipantID:  guest.ID,
				YourChoice:     guestChoice,
				OpponentChoice: hostChoice,
				Result:         game.Invert(outcome),
			},
		},
	}

	// Clear pending choices so the next round can start without re-joining
	host.PendingChoice = nil
	guest.PendingChoice = nil

	c.mu.Unlock()

	// History is best effort; a storage fault must not break the round
	if err := c.storage.SaveRound(ctx, record); err != nil {
		c.logger.Warn("failed to record round",
			slog.String("code", string(record.RoomCode)),
			slog.Int("round", record.RoundNumber),
			slog.String("error", err.Error()))
	}

	c.logger.Info("round resolved",
		slog.String("code", string(record.RoomCode)),
		slog.Int("round", record.RoundNumber),
		slog.String("result", string(outcome)))

	return result, nil
}

// Disconnect removes the room a participant belonged to. It returns a
// notice for the remaining participant, or nil if the leaver was alone.
// Unknown codes and non-member IDs are a no-op.
func (c *Controller) Disconnect(ctx context.Context, code model.RoomCode, id model.ParticipantID) (*DisconnectNotice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	normalized := normalizeCode(code)
	room, ok := c.rooms[normalized]
	if !ok {
		return nil, nil
	}
	if room.GetParticipant(id) == nil {
		return nil, nil
	}

	// The room is gone the moment either participant leaves; a stale code
	// must not be joinable
	delete(c.rooms, normalized)

	c.logger.Info("room closed",
		slog.String("code", string(room.Code)),
		slog.Int("rounds_played", room.RoundsPlayed))

	if opp := room.Opponent(id); opp != nil {
		return &DisconnectNotice{PeerID: opp.ID}, nil
	}
	return nil, nil
}

// RoomCount returns the number of live rooms
func (c *Controller) RoomCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rooms)
}
