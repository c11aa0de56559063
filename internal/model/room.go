package model

import "time"

// RoomCode is a short human-typeable identifier for joining rooms.
// Codes are stored uppercase; lookups are case-insensitive.
type RoomCode string

// ParticipantID identifies one player's seat in a room, distinct from the
// underlying transport connection
type ParticipantID string

// RoomStatus represents the current state of a room
type RoomStatus string

const (
	RoomStatusWaiting RoomStatus = "waiting" // One participant, waiting for an opponent
	RoomStatusReady   RoomStatus = "ready"   // Both seats filled, rounds may be played
)

// Participant represents one connected player inside a room
type Participant struct {
	ID            ParticipantID
	Name          string
	PendingChoice *Choice // nil until a choice is submitted this round
	JoinedAt      time.Time
}

// Room is a paired session between up to two participants. Seat 0 is the
// creator; seat 1 is filled on join. Rooms persist across rounds and are
// destroyed only when a participant disconnects.
type Room struct {
	Code         RoomCode
	Status       RoomStatus
	Participants []*Participant
	RoundsPlayed int
	CreatedAt    time.Time
}

// IsFull reports whether both seats are taken
func (r *Room) IsFull() bool {
	return len(r.Participants) >= 2
}

// GetParticipant returns the participant with the given ID, or nil
func (r *Room) GetParticipant(id ParticipantID) *Participant {
	for _, p := range r.Participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Opponent returns the other participant relative to the given ID, or nil
// if the room has no second participant
func (r *Room) Opponent(id ParticipantID) *Participant {
	for _, p := range r.Participants {
		if p.ID != id {
			return p
		}
	}
	return nil
}
