package response

import (
	"time"

	"github.com/duelware/rps-arena/internal/model"
	"github.com/duelware/rps-arena/internal/room"
)

// Room represents a live room in API responses
type Room struct {
	Code         string    `json:"code"`
	Status       string    `json:"status"`
	Players      []string  `json:"players"`
	RoundsPlayed int       `json:"rounds_played"`
	CreatedAt    time.Time `json:"created_at"`
}

// RoomFromSnapshot converts a room snapshot to a response Room
func RoomFromSnapshot(s *room.RoomSnapshot) Room {
	return Room{
		Code:         string(s.Code),
		Status:       string(s.Status),
		Players:      s.PlayerNames,
		RoundsPlayed: s.RoundsPlayed,
		CreatedAt:    s.CreatedAt,
	}
}

// Round represents one resolved round in API responses
type Round struct {
	RoundNumber int       `json:"round_number"`
	HostName    string    `json:"host_name"`
	HostChoice  string    `json:"host_choice"`
	GuestName   string    `json:"guest_name"`
	GuestChoice string    `json:"guest_choice"`
	Result      string    `json:"result"`
	PlayedAt    time.Time `json:"played_at"`
}

// RoundFromModel converts a model.RoundRecord to a response Round
func RoundFromModel(r *model.RoundRecord) Round {
	return Round{
		RoundNumber: r.RoundNumber,
		HostName:    r.HostName,
		HostChoice:  string(r.HostChoice),
		GuestName:   r.GuestName,
		GuestChoice: string(r.GuestChoice),
		Result:      string(r.Result),
		PlayedAt:    r.PlayedAt,
	}
}

// HistoryResponse is the response for the round history endpoint
type HistoryResponse struct {
	RoomCode string  `json:"room_code"`
	Rounds   []Round `json:"rounds"`
}
