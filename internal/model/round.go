package model

import "time"

// RoundRecord is the persisted record of one resolved round. Result is
// always from the creator's (seat 0) perspective; the opposite seat's
// outcome is derived by inversion.
type RoundRecord struct {
	RoomCode    RoomCode  `json:"room_code"`
	RoundNumber int       `json:"round_number"`
	HostName    string    `json:"host_name"`
	HostChoice  Choice    `json:"host_choice"`
	GuestName   string    `json:"guest_name"`
	GuestChoice Choice    `json:"guest_choice"`
	Result      Outcome   `json:"result"`
	PlayedAt    time.Time `json:"played_at"`
}
