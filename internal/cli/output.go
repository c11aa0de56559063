package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case HistoryResult:
		o.printHistory(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Room response type (matches API)
type Room struct {
	Code         string    `json:"code"`
	Status       string    `json:"status"`
	Players      []string  `json:"players"`
	RoundsPlayed int       `json:"rounds_played"`
	CreatedAt    time.Time `json:"created_at"`
}

// Round response type
type Round struct {
	RoundNumber int       `json:"round_number"`
	HostName    string    `json:"host_name"`
	HostChoice  string    `json:"host_choice"`
	GuestName   string    `json:"guest_name"`
	GuestChoice string    `json:"guest_choice"`
	Result      string    `json:"result"`
	PlayedAt    time.Time `json:"played_at"`
}

// HistoryResult response type
type HistoryResult struct {
	RoomCode string  `json:"room_code"`
	Rounds   []Round `json:"rounds"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("Players: %s\n", strings.Join(r.Players, ", "))
	fmt.Printf("Rounds played: %d\n", r.RoundsPlayed)
}

func (o *Output) printHistory(h HistoryResult) {
	fmt.Printf("Room: %s\n", h.RoomCode)
	if len(h.Rounds) == 0 {
		fmt.Println("No rounds played")
		return
	}
	for _, r := range h.Rounds {
		fmt.Printf("  #%d %s (%s) vs %s (%s): %s %s\n",
			r.RoundNumber,
			r.HostName, r.HostChoice,
			r.GuestName, r.GuestChoice,
			r.HostName, r.Result)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
