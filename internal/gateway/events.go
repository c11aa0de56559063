package gateway

import "github.com/duelware/rps-arena/internal/model"

// Server-to-client event type tags
const (
	eventRoomCreated          = "room_created"
	eventGameReady            = "game_ready"
	eventChoiceReceived       = "choice_received"
	eventGameResult           = "game_result"
	eventOpponentDisconnected = "opponent_disconnected"
	eventError                = "error"
)

type roomCreatedEvent struct {
	Type       string         `json:"type"`
	RoomCode   model.RoomCode `json:"roomCode"`
	PlayerName string         `json:"playerName"`
}

// gameReadyEvent tells each side its own name and the opponent's
type gameReadyEvent struct {
	Type         string         `json:"type"`
	RoomCode     model.RoomCode `json:"roomCode"`
	PlayerName   string         `json:"playerName"`
	OpponentName string         `json:"opponentName"`
}

type choiceReceivedEvent struct {
	Type   string       `json:"type"`
	Choice model.Choice `json:"choice"`
}

type gameResultEvent struct {
	Type           string        `json:"type"`
	YourChoice     model.Choice  `json:"yourChoice"`
	OpponentChoice model.Choice  `json:"opponentChoice"`
	Result         model.Outcome `json:"result"`
}

type opponentDisconnectedEvent struct {
	Type string `json:"type"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
