package gateway

import (
	"encoding/json"
	"strings"

	"github.com/duelware/rps-arena/internal/model"
)

// inboundMessage is the closed set of client-to-server messages. Decoding
// and field validation happen once here, so malformed input has a single
// rejection path and never reaches the room layer.
type inboundMessage interface {
	isInbound()
}

type createRoomMessage struct {
	PlayerName string
}

type joinRoomMessage struct {
	RoomCode   model.RoomCode
	PlayerName string
}

type makeChoiceMessage struct {
	RoomCode model.RoomCode
	Choice   model.Choice
}

func (createRoomMessage) isInbound() {}
func (joinRoomMessage) isInbound()   {}
func (makeChoiceMessage) isInbound() {}

// clientEnvelope is the wire shape of every inbound message; which fields
// are required depends on the type tag
type clientEnvelope struct {
	Type       string `json:"type"`
	PlayerName string `json:"playerName"`
	RoomCode   string `json:"roomCode"`
	Choice     string `json:"choice"`
}

// decodeError carries a user-facing rejection message
type decodeError struct {
	message string
}

func (e *decodeError) Error() string {
	return e.message
}

// decodeClientMessage parses and validates one inbound frame
func decodeClientMessage(data []byte) (inboundMessage, error) {
	var env clientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &decodeError{"Invalid message"}
	}

	switch env.Type {
	case "create_room":
		name := strings.TrimSpace(env.PlayerName)
		if name == "" {
			return nil, &decodeError{"Player name is required"}
		}
		return createRoomMessage{PlayerName: name}, nil

	case "join_room":
		name := strings.TrimSpace(env.PlayerName)
		if name == "" {
			return nil, &decodeError{"Player name is required"}
		}
		code := strings.TrimSpace(env.RoomCode)
		if code == "" {
			return nil, &decodeError{"Room code is required"}
		}
		return joinRoomMessage{
			RoomCode:   model.RoomCode(code),
			PlayerName: name,
		}, nil

	case "make_choice":
		choice, err := model.ParseChoice(env.Choice)
		if err != nil {
			return nil, &decodeError{"Choice must be rock, paper or scissors"}
		}
		return makeChoiceMessage{
			RoomCode: model.RoomCode(strings.TrimSpace(env.RoomCode)),
			Choice:   choice,
		}, nil

	default:
		return nil, &decodeError{"Unknown message type"}
	}
}
