package redis

import (
	"fmt"

	"github.com/duelware/rps-arena/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "rpsarena"

// roundsKey returns the Redis key for a room's round-history list
func roundsKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:rounds:%s", keyPrefix, code)
}
