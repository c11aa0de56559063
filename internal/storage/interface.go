package storage

import (
	"context"

	"github.com/duelware/rps-arena/internal/model"
)

// Storage defines the interface for round-history persistence. Live room
// state is never stored here; only the records of resolved rounds, which
// outlive the rooms they were played in.
type Storage interface {
	// SaveRound appends a resolved round to a room's history
	SaveRound(ctx context.Context, round *model.RoundRecord) error

	// GetRoundsForRoom returns a room's rounds in play order. An unknown
	// code yields an empty slice, not an error: a room that never resolved
	// a round has an empty history.
	GetRoundsForRoom(ctx context.Context, code model.RoomCode) ([]*model.RoundRecord, error)
}
