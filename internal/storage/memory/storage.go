package memory

import (
	"context"
	"sync"

	"github.com/duelware/rps-arena/internal/model"
	"github.com/duelware/rps-arena/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	rounds map[model.RoomCode][]*model.RoundRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rounds: make(map[model.RoomCode][]*model.RoundRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveRound(ctx context.Context, round *model.RoundRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[round.RoomCode] = append(s.rounds[round.RoomCode], round)
	return nil
}

func (s *Storage) GetRoundsForRoom(ctx context.Context, code model.RoomCode) ([]*model.RoundRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rounds := s.rounds[code]
	result := make([]*model.RoundRecord, len(rounds))
	copy(result, rounds)
	return result, nil
}
