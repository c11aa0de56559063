package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/duelware/rps-arena/internal/model"
	"github.com/duelware/rps-arena/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Each room's rounds are kept as a list keyed by room code.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveRound(ctx context.Context, round *model.RoundRecord) error {
	data, err := json.Marshal(round)
	if err != nil {
		return err
	}

	key := roundsKey(round.RoomCode)

	// Pipeline the append with a TTL refresh so a room's history expires
	// as a unit once play stops
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	if s.cfg.RoundHistoryTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.RoundHistoryTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoundsForRoom(ctx context.Context, code model.RoomCode) ([]*model.RoundRecord, error) {
	entries, err := s.client.LRange(ctx, roundsKey(code), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	rounds := make([]*model.RoundRecord, 0, len(entries))
	for _, entry := range entries {
		var round model.RoundRecord
		if err := json.Unmarshal([]byte(entry), &round); err != nil {
			return nil, err
		}
		rounds = append(rounds, &round)
	}
	return rounds, nil
}
