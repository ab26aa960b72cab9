package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "jobmap:"

// RedisStore keeps the task map in Redis with a TTL matching the retention
// window. SETNX preserves the first-write-wins invariant.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing Redis client. A non-positive ttl means
// records never expire.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, taskID, providerID string) error {
	raw, err := json.Marshal(Record{Provider: providerID, CreatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("jobstore: encode record: %w", err)
	}
	if err := s.client.SetNX(ctx, redisKeyPrefix+taskID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("jobstore: redis save: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, taskID string) (*Record, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+taskID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("jobstore: redis get: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, ErrNotFound
	}
	return &rec, nil
}

var _ Store = (*RedisStore)(nil)
