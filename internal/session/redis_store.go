package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const redisKeyPrefix = "qms:session:"

// RedisStore keeps sessions as JSON values without expiry.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Create(ctx context.Context, username string) (*Session, error) {
	s := &Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	ok, err := r.client.SetNX(ctx, redisKeyPrefix+s.ID, data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("create session: id collision on %s", s.ID)
	}
	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Save only overwrites existing keys, so a session deleted by logout stays deleted.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	ok, err := r.client.SetXX(ctx, redisKeyPrefix+s.ID, data, 0).Result()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
