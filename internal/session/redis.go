package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"homestock/internal/dialog"
)

// sessionTTL bounds how long an abandoned mid-flow session survives.
const sessionTTL = 24 * time.Hour

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(owner int64) string {
	return fmt.Sprintf("homestock:session:%d", owner)
}

func (s *RedisStore) Get(ctx context.Context, owner int64) (*dialog.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // no session yet
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	sess := &dialog.Session{}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) Put(ctx context.Context, sess *dialog.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.Owner), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, owner int64) error {
	if err := s.client.Del(ctx, sessionKey(owner)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
