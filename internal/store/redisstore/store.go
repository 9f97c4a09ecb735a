// Package redisstore caches user-context bundles at the HTTP layer. The
// memory core stays stateless; this cache only shields repeated context
// reads during an active call.
package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr, password string, db int, ttl time.Duration) *Store {
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

func userContextKey(userID string) string {
	return "userctx:" + userID
}

// GetUserContext returns the cached bundle JSON, or redis.Nil when absent.
func (s *Store) GetUserContext(ctx context.Context, userID string) (string, error) {
	return s.rdb.Get(ctx, userContextKey(userID)).Result()
}

func (s *Store) SetUserContext(ctx context.Context, userID, payload string) error {
	return s.rdb.Set(ctx, userContextKey(userID), payload, s.ttl).Err()
}

// InvalidateUserContext drops the cached bundle; called after profile writes
// so the next read sees fresh data.
func (s *Store) InvalidateUserContext(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, userContextKey(userID)).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
