package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"personal-blog/app/server/constants"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	rdb *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Put(ctx context.Context, subject string, token string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, cacheKey(subject), token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, subject string) (string, error) {
	token, err := s.rdb.Get(ctx, cacheKey(subject)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to query session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Delete(ctx context.Context, subject string) error {
	if err := s.rdb.Del(ctx, cacheKey(subject)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func cacheKey(subject string) string {
	return fmt.Sprintf(constants.CacheKeySessionToken, subject)
}
