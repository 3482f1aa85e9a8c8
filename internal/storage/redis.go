package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists records in redis, namespaced per profile. Selected with
// storage.backend=redis in config.
type RedisStore struct {
	client  *redis.Client
	profile string
}

func NewRedisStore(client *redis.Client, profile string) *RedisStore {
	return &RedisStore{client: client, profile: profile}
}

func (s *RedisStore) key(key string) string {
	return fmt.Sprintf("bookstore:%s:%s", s.profile, key)
}

func (s *RedisStore) Get(c context.Context, key string) (string, error) {
	value, err := s.client.Get(c, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed reading record=%s with error=%w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(c context.Context, key string, value string) error {
	err := s.client.Set(c, s.key(key), value, 0).Err()
	if err != nil {
		return fmt.Errorf("failed writing record=%s with error=%w", key, err)
	}
	return nil
}

func (s *RedisStore) Remove(c context.Context, key string) error {
	err := s.client.Del(c, s.key(key)).Err()
	if err != nil {
		return fmt.Errorf("failed removing record=%s with error=%w", key, err)
	}
	return nil
}
