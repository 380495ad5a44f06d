package oauthstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tenantry:oauthstate:"

// RedisStore shares states across replicas. Take uses GETDEL so two callbacks
// racing on one state cannot both succeed.
type RedisStore struct {
	rdb redis.UniversalClient
}

func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, st State, ttl time.Duration) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}

	ok, err := s.rdb.SetNX(ctx, keyPrefix+key, b, ttl).Result()
	if err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	if !ok {
		return errors.New("oauthstate: key collision")
	}
	return nil
}

func (s *RedisStore) Take(ctx context.Context, key string) (State, error) {
	b, err := s.rdb.GetDel(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("take oauth state: %w", err)
	}

	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return State{}, fmt.Errorf("decode oauth state: %w", err)
	}
	return st, nil
}
