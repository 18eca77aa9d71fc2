package kv

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the Store contract with a redis connection.
type Redis struct {
	conn *redis.Client
}

func NewRedis(addr string) *Redis {
	return &Redis{conn: redis.NewClient(&redis.Options{Addr: addr})}
}

func NewRedisFromClient(c *redis.Client) *Redis {
	return &Redis{conn: c}
}

func (s *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.conn.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *Redis) Set(ctx context.Context, key, value string) error {
	return s.conn.Set(ctx, key, value, 0).Err()
}

func (s *Redis) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.conn.Del(ctx, keys...).Err()
}

func (s *Redis) MGet(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	raw, err := s.conn.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	vals := make([]string, 0, len(raw))
	for _, v := range raw {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok {
			vals = append(vals, str)
		}
	}
	return vals, nil
}

func (s *Redis) MSet(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	pairs := make([]interface{}, 0, len(entries)*2)
	for k, v := range entries {
		pairs = append(pairs, k, v)
	}
	return s.conn.MSet(ctx, pairs...).Err()
}

func (s *Redis) GetByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.conn.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return s.MGet(ctx, keys...)
}

func (s *Redis) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.conn.SetNX(ctx, key, value, ttl).Result()
}
