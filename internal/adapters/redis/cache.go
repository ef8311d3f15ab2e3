package redisad

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"nofesh/internal/adapters/observability"
)

// Store keeps place-lookup cache entries as JSON values. Entries persist
// without a physical TTL: the fetch timestamp travels inside the entry and
// the service decides freshness at read time. Set is an idempotent
// overwrite, so concurrent refreshes race last-write-wins.
type Store struct {
	c *redis.Client
}

func New(addr, pass string, db int) *Store {
	return &Store{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (s *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := s.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (s *Store) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	return s.c.Set(ctx, key, b, 0).Err()
}
