package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lusogate/internal/models"

	"github.com/redis/go-redis/v9"
)

// incrementScript counts a hit and opens the window on the first one. The
// PTTL guard re-arms keys that lost their expiry (e.g. after a failover), so a
// counter can never become permanent.
var incrementScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisStore shares counters between instances. Key expiry closes windows, so
// Sweep has nothing to do. LastAccessTime is not tracked and is reported as
// the time of the call.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg models.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return NewRedisStoreFromClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreFromClient wraps an existing client. Close closes the client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (Entry, error) {
	ms := window.Milliseconds()
	if ms <= 0 {
		ms = 1
	}

	res, err := incrementScript.Run(ctx, s.client, []string{s.key(key)}, ms).Int64Slice()
	if err != nil {
		return Entry{}, fmt.Errorf("redis increment: %w", err)
	}
	if len(res) != 2 {
		return Entry{}, fmt.Errorf("redis increment: unexpected reply length %d", len(res))
	}

	now := s.now()
	return Entry{
		Count:           int(res[0]),
		WindowResetTime: now.Add(time.Duration(res[1]) * time.Millisecond),
		LastAccessTime:  now,
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	pipe := s.client.Pipeline()
	countCmd := pipe.Get(ctx, s.key(key))
	ttlCmd := pipe.PTTL(ctx, s.key(key))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return Entry{}, false, fmt.Errorf("redis get: %w", err)
	}

	count, err := countCmd.Int()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get: %w", err)
	}

	now := s.now()
	return Entry{
		Count:           count,
		WindowResetTime: now.Add(ttlCmd.Val()),
		LastAccessTime:  now,
	}, true, nil
}

func (s *RedisStore) Sweep(ctx context.Context, idle time.Duration) (int, error) {
	return 0, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
