package cache

import (
	"context"
	"math"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// lockTimeout bounds how long a single refresh may hold the distributed
// lock before it expires and another replica is free to retry.
const lockTimeout = 5 * time.Second

// RedisStore is a Store backed by a Redis-compatible server.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *RedisStore) SetEX(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// RedisLocker is a Locker implementing Redlock across one or more
// independent Redis nodes: a lock is held only once it is acquired on a
// majority of the given nodes, so a single node being down or slow
// cannot by itself stall or falsely grant a refresh lock. With a single
// node this degrades to an ordinary advisory lock, since there is no
// other node to form a majority against.
type RedisLocker struct {
	rs *redsync.Redsync
}

// NewRedisLocker builds a RedisLocker whose quorum is the given clients,
// one per Redis node named in REDIS_SERVER.
func NewRedisLocker(clients ...*redis.Client) *RedisLocker {
	pools := make([]redsync.Pool, 0, len(clients))
	for _, c := range clients {
		pools = append(pools, goredis.NewPool(c))
	}
	return &RedisLocker{rs: redsync.New(pools...)}
}

func (l *RedisLocker) Lock(ctx context.Context, name string) (Lock, error) {
	mutex := l.rs.NewMutex(name,
		redsync.WithExpiry(lockTimeout),
		redsync.WithRetryDelay(50*time.Millisecond),
		redsync.WithTries(math.MaxInt32),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}
	return redisLock{mutex: mutex}, nil
}

type redisLock struct {
	mutex *redsync.Mutex
}

func (l redisLock) Unlock(ctx context.Context) error {
	_, err := l.mutex.UnlockContext(ctx)
	return err
}
