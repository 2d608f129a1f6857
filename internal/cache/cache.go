// Package cache implements the coalescing lookaside cache shared by the
// ping and query lookups: a fresh entry is served straight from the
// store, a stale or missing one triggers a distributed-locked refresh so
// only one replica ever hits the real server at a time.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Syfaro/mcapi/internal/envelope"
	"github.com/Syfaro/mcapi/internal/metrics"
)

// Store is the key/value side of the cache: get the last stored
// envelope bytes for a key, or write new bytes with an expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetEX(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Locker provides the distributed mutual exclusion that keeps a
// refresh single-flighted across replicas. Lock blocks (retrying)
// until it acquires the named lock or ctx is done.
type Locker interface {
	Lock(ctx context.Context, name string) (Lock, error)
}

// Lock is a held distributed lock; Unlock releases it.
type Lock interface {
	Unlock(ctx context.Context) error
}

// ErrNotFound is returned by a Store.Get that has no value for the key.
var ErrNotFound = fmt.Errorf("cache: not found")

// Coalescer wraps a Store and Locker with the refresh algorithm: fresh
// data is returned as-is, stale or absent data is refreshed behind a
// distributed lock, and a lock loser re-reads rather than refetching.
type Coalescer[T envelope.Envelope] struct {
	store   Store
	locker  Locker
	metrics *metrics.Registry
	maxAge  time.Duration
	hardTTL time.Duration
}

// New returns a Coalescer. maxAge is how long a cached entry is served
// without refresh; hardTTL is the store expiry set on every write. An
// entry older than maxAge is never served, only kept until that expiry.
func New[T envelope.Envelope](store Store, locker Locker, reg *metrics.Registry, maxAge, hardTTL time.Duration) *Coalescer[T] {
	return &Coalescer[T]{store: store, locker: locker, metrics: reg, maxAge: maxAge, hardTTL: hardTTL}
}

// RefreshFunc fetches a fresh value for key, returning either a
// populated online envelope or an offline one describing the failure;
// RefreshFunc itself should not return a Go error except for a context
// cancellation that should abort the whole GetOrRefresh call.
type RefreshFunc[T envelope.Envelope] func(ctx context.Context) (T, error)

// GetOrRefresh returns a fresh envelope for key, computing one via
// refresh if the store has nothing or only a stale entry. Concurrent
// callers for the same key across any number of replicas converge on a
// single refresh call: the lock loser re-reads the value the winner
// just wrote instead of calling refresh itself.
func (c *Coalescer[T]) GetOrRefresh(ctx context.Context, key string, refresh RefreshFunc[T]) (T, error) {
	var zero T

	if data, ok, err := c.readFresh(ctx, key); err != nil {
		return zero, err
	} else if ok {
		return data, nil
	}

	lock, err := c.locker.Lock(ctx, "lock:"+key)
	if err != nil {
		return zero, fmt.Errorf("cache: acquire lock for %s: %w", key, err)
	}
	defer lock.Unlock(ctx)

	// The lock may have been held by a replica that already refreshed
	// this key; re-check before doing the work ourselves.
	if data, ok, err := c.readFresh(ctx, key); err != nil {
		return zero, err
	} else if ok {
		return data, nil
	}

	start := time.Now()
	data, err := refresh(ctx)
	if err != nil {
		return zero, fmt.Errorf("cache: refresh %s: %w", key, err)
	}
	elapsed := time.Since(start)

	stamped := data.Stamp(start, elapsed).(T)
	c.metrics.ObserveRefresh(stamped.Method(), elapsed.Seconds(), stamped.IsOnline())

	encoded, err := json.Marshal(stamped)
	if err != nil {
		return zero, fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := c.store.SetEX(ctx, key, encoded, c.hardTTL); err != nil {
		return zero, fmt.Errorf("cache: write %s: %w", key, err)
	}

	return stamped, nil
}

// readFresh returns (value, true, nil) if the store has an entry for
// key that is within maxAge, (zero, false, nil) on a miss or stale
// entry, and (zero, false, err) on a store or decode failure.
func (c *Coalescer[T]) readFresh(ctx context.Context, key string) (T, bool, error) {
	var zero T

	raw, err := c.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("cache: read %s: %w", key, err)
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return zero, false, fmt.Errorf("cache: decode %s: %w", key, err)
	}

	fetchedAt := fetchedAtOf(data)
	if time.Since(fetchedAt) > c.maxAge {
		return zero, false, nil
	}
	return data, true, nil
}

// fetchedAtUnix is implemented by both envelope types via their
// FetchedAt field through a small reflection-free accessor: since Go
// generics can't reach a struct field without an interface method, the
// cache package depends on envelope to expose it.
type fetchedAtUnix interface {
	FetchedAtUnix() int64
}

func fetchedAtOf(v any) time.Time {
	if f, ok := v.(fetchedAtUnix); ok {
		return time.Unix(f.FetchedAtUnix(), 0)
	}
	return time.Time{}
}
