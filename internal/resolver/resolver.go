// Package resolver turns a user-supplied Minecraft host into the address
// a ping or query should actually dial, following the SRV-record
// indirection Minecraft clients use ahead of plain A/AAAA lookups.
package resolver

import (
	"container/list"
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Syfaro/mcapi/internal/protoerr"
)

// Target is a resolved address a protocol engine should dial.
type Target struct {
	Host string
	Port uint16
}

func (t Target) String() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(int(t.Port)))
}

// entry is one cached resolution, evicted both on TTL expiry and LRU
// pressure the way HydraDNS's TTLCache evicts DNS answers.
type entry struct {
	value     Target
	expiresAt time.Time
	elem      *list.Element
}

// cacheKey identifies a (host, port) pair; resolution depends on both
// since the A/AAAA fallback target carries the requested port.
type cacheKey struct {
	host string
	port uint16
}

// Resolver resolves Minecraft hosts to dial targets, caching positive
// results for a short TTL to avoid re-querying DNS on every request.
type Resolver struct {
	net *net.Resolver
	ttl time.Duration

	mu    sync.Mutex
	lru   *list.List
	cache map[cacheKey]*entry

	maxEntries int
}

// New returns a Resolver using the given TTL for cached resolutions and
// the system's default DNS resolver.
func New(ttl time.Duration, maxEntries int) *Resolver {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &Resolver{
		net:        net.DefaultResolver,
		ttl:        ttl,
		lru:        list.New(),
		cache:      map[cacheKey]*entry{},
		maxEntries: maxEntries,
	}
}

// Resolve returns the target to dial for host/port: an SRV record under
// `_minecraft._tcp.<host>` if one exists (lowest priority, then highest
// weight, wins ties), otherwise host/port unchanged after confirming an
// A or AAAA record exists.
func (r *Resolver) Resolve(ctx context.Context, host string, port uint16) (Target, error) {
	key := cacheKey{host: host, port: port}

	if t, ok := r.lookup(key); ok {
		return t, nil
	}

	target, err := r.resolveUncached(ctx, host, port)
	if err != nil {
		return Target{}, err
	}

	r.store(key, target)
	return target, nil
}

func (r *Resolver) resolveUncached(ctx context.Context, host string, port uint16) (Target, error) {
	if srvTarget, ok := r.resolveSRV(ctx, host); ok {
		return srvTarget, nil
	}

	if _, err := r.net.LookupHost(ctx, host); err != nil {
		return Target{}, fmt.Errorf("resolver: lookup %q: %w", host, protoerr.ErrResolveFailed)
	}
	return Target{Host: host, Port: port}, nil
}

// resolveSRV looks up `_minecraft._tcp.<host>` and, if any records are
// returned, selects the one with lowest priority (ties broken by
// highest weight) per RFC 2782 selection order.
func (r *Resolver) resolveSRV(ctx context.Context, host string) (Target, bool) {
	_, srvs, err := r.net.LookupSRV(ctx, "minecraft", "tcp", host)
	if err != nil || len(srvs) == 0 {
		return Target{}, false
	}

	sort.Slice(srvs, func(i, j int) bool {
		if srvs[i].Priority != srvs[j].Priority {
			return srvs[i].Priority < srvs[j].Priority
		}
		return srvs[i].Weight > srvs[j].Weight
	})

	chosen := srvs[0]
	target := Target{
		Host: trimTrailingDot(chosen.Target),
		Port: chosen.Port,
	}
	return target, true
}

func trimTrailingDot(s string) string {
	if len(s) > 0 && s[len(s)-1] == '.' {
		return s[:len(s)-1]
	}
	return s
}

func (r *Resolver) lookup(key cacheKey) (Target, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.cache[key]
	if !ok {
		return Target{}, false
	}
	if time.Now().After(e.expiresAt) {
		r.lru.Remove(e.elem)
		delete(r.cache, key)
		return Target{}, false
	}

	r.lru.MoveToBack(e.elem)
	return e.value, true
}

func (r *Resolver) store(key cacheKey, target Target) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.cache[key]; ok {
		existing.value = target
		existing.expiresAt = time.Now().Add(r.ttl)
		r.lru.MoveToBack(existing.elem)
		return
	}

	if len(r.cache) >= r.maxEntries {
		oldest := r.lru.Front()
		if oldest != nil {
			r.lru.Remove(oldest)
			delete(r.cache, oldest.Value.(cacheKey))
		}
	}

	elem := r.lru.PushBack(key)
	r.cache[key] = &entry{
		value:     target,
		expiresAt: time.Now().Add(r.ttl),
		elem:      elem,
	}
}
