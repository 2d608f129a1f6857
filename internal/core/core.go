// Package core wires the resolver, protocol engines, and coalescing
// cache together into the two operations the HTTP layer calls:
// GetPing and GetQuery.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/Syfaro/mcapi/internal/cache"
	"github.com/Syfaro/mcapi/internal/envelope"
	"github.com/Syfaro/mcapi/internal/ping"
	"github.com/Syfaro/mcapi/internal/query"
	"github.com/Syfaro/mcapi/internal/resolver"
	"github.com/Syfaro/mcapi/internal/serveraddr"
)

// protocolTimeout bounds a single ping or query exchange, matching the
// original service's five-second budget for talking to a remote server.
const protocolTimeout = 5 * time.Second

// Service exposes the public lookups the HTTP layer renders as JSON.
type Service struct {
	resolver *resolver.Resolver
	pingCache  *cache.Coalescer[envelope.PingEnvelope]
	queryCache *cache.Coalescer[envelope.QueryEnvelope]
}

// New builds a Service from its already-constructed dependencies.
func New(res *resolver.Resolver, pingCache *cache.Coalescer[envelope.PingEnvelope], queryCache *cache.Coalescer[envelope.QueryEnvelope]) *Service {
	return &Service{resolver: res, pingCache: pingCache, queryCache: queryCache}
}

// GetPing returns the cached or freshly-fetched SLP status for host:port.
func (s *Service) GetPing(ctx context.Context, host string, port *uint16) (envelope.PingEnvelope, error) {
	addr, err := serveraddr.Parse(host, port)
	if err != nil {
		return envelope.FailedPing(host, derefPort(port), err), nil
	}

	key := fmt.Sprintf("ping:%s:%d", addr.Host, addr.Port)
	return s.pingCache.GetOrRefresh(ctx, key, func(ctx context.Context) (envelope.PingEnvelope, error) {
		return s.fetchPing(ctx, addr), nil
	})
}

func (s *Service) fetchPing(ctx context.Context, addr serveraddr.Addr) envelope.PingEnvelope {
	ctx, cancel := context.WithTimeout(ctx, protocolTimeout)
	defer cancel()

	target, err := s.resolver.Resolve(ctx, addr.Host, addr.Port)
	if err != nil {
		return envelope.FailedPing(addr.Host, addr.Port, err)
	}

	status, err := ping.Fetch(ctx, target.String(), addr.Host, addr.Port)
	if err != nil {
		return envelope.FailedPing(addr.Host, addr.Port, err)
	}

	return envelope.NewPingEnvelope(addr.Host, addr.Port, status)
}

// GetQuery returns the cached or freshly-fetched GameSpy4 query result
// for host:port.
func (s *Service) GetQuery(ctx context.Context, host string, port *uint16) (envelope.QueryEnvelope, error) {
	addr, err := serveraddr.Parse(host, port)
	if err != nil {
		return envelope.FailedQuery(host, derefPort(port), err), nil
	}

	key := fmt.Sprintf("query:%s:%d", addr.Host, addr.Port)
	return s.queryCache.GetOrRefresh(ctx, key, func(ctx context.Context) (envelope.QueryEnvelope, error) {
		return s.fetchQuery(ctx, addr), nil
	})
}

func (s *Service) fetchQuery(ctx context.Context, addr serveraddr.Addr) envelope.QueryEnvelope {
	ctx, cancel := context.WithTimeout(ctx, protocolTimeout)
	defer cancel()

	target, err := s.resolver.Resolve(ctx, addr.Host, addr.Port)
	if err != nil {
		return envelope.FailedQuery(addr.Host, addr.Port, err)
	}

	result, err := query.Fetch(ctx, target.String())
	if err != nil {
		return envelope.FailedQuery(addr.Host, addr.Port, err)
	}

	return envelope.NewQueryEnvelope(addr.Host, addr.Port, result)
}

func derefPort(port *uint16) uint16 {
	if port == nil {
		return serveraddr.DefaultPort
	}
	return *port
}
