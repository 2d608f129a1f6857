// Package envelope defines the uniform result shape the cache and HTTP
// layers operate on regardless of whether the underlying lookup was a
// ping or a query: status, timing, and an error string when offline.
package envelope

import (
	"time"

	"github.com/Syfaro/mcapi/internal/ping"
	"github.com/Syfaro/mcapi/internal/protoerr"
	"github.com/Syfaro/mcapi/internal/query"
)

// Envelope is implemented by PingEnvelope and QueryEnvelope so the cache
// layer can stamp timing and construct error results generically,
// without knowing which protocol produced the underlying data.
type Envelope interface {
	// Stamp records when the envelope's data was fetched and how long
	// the fetch took, returning the updated value.
	Stamp(fetchedAt time.Time, duration time.Duration) Envelope
	// IsOnline reports whether the fetch succeeded.
	IsOnline() bool
	// Method names the protocol that produced this envelope, used as
	// the metrics label ("ping" or "query").
	Method() string
}

// PingEnvelope is the result of a status lookup.
type PingEnvelope struct {
	Status    string        `json:"status"`
	Host      string        `json:"host"`
	Port      uint16        `json:"port"`
	Online    bool          `json:"online"`
	Error     string        `json:"error,omitempty"`
	Version   ping.Version  `json:"version,omitempty"`
	Players   ping.Players  `json:"players,omitempty"`
	Motd      string        `json:"motd,omitempty"`
	Favicon   string        `json:"favicon,omitempty"`
	FetchedAt int64         `json:"fetched_at"`
	Duration  time.Duration `json:"duration"`
}

// NewPingEnvelope builds a successful PingEnvelope from a decoded status.
func NewPingEnvelope(host string, port uint16, s ping.Status) PingEnvelope {
	return PingEnvelope{
		Status:  "online",
		Host:    host,
		Port:    port,
		Online:  true,
		Version: s.Version,
		Players: s.Players,
		Motd:    s.Motd(),
		Favicon: s.Favicon,
	}
}

// FailedPing builds an offline PingEnvelope carrying the given error's
// classified kind.
func FailedPing(host string, port uint16, err error) PingEnvelope {
	return PingEnvelope{
		Status: "offline",
		Host:   host,
		Port:   port,
		Online: false,
		Error:  protoerr.Kind(err),
	}
}

func (e PingEnvelope) Stamp(fetchedAt time.Time, duration time.Duration) Envelope {
	e.FetchedAt = fetchedAt.Unix()
	e.Duration = duration
	return e
}

func (e PingEnvelope) IsOnline() bool       { return e.Online }
func (e PingEnvelope) Method() string       { return "ping" }
func (e PingEnvelope) FetchedAtUnix() int64 { return e.FetchedAt }

// QueryEnvelope is the result of a query lookup.
type QueryEnvelope struct {
	Status    string            `json:"status"`
	Host      string            `json:"host"`
	Port      uint16            `json:"port"`
	Online    bool              `json:"online"`
	Error     string            `json:"error,omitempty"`
	KV        map[string]string `json:"kv,omitempty"`
	Server    string            `json:"server,omitempty"`
	Plugins   []string          `json:"plugins,omitempty"`
	Players   []string          `json:"players,omitempty"`
	FetchedAt int64             `json:"fetched_at"`
	Duration  time.Duration     `json:"duration"`
}

// NewQueryEnvelope builds a successful QueryEnvelope from a decoded
// query result.
func NewQueryEnvelope(host string, port uint16, r query.Result) QueryEnvelope {
	return QueryEnvelope{
		Status:  "online",
		Host:    host,
		Port:    port,
		Online:  true,
		KV:      r.KV,
		Server:  r.ServerMod,
		Plugins: r.Plugins,
		Players: r.Players,
	}
}

// FailedQuery builds an offline QueryEnvelope carrying the given error's
// classified kind.
func FailedQuery(host string, port uint16, err error) QueryEnvelope {
	return QueryEnvelope{
		Status: "offline",
		Host:   host,
		Port:   port,
		Online: false,
		Error:  protoerr.Kind(err),
	}
}

func (e QueryEnvelope) Stamp(fetchedAt time.Time, duration time.Duration) Envelope {
	e.FetchedAt = fetchedAt.Unix()
	e.Duration = duration
	return e
}

func (e QueryEnvelope) IsOnline() bool       { return e.Online }
func (e QueryEnvelope) Method() string       { return "query" }
func (e QueryEnvelope) FetchedAtUnix() int64 { return e.FetchedAt }
