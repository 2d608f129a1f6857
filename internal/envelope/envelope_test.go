package envelope_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Syfaro/mcapi/internal/envelope"
	"github.com/Syfaro/mcapi/internal/ping"
	"github.com/Syfaro/mcapi/internal/protoerr"
	"github.com/Syfaro/mcapi/internal/query"
	"github.com/stretchr/testify/assert"
)

func TestNewPingEnvelope_Success(t *testing.T) {
	status := ping.Status{Version: ping.Version{Name: "1.20.1", Protocol: 763}}
	e := envelope.NewPingEnvelope("play.example.com", 25565, status)

	assert.True(t, e.IsOnline())
	assert.Equal(t, "ping", e.Method())
	assert.Equal(t, "1.20.1", e.Version.Name)
}

func TestFailedPing_ClassifiesKind(t *testing.T) {
	e := envelope.FailedPing("play.example.com", 25565, protoerr.ErrInvalidPort)

	assert.False(t, e.IsOnline())
	assert.Equal(t, "InvalidPort", e.Error)
}

func TestPingEnvelope_Stamp(t *testing.T) {
	e := envelope.FailedPing("h", 1, errors.New("boom"))
	stamped := e.Stamp(time.Unix(1000, 0), 42*time.Millisecond)

	pe := stamped.(envelope.PingEnvelope)
	assert.Equal(t, int64(1000), pe.FetchedAt)
	assert.Equal(t, 42*time.Millisecond, pe.Duration)
}

func TestNewQueryEnvelope_Success(t *testing.T) {
	result := query.Result{KV: map[string]string{"hostname": "A Minecraft Server"}, Players: []string{"Notch"}}
	e := envelope.NewQueryEnvelope("h", 25565, result)

	assert.True(t, e.IsOnline())
	assert.Equal(t, "query", e.Method())
	assert.Equal(t, []string{"Notch"}, e.Players)
}

func TestFailedQuery_ClassifiesKind(t *testing.T) {
	e := envelope.FailedQuery("h", 25565, protoerr.ErrTimeout)
	assert.False(t, e.IsOnline())
	assert.Equal(t, "Timeout", e.Error)
}
