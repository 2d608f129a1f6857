package serveraddr_test

import (
	"testing"

	"github.com/Syfaro/mcapi/internal/protoerr"
	"github.com/Syfaro/mcapi/internal/serveraddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ExplicitPort(t *testing.T) {
	port := uint16(25566)
	addr, err := serveraddr.Parse("play.example.com", &port)
	require.NoError(t, err)
	assert.Equal(t, "play.example.com", addr.Host)
	assert.Equal(t, uint16(25566), addr.Port)
}

func TestParse_EmbeddedPort(t *testing.T) {
	addr, err := serveraddr.Parse("play.example.com:25567", nil)
	require.NoError(t, err)
	assert.Equal(t, "play.example.com", addr.Host)
	assert.Equal(t, uint16(25567), addr.Port)
}

func TestParse_DefaultPort(t *testing.T) {
	addr, err := serveraddr.Parse("play.example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, serveraddr.DefaultPort, addr.Port)
}

func TestParse_InvalidPort(t *testing.T) {
	port := uint16(80)
	_, err := serveraddr.Parse("play.example.com", &port)
	require.ErrorIs(t, err, protoerr.ErrInvalidPort)
}
