package favicon_test

import (
	"encoding/base64"
	"testing"

	"github.com/Syfaro/mcapi/internal/favicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ValidDataURI(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	got, err := favicon.Decode(uri)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestDecode_Empty(t *testing.T) {
	_, err := favicon.Decode("")
	assert.ErrorIs(t, err, favicon.ErrNoFavicon)
}

func TestDecode_WrongPrefix(t *testing.T) {
	_, err := favicon.Decode("data:image/jpeg;base64,AAAA")
	assert.Error(t, err)
}
