package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadCString(t *testing.T) {
	b := []byte{'f', 'o', 'x', 0, 'h', 'i', 0}

	s, rest, ok := readCString(b)
	assert.True(t, ok)
	assert.Equal(t, "fox", s)

	s, rest, ok = readCString(rest)
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	_, _, ok = readCString(rest)
	assert.False(t, ok)
}

func TestSplitPlugins_NoPlugins(t *testing.T) {
	mod, plugins := splitPlugins("")
	assert.Equal(t, "", mod)
	assert.Nil(t, plugins)
}

func TestSplitPlugins_NameOnly(t *testing.T) {
	mod, plugins := splitPlugins("CraftBukkit on Bukkit 1.2.5-R4.0")
	assert.Equal(t, "CraftBukkit on Bukkit 1.2.5-R4.0", mod)
	assert.Nil(t, plugins)
}

func TestSplitPlugins_WithPlugins(t *testing.T) {
	mod, plugins := splitPlugins("CraftBukkit on Bukkit 1.2.5-R4.0: WorldEdit 5.3; CommandBook 2.1")
	assert.Equal(t, "CraftBukkit on Bukkit 1.2.5-R4.0", mod)
	assert.Equal(t, []string{"WorldEdit 5.3", "CommandBook 2.1"}, plugins)
}

func TestParsePlayers(t *testing.T) {
	body := append(make([]byte, 10), []byte{'a', 0, 'b', 0, 'c', 0, 0}...)
	players := parsePlayers(body)
	assert.Equal(t, []string{"a", "b", "c"}, players)
}

func TestParsePlayers_TooShort(t *testing.T) {
	assert.Nil(t, parsePlayers([]byte{1, 2, 3}))
}

func TestParseFullStat(t *testing.T) {
	var body []byte
	body = append(body, []byte("hostname")...)
	body = append(body, 0)
	body = append(body, []byte("A Minecraft Server")...)
	body = append(body, 0)
	body = append(body, []byte("plugins")...)
	body = append(body, 0)
	body = append(body, []byte("CraftBukkit 1.2.5: WorldEdit 5.3; CommandBook 2.1")...)
	body = append(body, 0)
	body = append(body, 0) // KV section terminator

	body = append(body, make([]byte, 10)...) // player-list padding
	body = append(body, []byte("Notch")...)
	body = append(body, 0, 0)

	res := parseFullStat(body)
	assert.Equal(t, "A Minecraft Server", res.KV["hostname"])
	assert.Equal(t, "CraftBukkit 1.2.5", res.ServerMod)
	assert.Equal(t, []string{"WorldEdit 5.3", "CommandBook 2.1"}, res.Plugins)
	assert.Equal(t, []string{"Notch"}, res.Players)
}
