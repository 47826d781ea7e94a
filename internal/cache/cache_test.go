package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/zwischenruf/internal/model"
)

func TestExtractionKey(t *testing.T) {
	s := model.Speech{ID: 7, Session: 19001, Text: "(Beifall bei der SPD)"}

	key := ExtractionKey(s, "reversed")
	assert.True(t, strings.HasPrefix(key, keyPrefix))
	assert.Equal(t, key, ExtractionKey(s, "reversed"))
	assert.NotEqual(t, key, ExtractionKey(s, "forward"))

	other := s
	other.Session = 19002
	assert.NotEqual(t, key, ExtractionKey(other, "reversed"))

	other = s
	other.Text += " "
	assert.NotEqual(t, key, ExtractionKey(other, "reversed"))
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	require.NoError(t, c.Set("a", []byte("1"), 0))
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("1"), got)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete("a"))
	_, ok = c.Get("a")
	assert.False(t, ok)

	require.NoError(t, c.Set("b", []byte("2"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := ExtractionKey(model.Speech{ID: 1}, "")

	require.NoError(t, c.Set(key, []byte("payload"), 0))
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)

	name := key[len(keyPrefix):]
	_, err := os.Stat(filepath.Join(dir, name[:2], name+fileSuffix))
	assert.NoError(t, err)

	require.NoError(t, c.Delete(key))
	require.NoError(t, c.Delete(key))
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestDiskCache_Expired(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	require.NoError(t, c.Set("k", []byte("v"), -time.Second))
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDiskCache_ClearKeepsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	require.NoError(t, c.Set("abc", []byte("v"), 0))

	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	require.NoError(t, c.Clear())
	_, ok := c.Get("abc")
	assert.False(t, ok)
	assert.FileExists(t, other)

	assert.NoError(t, NewDiskCache(filepath.Join(dir, "missing"), time.Hour).Clear())
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	cfg := model.CacheConfig{Enabled: true, Dir: t.TempDir(), MemoryTTL: time.Minute, DiskTTL: time.Hour}

	first := NewLayeredCache(cfg)
	require.NoError(t, SetJSON(first, "k", map[string]int{"n": 3}, 0))

	second := NewLayeredCache(cfg)
	var v map[string]int
	require.True(t, GetJSON(second, "k", &v))
	assert.Equal(t, 3, v["n"])

	_, ok := second.memory.Get("k")
	assert.True(t, ok)

	require.NoError(t, second.Clear())
	assert.False(t, GetJSON(second, "k", &v))
}

func TestGetJSON_Undecodable(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	require.NoError(t, c.Set("k", []byte("{"), 0))

	var v map[string]int
	assert.False(t, GetJSON(c, "k", &v))
}
