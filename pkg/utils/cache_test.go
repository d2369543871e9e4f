package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestCache() (*MemoryCache, *time.Time) {
	now := time.Unix(1_700_000_000, 0)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }
	return c, &now
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c, _ := newTestCache()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v", 0)
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	c.Set("k", "v2", 0)
	v, _ = c.Get("k")
	assert.Equal(t, "v2", v)

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c, now := newTestCache()
	c.Set("short", "a", time.Minute)
	c.Set("forever", "b", 0)

	*now = now.Add(59 * time.Second)
	_, ok := c.Get("short")
	assert.True(t, ok)

	*now = now.Add(2 * time.Second)
	_, ok = c.Get("short")
	assert.False(t, ok, "过期后不可读")
	assert.Equal(t, 1, c.Len(), "读取时懒删除")

	_, ok = c.Get("forever")
	assert.True(t, ok)
}

func TestMemoryCache_Sweep(t *testing.T) {
	c, now := newTestCache()
	c.Set("a", "1", time.Second)
	c.Set("b", "2", time.Hour)
	c.Set("c", "3", 0)

	assert.Zero(t, c.Sweep())

	*now = now.Add(time.Minute)
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 2, c.Len())

	*now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())

	v, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}
