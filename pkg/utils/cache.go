package utils

import (
	"sync"
	"time"
)

// MemoryCache 使用 sync.Map 保证并发安全的进程内缓存
// 进程退出即丢失，适合开发环境和测试
type MemoryCache struct {
	items sync.Map
	now   func() time.Time
}

// cacheItem 内部结构，包含值和过期时间
type cacheItem struct {
	value      string
	expiration int64 // unix nano，0 表示永不过期
}

func (it cacheItem) expired(now int64) bool {
	return it.expiration > 0 && now > it.expiration
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{now: time.Now}
}

// SetClock 替换时间源，nil 恢复 time.Now
func (c *MemoryCache) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	c.now = now
}

// Set 设置缓存，ttl <= 0 表示永不过期
func (c *MemoryCache) Set(key string, value string, ttl time.Duration) {
	var exp int64
	if ttl > 0 {
		exp = c.now().Add(ttl).UnixNano()
	}

	c.items.Store(key, cacheItem{
		value:      value,
		expiration: exp,
	})
}

// Get 获取缓存并验证是否过期
func (c *MemoryCache) Get(key string) (string, bool) {
	val, ok := c.items.Load(key)
	if !ok {
		return "", false
	}

	item := val.(cacheItem)
	if item.expired(c.now().UnixNano()) {
		c.items.CompareAndDelete(key, val) // 懒删除
		return "", false
	}

	return item.value, true
}

// Delete 删除缓存
func (c *MemoryCache) Delete(key string) {
	c.items.Delete(key)
}

// Sweep 清理所有已过期条目，返回清理数量
func (c *MemoryCache) Sweep() int {
	now := c.now().UnixNano()
	n := 0
	c.items.Range(func(key, val any) bool {
		if val.(cacheItem).expired(now) && c.items.CompareAndDelete(key, val) {
			n++
		}
		return true
	})
	return n
}

// Len 当前条目数（包含尚未清理的过期条目）
func (c *MemoryCache) Len() int {
	n := 0
	c.items.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
