package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 冷却限流器 ====================

// CooldownLimiter 同一个 key 两次请求之间至少间隔 interval
type CooldownLimiter struct {
	interval time.Duration
	entries  sync.Map // key -> *cooldownEntry
	now      func() time.Time
}

type cooldownEntry struct {
	mu      sync.Mutex
	last    time.Time
	removed bool // 已被 Sweep 移出 map
}

// NewCooldownLimiter interval <= 0 时不限流
func NewCooldownLimiter(interval time.Duration) *CooldownLimiter {
	return &CooldownLimiter{interval: interval, now: time.Now}
}

// Allow 允许时记录本次时间；拒绝时返回剩余冷却时间
func (l *CooldownLimiter) Allow(key string) (bool, time.Duration) {
	if l.interval <= 0 {
		return true, 0
	}
	for {
		actual, _ := l.entries.LoadOrStore(key, &cooldownEntry{})
		entry := actual.(*cooldownEntry)

		entry.mu.Lock()
		if entry.removed {
			// 与 Sweep 并发，换新条目重试
			entry.mu.Unlock()
			continue
		}
		now := l.now()
		if elapsed := now.Sub(entry.last); !entry.last.IsZero() && elapsed < l.interval {
			entry.mu.Unlock()
			return false, l.interval - elapsed
		}
		entry.last = now
		entry.mu.Unlock()
		return true, 0
	}
}

// Sweep 移除冷却期已过的条目，返回移除数量
func (l *CooldownLimiter) Sweep() int {
	now := l.now()
	n := 0
	l.entries.Range(func(key, val any) bool {
		entry := val.(*cooldownEntry)
		entry.mu.Lock()
		if now.Sub(entry.last) >= l.interval {
			entry.removed = true
			l.entries.Delete(key)
			n++
		}
		entry.mu.Unlock()
		return true
	})
	return n
}

// Len 当前跟踪的 key 数量
func (l *CooldownLimiter) Len() int {
	n := 0
	l.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// ==================== Gin 中间件 ====================

// GenerateCooldown 按用户限制生成接口的调用频率
func GenerateCooldown(limiter *CooldownLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := limiter.Allow(GetUserID(c))
		if ok {
			c.Next()
			return
		}

		seconds := int(math.Ceil(retryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(seconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"code":    429,
			"message": "请求过于频繁，请稍后再试",
			"data": gin.H{
				"retry_after": seconds,
			},
		})
	}
}
