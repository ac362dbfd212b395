package middleware

import (
	"sync"
	"time"

	"github.com/dongliang3571/kanic-server/internal/error/code"
	"github.com/dongliang3571/kanic-server/internal/error/response"

	"github.com/gin-gonic/gin"
)

// TokenBucket 简单的令牌桶限流器
type TokenBucket struct {
	rate       float64    // 每秒填充的令牌数
	capacity   int        // 桶的容量
	tokens     float64    // 当前令牌数
	lastRefill time.Time  // 上次填充时间
	mu         sync.Mutex // 互斥锁
}

// NewTokenBucket 创建新的令牌桶限流器
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// Allow 尝试获取令牌
func (tb *TokenBucket) Allow() bool {
	return tb.allowAt(time.Now())
}

func (tb *TokenBucket) allowAt(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed > 0 {
		tb.tokens += elapsed * tb.rate
		tb.lastRefill = now
	}
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// idle 桶在 now 之前已空闲多久
func (tb *TokenBucket) idle(now time.Time) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return now.Sub(tb.lastRefill)
}

// RateLimiter 按客户端IP限流
type RateLimiter struct {
	rate     float64
	burst    int
	idleTTL  time.Duration
	buckets  map[string]*TokenBucket
	mu       sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
}

// 默认值
const (
	DefaultRate    = 1.0
	DefaultBurst   = 5
	DefaultIdleTTL = time.Hour
)

// NewRateLimiter 创建限流器，空闲超过 idleTTL 的桶会被回收
func NewRateLimiter(rate float64, burst int, idleTTL time.Duration) *RateLimiter {
	if rate <= 0 {
		rate = DefaultRate
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	rl := &RateLimiter{
		rate:    rate,
		burst:   burst,
		idleTTL: idleTTL,
		buckets: make(map[string]*TokenBucket),
		stop:    make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

func (rl *RateLimiter) bucket(key string) *TokenBucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = NewTokenBucket(rl.rate, rl.burst)
		rl.buckets[key] = b
	}
	return b
}

// Handler 返回限流中间件
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.bucket(c.ClientIP()).Allow() {
			response.Abort(c, code.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// Close 停止清理协程
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) janitor() {
	ticker := time.NewTicker(rl.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.cleanIdle(now)
		case <-rl.stop:
			return
		}
	}
}

// cleanIdle 回收空闲的令牌桶
func (rl *RateLimiter) cleanIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		if b.idle(now) >= rl.idleTTL {
			delete(rl.buckets, key)
		}
	}
}
