package middleware

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// 缓存条目
type cacheEntry struct {
	Content     []byte
	ContentType string
	Expiration  time.Time
}

// ResponseCache 内存响应缓存，只缓存 GET 请求的 200 响应
type ResponseCache struct {
	mu         sync.RWMutex
	items      map[string]cacheEntry
	expiration time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// DefaultCacheExpiration 默认缓存过期时间
const DefaultCacheExpiration = 5 * time.Minute

// NewResponseCache 创建响应缓存，并定期清理过期条目
func NewResponseCache(expiration time.Duration) *ResponseCache {
	if expiration <= 0 {
		expiration = DefaultCacheExpiration
	}
	rc := &ResponseCache{
		items:      make(map[string]cacheEntry),
		expiration: expiration,
		stop:       make(chan struct{}),
	}
	go rc.janitor(expiration)
	return rc
}

// cacheKey 由路径和排序后的查询参数生成
func cacheKey(c *gin.Context) string {
	query := c.Request.URL.Query()
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(c.Request.URL.Path)
	b.WriteString("?")
	for _, key := range keys {
		values := query[key]
		sort.Strings(values)
		for _, value := range values {
			b.WriteString(key + "=" + value + "&")
		}
	}

	sum := md5.Sum([]byte(b.String()))
	return c.Request.URL.Path + "#" + hex.EncodeToString(sum[:])
}

// Handler 返回缓存中间件
func (rc *ResponseCache) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)

		rc.mu.RLock()
		entry, found := rc.items[key]
		rc.mu.RUnlock()

		if found && entry.Expiration.After(time.Now()) {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, entry.ContentType, entry.Content)
			c.Abort()
			return
		}

		// 缓存未命中，捕获响应
		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if writer.Status() == http.StatusOK {
			rc.mu.Lock()
			rc.items[key] = cacheEntry{
				Content:     writer.body.Bytes(),
				ContentType: writer.Header().Get("Content-Type"),
				Expiration:  time.Now().Add(rc.expiration),
			}
			rc.mu.Unlock()
		}
	}
}

// Purge 清除所有缓存
func (rc *ResponseCache) Purge() {
	rc.mu.Lock()
	rc.items = make(map[string]cacheEntry)
	rc.mu.Unlock()
}

// PurgePrefix 清除路径以 prefix 开头的缓存
func (rc *ResponseCache) PurgePrefix(prefix string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	for key := range rc.items {
		if strings.HasPrefix(key, prefix) {
			delete(rc.items, key)
		}
	}
}

// Len 当前缓存条目数
func (rc *ResponseCache) Len() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.items)
}

// Close 停止清理协程
func (rc *ResponseCache) Close() {
	rc.stopOnce.Do(func() { close(rc.stop) })
}

func (rc *ResponseCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rc.cleanExpired(now)
		case <-rc.stop:
			return
		}
	}
}

// cleanExpired 清理过期缓存
func (rc *ResponseCache) cleanExpired(now time.Time) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	for key, entry := range rc.items {
		if entry.Expiration.Before(now) {
			delete(rc.items, key)
		}
	}
}

// 自定义响应写入器，用于捕获响应内容
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 同时写入原始响应和缓冲区
func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// WriteString 同时写入原始响应和缓冲区
func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
