/*
 * @Description: 频率限制中间件
 * @Date: 2026-10-10 14:20:00
 * @LastEditTime: 2026-10-12 15:59:28
 */
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/dustinreed/portfolio/pkg/response"
	"github.com/dustinreed/portfolio/pkg/util"
)

// 限流器清理配置
const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTimeout     = 10 * time.Minute
)

// ipRateLimiter 用于存储每个IP地址的限流器
type ipRateLimiter struct {
	limiters map[string]*limiterInfo
	mu       sync.Mutex
	// 每个IP每分钟允许的请求数
	requestsPerMinute int
	// 突发请求数（允许短时间内的突发流量）
	burst int
}

// limiterInfo 存储限流器及其最后访问时间
type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

// newIPRateLimiter 创建一个新的IP限流器
func newIPRateLimiter(requestsPerMinute, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters:          make(map[string]*limiterInfo),
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
	}
}

// getLimiter 获取指定IP的限流器
func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	info, exists := i.limiters[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(i.requestsPerMinute)), i.burst)
		info = &limiterInfo{limiter: limiter}
		i.limiters[ip] = info
	}
	info.lastAccessed = time.Now()
	return info.limiter
}

// cleanupStaleEntries 删除超过空闲时间未使用的限流器
func (i *ipRateLimiter) cleanupStaleEntries(now time.Time) {
	i.mu.Lock()
	defer i.mu.Unlock()

	for ip, info := range i.limiters {
		if now.Sub(info.lastAccessed) > limiterIdleTimeout {
			delete(i.limiters, ip)
		}
	}
}

func (i *ipRateLimiter) runCleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			i.cleanupStaleEntries(now)
		case <-stop:
			return
		}
	}
}

// RateLimiter 按客户端 IP 限流的中间件
type RateLimiter struct {
	limiter *ipRateLimiter
	stop    chan struct{}
	once    sync.Once
}

// NewRateLimiter 创建限流中间件并启动清理协程。
// requestsPerMinute: 每分钟允许的请求数，<= 0 时不限流
// burst: 突发请求数
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	if requestsPerMinute <= 0 {
		return &RateLimiter{}
	}
	if burst <= 0 {
		burst = requestsPerMinute
	}
	rl := &RateLimiter{
		limiter: newIPRateLimiter(requestsPerMinute, burst),
		stop:    make(chan struct{}),
	}
	go rl.limiter.runCleanup(rl.stop)
	return rl
}

// Handler 返回 gin 中间件
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limiter == nil {
			c.Next()
			return
		}

		if !rl.limiter.getLimiter(util.GetRealClientIP(c)).Allow() {
			response.AbortWithFail(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			return
		}
		c.Next()
	}
}

// Stop 停止清理协程
func (rl *RateLimiter) Stop() {
	if rl.stop == nil {
		return
	}
	rl.once.Do(func() { close(rl.stop) })
}
