package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yockii/docdraft/internal/constant"
	"github.com/yockii/docdraft/internal/service"
	"github.com/yockii/docdraft/pkg/logger"
)

// rateLimiter 固定窗口计数，每个客户端一个窗口
type rateLimiter struct {
	maxRequests int
	duration    time.Duration
	now         func() time.Time
	mu          sync.Mutex
	windows     map[string]*window
}

type window struct {
	remaining int
	resetAt   time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter(maxRequests int, duration time.Duration) *rateLimiter {
	return &rateLimiter{
		maxRequests: maxRequests,
		duration:    duration,
		now:         time.Now,
		windows:     make(map[string]*window),
	}
}

// RateLimit 限流中间件，需放在密钥校验之后：已校验的密钥按密钥计数，其余按IP
// ctx 结束时停止清理任务
func RateLimit(ctx context.Context, maxRequests int, duration time.Duration) fiber.Handler {
	limiter := NewRateLimiter(maxRequests, duration)
	limiter.StartCleanup(ctx, duration)

	return func(c *fiber.Ctx) error {
		clientID := "ip:" + c.IP()
		if key, ok := c.Locals(LocalsAPIKey).(string); ok && key != "" {
			clientID = "key:" + key
		}

		ok, remaining, resetAt := limiter.allow(clientID)
		c.Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			retry := int(resetAt.Sub(limiter.now()).Seconds()) + 1
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
			logger.Warn("请求超出限流",
				logger.F("ip", c.IP()),
				logger.F("path", c.Path()),
			)
			return c.Status(fiber.StatusTooManyRequests).JSON(service.Error(constant.ErrRateLimited))
		}

		return c.Next()
	}
}

// allow 消耗一次额度，返回是否允许、剩余次数和窗口重置时间
func (rl *rateLimiter) allow(clientID string) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[clientID]
	if !ok || !now.Before(w.resetAt) {
		w = &window{remaining: rl.maxRequests, resetAt: now.Add(rl.duration)}
		rl.windows[clientID] = w
	}

	if w.remaining <= 0 {
		return false, 0, w.resetAt
	}
	w.remaining--
	return true, w.remaining, w.resetAt
}

// cleanup 清理已过期的窗口
func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for clientID, w := range rl.windows {
		if !now.Before(w.resetAt) {
			delete(rl.windows, clientID)
		}
	}
}

// StartCleanup 启动清理任务，返回的通道在任务退出后关闭
func (rl *rateLimiter) StartCleanup(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.cleanup()
			}
		}
	}()
	return done
}
