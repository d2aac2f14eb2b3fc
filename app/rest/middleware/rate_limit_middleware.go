package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	cleanupInterval = time.Minute
	visitorTTL      = 3 * time.Minute // 3分間アクセスのないIPは削除
)

// RateLimiter applies a per client IP token bucket
type RateLimiter struct {
	visitors map[string]*Visitor
	mutex    sync.Mutex
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// Visitor is the limiter state of one client IP
type Visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second with the
// given burst per client IP
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*Visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Run evicts idle visitors until ctx is cancelled
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanupVisitors()
		}
	}
}

// RateLimit returns the middleware. Rejected requests get 429 with a
// Retry-After header.
func (rl *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			if retryAfter, ok := rl.allow(ip); !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"result": "Rate limit exceeded",
				})
			}

			return next(c)
		}
	}
}

// allow reports whether ip may proceed, and otherwise how many seconds it
// should wait
func (rl *RateLimiter) allow(ip string) (int, bool) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	visitor, exists := rl.visitors[ip]
	if !exists {
		visitor = &Visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = visitor
	}
	visitor.lastSeen = now

	if visitor.limiter.AllowN(now, 1) {
		return 0, true
	}

	reservation := visitor.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return 60, false
	}
	delay := reservation.DelayFrom(now)
	reservation.CancelAt(now) // 実際には使わないのでキャンセル

	return int(math.Ceil(delay.Seconds())), false
}

func (rl *RateLimiter) cleanupVisitors() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for ip, visitor := range rl.visitors {
		if now.Sub(visitor.lastSeen) > visitorTTL {
			delete(rl.visitors, ip)
		}
	}
}
