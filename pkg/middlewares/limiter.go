package middlewares

import (
	"strconv"
	"sync"
	"time"

	errprocess "team_chat_service/pkg/err"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	l        *rate.Limiter
	lastSeen time.Time
}

// LimiterPool one token bucket per key, idle keys are evicted after ttl
type LimiterPool struct {
	mu            sync.Mutex
	m             map[string]*limiterEntry
	rps           float64
	burst         int
	ttl           time.Duration
	cleanupPeriod time.Duration
	lastCleanup   time.Time
	now           func() time.Time
}

// NewLimiterPool rps <= 0 預設 5, burst <= 0 預設 10
func NewLimiterPool(rps float64, burst int) *LimiterPool {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &LimiterPool{
		m:             make(map[string]*limiterEntry),
		rps:           rps,
		burst:         burst,
		ttl:           10 * time.Minute,
		cleanupPeriod: time.Minute,
		now:           time.Now,
	}
}

func (p *LimiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Sub(p.lastCleanup) >= p.cleanupPeriod {
		p.evictIdle(now)
		p.lastCleanup = now
	}

	if e, ok := p.m[key]; ok {
		e.lastSeen = now
		return e.l
	}
	l := rate.NewLimiter(rate.Limit(p.rps), p.burst)
	p.m[key] = &limiterEntry{l: l, lastSeen: now}
	return l
}

// evictIdle caller holds p.mu
func (p *LimiterPool) evictIdle(now time.Time) {
	cutoff := now.Add(-p.ttl)
	for k, e := range p.m {
		if e.lastSeen.Before(cutoff) {
			delete(p.m, k)
		}
	}
}

// Allow report whether key may proceed now
func (p *LimiterPool) Allow(key string) bool {
	return p.get(key).Allow()
}

// UserRateLimiter 需在 JWTMiddleware 之後, 依 caller id 限流
func UserRateLimiter(pool *LimiterPool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if id, ok := UserID(c); ok {
			key = "user:" + strconv.FormatUint(uint64(id), 10)
		}
		if !pool.Allow(key) {
			RateLimitedTotal.WithLabelValues(c.Route().Path).Inc()
			err := errprocess.RateLimited("Too many requests")
			return c.Status(errprocess.StatusCode(err)).JSON(fiber.Map{
				"status":  "error",
				"message": errprocess.PublicMessage(err, "Too many requests"),
			})
		}
		return c.Next()
	}
}
