package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const (
	publicRequestRate  = rate.Limit(10.0 / 60.0)
	publicRequestBurst = 5
	limiterIdleTTL     = 10 * time.Minute
)

type limiterVisitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// attemptLimiter keeps one token bucket per client key. Buckets idle for
// longer than idleTTL are dropped.
type attemptLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastPrune time.Time
	visitors  map[string]*limiterVisitor
}

func newAttemptLimiter(limit rate.Limit, burst int, idleTTL time.Duration) *attemptLimiter {
	return &attemptLimiter{
		limit:    limit,
		burst:    burst,
		idleTTL:  idleTTL,
		visitors: make(map[string]*limiterVisitor),
	}
}

func (limiter *attemptLimiter) allow(key string, now time.Time) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	limiter.pruneLocked(now)

	visitor, ok := limiter.visitors[key]
	if !ok {
		visitor = &limiterVisitor{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.visitors[key] = visitor
	}
	visitor.lastSeen = now
	return visitor.limiter.AllowN(now, 1)
}

func (limiter *attemptLimiter) pruneLocked(now time.Time) {
	if now.Sub(limiter.lastPrune) < limiter.idleTTL {
		return
	}
	limiter.lastPrune = now

	threshold := now.Add(-limiter.idleTTL)
	for key, visitor := range limiter.visitors {
		if visitor.lastSeen.Before(threshold) {
			delete(limiter.visitors, key)
		}
	}
}

func requestLimiterKey(c *fiber.Ctx) string {
	key := strings.TrimSpace(c.IP())
	if key == "" {
		return "unknown"
	}
	return key
}
