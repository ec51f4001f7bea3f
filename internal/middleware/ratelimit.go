package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/diabetes-risk-server/internal/domain"
)

// clientLimiter tracks one token bucket per client IP for a single
// route. Buckets refill at the per-minute rate and allow a burst of the
// full minute's quota, mirroring a requests-per-minute window.
type clientLimiter struct {
	perMinute int
	mu        sync.Mutex
	buckets   map[string]*rate.Limiter
}

func newClientLimiter(perMinute int) *clientLimiter {
	return &clientLimiter{
		perMinute: perMinute,
		buckets:   make(map[string]*rate.Limiter),
	}
}

func (l *clientLimiter) limiter(clientIP string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.buckets[clientIP]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), l.perMinute)
		l.buckets[clientIP] = limiter
	}
	return limiter
}

// RateLimit enforces a per-client requests-per-minute quota on a route
// and answers 429 when exceeded.
func RateLimit(perMinute int) gin.HandlerFunc {
	limiters := newClientLimiter(perMinute)
	return func(c *gin.Context) {
		if !limiters.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.NewAssessmentError(
				domain.ErrRateLimit,
				"Rate limit exceeded",
				"",
				c.GetString("correlation_id"),
			))
			return
		}
		c.Next()
	}
}
