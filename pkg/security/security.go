package security

import (
	"context"
	"net/http"
	"sync"
	"time"

	"narada_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORS only echoes origins on the allow list and supports credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && originSet[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Retry-After, X-RateLimit-Limit, X-RateLimit-Remaining")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitorTable struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	expiry   time.Duration
}

func newVisitorTable(window time.Duration) *visitorTable {
	expiry := window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	return &visitorTable{visitors: make(map[string]*visitor), expiry: expiry}
}

func (t *visitorTable) get(key string, newLimiter func() *rate.Limiter) *visitor {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, exists := t.visitors[key]
	if !exists {
		v = &visitor{limiter: newLimiter()}
		t.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v
}

// sweep drops visitors idle for longer than the expiry.
func (t *visitorTable) sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for ip, v := range t.visitors {
		if now.Sub(v.lastSeen) > t.expiry {
			delete(t.visitors, ip)
			removed++
		}
	}
	return removed
}

func (t *visitorTable) janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.sweep(now)
		}
	}
}

// RateLimiter is a coarse per-IP token bucket over every route. Idle visitors
// are dropped by a background sweep that runs until ctx is done.
func RateLimiter(ctx context.Context, maxRequests int, window time.Duration) gin.HandlerFunc {
	table := newVisitorTable(window)
	go table.janitor(ctx, time.Minute)

	r := rate.Every(window / time.Duration(maxRequests))
	newLimiter := func() *rate.Limiter { return rate.NewLimiter(r, maxRequests) }

	return func(c *gin.Context) {
		v := table.get(c.ClientIP(), newLimiter)

		if !v.limiter.Allow() {
			util.Error(c, http.StatusTooManyRequests, util.MsgTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}
