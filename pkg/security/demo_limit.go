package security

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"narada_backend/internal/util"
	"narada_backend/pkg/logger"
	"narada_backend/pkg/monitoring"
	"narada_backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KeyFunc derives the demo rate-limit key from a request.
type KeyFunc func(*gin.Context) string

// DemoKeyFunc returns ClientKey for "forwarded" and ClientIPKey otherwise.
func DemoKeyFunc(mode string) KeyFunc {
	if mode == "forwarded" {
		return ClientKey
	}
	return ClientIPKey
}

// ClientIPKey is gin's ClientIP, which reads forwarding headers only when the
// peer is a trusted proxy.
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// ClientKey identifies a demo visitor: the first X-Forwarded-For hop, then
// X-Real-IP, then "unknown". Any client can set these headers.
func ClientKey(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	return "unknown"
}

// DemoRateLimit applies the fixed-window limiter before the body is read.
// If the counter store is unreachable the request is let through.
func DemoRateLimit(limiter *ratelimit.Limiter, keyFunc KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Log.Error("Demo rate limiter unavailable", zap.String("client", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Policy().Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			monitoring.DemoRateLimited.Inc()
			retry := int(math.Ceil(time.Until(decision.ResetAt).Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			util.PlainError(c, http.StatusTooManyRequests, util.MsgDemoRateLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}
