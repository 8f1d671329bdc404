package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/paygate/internal/infrastructure/ratelimit"
	"github.com/orris-inc/paygate/internal/shared/logger"
	"github.com/orris-inc/paygate/internal/shared/utils"
)

// RateLimit caps requests per client IP under the given scope. When the
// limiter fails the request is let through.
func RateLimit(limiter ratelimit.RateLimiter, scope string, limits ratelimit.Limits, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key, limits)
		if err != nil {
			log.Warnw("rate limit check failed, allowing request", "scope", scope, "error", err)
			c.Next()
			return
		}

		setQuotaHeaders(c, limiter, key, limits, log)

		if !allowed {
			log.Warnw("rate limit exceeded", "scope", scope, "client_ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

// setQuotaHeaders reports the quota of the tightest window.
func setQuotaHeaders(c *gin.Context, limiter ratelimit.RateLimiter, key string, limits ratelimit.Limits, log logger.Interface) {
	window, limit, ok := limits.Tightest()
	if !ok {
		return
	}
	remaining, err := limiter.Remaining(c.Request.Context(), key, window, limit)
	if err != nil {
		log.Debugw("failed to read remaining quota", "key", key, "error", err)
		return
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
}
