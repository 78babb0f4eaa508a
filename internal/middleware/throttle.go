package middleware

import (
	"strconv"
	"time"

	"github.com/chitragar/portfolio-core/internal/pkg/originhash"
	"github.com/chitragar/portfolio-core/internal/pkg/ratelimit"
	"github.com/chitragar/portfolio-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Throttle limits anonymous requests per origin hash within a fixed
// window. Authenticated admin traffic passes through.
func Throttle(limiter *ratelimit.Limiter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAuthenticated(c) {
			c.Next()
			return
		}

		key := scope + ":" + originhash.FromContext(c)
		res := limiter.Hit(c.Request.Context(), key, limit, window)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			retry := int(time.Until(res.ResetAt).Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			response.TooManyRequests(c, "")
			return
		}

		c.Next()
	}
}
