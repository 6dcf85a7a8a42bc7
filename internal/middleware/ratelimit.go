package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"datapi/internal/cache"
	apperrors "datapi/internal/errors"
	"datapi/internal/logger"
)

// RateLimit returns a Gin middleware enforcing a fixed-window request limit
// per client IP, counted in the injected cache store. A store failure lets
// the request through rather than failing closed.
func RateLimit(store cache.Store, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP()
		count, err := store.Incr(c.Request.Context(), key, window)
		if err != nil {
			logger.Get().Warnw("rate limit store error", "error", err.Error())
			c.Next()
			return
		}
		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    apperrors.ErrRateLimited.Code,
					"message": apperrors.ErrRateLimited.Message,
				},
			})
			return
		}
		c.Next()
	}
}
