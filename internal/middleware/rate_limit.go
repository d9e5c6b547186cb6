package middleware

import (
	"context"
	"strconv"
	"time"

	"contacts_backend/internal/logger"
	"contacts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Limiter - счетчик запросов в окне (*cache.RateLimiter)
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Window() time.Duration
}

// RateLimit ограничивает маршрут по IP клиента. Недоступный Redis не блокирует запросы.
func RateLimit(limiter Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.CtxWithError(c.Request.Context(), "Rate limiter unavailable", err, "scope", scope)
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
			apperrors.HandleError(c, apperrors.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
