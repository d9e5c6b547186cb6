package handlers

import (
	"context"
	"net/http"
	"time"

	"contacts_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler - проверка живости для балансировщика и docker healthcheck
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler; redis == nil - кеш выключен и не проверяется
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Health godoc
// @Summary Проверка живости
// @Description База данных обязательна; Redis при недоступности помечается degraded, но не валит проверку
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
	code := http.StatusOK

	if err := h.pingDB(ctx); err != nil {
		logger.CtxWithError(ctx, "Health check: database unavailable", err)
		status["status"] = "unavailable"
		status["database"] = "unavailable"
		code = http.StatusServiceUnavailable
	}

	if h.redis != nil {
		status["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			logger.CtxWarn(ctx, "Health check: redis unavailable", "error", err)
			status["redis"] = "degraded"
		}
	}

	c.JSON(code, status)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
