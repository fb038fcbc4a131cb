package controller

import (
	"context"
	"net/http"
	"time"

	"narada_backend/internal/util"
	"narada_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pinger is satisfied by the completion client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
	AI    Pinger
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, ai Pinger) *HealthController {
	return &HealthController{DB: db, Redis: rdb, AI: ai}
}

// @Summary Health check
// @Description Pings the database and Redis. deep=true also sends a tiny completion and requires a token.
// @Tags system
// @Produce json
// @Param deep query bool false "ping the completion API"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 15*time.Second)
	defer cancel()

	components := gin.H{}
	healthy := true

	sqlDB, err := c.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(reqCtx)
	}
	if err != nil {
		logger.Log.Warn("Database health check failed", zap.Error(err))
		components["database"] = "down"
		healthy = false
	} else {
		components["database"] = "up"
	}

	if c.Redis != nil {
		if err := c.Redis.Ping(reqCtx).Err(); err != nil {
			logger.Log.Warn("Redis health check failed", zap.Error(err))
			components["redis"] = "down"
			healthy = false
		} else {
			components["redis"] = "up"
		}
	}

	if ctx.Query("deep") == "true" && c.AI != nil {
		if err := c.AI.Ping(reqCtx); err != nil {
			logger.Log.Warn("AI health check failed", zap.Error(err))
			components["ai"] = "down"
			healthy = false
		} else {
			components["ai"] = "up"
		}
	}

	if !healthy {
		ctx.JSON(http.StatusServiceUnavailable, util.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "unavailable",
			Data:    gin.H{"status": "degraded", "components": components},
			Error:   "service unavailable",
		})
		return
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
