package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// HealthController 服务健康检查
type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, redisClient *redis.Client) *HealthController {
	return &HealthController{
		DB:    db,
		Redis: redisClient,
	}
}

// Health godoc
// @Summary 健康检查
// @Description 检查服务及其依赖的可用性
// @Tags 系统
// @Produce  json
// @Success 200 {object} map[string]interface{} "服务正常"
// @Failure 503 {object} map[string]interface{} "依赖不可用"
// @Router /api/health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	overall := "ok"
	checks := gin.H{"database": "ok"}

	sqlDB, err := c.DB.DB()
	if err != nil || sqlDB.PingContext(checkCtx) != nil {
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	if c.Redis != nil {
		checks["redis"] = "ok"
		if err := c.Redis.Ping(checkCtx).Err(); err != nil {
			// 缓存不可用时目录直接回源，不降级整体健康状态
			checks["redis"] = "unavailable"
		}
	}

	ctx.JSON(status, gin.H{
		"status":    overall,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}
