package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/dongliang3571/kanic-server/internal/domain/services"
	"github.com/dongliang3571/kanic-server/internal/domain/services/container"
	"github.com/dongliang3571/kanic-server/internal/error/code"
	"github.com/dongliang3571/kanic-server/internal/error/response"
	"github.com/dongliang3571/kanic-server/internal/infrastructure/database"

	"github.com/gin-gonic/gin"
)

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Container *container.ServiceContainer
}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{Container: container}
}

// Ping 存活检查
// @Summary      Liveness
// @Tags         Health
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/ping [get]
func (h *HealthCheckController) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Health 检查数据库和 Redis
// @Summary      Readiness
// @Tags         Health
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  ErrorResponse
// @Router       /api/health [get]
func (h *HealthCheckController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	healthy := true

	if err := database.Ping(ctx, h.Container.GetDB()); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}

	if redisService, ok := h.Container.GetService("redis").(services.InterfaceRedisService); ok {
		checks["redis"] = "ok"
		if err := redisService.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Code:    code.ErrDatabase,
			Message: "unhealthy",
			Data:    checks,
		})
		return
	}
	response.Success(c, checks)
}
