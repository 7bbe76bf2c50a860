package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"uni-guide/backend/internal/dto"
	"uni-guide/backend/pkg/redis"
	"uni-guide/backend/pkg/response"
)

// 组件状态
const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusDisabled = "disabled"
	statusDown     = "down"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler 健康检查
type HealthHandler struct {
	courses int
	db      *gorm.DB
	rdb     *redis.Client
}

// NewHealthHandler 创建 HealthHandler；db / rdb 为 nil 表示未启用
func NewHealthHandler(courses int, db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{courses: courses, db: db, rdb: rdb}
}

// Health 健康检查
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	resp := dto.HealthResponse{
		Status:   statusOK,
		Database: h.pingDB(ctx),
		Redis:    h.pingRedis(ctx),
		Courses:  h.courses,
	}
	if resp.Database == statusDown || resp.Redis == statusDown {
		resp.Status = statusDegraded
		response.ServiceUnavailable(c, 50300, "部分依赖不可用", resp)
		return
	}
	response.OK(c, resp)
}

func (h *HealthHandler) pingDB(ctx context.Context) string {
	if h.db == nil {
		return statusDisabled
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return statusDown
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return statusDown
	}
	return statusOK
}

func (h *HealthHandler) pingRedis(ctx context.Context) string {
	if h.rdb == nil {
		return statusDisabled
	}
	if err := h.rdb.Ping(ctx); err != nil {
		return statusDown
	}
	return statusOK
}
