package handler

import (
	"github.com/gin-gonic/gin"

	"uni-guide/backend/internal/service"
	"uni-guide/backend/pkg/response"
)

// ProgressHandler 毕业进度 HTTP 处理器
type ProgressHandler struct {
	progressSvc service.ProgressService
}

// NewProgressHandler 创建 ProgressHandler
func NewProgressHandler(progressSvc service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

// GetProgress 毕业进度
// GET /api/v1/progress
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	resp, err := h.progressSvc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// Recommendations 首页推荐课程
// GET /api/v1/recommendations
func (h *ProgressHandler) Recommendations(c *gin.Context) {
	resp, err := h.progressSvc.Recommendations(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}
