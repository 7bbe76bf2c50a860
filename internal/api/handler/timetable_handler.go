package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/service"
	"uni-guide/backend/pkg/response"
)

// TimetableHandler 周课表 HTTP 处理器
type TimetableHandler struct {
	svc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler 实例
func NewTimetableHandler(svc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// GetWeekly 学期计划的周课表
// GET /api/v1/plans/:id/timetable
func (h *TimetableHandler) GetWeekly(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "计划ID不能为空")
	if !ok {
		return
	}

	resp, err := h.svc.Weekly(c.Request.Context(), id)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, resp)
}

// ExportICS 导出 iCalendar 课表
// GET /api/v1/plans/:id/timetable.ics?start_date=2025-09-01&weeks=16
func (h *TimetableHandler) ExportICS(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "计划ID不能为空")
	if !ok {
		return
	}
	var req dto.ExportICSRequest
	if !MustBindQuery(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, 10001, err.Error())
		return
	}

	data, filename, err := h.svc.ExportICS(c.Request.Context(), id, &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// handleTimetableError 统一处理周课表模块错误
func handleTimetableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		response.NotFound(c, 26001, "学期计划不存在")
	case errors.Is(err, service.ErrTimetableNoStartDate):
		response.BadRequest(c, 26002, err.Error())
	case errors.Is(err, service.ErrTimetableNoSlots):
		response.BadRequest(c, 26003, err.Error())
	default:
		response.InternalError(c)
	}
}
