package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/service"
	"uni-guide/backend/pkg/response"
)

// ProfileHandler 学生档案 HTTP 处理器
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// GetProfile 当前档案
// GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	resp, err := h.profileSvc.Get(c.Request.Context())
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, resp)
}

// Onboard 完成引导
// POST /api/v1/profile/onboarding
func (h *ProfileHandler) Onboard(c *gin.Context) {
	var req dto.OnboardingRequest
	if !MustBindJSON(c, &req) {
		return
	}

	resp, err := h.profileSvc.Onboard(c.Request.Context(), &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.Created(c, resp)
}

// AddCompleted 按课程代码添加已修课程
// POST /api/v1/profile/completed
func (h *ProfileHandler) AddCompleted(c *gin.Context) {
	var req dto.AddCompletedRequest
	if !MustBindJSON(c, &req) {
		return
	}

	resp, err := h.profileSvc.AddCompletedByCode(c.Request.Context(), &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, resp)
}

// RemoveCompleted 移除已修课程
// DELETE /api/v1/profile/completed/:courseId
func (h *ProfileHandler) RemoveCompleted(c *gin.Context) {
	courseID, ok := MustGetParam(c, "courseId", "课程ID不能为空")
	if !ok {
		return
	}

	resp, err := h.profileSvc.RemoveCompleted(c.Request.Context(), courseID)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, resp)
}

// Undo 撤销最近一次档案变更
// POST /api/v1/profile/undo
func (h *ProfileHandler) Undo(c *gin.Context) {
	resp, err := h.profileSvc.Undo(c.Request.Context())
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, resp)
}

// ImportTranscript 上传成绩单
// POST /api/v1/profile/transcript (multipart/form-data, field="file")
func (h *ProfileHandler) ImportTranscript(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 21005, "请上传成绩单文件")
		return
	}
	defer file.Close()

	resp, err := h.profileSvc.ImportTranscript(c.Request.Context(), file)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *ProfileHandler) handleProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 21001, "请先完成引导")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 21002, err.Error())
	case errors.Is(err, service.ErrCourseAlreadyDone):
		response.Conflict(c, 21003, "该课程已修")
	case errors.Is(err, service.ErrCourseNotCompleted):
		response.NotFound(c, 21004, "档案中没有该课程")
	case errors.Is(err, service.ErrTranscriptEmpty):
		response.BadRequest(c, 21005, "成绩单文件为空")
	case errors.Is(err, service.ErrNothingToUndo):
		response.BadRequest(c, 21006, "没有可撤销的操作")
	default:
		response.InternalError(c)
	}
}
