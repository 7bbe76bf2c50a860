package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/service"
	"uni-guide/backend/pkg/response"
)

// CurriculumHandler 课程网格 HTTP 处理器
//
// 所有变更接口都返回完整网格（含检查结果与先修连线），前端无需再次拉取。
type CurriculumHandler struct {
	curriculumSvc service.CurriculumService
}

// NewCurriculumHandler 创建 CurriculumHandler
func NewCurriculumHandler(curriculumSvc service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curriculumSvc: curriculumSvc}
}

// GetCurriculum 课程网格
// GET /api/v1/curriculum
func (h *CurriculumHandler) GetCurriculum(c *gin.Context) {
	resp, err := h.curriculumSvc.Get(c.Request.Context())
	h.respond(c, resp, err)
}

// Assign 排课
// POST /api/v1/curriculum/assign
func (h *CurriculumHandler) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if !MustBindJSON(c, &req) {
		return
	}
	resp, err := h.curriculumSvc.Assign(c.Request.Context(), &req)
	h.respond(c, resp, err)
}

// Unassign 取消排课
// POST /api/v1/curriculum/unassign
func (h *CurriculumHandler) Unassign(c *gin.Context) {
	var req dto.AssignRequest
	if !MustBindJSON(c, &req) {
		return
	}
	resp, err := h.curriculumSvc.Unassign(c.Request.Context(), &req)
	h.respond(c, resp, err)
}

// Move 移动课程（from 为空表示从待排池移入）
// POST /api/v1/curriculum/move
func (h *CurriculumHandler) Move(c *gin.Context) {
	var req dto.MoveRequest
	if !MustBindJSON(c, &req) {
		return
	}
	resp, err := h.curriculumSvc.Move(c.Request.Context(), &req)
	h.respond(c, resp, err)
}

// ToggleLock 切换学期锁定
// POST /api/v1/curriculum/lock
func (h *CurriculumHandler) ToggleLock(c *gin.Context) {
	var req dto.TermRequest
	if !MustBindJSON(c, &req) {
		return
	}
	resp, err := h.curriculumSvc.ToggleLock(c.Request.Context(), &req)
	h.respond(c, resp, err)
}

// SetCurrent 设为当前学期
// PUT /api/v1/curriculum/current
func (h *CurriculumHandler) SetCurrent(c *gin.Context) {
	var req dto.TermRequest
	if !MustBindJSON(c, &req) {
		return
	}
	resp, err := h.curriculumSvc.SetCurrent(c.Request.Context(), &req)
	h.respond(c, resp, err)
}

// AddSaved 加入待排池
// POST /api/v1/curriculum/saved
func (h *CurriculumHandler) AddSaved(c *gin.Context) {
	var req dto.SavedCourseRequest
	if !MustBindJSON(c, &req) {
		return
	}
	resp, err := h.curriculumSvc.AddSaved(c.Request.Context(), req.CourseID)
	h.respond(c, resp, err)
}

// RemoveSaved 移出待排池
// DELETE /api/v1/curriculum/saved/:courseId
func (h *CurriculumHandler) RemoveSaved(c *gin.Context) {
	courseID, ok := MustGetParam(c, "courseId", "课程ID不能为空")
	if !ok {
		return
	}
	resp, err := h.curriculumSvc.RemoveSaved(c.Request.Context(), courseID)
	h.respond(c, resp, err)
}

// Reset 恢复默认网格
// POST /api/v1/curriculum/reset
func (h *CurriculumHandler) Reset(c *gin.Context) {
	resp, err := h.curriculumSvc.Reset(c.Request.Context())
	h.respond(c, resp, err)
}

// Validate 网格检查结果
// GET /api/v1/curriculum/validation
func (h *CurriculumHandler) Validate(c *gin.Context) {
	issues, err := h.curriculumSvc.Check(c.Request.Context())
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, gin.H{"issues": issues})
}

func (h *CurriculumHandler) respond(c *gin.Context, resp *dto.CurriculumResponse, err error) {
	if err != nil {
		h.handleCurriculumError(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *CurriculumHandler) handleCurriculumError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 23001, "课程不存在")
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 23002, "学期不存在")
	case errors.Is(err, service.ErrSemesterLocked):
		response.Conflict(c, 23003, "学期已锁定，不能修改")
	case errors.Is(err, service.ErrCourseAlreadyScheduled):
		response.Conflict(c, 23004, err.Error())
	case errors.Is(err, service.ErrCourseNotInSemester):
		response.NotFound(c, 23005, "该学期没有这门课程")
	case errors.Is(err, service.ErrMoveConflict):
		response.Conflict(c, 23006, "目标学期已有该课程")
	case errors.Is(err, service.ErrCourseAlreadySaved):
		response.Conflict(c, 23007, "课程已在待排池中")
	case errors.Is(err, service.ErrCourseNotSaved):
		response.NotFound(c, 23008, "待排池中没有该课程")
	default:
		response.InternalError(c)
	}
}
