package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/service"
	"uni-guide/backend/pkg/response"
)

// PlanHandler 学期计划 HTTP 处理器
type PlanHandler struct {
	planSvc service.PlanService
}

// NewPlanHandler 创建 PlanHandler
func NewPlanHandler(planSvc service.PlanService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc}
}

// ListPlans 全部学期计划
// GET /api/v1/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.planSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": plans})
}

// CreatePlan 创建学期计划（成为当前计划）
// POST /api/v1/plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePlanRequest
	if !MustBindJSON(c, &req) {
		return
	}

	plan, err := h.planSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.Created(c, plan)
}

// GetPlan 学期计划详情
// GET /api/v1/plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "计划ID不能为空")
	if !ok {
		return
	}

	plan, err := h.planSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, plan)
}

// UpdatePlan 修改学期标签或课程列表
// PUT /api/v1/plans/:id
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "计划ID不能为空")
	if !ok {
		return
	}
	var req dto.UpdatePlanRequest
	if !MustBindJSON(c, &req) {
		return
	}

	plan, err := h.planSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, plan)
}

// DeletePlan 删除学期计划
// DELETE /api/v1/plans/:id
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "计划ID不能为空")
	if !ok {
		return
	}

	if err := h.planSvc.Delete(c.Request.Context(), id); err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, nil)
}

// SetCurrentPlan 设为当前计划
// PUT /api/v1/plans/:id/current
func (h *PlanHandler) SetCurrentPlan(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "计划ID不能为空")
	if !ok {
		return
	}

	plan, err := h.planSvc.SetCurrent(c.Request.Context(), id)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, plan)
}

// AddCourse 向计划添加课程
// POST /api/v1/plans/:id/courses
func (h *PlanHandler) AddCourse(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "计划ID不能为空")
	if !ok {
		return
	}
	var req dto.PlanCourseRequest
	if !MustBindJSON(c, &req) {
		return
	}

	plan, err := h.planSvc.AddCourse(c.Request.Context(), id, req.CourseID)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, plan)
}

// RemoveCourse 从计划移除课程
// DELETE /api/v1/plans/:id/courses/:courseId
func (h *PlanHandler) RemoveCourse(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "计划ID不能为空")
	if !ok {
		return
	}
	courseID, ok := MustGetParam(c, "courseId", "课程ID不能为空")
	if !ok {
		return
	}

	plan, err := h.planSvc.RemoveCourse(c.Request.Context(), id, courseID)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, plan)
}

// ValidatePlan 校验学期计划
// GET /api/v1/plans/:id/validation
func (h *PlanHandler) ValidatePlan(c *gin.Context) {
	id, ok := MustGetParam(c, "id", "计划ID不能为空")
	if !ok {
		return
	}

	resp, err := h.planSvc.Validate(c.Request.Context(), id)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *PlanHandler) handlePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		response.NotFound(c, 22001, "学期计划不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 22002, err.Error())
	case errors.Is(err, service.ErrCourseAlreadyInPlan):
		response.Conflict(c, 22003, "课程已在计划中")
	case errors.Is(err, service.ErrCourseNotInPlan):
		response.NotFound(c, 22004, "计划中没有该课程")
	default:
		response.InternalError(c)
	}
}
