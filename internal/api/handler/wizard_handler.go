package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/service"
	"uni-guide/backend/pkg/response"
)

// WizardHandler 课程规划向导 HTTP 处理器
//
// loading 步骤由后台推进，前端轮询 GET /wizard 获取最新步骤。
type WizardHandler struct {
	wizardSvc service.WizardService
}

// NewWizardHandler 创建 WizardHandler
func NewWizardHandler(wizardSvc service.WizardService) *WizardHandler {
	return &WizardHandler{wizardSvc: wizardSvc}
}

// GetState 当前步骤
// GET /api/v1/wizard
func (h *WizardHandler) GetState(c *gin.Context) {
	response.OK(c, h.wizardSvc.State(c.Request.Context()))
}

// SelectCareer 选择职业方向
// POST /api/v1/wizard/career
func (h *WizardHandler) SelectCareer(c *gin.Context) {
	var req dto.WizardCareerRequest
	if !MustBindJSON(c, &req) {
		return
	}
	resp, err := h.wizardSvc.SelectCareer(c.Request.Context(), req.Career)
	h.respond(c, resp, err)
}

// SelectMode 选择推荐方式，开始挑选候选课程
// POST /api/v1/wizard/mode
func (h *WizardHandler) SelectMode(c *gin.Context) {
	var req dto.WizardModeRequest
	if !MustBindJSON(c, &req) {
		return
	}
	resp, err := h.wizardSvc.SelectMode(c.Request.Context(), req.Mode)
	if err != nil {
		h.handleWizardError(c, err)
		return
	}
	response.Accepted(c, resp)
}

// SelectCourses 提交选中的课程，开始生成课程网格
// POST /api/v1/wizard/selection
func (h *WizardHandler) SelectCourses(c *gin.Context) {
	var req dto.WizardSelectionRequest
	if !MustBindJSON(c, &req) {
		return
	}
	resp, err := h.wizardSvc.SelectCourses(c.Request.Context(), req.CourseIDs)
	if err != nil {
		h.handleWizardError(c, err)
		return
	}
	response.Accepted(c, resp)
}

// Apply 应用生成结果
// POST /api/v1/wizard/apply
func (h *WizardHandler) Apply(c *gin.Context) {
	resp, err := h.wizardSvc.Apply(c.Request.Context())
	if err != nil {
		h.handleWizardError(c, err)
		return
	}
	response.OK(c, resp)
}

// Back 返回上一步（取消进行中的任务）
// POST /api/v1/wizard/back
func (h *WizardHandler) Back(c *gin.Context) {
	resp, err := h.wizardSvc.Back(c.Request.Context())
	h.respond(c, resp, err)
}

// Reset 回到第一步
// POST /api/v1/wizard/reset
func (h *WizardHandler) Reset(c *gin.Context) {
	response.OK(c, h.wizardSvc.Reset(c.Request.Context()))
}

func (h *WizardHandler) respond(c *gin.Context, resp *dto.WizardResponse, err error) {
	if err != nil {
		h.handleWizardError(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *WizardHandler) handleWizardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWizardInvalidStep):
		response.Conflict(c, 25001, "当前步骤不支持该操作")
	case errors.Is(err, service.ErrWizardInvalidMode):
		response.BadRequest(c, 25002, err.Error())
	case errors.Is(err, service.ErrWizardEmptyResult):
		response.BadRequest(c, 25003, "生成结果为空，无法应用")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 25004, err.Error())
	default:
		response.InternalError(c)
	}
}
