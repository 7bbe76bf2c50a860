package dto

import "uni-guide/backend/internal/engine"

// ── 课程规划向导 DTO ──

// WizardCareerRequest 选择职业方向
type WizardCareerRequest struct {
	Career string `json:"career" binding:"required,max=50"`
}

// WizardModeRequest 选择推荐方式
type WizardModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=career-focused graduation-optimized"`
}

// WizardSelectionRequest 提交选中的课程
type WizardSelectionRequest struct {
	CourseIDs []string `json:"course_ids" binding:"required,min=1"`
}

// WizardResponse 向导当前状态
// 只有与当前步骤相关的字段有值
type WizardResponse struct {
	Step       string                      `json:"step"`
	Career     string                      `json:"career,omitempty"`
	Mode       string                      `json:"mode,omitempty"`
	Presets    []string                    `json:"presets,omitempty"`
	Candidates []CourseRef                 `json:"candidates,omitempty"`
	Selected   []string                    `json:"selected,omitempty"`
	Result     *engine.GeneratedCurriculum `json:"result,omitempty"`
	Error      string                      `json:"error,omitempty"`
}
