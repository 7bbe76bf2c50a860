package dto

import "uni-guide/backend/internal/model"

// ── 学期计划 DTO ──

// CreatePlanRequest 创建学期计划请求
type CreatePlanRequest struct {
	Semester string   `json:"semester" binding:"required,max=20"` // 如 "2025-1"
	Courses  []string `json:"courses"`
}

// UpdatePlanRequest 更新学期计划请求；字段为空表示不修改
type UpdatePlanRequest struct {
	Semester *string   `json:"semester" binding:"omitempty,max=20"`
	Courses  *[]string `json:"courses"`
}

// PlanCourseRequest 向计划添加课程
type PlanCourseRequest struct {
	CourseID string `json:"course_id" binding:"required"`
}

// PlanResponse 学期计划响应
type PlanResponse struct {
	ID           string      `json:"id"`
	Semester     string      `json:"semester"`
	Courses      []CourseRef `json:"courses"`
	TotalCredits int         `json:"total_credits"`
	IsCurrent    bool        `json:"is_current"`
	CreatedAt    string      `json:"created_at"`
	UpdatedAt    string      `json:"updated_at"`
}

// PlanValidationResponse 学期计划校验结果
type PlanValidationResponse struct {
	PlanID       string                  `json:"plan_id"`
	TotalCredits int                     `json:"total_credits"`
	CreditLimit  int                     `json:"credit_limit"`
	Issues       []model.ValidationIssue `json:"issues"`
}
