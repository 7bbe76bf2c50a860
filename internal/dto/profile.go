package dto

import (
	"time"

	"uni-guide/backend/internal/model"
)

// ── 学生档案 DTO ──

// OnboardingRequest 完成引导请求
type OnboardingRequest struct {
	EnrollmentYear   int                    `json:"enrollment_year"   binding:"required,min=2000,max=2100"`
	Major            string                 `json:"major"             binding:"required,max=100"`
	CompletedCourses []CompletedCourseInput `json:"completed_courses" binding:"omitempty,dive"`
}

// CompletedCourseInput 已修课程输入（按课程 ID 或课程代码）
type CompletedCourseInput struct {
	CourseID string `json:"course_id" binding:"required_without=Code"`
	Code     string `json:"code"      binding:"required_without=CourseID"`
	Semester string `json:"semester"  binding:"omitempty,max=20"`
	Grade    string `json:"grade"     binding:"omitempty,max=5"`
}

// AddCompletedRequest 手动添加已修课程
type AddCompletedRequest struct {
	Code     string `json:"code"     binding:"required,max=20"`
	Semester string `json:"semester" binding:"omitempty,max=20"`
	Grade    string `json:"grade"    binding:"omitempty,max=5"`
}

// ProfileResponse 档案响应
type ProfileResponse struct {
	Profile             *model.UserProfile `json:"profile"`
	OnboardingCompleted bool               `json:"onboarding_completed"`
	OnboardingAt        *time.Time         `json:"onboarding_completed_at,omitempty"`
	CompletedCredits    int                `json:"completed_credits"`
	CanUndo             bool               `json:"can_undo"`
}

// TranscriptImportResponse 成绩单导入结果
type TranscriptImportResponse struct {
	Imported int                     `json:"imported"`
	Courses  []model.CompletedCourse `json:"courses"`
	Skipped  []string                `json:"skipped"` // 已修或目录中不存在的课程代码
	Profile  *ProfileResponse        `json:"profile"`
}
