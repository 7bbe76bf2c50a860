package dto

import (
	"uni-guide/backend/internal/engine"
	"uni-guide/backend/internal/model"
)

// ── 课程网格 DTO ──

// TermRequest 学期坐标
type TermRequest struct {
	Year int `json:"year" binding:"required,min=1,max=10"`
	Term int `json:"term" binding:"required,oneof=1 2"`
}

// Key 转为学期坐标
func (r TermRequest) Key() model.TermKey {
	return model.TermKey{Year: r.Year, Term: r.Term}
}

// AssignRequest 排课 / 取消排课请求
type AssignRequest struct {
	TermRequest
	CourseID string `json:"course_id" binding:"required"`
}

// MoveRequest 移动课程请求；from 为空表示从待排池移入
type MoveRequest struct {
	CourseID string       `json:"course_id" binding:"required"`
	From     *TermRequest `json:"from"`
	To       TermRequest  `json:"to"        binding:"required"`
}

// SavedCourseRequest 待排池操作请求
type SavedCourseRequest struct {
	CourseID string `json:"course_id" binding:"required"`
}

// SemesterView 网格中的一个学期
type SemesterView struct {
	Year              int         `json:"year"`
	Term              int         `json:"term"`
	Courses           []CourseRef `json:"courses"`
	Credits           int         `json:"credits"`
	IsLocked          bool        `json:"is_locked"`
	IsCurrentSemester bool        `json:"is_current_semester"`
	OverLimit         bool        `json:"over_limit"`
}

// CurriculumResponse 课程网格响应（含派生的检查结果）
type CurriculumResponse struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Semesters    []SemesterView            `json:"semesters"`
	SavedCourses []CourseRef               `json:"saved_courses"`
	TotalCredits int                       `json:"total_credits"`
	Issues       []model.ValidationIssue   `json:"issues"`
	Links        []engine.PrerequisiteLink `json:"links"`
	UpdatedAt    string                    `json:"updated_at"`
}
