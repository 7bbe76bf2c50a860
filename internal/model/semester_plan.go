package model

import "time"

// SemesterPlan 单学期选课计划，独立于多学年课程网格
type SemesterPlan struct {
	ID        string    `json:"id"`
	Semester  string    `json:"semester"` // 如 "2025-1"
	Courses   []string  `json:"courses"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone 深拷贝计划
func (p SemesterPlan) Clone() SemesterPlan {
	p.Courses = append([]string(nil), p.Courses...)
	return p
}

// Contains 计划中是否已有该课程
func (p *SemesterPlan) Contains(courseID string) bool {
	for _, id := range p.Courses {
		if id == courseID {
			return true
		}
	}
	return false
}
