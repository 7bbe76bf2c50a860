package model

import (
	"fmt"
	"time"
)

// TermKey 学期坐标（学年, 学期），学期取 1 或 2
type TermKey struct {
	Year int `json:"year"`
	Term int `json:"term"`
}

// Before 按 (year, term) 字典序判断是否严格早于 o
func (k TermKey) Before(o TermKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Term < o.Term
}

// String 形如 "2-1"
func (k TermKey) String() string {
	return fmt.Sprintf("%d-%d", k.Year, k.Term)
}

// CurriculumSemester 课程网格中的一个学期
type CurriculumSemester struct {
	Year              int      `json:"year"`
	Term              int      `json:"term"`
	Courses           []string `json:"courses"`
	IsLocked          bool     `json:"is_locked"`
	IsCurrentSemester bool     `json:"is_current_semester"`
}

// Key 返回学期坐标
func (s *CurriculumSemester) Key() TermKey {
	return TermKey{Year: s.Year, Term: s.Term}
}

// Contains 学期中是否已安排该课程
func (s *CurriculumSemester) Contains(courseID string) bool {
	for _, id := range s.Courses {
		if id == courseID {
			return true
		}
	}
	return false
}

// CurriculumPlan 多学年课程网格
type CurriculumPlan struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Semesters    []CurriculumSemester `json:"semesters"`
	SavedCourses []string             `json:"saved_courses"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// Clone 深拷贝网格，保证调用方拿到的快照不与存储共享切片
func (p *CurriculumPlan) Clone() *CurriculumPlan {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Semesters = make([]CurriculumSemester, len(p.Semesters))
	for i, s := range p.Semesters {
		s.Courses = append([]string(nil), s.Courses...)
		cp.Semesters[i] = s
	}
	cp.SavedCourses = append([]string(nil), p.SavedCourses...)
	return &cp
}

// Find 按坐标查找学期下标，未找到返回 -1
func (p *CurriculumPlan) Find(year, term int) int {
	if p == nil {
		return -1
	}
	for i := range p.Semesters {
		if p.Semesters[i].Year == year && p.Semesters[i].Term == term {
			return i
		}
	}
	return -1
}

// Locate 返回包含该课程的第一个学期
func (p *CurriculumPlan) Locate(courseID string) (*CurriculumSemester, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.Semesters {
		if p.Semesters[i].Contains(courseID) {
			return &p.Semesters[i], true
		}
	}
	return nil, false
}

// IsSaved 课程是否在待排池中
func (p *CurriculumPlan) IsSaved(courseID string) bool {
	if p == nil {
		return false
	}
	for _, id := range p.SavedCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// Current 返回被标记为当前学期的学期
func (p *CurriculumPlan) Current() (*CurriculumSemester, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.Semesters {
		if p.Semesters[i].IsCurrentSemester {
			return &p.Semesters[i], true
		}
	}
	return nil, false
}
