// Package planner 持有学生的规划状态（档案、学期计划、课程网格），串行执行变更并做本地持久化。
package planner

import (
	"errors"
	"fmt"
	"time"

	"uni-guide/backend/internal/model"
)

// 课程网格变更的守卫错误：返回这些错误时网格保持不变
var (
	ErrSemesterNotFound       = errors.New("学期不存在")
	ErrCourseAlreadyScheduled = errors.New("课程已安排在其他学期")
	ErrCourseNotInSemester    = errors.New("课程不在该学期")
	ErrMoveConflict           = errors.New("目标学期已包含该课程")
	ErrCourseAlreadySaved     = errors.New("课程已在待排池中")
	ErrCourseNotSaved         = errors.New("课程不在待排池中")
)

// DefaultCurriculumID 默认课程网格 ID
const DefaultCurriculumID = "curriculum-default"

// DefaultCurriculum 生成 years × termsPerYear 的空网格，前 lockedTerms 个学期锁定
func DefaultCurriculum(years, termsPerYear, lockedTerms int, now time.Time) *model.CurriculumPlan {
	p := &model.CurriculumPlan{
		ID:           DefaultCurriculumID,
		Name:         "我的课程规划",
		Semesters:    make([]model.CurriculumSemester, 0, years*termsPerYear),
		SavedCourses: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for y := 1; y <= years; y++ {
		for t := 1; t <= termsPerYear; t++ {
			p.Semesters = append(p.Semesters, model.CurriculumSemester{
				Year:     y,
				Term:     t,
				Courses:  []string{},
				IsLocked: len(p.Semesters) < lockedTerms,
			})
		}
	}
	return p
}

func semesterIndex(p *model.CurriculumPlan, key model.TermKey) (int, error) {
	i := p.Find(key.Year, key.Term)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrSemesterNotFound, key)
	}
	return i, nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Assign 将课程加入学期
// 课程已在任一学期中时不做修改，保证每门课程最多出现在一个学期
func Assign(p *model.CurriculumPlan, key model.TermKey, courseID string) (*model.CurriculumPlan, error) {
	i, err := semesterIndex(p, key)
	if err != nil {
		return p, err
	}
	if at, ok := p.Locate(courseID); ok {
		return p, fmt.Errorf("%w: %s 位于 %s", ErrCourseAlreadyScheduled, courseID, at.Key())
	}
	next := p.Clone()
	next.Semesters[i].Courses = append(next.Semesters[i].Courses, courseID)
	return next, nil
}

// Unassign 将课程移出学期
func Unassign(p *model.CurriculumPlan, key model.TermKey, courseID string) (*model.CurriculumPlan, error) {
	i, err := semesterIndex(p, key)
	if err != nil {
		return p, err
	}
	if !p.Semesters[i].Contains(courseID) {
		return p, ErrCourseNotInSemester
	}
	next := p.Clone()
	next.Semesters[i].Courses = without(next.Semesters[i].Courses, courseID)
	return next, nil
}

// Move 将课程从 from 学期（nil 表示待排池）移到 to 学期
// 先检查目标学期；目标已包含该课程时整个移动取消，来源保持不变
func Move(p *model.CurriculumPlan, courseID string, from *model.TermKey, to model.TermKey) (*model.CurriculumPlan, error) {
	ti, err := semesterIndex(p, to)
	if err != nil {
		return p, err
	}
	if p.Semesters[ti].Contains(courseID) {
		return p, ErrMoveConflict
	}

	next := p.Clone()
	if from == nil {
		if !p.IsSaved(courseID) {
			return p, ErrCourseNotSaved
		}
		if at, ok := p.Locate(courseID); ok {
			return p, fmt.Errorf("%w: %s 位于 %s", ErrCourseAlreadyScheduled, courseID, at.Key())
		}
		next.SavedCourses = without(next.SavedCourses, courseID)
	} else {
		fi, err := semesterIndex(p, *from)
		if err != nil {
			return p, err
		}
		if !p.Semesters[fi].Contains(courseID) {
			return p, ErrCourseNotInSemester
		}
		next.Semesters[fi].Courses = without(next.Semesters[fi].Courses, courseID)
	}
	next.Semesters[ti].Courses = append(next.Semesters[ti].Courses, courseID)
	return next, nil
}

// ToggleLock 切换学期锁定标记，不改动课程
func ToggleLock(p *model.CurriculumPlan, key model.TermKey) (*model.CurriculumPlan, error) {
	i, err := semesterIndex(p, key)
	if err != nil {
		return p, err
	}
	next := p.Clone()
	next.Semesters[i].IsLocked = !next.Semesters[i].IsLocked
	return next, nil
}

// SetCurrent 标记当前学期，其余学期清除标记
func SetCurrent(p *model.CurriculumPlan, key model.TermKey) (*model.CurriculumPlan, error) {
	if _, err := semesterIndex(p, key); err != nil {
		return p, err
	}
	next := p.Clone()
	for i := range next.Semesters {
		s := &next.Semesters[i]
		s.IsCurrentSemester = s.Year == key.Year && s.Term == key.Term
	}
	return next, nil
}

// AddToSaved 加入待排池（幂等）
func AddToSaved(p *model.CurriculumPlan, courseID string) (*model.CurriculumPlan, error) {
	if p.IsSaved(courseID) {
		return p, ErrCourseAlreadySaved
	}
	next := p.Clone()
	next.SavedCourses = append(next.SavedCourses, courseID)
	return next, nil
}

// RemoveFromSaved 移出待排池
func RemoveFromSaved(p *model.CurriculumPlan, courseID string) (*model.CurriculumPlan, error) {
	if !p.IsSaved(courseID) {
		return p, ErrCourseNotSaved
	}
	next := p.Clone()
	next.SavedCourses = without(next.SavedCourses, courseID)
	return next, nil
}

// IsGuard 是否为网格守卫错误（调用方视为无操作）
func IsGuard(err error) bool {
	for _, e := range []error{
		ErrSemesterNotFound, ErrCourseAlreadyScheduled, ErrCourseNotInSemester,
		ErrMoveConflict, ErrCourseAlreadySaved, ErrCourseNotSaved,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
