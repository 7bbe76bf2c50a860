// Package engine 课程规划的纯计算：完成集合、毕业进度、选课校验、课程网格一致性检查与推荐。
//
// 包内函数均不修改入参，也不持有状态；调用方在每次状态变更后重新计算。
package engine

import "uni-guide/backend/internal/model"

// CompletionSets 计算已修与计划课程集合
//
//	completed = 档案已修 ∪ 锁定学期课程（去重，保持首次出现顺序）
//	planned   = 学期计划课程 ∪ 未锁定学期课程（去重）减去 completed
func CompletionSets(profile *model.UserProfile, plans []model.SemesterPlan, curriculum *model.CurriculumPlan) (completed, planned []string) {
	completedSet := make(map[string]bool)
	add := func(dst []string, set map[string]bool, id string) []string {
		if set[id] {
			return dst
		}
		set[id] = true
		return append(dst, id)
	}

	for _, id := range profile.CompletedIDs() {
		completed = add(completed, completedSet, id)
	}
	if curriculum != nil {
		for _, s := range curriculum.Semesters {
			if !s.IsLocked {
				continue
			}
			for _, id := range s.Courses {
				completed = add(completed, completedSet, id)
			}
		}
	}

	plannedSet := make(map[string]bool)
	addPlanned := func(id string) {
		if completedSet[id] {
			return
		}
		planned = add(planned, plannedSet, id)
	}
	for _, p := range plans {
		for _, id := range p.Courses {
			addPlanned(id)
		}
	}
	if curriculum != nil {
		for _, s := range curriculum.Semesters {
			if s.IsLocked {
				continue
			}
			for _, id := range s.Courses {
				addPlanned(id)
			}
		}
	}
	return completed, planned
}

// CompletedSet 已修课程集合（档案 ∪ 锁定学期）
func CompletedSet(profile *model.UserProfile, curriculum *model.CurriculumPlan) map[string]bool {
	completed, _ := CompletionSets(profile, nil, curriculum)
	return toSet(completed)
}

// IsCourseCompleted 课程是否计为已修：档案中已记录，或位于锁定学期
func IsCourseCompleted(profile *model.UserProfile, curriculum *model.CurriculumPlan, courseID string) bool {
	if profile.HasCompleted(courseID) {
		return true
	}
	if curriculum == nil {
		return false
	}
	for _, s := range curriculum.Semesters {
		if s.IsLocked && s.Contains(courseID) {
			return true
		}
	}
	return false
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
