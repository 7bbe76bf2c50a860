package engine

import (
	"fmt"
	"strings"

	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/model"
)

// DefaultCreditLimit 每学期学分上限
const DefaultCreditLimit = 18

// ValidatePlan 校验单学期选课计划
//
// 四项检查相互独立，问题不跨项去重：
//   - 先修：未在 completed 中的先修课程（同一计划中的课程不算满足）
//   - 重复：计划课程已修
//   - 互斥：课程声明的互斥课程出现在 completed ∪ 计划中
//   - 学分：总学分超过上限时产生一条警告，挂在计划第一门课程上
//
// 目录中不存在的课程 ID 直接跳过。
func ValidatePlan(cat *catalog.Catalog, completed []string, planned []string, creditLimit int) []model.ValidationIssue {
	if creditLimit <= 0 {
		creditLimit = DefaultCreditLimit
	}

	completedSet := toSet(completed)
	universe := toSet(completed)
	for _, id := range planned {
		universe[id] = true
	}

	courses := make([]*model.Course, 0, len(planned))
	seen := make(map[string]bool, len(planned))
	for _, id := range planned {
		if c, ok := cat.Course(id); ok && !seen[id] {
			seen[id] = true
			courses = append(courses, c)
		}
	}

	var issues []model.ValidationIssue

	// ── 先修 ──
	for _, c := range courses {
		unmet := cat.UnmetPrerequisites(c, completedSet)
		if len(unmet) == 0 {
			continue
		}
		issues = append(issues, model.ValidationIssue{
			Type:           model.IssuePrerequisite,
			Severity:       model.SeverityError,
			CourseID:       c.ID,
			Message:        fmt.Sprintf("%s 的先修课程未满足: %s", c.Name, strings.Join(cat.Names(unmet), ", ")),
			RelatedCourses: unmet,
			Suggestion:     "请先修读先修课程，或确认是否允许同时修读",
		})
	}

	// ── 重复 ──
	for _, c := range courses {
		if !completedSet[c.ID] {
			continue
		}
		issues = append(issues, model.ValidationIssue{
			Type:       model.IssueDuplicate,
			Severity:   model.SeverityWarning,
			CourseID:   c.ID,
			Message:    fmt.Sprintf("%s 已经修过", c.Name),
			Suggestion: "如非重修，请从计划中移除",
		})
	}

	// ── 互斥 ──
	for _, c := range courses {
		var conflicts []string
		for _, id := range c.MutuallyExclusive {
			if id != c.ID && cat.Has(id) && universe[id] {
				conflicts = append(conflicts, id)
			}
		}
		if len(conflicts) == 0 {
			continue
		}
		issues = append(issues, model.ValidationIssue{
			Type:           model.IssueMutualExclusion,
			Severity:       model.SeverityError,
			CourseID:       c.ID,
			Message:        fmt.Sprintf("%s 不能与以下课程同时修读: %s", c.Name, strings.Join(cat.Names(conflicts), ", ")),
			RelatedCourses: conflicts,
			Suggestion:     "请二选一",
		})
	}

	// ── 学分上限 ──
	total := 0
	for _, c := range courses {
		total += c.Credits
	}
	if total > creditLimit {
		issues = append(issues, model.ValidationIssue{
			Type:       model.IssueCreditLimit,
			Severity:   model.SeverityWarning,
			CourseID:   courses[0].ID,
			Message:    fmt.Sprintf("超出每学期学分上限（%d 学分）%d 学分", creditLimit, total-creditLimit),
			Suggestion: "可将部分课程移到其他学期，或申请超学分修读",
		})
	}

	return issues
}
