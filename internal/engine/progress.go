package engine

import (
	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/model"
)

// ComputeProgress 按毕业要求区块统计已修 / 计划学分
// rule 为 nil 表示没有匹配的毕业要求（无数据状态），返回 nil
func ComputeProgress(cat *catalog.Catalog, rule *model.RequirementRule, completed, planned []string) *model.ProgressSummary {
	if rule == nil {
		return nil
	}

	summary := &model.ProgressSummary{
		TotalRequired: rule.TotalCredits,
		AreaProgress:  make([]model.AreaProgress, 0, len(rule.Areas)),
	}

	for i := range rule.Areas {
		area := &rule.Areas[i]
		ap := model.AreaProgress{
			AreaID:   area.ID,
			AreaName: area.Name,
			Category: area.Category,
			Area:     area.Area,
			Required: area.RequiredCredits,
		}

		if area.HasExplicitCourses() {
			members := toSet(area.Courses)
			ap.Completed = sumCredits(cat, completed, func(id string) bool { return members[id] })
			ap.Planned = sumCredits(cat, planned, func(id string) bool { return members[id] })
		} else {
			match := func(id string) bool {
				c, ok := cat.Course(id)
				return ok && c.Category == area.Category && (area.Area == "" || c.Area == area.Area)
			}
			ap.Completed = sumCredits(cat, completed, match)
			ap.Planned = sumCredits(cat, planned, match)
		}

		ap.Remaining = area.RequiredCredits - ap.Completed - ap.Planned
		if ap.Remaining < 0 {
			ap.Remaining = 0
		}

		summary.TotalCompleted += ap.Completed
		summary.TotalPlanned += ap.Planned
		summary.AreaProgress = append(summary.AreaProgress, ap)
	}
	return summary
}

// sumCredits 对满足条件的课程累加目录学分；悬空 ID 记 0
func sumCredits(cat *catalog.Catalog, ids []string, match func(id string) bool) int {
	total := 0
	for _, id := range ids {
		if match(id) {
			total += cat.Credits(id)
		}
	}
	return total
}
