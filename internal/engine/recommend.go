package engine

import (
	"sort"

	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/model"
)

// Recommendation 首页推荐课程
type Recommendation struct {
	Course   model.Course `json:"course"`
	AreaID   string       `json:"area_id"`
	AreaName string       `json:"area_name"`
}

// Recommend 根据未完成的毕业要求区块推荐课程
//
// 区块按剩余学分降序；每个区块取前 perArea 门，总数不超过 limit。
// 跳过已修与已计划课程；专业类区块要求先修课程均已完成。
func Recommend(cat *catalog.Catalog, rule *model.RequirementRule, summary *model.ProgressSummary, completed, planned []string, perArea, limit int) []Recommendation {
	if rule == nil || summary == nil || limit <= 0 || perArea <= 0 {
		return nil
	}

	areas := make(map[string]*model.RequirementArea, len(rule.Areas))
	for i := range rule.Areas {
		areas[rule.Areas[i].ID] = &rule.Areas[i]
	}

	needing := make([]model.AreaProgress, 0, len(summary.AreaProgress))
	for _, ap := range summary.AreaProgress {
		if ap.Remaining > 0 {
			needing = append(needing, ap)
		}
	}
	sort.SliceStable(needing, func(i, j int) bool {
		return needing[i].Remaining > needing[j].Remaining
	})

	completedSet := toSet(completed)
	plannedSet := toSet(planned)
	picked := make(map[string]bool)
	var out []Recommendation

	for _, ap := range needing {
		area, ok := areas[ap.AreaID]
		if !ok {
			continue
		}
		var members map[string]bool
		if area.HasExplicitCourses() {
			members = toSet(area.Courses)
		}

		n := 0
		for _, c := range cat.Courses() {
			if n >= perArea {
				break
			}
			if completedSet[c.ID] || plannedSet[c.ID] || picked[c.ID] {
				continue
			}
			if c.Category != area.Category {
				continue
			}
			if members != nil && !members[c.ID] {
				continue
			}
			if area.Area != "" && c.Area != area.Area {
				continue
			}
			if area.Category.IsMajor() && len(cat.UnmetPrerequisites(&c, completedSet)) > 0 {
				continue
			}
			picked[c.ID] = true
			out = append(out, Recommendation{Course: c, AreaID: area.ID, AreaName: area.Name})
			n++
		}
		if len(out) >= limit {
			break
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
