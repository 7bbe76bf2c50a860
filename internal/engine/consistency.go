package engine

import (
	"fmt"

	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/model"
)

// CheckCurriculum 检查多学年课程网格
//
//   - 学期总学分超过上限：该学期每门课程各一条错误
//   - 先修课程不在网格任何学期中：先修未修（档案中的已修记录不参与）
//   - 先修课程位于同一学期或更晚学期：先修顺序错误
//
// 锁定学期同样参与查找。目录中不存在的课程与先修 ID 跳过。
func CheckCurriculum(cat *catalog.Catalog, plan *model.CurriculumPlan, creditLimit int) []model.ValidationIssue {
	if plan == nil {
		return nil
	}
	if creditLimit <= 0 {
		creditLimit = DefaultCreditLimit
	}

	// 课程 -> 首次出现的学期坐标
	position := make(map[string]model.TermKey)
	for _, s := range plan.Semesters {
		for _, id := range s.Courses {
			if _, ok := position[id]; !ok {
				position[id] = s.Key()
			}
		}
	}

	var issues []model.ValidationIssue
	for _, s := range plan.Semesters {
		key := s.Key()
		courses := make([]*model.Course, 0, len(s.Courses))
		total := 0
		for _, id := range s.Courses {
			if c, ok := cat.Course(id); ok {
				courses = append(courses, c)
				total += c.Credits
			}
		}

		if total > creditLimit {
			for _, c := range courses {
				issues = append(issues, model.ValidationIssue{
					Type:       model.IssueCreditLimit,
					Severity:   model.SeverityError,
					CourseID:   c.ID,
					Message:    fmt.Sprintf("%d学年%d学期学分超限 (%d学分)", s.Year, s.Term, total),
					Suggestion: fmt.Sprintf("每学期最多 %d 学分", creditLimit),
				})
			}
		}

		for _, c := range courses {
			for _, preID := range c.Prerequisites {
				pre, ok := cat.Course(preID)
				if !ok || preID == c.ID {
					continue
				}
				at, inGrid := position[preID]
				switch {
				case !inGrid:
					issues = append(issues, model.ValidationIssue{
						Type:           model.IssuePrerequisite,
						Severity:       model.SeverityError,
						CourseID:       c.ID,
						Message:        fmt.Sprintf("先修课程未修: %s", pre.Name),
						RelatedCourses: []string{preID},
						Suggestion:     fmt.Sprintf("需要先修读 %s", pre.Name),
					})
				case !at.Before(key):
					issues = append(issues, model.ValidationIssue{
						Type:           model.IssuePrerequisiteOrder,
						Severity:       model.SeverityError,
						CourseID:       c.ID,
						Message:        fmt.Sprintf("先修课程顺序错误: %s", pre.Name),
						RelatedCourses: []string{preID},
						Suggestion:     fmt.Sprintf("请将 %s 安排在更早的学期", pre.Name),
					})
				}
			}
		}
	}
	return issues
}

// PrerequisiteLink 网格中先修关系连线（先修 -> 后续）
type PrerequisiteLink struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PrerequisiteLinks 返回网格内两端都已安排的先修关系
func PrerequisiteLinks(cat *catalog.Catalog, plan *model.CurriculumPlan) []PrerequisiteLink {
	if plan == nil {
		return nil
	}
	var links []PrerequisiteLink
	for _, s := range plan.Semesters {
		for _, id := range s.Courses {
			c, ok := cat.Course(id)
			if !ok {
				continue
			}
			for _, pre := range c.Prerequisites {
				if _, found := plan.Locate(pre); found {
					links = append(links, PrerequisiteLink{From: pre, To: id})
				}
			}
		}
	}
	return links
}
