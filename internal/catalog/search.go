package catalog

import (
	"sort"
	"strings"

	"uni-guide/backend/internal/model"
)

// SortBy 课程浏览排序方式
type SortBy string

const (
	SortDefault   SortBy = ""          // 目录顺序
	SortMajor     SortBy = "major"     // 目录顺序，配合院系筛选使用
	SortRating    SortBy = "rating"    // 评分降序，无评分的课程不展示
	SortWorkload  SortBy = "workload"  // 负担升序，未标注负担的课程不展示
	SortCareerFit SortBy = "careerFit" // 职业匹配度降序，未标注的课程不展示
)

// ParseSortBy 解析排序参数
func ParseSortBy(s string) (SortBy, bool) {
	switch v := SortBy(s); v {
	case SortDefault, SortMajor, SortRating, SortWorkload, SortCareerFit:
		return v, true
	default:
		return "", false
	}
}

// Filter 课程浏览筛选条件
type Filter struct {
	Query            string
	OnlyAvailable    bool // 仅显示先修课程均已完成的课程
	ExcludeCompleted bool
	Categories       []model.Category
	Credits          []int
	Term             int // 0=不限, 1=春季, 2=秋季
	Department       string
	SortBy           SortBy
}

// Search 按条件筛选并排序课程；completed 为已修课程集合（档案 ∪ 锁定学期）
func Search(cat *Catalog, f Filter, completed map[string]bool) []model.Course {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	result := make([]model.Course, 0, cat.Len())

	for _, c := range cat.Courses() {
		if query != "" && !matchesQuery(&c, query) {
			continue
		}
		if f.OnlyAvailable && len(cat.UnmetPrerequisites(&c, completed)) > 0 {
			continue
		}
		if f.ExcludeCompleted && completed[c.ID] {
			continue
		}
		if len(f.Categories) > 0 && !containsCategory(f.Categories, c.Category) {
			continue
		}
		if len(f.Credits) > 0 && !containsInt(f.Credits, c.Credits) {
			continue
		}
		if f.Term != 0 && !c.OfferedInTerm(f.Term) {
			continue
		}
		if f.Department != "" && c.Department != f.Department {
			continue
		}

		switch f.SortBy {
		case SortRating:
			if c.Rating == nil {
				continue
			}
		case SortWorkload:
			if c.Workload == "" {
				continue
			}
		case SortCareerFit:
			if c.CareerFit == nil {
				continue
			}
		}
		result = append(result, c)
	}

	switch f.SortBy {
	case SortRating:
		sort.SliceStable(result, func(i, j int) bool {
			return *result[i].Rating > *result[j].Rating
		})
	case SortWorkload:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Workload.Rank() < result[j].Workload.Rank()
		})
	case SortCareerFit:
		sort.SliceStable(result, func(i, j int) bool {
			return *result[i].CareerFit > *result[j].CareerFit
		})
	}
	return result
}

func matchesQuery(c *model.Course, query string) bool {
	return strings.Contains(strings.ToLower(c.Name), query) ||
		strings.Contains(strings.ToLower(c.Code), query) ||
		strings.Contains(strings.ToLower(c.Description), query)
}

func containsCategory(list []model.Category, c model.Category) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
