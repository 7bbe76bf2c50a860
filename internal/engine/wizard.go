package engine

import (
	"fmt"
	"sort"
	"strings"

	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/model"
)

// RecommendationMode 向导推荐方式
type RecommendationMode string

const (
	ModeCareerFocused       RecommendationMode = "career-focused"
	ModeGraduationOptimized RecommendationMode = "graduation-optimized"
)

// careerPriorities 职业方向对应的优先课程
var careerPriorities = map[string][]string{
	"backend":      {"cs301", "cs302", "cs314", "cs316"},
	"frontend":     {"cs311", "cs315", "cs316"},
	"fullstack":    {"cs311", "cs302", "cs314", "cs316", "cs315"},
	"ai":           {"cs312", "cs202"},
	"data-science": {"cs312", "cs302"},
	"mobile":       {"cs311", "cs313"},
	"game":         {"cs311", "cs315"},
	"security":     {"cs314", "cs301", "cs302"},
}

// CareerPresets 返回预设职业方向（字典序）
func CareerPresets() []string {
	presets := make([]string, 0, len(careerPriorities))
	for k := range careerPriorities {
		presets = append(presets, k)
	}
	sort.Strings(presets)
	return presets
}

// Prioritize 为向导挑选并排序专业课程（未修的专业必修 + 专业选修）
//
// career-focused：职业优先列表中的课程按列表顺序在前，其余按职业匹配度降序。
// graduation-optimized：专业必修在前，其余按课业负担升序（未标注按 medium）。
func Prioritize(cat *catalog.Catalog, completed map[string]bool, career string, mode RecommendationMode) []string {
	var candidates []model.Course
	for _, c := range cat.Courses() {
		if c.Category.IsMajor() && !completed[c.ID] {
			candidates = append(candidates, c)
		}
	}

	switch mode {
	case ModeGraduationOptimized:
		sort.SliceStable(candidates, func(i, j int) bool {
			ri := candidates[i].Category == model.CategoryMajorRequired
			rj := candidates[j].Category == model.CategoryMajorRequired
			if ri != rj {
				return ri
			}
			return candidates[i].Workload.Rank() < candidates[j].Workload.Rank()
		})
	default:
		rank := make(map[string]int)
		for i, id := range careerPriorities[strings.ToLower(strings.TrimSpace(career))] {
			rank[id] = i + 1
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			pi, pj := rank[candidates[i].ID], rank[candidates[j].ID]
			switch {
			case pi > 0 && pj > 0:
				return pi < pj
			case pi > 0:
				return true
			case pj > 0:
				return false
			}
			return fitOf(&candidates[i]) > fitOf(&candidates[j])
		})
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	return ids
}

func fitOf(c *model.Course) int {
	if c.CareerFit == nil {
		return 0
	}
	return *c.CareerFit
}

// GeneratedTerm 生成的一个学期
type GeneratedTerm struct {
	Year    int      `json:"year"`
	Term    int      `json:"term"`
	Courses []string `json:"courses"`
	Credits int      `json:"credits"`
}

// GeneratedCurriculum 向导生成结果
type GeneratedCurriculum struct {
	Semesters      []GeneratedTerm `json:"semesters"`
	TotalSemesters int             `json:"total_semesters"`
	Unplaced       []string        `json:"unplaced,omitempty"` // 先修课程无法满足而未排入的课程
	Warning        string          `json:"warning,omitempty"`
}

// GenerateOptions 生成参数
type GenerateOptions struct {
	CreditLimit  int
	MaxTerms     int // 最多尝试的学期数
	WarnTerms    int // 超过该学期数给出提示
	TermsPerYear int
}

// GenerateCurriculum 贪心生成课程网格
//
// 选中的课程按先修课程数量升序排列；逐学期填充，课程的先修课程须已修或已排入更早的学期，
// 且学期总学分不超过上限。没有课程可排的学期不输出。
func GenerateCurriculum(cat *catalog.Catalog, selected []string, completed map[string]bool, opts GenerateOptions) GeneratedCurriculum {
	if opts.CreditLimit <= 0 {
		opts.CreditLimit = DefaultCreditLimit
	}
	if opts.MaxTerms <= 0 {
		opts.MaxTerms = 10
	}
	if opts.TermsPerYear <= 0 {
		opts.TermsPerYear = 2
	}

	var remaining []*model.Course
	seen := make(map[string]bool)
	for _, id := range selected {
		if c, ok := cat.Course(id); ok && !seen[id] {
			seen[id] = true
			remaining = append(remaining, c)
		}
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return len(remaining[i].Prerequisites) < len(remaining[j].Prerequisites)
	})

	done := make(map[string]bool, len(completed))
	for id, ok := range completed {
		if ok {
			done[id] = true
		}
	}

	var result GeneratedCurriculum
	for slot := 0; slot < opts.MaxTerms && len(remaining) > 0; slot++ {
		term := GeneratedTerm{Year: slot/opts.TermsPerYear + 1, Term: slot%opts.TermsPerYear + 1}
		var placed []string
		next := remaining[:0]
		for _, c := range remaining {
			if len(cat.UnmetPrerequisites(c, done)) == 0 && term.Credits+c.Credits <= opts.CreditLimit {
				term.Courses = append(term.Courses, c.ID)
				term.Credits += c.Credits
				placed = append(placed, c.ID)
				continue
			}
			next = append(next, c)
		}
		remaining = next

		// 本学期排入的课程从下一学期起才能作为先修
		for _, id := range placed {
			done[id] = true
		}
		if len(term.Courses) > 0 {
			result.Semesters = append(result.Semesters, term)
		}
	}

	for _, c := range remaining {
		result.Unplaced = append(result.Unplaced, c.ID)
	}
	result.TotalSemesters = len(result.Semesters)
	if opts.WarnTerms > 0 && result.TotalSemesters > opts.WarnTerms {
		result.Warning = fmt.Sprintf("该方案需要 %d 个学期，如需按时毕业请调整部分课程或提高每学期学分", result.TotalSemesters)
	}
	return result
}

// ToCurriculumSemesters 将生成结果转换为（全部未锁定的）课程网格学期
func (g GeneratedCurriculum) ToCurriculumSemesters() []model.CurriculumSemester {
	out := make([]model.CurriculumSemester, 0, len(g.Semesters))
	for _, s := range g.Semesters {
		out = append(out, model.CurriculumSemester{
			Year:    s.Year,
			Term:    s.Term,
			Courses: append([]string(nil), s.Courses...),
		})
	}
	return out
}
