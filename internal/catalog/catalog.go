package catalog

import (
	"strings"

	"uni-guide/backend/internal/model"
)

// Catalog 课程目录与毕业要求规则的只读索引
//
// 加载后在进程内共享，任何组件都不得修改其中的数据；
// 通过指针返回的 Course / RequirementRule 仅供读取。
type Catalog struct {
	courses []model.Course
	byID    map[string]int
	byCode  map[string]int
	rules   []model.RequirementRule
}

// New 构建目录索引；ID 重复时保留第一次出现的课程
func New(courses []model.Course, rules []model.RequirementRule) *Catalog {
	c := &Catalog{
		courses: make([]model.Course, 0, len(courses)),
		byID:    make(map[string]int, len(courses)),
		byCode:  make(map[string]int, len(courses)),
		rules:   append([]model.RequirementRule(nil), rules...),
	}
	for _, course := range courses {
		if course.ID == "" {
			continue
		}
		if _, dup := c.byID[course.ID]; dup {
			continue
		}
		c.byID[course.ID] = len(c.courses)
		if code := strings.ToLower(strings.TrimSpace(course.Code)); code != "" {
			if _, seen := c.byCode[code]; !seen {
				c.byCode[code] = len(c.courses)
			}
		}
		c.courses = append(c.courses, course)
	}
	return c
}

// Courses 返回全部课程的副本（目录顺序），修改返回值不影响目录
func (c *Catalog) Courses() []model.Course {
	out := make([]model.Course, len(c.courses))
	for i, course := range c.courses {
		out[i] = course.Clone()
	}
	return out
}

// Len 课程数量
func (c *Catalog) Len() int {
	return len(c.courses)
}

// Course 按 ID 查找课程
func (c *Catalog) Course(id string) (*model.Course, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.courses[i], true
}

// Has 目录中是否存在该课程
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// ByCode 按课程代码查找（不区分大小写，忽略首尾空白）
func (c *Catalog) ByCode(code string) (*model.Course, bool) {
	i, ok := c.byCode[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return nil, false
	}
	return &c.courses[i], true
}

// Name 返回课程名称；悬空 ID 原样返回
func (c *Catalog) Name(id string) string {
	if course, ok := c.Course(id); ok {
		return course.Name
	}
	return id
}

// Names 批量返回课程名称
func (c *Catalog) Names(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, c.Name(id))
	}
	return names
}

// Credits 返回目录中的学分；悬空 ID 记 0
func (c *Catalog) Credits(id string) int {
	if course, ok := c.Course(id); ok {
		return course.Credits
	}
	return 0
}

// UnmetPrerequisites 返回未满足的先修课程；目录中不存在的 ID 视为不存在，不计入
func (c *Catalog) UnmetPrerequisites(course *model.Course, completed map[string]bool) []string {
	var unmet []string
	for _, id := range course.Prerequisites {
		if id == course.ID || !c.Has(id) || completed[id] {
			continue
		}
		unmet = append(unmet, id)
	}
	return unmet
}

// Rules 返回全部毕业要求规则
func (c *Catalog) Rules() []model.RequirementRule {
	return c.rules
}

// FindRule 查找（入学年份, 专业）对应的规则；无匹配时返回 false（无数据状态，不是错误）
func (c *Catalog) FindRule(enrollmentYear int, major string) (*model.RequirementRule, bool) {
	for i := range c.rules {
		if c.rules[i].Matches(enrollmentYear, major) {
			return &c.rules[i], true
		}
	}
	return nil, false
}

// Majors 返回规则中出现过的专业（去重，保持顺序）
func (c *Catalog) Majors() []string {
	seen := make(map[string]bool)
	var majors []string
	for _, r := range c.rules {
		if !seen[r.Major] {
			seen[r.Major] = true
			majors = append(majors, r.Major)
		}
	}
	return majors
}
