package model

// RequirementArea 毕业要求中的一个学分区块
type RequirementArea struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        Category `json:"category"`
	RequiredCredits int      `json:"required_credits"`
	Courses         []string `json:"courses,omitempty"` // 显式课程列表；为空时按类别匹配
	Area            string   `json:"area,omitempty"`    // 通识子领域标签
}

// HasExplicitCourses 是否按显式课程列表统计
func (a *RequirementArea) HasExplicitCourses() bool {
	return len(a.Courses) > 0
}

// RequirementRule 毕业要求规则，以（入学年份, 专业）为键
type RequirementRule struct {
	EnrollmentYear int               `json:"enrollment_year"`
	Major          string            `json:"major"`
	TotalCredits   int               `json:"total_credits"`
	Areas          []RequirementArea `json:"areas"`
}

// Matches 规则是否适用于给定学生
func (r *RequirementRule) Matches(enrollmentYear int, major string) bool {
	return r.EnrollmentYear == enrollmentYear && r.Major == major
}
