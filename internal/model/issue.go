package model

// IssueType 校验问题类型
type IssueType string

const (
	IssuePrerequisite      IssueType = "prerequisite"
	IssueDuplicate         IssueType = "duplicate"
	IssueCreditLimit       IssueType = "credit-limit"
	IssueMutualExclusion   IssueType = "mutual-exclusion"
	IssuePrerequisiteOrder IssueType = "prerequisite-order" // 仅课程网格检查产生
)

// Severity 问题严重程度
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationIssue 校验结果条目；始终由计算得出，不做持久化
type ValidationIssue struct {
	Type           IssueType `json:"type"`
	Severity       Severity  `json:"severity"`
	CourseID       string    `json:"course_id"`
	Message        string    `json:"message"`
	RelatedCourses []string  `json:"related_courses,omitempty"`
	Suggestion     string    `json:"suggestion,omitempty"`
}

// CountBySeverity 统计各严重程度的问题数
func CountBySeverity(issues []ValidationIssue) (errors, warnings int) {
	for _, i := range issues {
		switch i.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
