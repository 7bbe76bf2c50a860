package dto

import "uni-guide/backend/internal/model"

// ── 课程目录 DTO ──

// CourseListRequest 课程检索参数
type CourseListRequest struct {
	PaginationRequest
	Query            string   `form:"q"                 binding:"omitempty,max=100"`
	OnlyAvailable    bool     `form:"only_available"`
	ExcludeCompleted bool     `form:"exclude_completed"`
	Categories       []string `form:"category"`
	Credits          []int    `form:"credits"`
	Term             int      `form:"term"              binding:"omitempty,oneof=1 2"`
	Department       string   `form:"department"`
	SortBy           string   `form:"sort"              binding:"omitempty,oneof=major rating workload careerFit"`
}

// CourseListResponse 课程检索结果
type CourseListResponse struct {
	Items    []CourseSummary `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// CourseSummary 列表中的课程条目
type CourseSummary struct {
	model.Course
	Completed bool `json:"completed"`
	Planned   bool `json:"planned"`
	Available bool `json:"available"` // 先修课程均已完成
}

// CourseDetailResponse 课程详情
type CourseDetailResponse struct {
	CourseSummary
	UnmetPrerequisites []CourseRef    `json:"unmet_prerequisites"`
	Prerequisites      []CourseRef    `json:"prerequisite_courses"`
	MutuallyExclusive  []CourseRef    `json:"mutually_exclusive_courses"`
	ScheduledIn        *model.TermKey `json:"scheduled_in,omitempty"`
}

// CourseRef 课程引用（ID + 显示名称）；目录中不存在的课程以 ID 作为名称
type CourseRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
