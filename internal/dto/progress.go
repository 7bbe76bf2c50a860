package dto

import "uni-guide/backend/internal/model"

// ── 毕业进度 DTO ──

// ProgressResponse 毕业进度；找不到毕业要求时 has_rule=false 且 summary 为空
type ProgressResponse struct {
	HasRule        bool                   `json:"has_rule"`
	EnrollmentYear int                    `json:"enrollment_year,omitempty"`
	Major          string                 `json:"major,omitempty"`
	TotalCredits   int                    `json:"total_credits,omitempty"` // 规则要求的毕业总学分
	Summary        *model.ProgressSummary `json:"summary"`
	CompletedCount int                    `json:"completed_count"`
	PlannedCount   int                    `json:"planned_count"`
}

// RecommendationResponse 首页推荐
type RecommendationResponse struct {
	Items []RecommendationItem `json:"items"`
}

// RecommendationItem 推荐条目
type RecommendationItem struct {
	Course   model.Course `json:"course"`
	AreaID   string       `json:"area_id"`
	AreaName string       `json:"area_name"`
}
