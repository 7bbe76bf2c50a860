package model

// AreaProgress 单个要求区块的学分进度
type AreaProgress struct {
	AreaID    string   `json:"area_id"`
	AreaName  string   `json:"area_name"`
	Category  Category `json:"category"`
	Area      string   `json:"area,omitempty"`
	Required  int      `json:"required"`
	Completed int      `json:"completed"`
	Planned   int      `json:"planned"`
	Remaining int      `json:"remaining"`
}

// ProgressSummary 学分进度汇总；只读派生结果
type ProgressSummary struct {
	TotalRequired  int            `json:"total_required"`
	TotalCompleted int            `json:"total_completed"`
	TotalPlanned   int            `json:"total_planned"`
	AreaProgress   []AreaProgress `json:"area_progress"`
}
