package dto

import (
	"fmt"
	"time"

	"uni-guide/backend/internal/engine"
)

// ── 周课表 ──

// TimetableResponse 学期计划的周课表
type TimetableResponse struct {
	PlanID      string                     `json:"plan_id"`
	Semester    string                     `json:"semester"`
	Days        []string                   `json:"days"`
	Entries     []engine.TimetableEntry    `json:"entries"`
	Conflicts   []engine.TimetableConflict `json:"conflicts"`
	Unscheduled []CourseRef                `json:"unscheduled"`
}

// ── ICS 导出 ──

// ExportICSRequest ICS 导出参数
type ExportICSRequest struct {
	StartDate string `form:"start_date" binding:"omitempty"` // YYYY-MM-DD，学期第一周的任意一天
	Weeks     int    `form:"weeks"      binding:"omitempty,min=1,max=30"`
}

// Validate 校验起始日期格式
func (r *ExportICSRequest) Validate() error {
	if r.StartDate == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", r.StartDate); err != nil {
		return fmt.Errorf("start_date 格式应为 YYYY-MM-DD")
	}
	return nil
}

// GetWeeks 获取导出周数（含默认值）
func (r *ExportICSRequest) GetWeeks() int {
	if r.Weeks <= 0 {
		return 16
	}
	return r.Weeks
}
