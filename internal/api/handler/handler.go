package handler

import (
	"gorm.io/gorm"

	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/service"
	"uni-guide/backend/pkg/redis"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Catalog    *CatalogHandler
	Profile    *ProfileHandler
	Plan       *PlanHandler
	Curriculum *CurriculumHandler
	Progress   *ProgressHandler
	Wizard     *WizardHandler
	Timetable  *TimetableHandler
	Export     *ExportHandler
	Health     *HealthHandler
}

// NewHandler 创建 Handler 聚合
// db / rdb 可为 nil（未启用时健康检查显示 disabled）
func NewHandler(svc *service.Service, cat *catalog.Catalog, db *gorm.DB, rdb *redis.Client) *Handler {
	return &Handler{
		Catalog:    NewCatalogHandler(svc.Catalog),
		Profile:    NewProfileHandler(svc.Profile),
		Plan:       NewPlanHandler(svc.Plan),
		Curriculum: NewCurriculumHandler(svc.Curriculum),
		Progress:   NewProgressHandler(svc.Progress),
		Wizard:     NewWizardHandler(svc.Wizard),
		Timetable:  NewTimetableHandler(svc.Timetable),
		Export:     NewExportHandler(svc.Export),
		Health:     NewHealthHandler(cat.Len(), db, rdb),
	}
}
