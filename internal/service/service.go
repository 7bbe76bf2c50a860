package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"uni-guide/backend/config"
	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/engine"
	"uni-guide/backend/internal/model"
	"uni-guide/backend/internal/planner"
)

// ── 公共业务错误 ──

var (
	ErrCourseNotFound     = errors.New("课程不存在")
	ErrInvalidCategory    = errors.New("未知的课程类别")
	ErrInvalidSortBy      = errors.New("未知的排序方式")
	ErrProfileNotFound    = planner.ErrProfileNotFound
	ErrPlanNotFound       = planner.ErrPlanNotFound
	ErrSemesterNotFound   = planner.ErrSemesterNotFound
	ErrSemesterLocked     = planner.ErrSemesterLocked
	ErrCourseAlreadyDone  = planner.ErrCourseAlreadyCompleted
	ErrCourseNotCompleted = planner.ErrCourseNotCompleted
	ErrNothingToUndo      = planner.ErrNothingToUndo
)

// Service 所有 Service 的聚合入口
type Service struct {
	Catalog    CatalogService
	Profile    ProfileService
	Plan       PlanService
	Curriculum CurriculumService
	Progress   ProgressService
	Wizard     WizardService
	Timetable  TimetableService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	cat *catalog.Catalog,
	store *planner.Store,
	logger *zap.Logger,
) *Service {
	return &Service{
		Catalog:    NewCatalogService(cat, store, logger),
		Profile:    NewProfileService(cat, store, NewSampleTranscriptParser(), logger),
		Plan:       NewPlanService(cat, store, cfg.Planner.CreditLimit, logger),
		Curriculum: NewCurriculumService(cat, store, cfg.Planner.CreditLimit, logger),
		Progress:   NewProgressService(cat, store, &cfg.Planner, logger),
		Wizard:     NewWizardService(cat, store, &cfg.Planner, &cfg.Wizard, logger),
		Timetable:  NewTimetableService(cat, store, logger),
		Export:     NewExportService(cat, store, cfg.Planner.CreditLimit, logger),
	}
}

// Close 停止后台任务
func (s *Service) Close() {
	if s.Wizard != nil {
		s.Wizard.Close()
	}
}

// ── 辅助函数 ──

// courseRefs 将课程 ID 转为带名称的引用
func courseRefs(cat *catalog.Catalog, ids []string) []dto.CourseRef {
	refs := make([]dto.CourseRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, dto.CourseRef{ID: id, Name: cat.Name(id)})
	}
	return refs
}

// completionOf 由快照计算已修 / 计划集合
func completionOf(snap *planner.Snapshot) (completed, planned []string) {
	return engine.CompletionSets(snap.Profile, snap.Plans, snap.Curriculum)
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// completedCredits 按档案快照的学分与锁定学期的目录学分统计已修学分
func completedCredits(cat *catalog.Catalog, profile *model.UserProfile, curriculum *model.CurriculumPlan) int {
	total := 0
	seen := make(map[string]bool)
	if profile != nil {
		for _, c := range profile.CompletedCourses {
			if seen[c.CourseID] {
				continue
			}
			seen[c.CourseID] = true
			total += c.Credits
		}
	}
	if curriculum != nil {
		for _, s := range curriculum.Semesters {
			if !s.IsLocked {
				continue
			}
			for _, id := range s.Courses {
				if !seen[id] {
					seen[id] = true
					total += cat.Credits(id)
				}
			}
		}
	}
	return total
}
