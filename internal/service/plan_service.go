package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/engine"
	"uni-guide/backend/internal/model"
	"uni-guide/backend/internal/planner"
)

// ── 学期计划模块业务错误 ──

var (
	ErrCourseAlreadyInPlan = planner.ErrCourseAlreadyInPlan
	ErrCourseNotInPlan     = planner.ErrCourseNotInPlan
)

// PlanService 单学期选课计划业务接口
type PlanService interface {
	List(ctx context.Context) ([]dto.PlanResponse, error)
	Create(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error)
	Get(ctx context.Context, id string) (*dto.PlanResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	Delete(ctx context.Context, id string) error
	SetCurrent(ctx context.Context, id string) (*dto.PlanResponse, error)
	AddCourse(ctx context.Context, id, courseID string) (*dto.PlanResponse, error)
	RemoveCourse(ctx context.Context, id, courseID string) (*dto.PlanResponse, error)
	// Validate 校验计划：先修、重复修读、互斥与学分上限
	Validate(ctx context.Context, id string) (*dto.PlanValidationResponse, error)
}

type planService struct {
	cat         *catalog.Catalog
	store       *planner.Store
	creditLimit int
	logger      *zap.Logger
}

// NewPlanService 创建 PlanService 实例
func NewPlanService(cat *catalog.Catalog, store *planner.Store, creditLimit int, logger *zap.Logger) PlanService {
	if creditLimit <= 0 {
		creditLimit = engine.DefaultCreditLimit
	}
	return &planService{cat: cat, store: store, creditLimit: creditLimit, logger: logger}
}

func (s *planService) List(_ context.Context) ([]dto.PlanResponse, error) {
	snap := s.store.Snapshot()
	result := make([]dto.PlanResponse, 0, len(snap.Plans))
	for i := range snap.Plans {
		result = append(result, s.toResponse(&snap.Plans[i], snap.CurrentPlanID))
	}
	return result, nil
}

func (s *planService) Create(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := s.checkCourses(req.Courses); err != nil {
		return nil, err
	}
	snap, err := s.store.CreatePlan(ctx, req.Semester, req.Courses)
	if err != nil {
		return nil, err
	}
	plan, _ := snap.CurrentPlan()
	s.logger.Info("学期计划已创建", zap.String("plan_id", plan.ID), zap.String("semester", plan.Semester))
	return s.respond(snap, plan.ID)
}

func (s *planService) Get(_ context.Context, id string) (*dto.PlanResponse, error) {
	return s.respond(s.store.Snapshot(), id)
}

func (s *planService) Update(ctx context.Context, id string, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	var (
		semester string
		courses  []string
	)
	if req.Semester != nil {
		semester = *req.Semester
	}
	if req.Courses != nil {
		if err := s.checkCourses(*req.Courses); err != nil {
			return nil, err
		}
		courses = append([]string{}, *req.Courses...)
	}
	snap, err := s.store.UpdatePlan(ctx, id, semester, courses)
	if err != nil {
		return nil, err
	}
	return s.respond(snap, id)
}

func (s *planService) Delete(ctx context.Context, id string) error {
	_, err := s.store.DeletePlan(ctx, id)
	return err
}

func (s *planService) SetCurrent(ctx context.Context, id string) (*dto.PlanResponse, error) {
	snap, err := s.store.SetCurrentPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(snap, id)
}

func (s *planService) AddCourse(ctx context.Context, id, courseID string) (*dto.PlanResponse, error) {
	if !s.cat.Has(courseID) {
		return nil, ErrCourseNotFound
	}
	snap, err := s.store.AddCourseToPlan(ctx, id, courseID)
	if err != nil {
		return nil, err
	}
	return s.respond(snap, id)
}

func (s *planService) RemoveCourse(ctx context.Context, id, courseID string) (*dto.PlanResponse, error) {
	snap, err := s.store.RemoveCourseFromPlan(ctx, id, courseID)
	if err != nil {
		return nil, err
	}
	return s.respond(snap, id)
}

// ════════════════════════════════════════════════════════════
// Validate 单学期计划校验
// ════════════════════════════════════════════════════════════
//
// 已修集合 = 档案已修 ∪ 课程网格中锁定学期的课程；
// 同计划中的其他课程不能满足先修要求。

func (s *planService) Validate(_ context.Context, id string) (*dto.PlanValidationResponse, error) {
	snap := s.store.Snapshot()
	plan, ok := snap.Plan(id)
	if !ok {
		return nil, ErrPlanNotFound
	}

	completed := make([]string, 0)
	for cid := range engine.CompletedSet(snap.Profile, snap.Curriculum) {
		completed = append(completed, cid)
	}
	issues := engine.ValidatePlan(s.cat, completed, plan.Courses, s.creditLimit)
	if issues == nil {
		issues = []model.ValidationIssue{}
	}

	return &dto.PlanValidationResponse{
		PlanID:       plan.ID,
		TotalCredits: s.totalCredits(plan.Courses),
		CreditLimit:  s.creditLimit,
		Issues:       issues,
	}, nil
}

// ── 辅助函数 ──

func (s *planService) checkCourses(ids []string) error {
	for _, id := range ids {
		if !s.cat.Has(id) {
			return fmt.Errorf("%w: %s", ErrCourseNotFound, id)
		}
	}
	return nil
}

func (s *planService) respond(snap planner.Snapshot, id string) (*dto.PlanResponse, error) {
	plan, ok := snap.Plan(id)
	if !ok {
		return nil, ErrPlanNotFound
	}
	resp := s.toResponse(plan, snap.CurrentPlanID)
	return &resp, nil
}

func (s *planService) toResponse(p *model.SemesterPlan, currentID string) dto.PlanResponse {
	return dto.PlanResponse{
		ID:           p.ID,
		Semester:     p.Semester,
		Courses:      courseRefs(s.cat, p.Courses),
		TotalCredits: s.totalCredits(p.Courses),
		IsCurrent:    p.ID == currentID,
		CreatedAt:    formatTime(p.CreatedAt),
		UpdatedAt:    formatTime(p.UpdatedAt),
	}
}

func (s *planService) totalCredits(ids []string) int {
	total := 0
	for _, id := range ids {
		total += s.cat.Credits(id)
	}
	return total
}
