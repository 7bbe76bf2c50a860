package service

import (
	"context"

	"go.uber.org/zap"

	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/engine"
	"uni-guide/backend/internal/model"
	"uni-guide/backend/internal/planner"
)

// ── 课程网格模块业务错误 ──

var (
	ErrCourseAlreadyScheduled = planner.ErrCourseAlreadyScheduled
	ErrCourseNotInSemester    = planner.ErrCourseNotInSemester
	ErrMoveConflict           = planner.ErrMoveConflict
	ErrCourseAlreadySaved     = planner.ErrCourseAlreadySaved
	ErrCourseNotSaved         = planner.ErrCourseNotSaved
)

// CurriculumService 多学年课程网格业务接口
//
// 锁定学期只读：排课、取消排课与移动都不能涉及锁定学期。
// 每次变更后返回完整网格及重新计算的检查结果。
type CurriculumService interface {
	Get(ctx context.Context) (*dto.CurriculumResponse, error)
	Assign(ctx context.Context, req *dto.AssignRequest) (*dto.CurriculumResponse, error)
	Unassign(ctx context.Context, req *dto.AssignRequest) (*dto.CurriculumResponse, error)
	Move(ctx context.Context, req *dto.MoveRequest) (*dto.CurriculumResponse, error)
	ToggleLock(ctx context.Context, req *dto.TermRequest) (*dto.CurriculumResponse, error)
	SetCurrent(ctx context.Context, req *dto.TermRequest) (*dto.CurriculumResponse, error)
	AddSaved(ctx context.Context, courseID string) (*dto.CurriculumResponse, error)
	RemoveSaved(ctx context.Context, courseID string) (*dto.CurriculumResponse, error)
	Reset(ctx context.Context) (*dto.CurriculumResponse, error)
	// Check 学分上限与先修顺序检查
	Check(ctx context.Context) ([]model.ValidationIssue, error)
}

type curriculumService struct {
	cat         *catalog.Catalog
	store       *planner.Store
	creditLimit int
	logger      *zap.Logger
}

// NewCurriculumService 创建 CurriculumService 实例
func NewCurriculumService(cat *catalog.Catalog, store *planner.Store, creditLimit int, logger *zap.Logger) CurriculumService {
	if creditLimit <= 0 {
		creditLimit = engine.DefaultCreditLimit
	}
	return &curriculumService{cat: cat, store: store, creditLimit: creditLimit, logger: logger}
}

func (s *curriculumService) Get(_ context.Context) (*dto.CurriculumResponse, error) {
	return s.toResponse(s.store.Snapshot()), nil
}

func (s *curriculumService) Assign(ctx context.Context, req *dto.AssignRequest) (*dto.CurriculumResponse, error) {
	if !s.cat.Has(req.CourseID) {
		return nil, ErrCourseNotFound
	}
	return s.apply(s.store.Assign(ctx, req.Key(), req.CourseID))
}

func (s *curriculumService) Unassign(ctx context.Context, req *dto.AssignRequest) (*dto.CurriculumResponse, error) {
	return s.apply(s.store.Unassign(ctx, req.Key(), req.CourseID))
}

func (s *curriculumService) Move(ctx context.Context, req *dto.MoveRequest) (*dto.CurriculumResponse, error) {
	var from *model.TermKey
	if req.From != nil {
		k := req.From.Key()
		from = &k
	}
	return s.apply(s.store.Move(ctx, req.CourseID, from, req.To.Key()))
}

func (s *curriculumService) ToggleLock(ctx context.Context, req *dto.TermRequest) (*dto.CurriculumResponse, error) {
	return s.apply(s.store.ToggleLock(ctx, req.Key()))
}

func (s *curriculumService) SetCurrent(ctx context.Context, req *dto.TermRequest) (*dto.CurriculumResponse, error) {
	return s.apply(s.store.SetCurrentSemester(ctx, req.Key()))
}

func (s *curriculumService) AddSaved(ctx context.Context, courseID string) (*dto.CurriculumResponse, error) {
	if !s.cat.Has(courseID) {
		return nil, ErrCourseNotFound
	}
	return s.apply(s.store.AddToSaved(ctx, courseID))
}

func (s *curriculumService) RemoveSaved(ctx context.Context, courseID string) (*dto.CurriculumResponse, error) {
	return s.apply(s.store.RemoveFromSaved(ctx, courseID))
}

func (s *curriculumService) Reset(ctx context.Context) (*dto.CurriculumResponse, error) {
	resp, err := s.apply(s.store.ResetCurriculum(ctx))
	if err == nil {
		s.logger.Info("课程网格已重置")
	}
	return resp, err
}

func (s *curriculumService) Check(_ context.Context) ([]model.ValidationIssue, error) {
	snap := s.store.Snapshot()
	return s.check(&snap), nil
}

// ── 辅助函数 ──

func (s *curriculumService) apply(snap planner.Snapshot, err error) (*dto.CurriculumResponse, error) {
	if err != nil {
		return nil, err
	}
	return s.toResponse(snap), nil
}

// check 只看网格本身；锁定学期视为已修，由检查器直接查找
func (s *curriculumService) check(snap *planner.Snapshot) []model.ValidationIssue {
	issues := engine.CheckCurriculum(s.cat, snap.Curriculum, s.creditLimit)
	if issues == nil {
		issues = []model.ValidationIssue{}
	}
	return issues
}

func (s *curriculumService) toResponse(snap planner.Snapshot) *dto.CurriculumResponse {
	p := snap.Curriculum
	resp := &dto.CurriculumResponse{
		ID:           p.ID,
		Name:         p.Name,
		Semesters:    make([]dto.SemesterView, 0, len(p.Semesters)),
		SavedCourses: courseRefs(s.cat, p.SavedCourses),
		Issues:       s.check(&snap),
		Links:        engine.PrerequisiteLinks(s.cat, p),
		UpdatedAt:    formatTime(p.UpdatedAt),
	}
	if resp.Links == nil {
		resp.Links = []engine.PrerequisiteLink{}
	}
	for _, sem := range p.Semesters {
		credits := 0
		for _, id := range sem.Courses {
			credits += s.cat.Credits(id)
		}
		resp.TotalCredits += credits
		resp.Semesters = append(resp.Semesters, dto.SemesterView{
			Year:              sem.Year,
			Term:              sem.Term,
			Courses:           courseRefs(s.cat, sem.Courses),
			Credits:           credits,
			IsLocked:          sem.IsLocked,
			IsCurrentSemester: sem.IsCurrentSemester,
			OverLimit:         credits > s.creditLimit,
		})
	}
	return resp
}
