package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"uni-guide/backend/config"
	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/engine"
	"uni-guide/backend/internal/planner"
)

// ── 向导模块业务错误 ──

var (
	ErrWizardInvalidStep = errors.New("当前步骤不支持该操作")
	ErrWizardInvalidMode = errors.New("未知的推荐方式")
	ErrWizardEmptyResult = errors.New("生成结果为空，无法应用")
)

// ════════════════════════════════════════════════════════════
// 向导步骤
// ════════════════════════════════════════════════════════════
//
// 每个步骤是一个具体类型，只携带该步骤需要的数据：
//
//	career → type → loading-courses → course-selection → loading-curriculum → result
//
// 两个 loading 步骤由后台任务推进；新的请求会取消尚未完成的任务。

// WizardStep 向导步骤
type WizardStep interface {
	Name() string
}

// CareerStep 选择职业方向
type CareerStep struct{}

// ModeStep 选择推荐方式
type ModeStep struct {
	Career string
}

// LoadingCoursesStep 正在挑选候选课程
type LoadingCoursesStep struct {
	Career string
	Mode   engine.RecommendationMode
}

// CourseSelectionStep 选择要排入网格的课程
type CourseSelectionStep struct {
	Career     string
	Mode       engine.RecommendationMode
	Candidates []string
}

// LoadingCurriculumStep 正在生成课程网格
type LoadingCurriculumStep struct {
	Career     string
	Mode       engine.RecommendationMode
	Candidates []string
	Selected   []string
}

// ResultStep 生成结果
type ResultStep struct {
	Career     string
	Mode       engine.RecommendationMode
	Candidates []string
	Selected   []string
	Result     engine.GeneratedCurriculum
}

func (CareerStep) Name() string            { return "career" }
func (ModeStep) Name() string              { return "type" }
func (LoadingCoursesStep) Name() string    { return "loading-courses" }
func (CourseSelectionStep) Name() string   { return "course-selection" }
func (LoadingCurriculumStep) Name() string { return "loading-curriculum" }
func (ResultStep) Name() string            { return "result" }

// WizardService 课程规划向导业务接口
type WizardService interface {
	State(ctx context.Context) *dto.WizardResponse
	SelectCareer(ctx context.Context, career string) (*dto.WizardResponse, error)
	SelectMode(ctx context.Context, mode string) (*dto.WizardResponse, error)
	SelectCourses(ctx context.Context, courseIDs []string) (*dto.WizardResponse, error)
	// Apply 用生成结果替换课程网格（所有学期均未锁定）
	Apply(ctx context.Context) (*dto.CurriculumResponse, error)
	Back(ctx context.Context) (*dto.WizardResponse, error)
	Reset(ctx context.Context) *dto.WizardResponse
	// Close 取消正在运行的后台任务
	Close()
}

type wizardService struct {
	cat        *catalog.Catalog
	store      *planner.Store
	curriculum CurriculumService
	planner    *config.PlannerConfig
	cfg        *config.WizardConfig
	logger     *zap.Logger

	mu     sync.Mutex
	step   WizardStep
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWizardService 创建 WizardService 实例
func NewWizardService(cat *catalog.Catalog, store *planner.Store, plannerCfg *config.PlannerConfig, cfg *config.WizardConfig, logger *zap.Logger) WizardService {
	return &wizardService{
		cat:        cat,
		store:      store,
		curriculum: NewCurriculumService(cat, store, plannerCfg.CreditLimit, logger),
		planner:    plannerCfg,
		cfg:        cfg,
		logger:     logger,
		step:       CareerStep{},
	}
}

func (s *wizardService) State(_ context.Context) *dto.WizardResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toResponse(s.step)
}

func (s *wizardService) SelectCareer(_ context.Context, career string) (*dto.WizardResponse, error) {
	career = strings.TrimSpace(career)
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.step.(type) {
	case CareerStep, ModeStep:
	default:
		return nil, ErrWizardInvalidStep
	}
	s.step = ModeStep{Career: career}
	return s.toResponse(s.step), nil
}

func (s *wizardService) SelectMode(_ context.Context, mode string) (*dto.WizardResponse, error) {
	m := engine.RecommendationMode(mode)
	if m != engine.ModeCareerFocused && m != engine.ModeGraduationOptimized {
		return nil, fmt.Errorf("%w: %s", ErrWizardInvalidMode, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.step.(ModeStep)
	if !ok {
		return nil, ErrWizardInvalidStep
	}
	loading := LoadingCoursesStep{Career: cur.Career, Mode: m}
	s.launchLocked(loading, func() WizardStep {
		snap := s.store.Snapshot()
		completed := engine.CompletedSet(snap.Profile, snap.Curriculum)
		return CourseSelectionStep{
			Career:     loading.Career,
			Mode:       loading.Mode,
			Candidates: engine.Prioritize(s.cat, completed, loading.Career, loading.Mode),
		}
	})
	return s.toResponse(s.step), nil
}

func (s *wizardService) SelectCourses(_ context.Context, courseIDs []string) (*dto.WizardResponse, error) {
	for _, id := range courseIDs {
		if !s.cat.Has(id) {
			return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, id)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.step.(CourseSelectionStep)
	if !ok {
		return nil, ErrWizardInvalidStep
	}
	loading := LoadingCurriculumStep{
		Career:     cur.Career,
		Mode:       cur.Mode,
		Candidates: cur.Candidates,
		Selected:   append([]string{}, courseIDs...),
	}
	opts := engine.GenerateOptions{
		CreditLimit:  s.planner.CreditLimit,
		MaxTerms:     s.cfg.MaxTerms,
		WarnTerms:    s.cfg.WarnTerms,
		TermsPerYear: s.planner.TermsPerYear,
	}
	s.launchLocked(loading, func() WizardStep {
		snap := s.store.Snapshot()
		completed := engine.CompletedSet(snap.Profile, snap.Curriculum)
		return ResultStep{
			Career:     loading.Career,
			Mode:       loading.Mode,
			Candidates: loading.Candidates,
			Selected:   loading.Selected,
			Result:     engine.GenerateCurriculum(s.cat, loading.Selected, completed, opts),
		}
	})
	return s.toResponse(s.step), nil
}

func (s *wizardService) Apply(ctx context.Context) (*dto.CurriculumResponse, error) {
	s.mu.Lock()
	cur, ok := s.step.(ResultStep)
	if !ok {
		s.mu.Unlock()
		return nil, ErrWizardInvalidStep
	}
	if len(cur.Result.Semesters) == 0 {
		s.mu.Unlock()
		return nil, ErrWizardEmptyResult
	}
	s.step = CareerStep{}
	s.mu.Unlock()

	if _, err := s.store.ReplaceCurriculum(ctx, cur.Result.ToCurriculumSemesters()); err != nil {
		s.logger.Error("应用向导结果失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("向导结果已应用",
		zap.String("career", cur.Career),
		zap.Int("semesters", cur.Result.TotalSemesters),
		zap.Int("unplaced", len(cur.Result.Unplaced)),
	)
	return s.curriculum.Get(ctx)
}

func (s *wizardService) Back(_ context.Context) (*dto.WizardResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cur := s.step.(type) {
	case CareerStep:
		return nil, ErrWizardInvalidStep
	case ModeStep:
		s.step = CareerStep{}
	case LoadingCoursesStep:
		s.cancelLocked()
		s.step = ModeStep{Career: cur.Career}
	case CourseSelectionStep:
		s.step = ModeStep{Career: cur.Career}
	case LoadingCurriculumStep:
		s.cancelLocked()
		s.step = CourseSelectionStep{Career: cur.Career, Mode: cur.Mode, Candidates: cur.Candidates}
	case ResultStep:
		s.step = CourseSelectionStep{Career: cur.Career, Mode: cur.Mode, Candidates: cur.Candidates}
	}
	return s.toResponse(s.step), nil
}

func (s *wizardService) Reset(_ context.Context) *dto.WizardResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.step = CareerStep{}
	return s.toResponse(s.step)
}

func (s *wizardService) Close() {
	s.mu.Lock()
	s.cancelLocked()
	s.mu.Unlock()
	s.wg.Wait()
}

// ── 后台任务 ──

// launchLocked 进入 loading 步骤并启动后台任务；已有任务会被取消
// 任务完成时若已被更新的请求取代，则丢弃结果
func (s *wizardService) launchLocked(loading WizardStep, work func() WizardStep) {
	s.cancelLocked()
	s.step = loading
	gen := s.gen

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	delay := s.cfg.Delay

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		next := work()

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen || ctx.Err() != nil {
			return
		}
		s.step = next
		s.cancel = nil
	}()
}

// cancelLocked 取消当前任务并使其结果失效
func (s *wizardService) cancelLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *wizardService) toResponse(step WizardStep) *dto.WizardResponse {
	resp := &dto.WizardResponse{Step: step.Name()}
	switch st := step.(type) {
	case CareerStep:
		resp.Presets = engine.CareerPresets()
	case ModeStep:
		resp.Career = st.Career
	case LoadingCoursesStep:
		resp.Career, resp.Mode = st.Career, string(st.Mode)
	case CourseSelectionStep:
		resp.Career, resp.Mode = st.Career, string(st.Mode)
		resp.Candidates = courseRefs(s.cat, st.Candidates)
	case LoadingCurriculumStep:
		resp.Career, resp.Mode = st.Career, string(st.Mode)
		resp.Selected = st.Selected
	case ResultStep:
		resp.Career, resp.Mode = st.Career, string(st.Mode)
		resp.Selected = st.Selected
		result := st.Result
		resp.Result = &result
	}
	return resp
}
