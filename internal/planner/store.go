package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"uni-guide/backend/internal/engine"
	"uni-guide/backend/internal/model"
)

// 持久化键
const (
	KeyProfile       = "profile"
	KeySemesterPlans = "semester-plans"
	KeyOnboarding    = "onboarding"
	KeyCurriculum    = "curriculum-plan"
)

// 状态变更错误
var (
	ErrProfileNotFound        = errors.New("尚未完成引导，档案不存在")
	ErrCourseAlreadyCompleted = errors.New("课程已修读")
	ErrCourseNotCompleted     = errors.New("档案中没有该课程")
	ErrNothingToUndo          = errors.New("没有可撤销的操作")
	ErrPlanNotFound           = errors.New("学期计划不存在")
	ErrCourseAlreadyInPlan    = errors.New("课程已在计划中")
	ErrCourseNotInPlan        = errors.New("课程不在计划中")
	ErrSemesterLocked         = errors.New("学期已锁定，不能修改")
	ErrEmptyCurriculum        = errors.New("课程网格不能为空")
)

// KVStore 持久化协作方；值以 JSON 形式保存，同一键后写覆盖先写
type KVStore interface {
	Save(ctx context.Context, key string, value interface{}) error
	Load(ctx context.Context, key string, dest interface{}) (bool, error)
}

// Onboarding 引导状态
type Onboarding struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type semesterPlansState struct {
	Plans         []model.SemesterPlan `json:"plans"`
	CurrentPlanID string               `json:"current_plan_id"`
}

// Snapshot 某一时刻的完整状态；与 Store 不共享任何切片
type Snapshot struct {
	Profile       *model.UserProfile    `json:"profile"`
	Onboarding    Onboarding            `json:"onboarding"`
	Plans         []model.SemesterPlan  `json:"plans"`
	CurrentPlanID string                `json:"current_plan_id"`
	Curriculum    *model.CurriculumPlan `json:"curriculum"`
	CanUndo       bool                  `json:"can_undo"`
}

// Plan 按 ID 查找学期计划
func (s *Snapshot) Plan(id string) (*model.SemesterPlan, bool) {
	for i := range s.Plans {
		if s.Plans[i].ID == id {
			return &s.Plans[i], true
		}
	}
	return nil, false
}

// CurrentPlan 当前学期计划
func (s *Snapshot) CurrentPlan() (*model.SemesterPlan, bool) {
	if s.CurrentPlanID == "" {
		return nil, false
	}
	return s.Plan(s.CurrentPlanID)
}

// Options Store 参数
type Options struct {
	HistoryCapacity int
	Years           int
	TermsPerYear    int
	LockedTerms     int
	Now             func() time.Time
	NewID           func() string
}

// Store 持有全部规划状态，所有变更在互斥锁内逐个执行
type Store struct {
	mu     sync.Mutex
	kv     KVStore
	opts   Options
	logger *zap.Logger

	profile       *model.UserProfile
	onboarding    Onboarding
	plans         []model.SemesterPlan
	currentPlanID string
	curriculum    *model.CurriculumPlan
	history       *History
}

// NewStore 创建 Store；kv 为 nil 时不做持久化
func NewStore(kv KVStore, opts Options, logger *zap.Logger) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	if opts.Years <= 0 {
		opts.Years = 4
	}
	if opts.TermsPerYear <= 0 {
		opts.TermsPerYear = 2
	}
	return &Store{
		kv:         kv,
		opts:       opts,
		logger:     logger,
		plans:      []model.SemesterPlan{},
		curriculum: DefaultCurriculum(opts.Years, opts.TermsPerYear, opts.LockedTerms, opts.Now()),
		history:    NewHistory(opts.HistoryCapacity),
	}
}

// ════════════════════════════════════════════
// 加载与持久化
// ════════════════════════════════════════════

// Load 启动时并行读取四个键；读取失败或数据损坏时回退到默认值并记录警告
func (s *Store) Load(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}

	var (
		profile    *model.UserProfile
		onboarding Onboarding
		plans      semesterPlansState
		curriculum *model.CurriculumPlan
	)

	g, gctx := errgroup.WithContext(ctx)
	load := func(key string, dest interface{}, reset func()) {
		g.Go(func() error {
			found, err := s.kv.Load(gctx, key, dest)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn("读取本地状态失败，使用默认值", zap.String("key", key), zap.Error(err))
				reset()
				return nil
			}
			if !found {
				reset()
			}
			return nil
		})
	}
	load(KeyProfile, &profile, func() { profile = nil })
	load(KeyOnboarding, &onboarding, func() { onboarding = Onboarding{} })
	load(KeySemesterPlans, &plans, func() { plans = semesterPlansState{} })
	load(KeyCurriculum, &curriculum, func() { curriculum = nil })
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = profile
	s.onboarding = onboarding
	s.plans = plans.Plans
	if s.plans == nil {
		s.plans = []model.SemesterPlan{}
	}
	s.currentPlanID = ""
	for _, p := range s.plans {
		if p.ID == plans.CurrentPlanID {
			s.currentPlanID = p.ID
		}
	}
	if curriculum == nil || len(curriculum.Semesters) == 0 {
		s.curriculum = DefaultCurriculum(s.opts.Years, s.opts.TermsPerYear, s.opts.LockedTerms, s.opts.Now())
	} else {
		if dropped := normalizeCurriculum(curriculum); dropped > 0 {
			s.logger.Warn("课程网格存在重复课程，已保留最早出现的位置", zap.Int("dropped", dropped))
		}
		s.curriculum = curriculum
	}
	s.history.Clear()

	s.logger.Info("本地状态已加载",
		zap.Bool("has_profile", s.profile != nil),
		zap.Int("plans", len(s.plans)),
		zap.Int("curriculum_semesters", len(s.curriculum.Semesters)),
	)
	return nil
}

// normalizeCurriculum 去掉重复出现的课程与多余的当前学期标记，返回去掉的课程数
func normalizeCurriculum(p *model.CurriculumPlan) int {
	seen := make(map[string]bool)
	dropped := 0
	hasCurrent := false
	for i := range p.Semesters {
		sem := &p.Semesters[i]
		kept := make([]string, 0, len(sem.Courses))
		for _, id := range sem.Courses {
			if seen[id] {
				dropped++
				continue
			}
			seen[id] = true
			kept = append(kept, id)
		}
		sem.Courses = kept
		if sem.IsCurrentSemester {
			if hasCurrent {
				sem.IsCurrentSemester = false
			}
			hasCurrent = true
		}
	}
	if p.SavedCourses == nil {
		p.SavedCourses = []string{}
	}
	return dropped
}

// save 同步保存，失败只记录警告
func (s *Store) save(ctx context.Context, key string, value interface{}) {
	if s.kv == nil {
		return
	}
	if err := s.kv.Save(ctx, key, value); err != nil {
		s.logger.Warn("保存本地状态失败", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) saveProfile(ctx context.Context) {
	s.save(ctx, KeyProfile, s.profile)
}

func (s *Store) savePlans(ctx context.Context) {
	s.save(ctx, KeySemesterPlans, semesterPlansState{Plans: s.plans, CurrentPlanID: s.currentPlanID})
}

func (s *Store) saveCurriculum(ctx context.Context) {
	s.save(ctx, KeyCurriculum, s.curriculum)
}

// Snapshot 返回当前状态的深拷贝
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	plans := make([]model.SemesterPlan, len(s.plans))
	for i, p := range s.plans {
		plans[i] = p.Clone()
	}
	ob := s.onboarding
	if ob.CompletedAt != nil {
		t := *ob.CompletedAt
		ob.CompletedAt = &t
	}
	return Snapshot{
		Profile:       s.profile.Clone(),
		Onboarding:    ob,
		Plans:         plans,
		CurrentPlanID: s.currentPlanID,
		Curriculum:    s.curriculum.Clone(),
		CanUndo:       s.history.Len() > 0,
	}
}

// ════════════════════════════════════════════
// 档案
// ════════════════════════════════════════════

// journal 记录变更前的档案，供撤销；尚无档案时不记录，首次引导不可撤销
func (s *Store) journal() {
	if s.profile == nil {
		return
	}
	s.history.Push(s.profile)
}

// CompleteOnboarding 保存引导得到的档案并标记引导完成
func (s *Store) CompleteOnboarding(ctx context.Context, profile model.UserProfile) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.journal()
	s.profile = profile.Clone()
	if s.profile.CompletedCourses == nil {
		s.profile.CompletedCourses = []model.CompletedCourse{}
	}
	now := s.opts.Now()
	s.onboarding = Onboarding{Completed: true, CompletedAt: &now}
	s.saveProfile(ctx)
	s.save(ctx, KeyOnboarding, s.onboarding)
	return s.snapshotLocked(), nil
}

// SetProfile 整体替换档案
func (s *Store) SetProfile(ctx context.Context, profile model.UserProfile) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.journal()
	s.profile = profile.Clone()
	s.saveProfile(ctx)
	return s.snapshotLocked(), nil
}

// AddCompletedCourse 记录一门已修课程；档案或已锁定学期中已有该课程时拒绝
func (s *Store) AddCompletedCourse(ctx context.Context, cc model.CompletedCourse) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return s.snapshotLocked(), ErrProfileNotFound
	}
	if engine.IsCourseCompleted(s.profile, s.curriculum, cc.CourseID) {
		return s.snapshotLocked(), fmt.Errorf("%w: %s", ErrCourseAlreadyCompleted, cc.CourseID)
	}

	s.journal()
	s.profile.CompletedCourses = append(s.profile.CompletedCourses, cc)
	s.saveProfile(ctx)
	return s.snapshotLocked(), nil
}

// RemoveCompletedCourse 从档案中移除已修课程
func (s *Store) RemoveCompletedCourse(ctx context.Context, courseID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return s.snapshotLocked(), ErrProfileNotFound
	}
	if !s.profile.HasCompleted(courseID) {
		return s.snapshotLocked(), ErrCourseNotCompleted
	}

	s.journal()
	kept := make([]model.CompletedCourse, 0, len(s.profile.CompletedCourses))
	for _, c := range s.profile.CompletedCourses {
		if c.CourseID != courseID {
			kept = append(kept, c)
		}
	}
	s.profile.CompletedCourses = kept
	s.saveProfile(ctx)
	return s.snapshotLocked(), nil
}

// ReplaceCompleted 合并一批已修课程（成绩单导入），跳过已修课程，返回新增数量
func (s *Store) ReplaceCompleted(ctx context.Context, courses []model.CompletedCourse) (Snapshot, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return s.snapshotLocked(), 0, ErrProfileNotFound
	}

	var added []model.CompletedCourse
	seen := make(map[string]bool)
	for _, cc := range courses {
		if seen[cc.CourseID] || engine.IsCourseCompleted(s.profile, s.curriculum, cc.CourseID) {
			continue
		}
		seen[cc.CourseID] = true
		added = append(added, cc)
	}
	if len(added) == 0 {
		return s.snapshotLocked(), 0, nil
	}

	s.journal()
	s.profile.CompletedCourses = append(s.profile.CompletedCourses, added...)
	s.saveProfile(ctx)
	return s.snapshotLocked(), len(added), nil
}

// Undo 恢复到上一次档案变更前的状态
func (s *Store) Undo(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.history.Pop()
	if !ok {
		return s.snapshotLocked(), ErrNothingToUndo
	}
	s.profile = prev
	s.saveProfile(ctx)
	return s.snapshotLocked(), nil
}

// CanUndo 是否有可撤销的档案变更
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len() > 0
}

// ════════════════════════════════════════════
// 学期计划
// ════════════════════════════════════════════

func (s *Store) planIndex(id string) int {
	for i := range s.plans {
		if s.plans[i].ID == id {
			return i
		}
	}
	return -1
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// CreatePlan 新建学期计划并设为当前计划
func (s *Store) CreatePlan(ctx context.Context, semester string, courses []string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Now()
	plan := model.SemesterPlan{
		ID:        s.opts.NewID(),
		Semester:  semester,
		Courses:   dedupe(courses),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.plans = append(s.plans, plan)
	s.currentPlanID = plan.ID
	s.savePlans(ctx)
	return s.snapshotLocked(), nil
}

// UpdatePlan 更新学期标签（非空时）与课程列表
func (s *Store) UpdatePlan(ctx context.Context, id, semester string, courses []string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.planIndex(id)
	if i < 0 {
		return s.snapshotLocked(), ErrPlanNotFound
	}
	if semester != "" {
		s.plans[i].Semester = semester
	}
	if courses != nil {
		s.plans[i].Courses = dedupe(courses)
	}
	s.plans[i].UpdatedAt = s.opts.Now()
	s.savePlans(ctx)
	return s.snapshotLocked(), nil
}

// DeletePlan 删除学期计划；删除的是当前计划时清除当前标记
func (s *Store) DeletePlan(ctx context.Context, id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.planIndex(id)
	if i < 0 {
		return s.snapshotLocked(), ErrPlanNotFound
	}
	s.plans = append(s.plans[:i:i], s.plans[i+1:]...)
	if s.currentPlanID == id {
		s.currentPlanID = ""
	}
	s.savePlans(ctx)
	return s.snapshotLocked(), nil
}

// SetCurrentPlan 设置当前学期计划
func (s *Store) SetCurrentPlan(ctx context.Context, id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.planIndex(id) < 0 {
		return s.snapshotLocked(), ErrPlanNotFound
	}
	s.currentPlanID = id
	s.savePlans(ctx)
	return s.snapshotLocked(), nil
}

// AddCourseToPlan 向计划追加课程
func (s *Store) AddCourseToPlan(ctx context.Context, planID, courseID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.planIndex(planID)
	if i < 0 {
		return s.snapshotLocked(), ErrPlanNotFound
	}
	if s.plans[i].Contains(courseID) {
		return s.snapshotLocked(), ErrCourseAlreadyInPlan
	}
	s.plans[i].Courses = append(s.plans[i].Courses, courseID)
	s.plans[i].UpdatedAt = s.opts.Now()
	s.savePlans(ctx)
	return s.snapshotLocked(), nil
}

// RemoveCourseFromPlan 从计划移除课程
func (s *Store) RemoveCourseFromPlan(ctx context.Context, planID, courseID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.planIndex(planID)
	if i < 0 {
		return s.snapshotLocked(), ErrPlanNotFound
	}
	if !s.plans[i].Contains(courseID) {
		return s.snapshotLocked(), ErrCourseNotInPlan
	}
	s.plans[i].Courses = without(s.plans[i].Courses, courseID)
	s.plans[i].UpdatedAt = s.opts.Now()
	s.savePlans(ctx)
	return s.snapshotLocked(), nil
}

// ════════════════════════════════════════════
// 课程网格
// ════════════════════════════════════════════

func (s *Store) checkUnlocked(keys ...model.TermKey) error {
	for _, k := range keys {
		if i := s.curriculum.Find(k.Year, k.Term); i >= 0 && s.curriculum.Semesters[i].IsLocked {
			return fmt.Errorf("%w: %s", ErrSemesterLocked, k)
		}
	}
	return nil
}

// mutate 执行一次纯函数变更；守卫失败时网格不变且不保存
func (s *Store) mutate(ctx context.Context, fn func(*model.CurriculumPlan) (*model.CurriculumPlan, error)) (Snapshot, error) {
	next, err := fn(s.curriculum)
	if err != nil {
		return s.snapshotLocked(), err
	}
	next.UpdatedAt = s.opts.Now()
	s.curriculum = next
	s.saveCurriculum(ctx)
	return s.snapshotLocked(), nil
}

// Assign 将课程排入学期
func (s *Store) Assign(ctx context.Context, key model.TermKey, courseID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnlocked(key); err != nil {
		return s.snapshotLocked(), err
	}
	return s.mutate(ctx, func(p *model.CurriculumPlan) (*model.CurriculumPlan, error) {
		return Assign(p, key, courseID)
	})
}

// Unassign 将课程移出学期
func (s *Store) Unassign(ctx context.Context, key model.TermKey, courseID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnlocked(key); err != nil {
		return s.snapshotLocked(), err
	}
	return s.mutate(ctx, func(p *model.CurriculumPlan) (*model.CurriculumPlan, error) {
		return Unassign(p, key, courseID)
	})
}

// Move 在学期之间（或从待排池）移动课程
func (s *Store) Move(ctx context.Context, courseID string, from *model.TermKey, to model.TermKey) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := []model.TermKey{to}
	if from != nil {
		keys = append(keys, *from)
	}
	if err := s.checkUnlocked(keys...); err != nil {
		return s.snapshotLocked(), err
	}
	return s.mutate(ctx, func(p *model.CurriculumPlan) (*model.CurriculumPlan, error) {
		return Move(p, courseID, from, to)
	})
}

// ToggleLock 切换学期锁定
func (s *Store) ToggleLock(ctx context.Context, key model.TermKey) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(ctx, func(p *model.CurriculumPlan) (*model.CurriculumPlan, error) {
		return ToggleLock(p, key)
	})
}

// SetCurrentSemester 设置当前学期
func (s *Store) SetCurrentSemester(ctx context.Context, key model.TermKey) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(ctx, func(p *model.CurriculumPlan) (*model.CurriculumPlan, error) {
		return SetCurrent(p, key)
	})
}

// AddToSaved 加入待排池
func (s *Store) AddToSaved(ctx context.Context, courseID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(ctx, func(p *model.CurriculumPlan) (*model.CurriculumPlan, error) {
		return AddToSaved(p, courseID)
	})
}

// RemoveFromSaved 移出待排池
func (s *Store) RemoveFromSaved(ctx context.Context, courseID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(ctx, func(p *model.CurriculumPlan) (*model.CurriculumPlan, error) {
		return RemoveFromSaved(p, courseID)
	})
}

// ReplaceCurriculum 用新的学期列表替换网格（向导应用结果）
// 待排池中已被排入网格的课程会被移出
func (s *Store) ReplaceCurriculum(ctx context.Context, semesters []model.CurriculumSemester) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(semesters) == 0 {
		return s.snapshotLocked(), ErrEmptyCurriculum
	}
	return s.mutate(ctx, func(p *model.CurriculumPlan) (*model.CurriculumPlan, error) {
		next := p.Clone()
		next.Semesters = make([]model.CurriculumSemester, len(semesters))
		for i, sem := range semesters {
			sem.Courses = append([]string{}, sem.Courses...)
			next.Semesters[i] = sem
		}
		normalizeCurriculum(next)
		saved := make([]string, 0, len(next.SavedCourses))
		for _, id := range next.SavedCourses {
			if _, scheduled := next.Locate(id); !scheduled {
				saved = append(saved, id)
			}
		}
		next.SavedCourses = saved
		return next, nil
	})
}

// ResetCurriculum 恢复默认网格
func (s *Store) ResetCurriculum(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(ctx, func(*model.CurriculumPlan) (*model.CurriculumPlan, error) {
		return DefaultCurriculum(s.opts.Years, s.opts.TermsPerYear, s.opts.LockedTerms, s.opts.Now()), nil
	})
}
