package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/model"
	"uni-guide/backend/internal/planner"
)

// defaultSemester 手动添加已修课程时未指定学期的默认值
const defaultSemester = "2024-1"

// ProfileService 学生档案业务接口
//
// 档案的每次变更都会记录到撤销历史；已修课程的学分在添加时按目录快照保存。
type ProfileService interface {
	// Get 当前档案；未完成引导时 profile 为空
	Get(ctx context.Context) (*dto.ProfileResponse, error)
	// Onboard 完成引导
	Onboard(ctx context.Context, req *dto.OnboardingRequest) (*dto.ProfileResponse, error)
	// AddCompletedByCode 按课程代码（不区分大小写）添加已修课程
	AddCompletedByCode(ctx context.Context, req *dto.AddCompletedRequest) (*dto.ProfileResponse, error)
	// RemoveCompleted 移除已修课程
	RemoveCompleted(ctx context.Context, courseID string) (*dto.ProfileResponse, error)
	// Undo 撤销最近一次档案变更
	Undo(ctx context.Context) (*dto.ProfileResponse, error)
	// ImportTranscript 导入成绩单
	ImportTranscript(ctx context.Context, r io.Reader) (*dto.TranscriptImportResponse, error)
}

type profileService struct {
	cat    *catalog.Catalog
	store  *planner.Store
	parser TranscriptParser
	logger *zap.Logger
}

// NewProfileService 创建 ProfileService 实例
func NewProfileService(cat *catalog.Catalog, store *planner.Store, parser TranscriptParser, logger *zap.Logger) ProfileService {
	return &profileService{cat: cat, store: store, parser: parser, logger: logger}
}

func (s *profileService) Get(_ context.Context) (*dto.ProfileResponse, error) {
	snap := s.store.Snapshot()
	return s.toResponse(&snap), nil
}

func (s *profileService) Onboard(ctx context.Context, req *dto.OnboardingRequest) (*dto.ProfileResponse, error) {
	profile := model.UserProfile{
		EnrollmentYear:   req.EnrollmentYear,
		Major:            strings.TrimSpace(req.Major),
		CompletedCourses: make([]model.CompletedCourse, 0, len(req.CompletedCourses)),
	}
	seen := make(map[string]bool)
	for _, in := range req.CompletedCourses {
		c, err := s.resolve(in.CourseID, in.Code)
		if err != nil {
			return nil, err
		}
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		profile.CompletedCourses = append(profile.CompletedCourses, model.CompletedCourse{
			CourseID: c.ID,
			Semester: defaultString(in.Semester, defaultSemester),
			Grade:    in.Grade,
			Credits:  c.Credits,
		})
	}

	snap, err := s.store.CompleteOnboarding(ctx, profile)
	if err != nil {
		return nil, err
	}
	if _, ok := s.cat.FindRule(profile.EnrollmentYear, profile.Major); !ok {
		s.logger.Info("未找到对应的毕业要求",
			zap.Int("enrollment_year", profile.EnrollmentYear),
			zap.String("major", profile.Major),
		)
	}
	return s.toResponse(&snap), nil
}

func (s *profileService) AddCompletedByCode(ctx context.Context, req *dto.AddCompletedRequest) (*dto.ProfileResponse, error) {
	c, ok := s.cat.ByCode(req.Code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, strings.TrimSpace(req.Code))
	}

	snap, err := s.store.AddCompletedCourse(ctx, model.CompletedCourse{
		CourseID: c.ID,
		Semester: defaultString(req.Semester, defaultSemester),
		Grade:    req.Grade,
		Credits:  c.Credits,
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(&snap), nil
}

func (s *profileService) RemoveCompleted(ctx context.Context, courseID string) (*dto.ProfileResponse, error) {
	snap, err := s.store.RemoveCompletedCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(&snap), nil
}

func (s *profileService) Undo(ctx context.Context) (*dto.ProfileResponse, error) {
	snap, err := s.store.Undo(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponse(&snap), nil
}

// ════════════════════════════════════════════════════════════
// ImportTranscript 导入成绩单
// ════════════════════════════════════════════════════════════
//
// 流程：
//   1. 解析上传内容为 (课程代码, 学期, 学分) 列表
//   2. 按课程代码映射到目录；目录中不存在的课程跳过
//   3. 合并到档案，已修课程跳过（整体作为一次可撤销的变更）

func (s *profileService) ImportTranscript(ctx context.Context, r io.Reader) (*dto.TranscriptImportResponse, error) {
	before := s.store.Snapshot()
	if before.Profile == nil {
		return nil, ErrProfileNotFound
	}

	entries, err := s.parser.Parse(ctx, r)
	if err != nil {
		if errors.Is(err, ErrTranscriptEmpty) {
			return nil, err
		}
		s.logger.Error("解析成绩单失败", zap.Error(err))
		return nil, fmt.Errorf("解析成绩单失败: %w", err)
	}

	var (
		candidates []model.CompletedCourse
		skipped    = []string{}
	)
	for _, e := range entries {
		c, ok := s.cat.ByCode(e.Code)
		if !ok {
			skipped = append(skipped, e.Code)
			continue
		}
		credits := e.Credits
		if credits <= 0 {
			credits = c.Credits
		}
		candidates = append(candidates, model.CompletedCourse{
			CourseID: c.ID,
			Semester: e.Semester,
			Grade:    e.Grade,
			Credits:  credits,
		})
	}

	snap, added, err := s.store.ReplaceCompleted(ctx, candidates)
	if err != nil {
		return nil, err
	}

	imported := make([]model.CompletedCourse, 0, added)
	seen := make(map[string]bool)
	for _, cc := range candidates {
		if seen[cc.CourseID] {
			continue
		}
		seen[cc.CourseID] = true
		if before.Profile.HasCompleted(cc.CourseID) || !snap.Profile.HasCompleted(cc.CourseID) {
			if c, ok := s.cat.Course(cc.CourseID); ok {
				skipped = append(skipped, c.Code)
			}
			continue
		}
		imported = append(imported, cc)
	}

	s.logger.Info("成绩单导入完成", zap.Int("imported", added), zap.Int("skipped", len(skipped)))
	return &dto.TranscriptImportResponse{
		Imported: added,
		Courses:  imported,
		Skipped:  skipped,
		Profile:  s.toResponse(&snap),
	}, nil
}

// ── 辅助函数 ──

// resolve 按课程 ID 或课程代码查找目录课程
func (s *profileService) resolve(courseID, code string) (*model.Course, error) {
	if courseID != "" {
		if c, ok := s.cat.Course(courseID); ok {
			return c, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, courseID)
	}
	if c, ok := s.cat.ByCode(code); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, code)
}

func (s *profileService) toResponse(snap *planner.Snapshot) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		Profile:             snap.Profile,
		OnboardingCompleted: snap.Onboarding.Completed,
		OnboardingAt:        snap.Onboarding.CompletedAt,
		CompletedCredits:    completedCredits(s.cat, snap.Profile, snap.Curriculum),
		CanUndo:             snap.CanUndo,
	}
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
