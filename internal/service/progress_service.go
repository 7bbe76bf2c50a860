package service

import (
	"context"

	"go.uber.org/zap"

	"uni-guide/backend/config"
	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/engine"
	"uni-guide/backend/internal/model"
	"uni-guide/backend/internal/planner"
)

// ProgressService 毕业进度与推荐业务接口
//
// 未完成引导或找不到对应的毕业要求时返回"无数据"状态，不视为错误。
type ProgressService interface {
	Get(ctx context.Context) (*dto.ProgressResponse, error)
	Recommendations(ctx context.Context) (*dto.RecommendationResponse, error)
}

type progressService struct {
	cat    *catalog.Catalog
	store  *planner.Store
	cfg    *config.PlannerConfig
	logger *zap.Logger
}

// NewProgressService 创建 ProgressService 实例
func NewProgressService(cat *catalog.Catalog, store *planner.Store, cfg *config.PlannerConfig, logger *zap.Logger) ProgressService {
	return &progressService{cat: cat, store: store, cfg: cfg, logger: logger}
}

func (s *progressService) Get(_ context.Context) (*dto.ProgressResponse, error) {
	snap := s.store.Snapshot()
	completed, planned := completionOf(&snap)
	resp := &dto.ProgressResponse{
		CompletedCount: len(completed),
		PlannedCount:   len(planned),
	}

	rule := s.ruleFor(snap.Profile)
	if rule == nil {
		return resp, nil
	}
	resp.HasRule = true
	resp.EnrollmentYear = rule.EnrollmentYear
	resp.Major = rule.Major
	resp.TotalCredits = rule.TotalCredits
	resp.Summary = engine.ComputeProgress(s.cat, rule, completed, planned)
	return resp, nil
}

func (s *progressService) Recommendations(_ context.Context) (*dto.RecommendationResponse, error) {
	resp := &dto.RecommendationResponse{Items: []dto.RecommendationItem{}}

	snap := s.store.Snapshot()
	rule := s.ruleFor(snap.Profile)
	if rule == nil {
		return resp, nil
	}
	completed, planned := completionOf(&snap)
	summary := engine.ComputeProgress(s.cat, rule, completed, planned)

	for _, r := range engine.Recommend(s.cat, rule, summary, completed, planned, s.cfg.PerAreaLimit, s.cfg.RecommendationLimit) {
		resp.Items = append(resp.Items, dto.RecommendationItem{
			Course:   r.Course,
			AreaID:   r.AreaID,
			AreaName: r.AreaName,
		})
	}
	return resp, nil
}

func (s *progressService) ruleFor(profile *model.UserProfile) *model.RequirementRule {
	if profile == nil {
		return nil
	}
	rule, ok := s.cat.FindRule(profile.EnrollmentYear, profile.Major)
	if !ok {
		return nil
	}
	return rule
}
