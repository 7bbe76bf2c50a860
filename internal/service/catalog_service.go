package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/model"
	"uni-guide/backend/internal/planner"
)

// CatalogService 课程目录浏览接口
type CatalogService interface {
	// List 按条件检索课程（分页）
	List(ctx context.Context, req *dto.CourseListRequest) (*dto.CourseListResponse, error)
	// Get 课程详情，含当前学生的修读状态
	Get(ctx context.Context, id string) (*dto.CourseDetailResponse, error)
	// Integrity 目录完整性报告
	Integrity(ctx context.Context) catalog.IntegrityReport
}

type catalogService struct {
	cat    *catalog.Catalog
	store  *planner.Store
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(cat *catalog.Catalog, store *planner.Store, logger *zap.Logger) CatalogService {
	return &catalogService{cat: cat, store: store, logger: logger}
}

func (s *catalogService) List(_ context.Context, req *dto.CourseListRequest) (*dto.CourseListResponse, error) {
	filter := catalog.Filter{
		Query:            req.Query,
		OnlyAvailable:    req.OnlyAvailable,
		ExcludeCompleted: req.ExcludeCompleted,
		Credits:          req.Credits,
		Term:             req.Term,
		Department:       req.Department,
	}
	for _, raw := range req.Categories {
		c, ok := model.ParseCategory(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, raw)
		}
		filter.Categories = append(filter.Categories, c)
	}
	sortBy, ok := catalog.ParseSortBy(req.SortBy)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSortBy, req.SortBy)
	}
	filter.SortBy = sortBy

	snap := s.store.Snapshot()
	completed, planned := completionOf(&snap)
	completedSet, plannedSet := toSet(completed), toSet(planned)

	courses := catalog.Search(s.cat, filter, completedSet)

	page, size := req.GetPage(), req.GetPageSize()
	start := req.GetOffset()
	if start > len(courses) {
		start = len(courses)
	}
	end := start + size
	if end > len(courses) {
		end = len(courses)
	}

	items := make([]dto.CourseSummary, 0, end-start)
	for i := range courses[start:end] {
		c := courses[start+i]
		items = append(items, s.summary(&c, completedSet, plannedSet))
	}
	return &dto.CourseListResponse{
		Items:    items,
		Total:    len(courses),
		Page:     page,
		PageSize: size,
	}, nil
}

func (s *catalogService) Get(_ context.Context, id string) (*dto.CourseDetailResponse, error) {
	c, ok := s.cat.Course(id)
	if !ok {
		return nil, ErrCourseNotFound
	}

	snap := s.store.Snapshot()
	completed, planned := completionOf(&snap)
	completedSet := toSet(completed)

	resp := &dto.CourseDetailResponse{
		CourseSummary:      s.summary(c, completedSet, toSet(planned)),
		UnmetPrerequisites: courseRefs(s.cat, s.cat.UnmetPrerequisites(c, completedSet)),
		Prerequisites:      courseRefs(s.cat, c.Prerequisites),
		MutuallyExclusive:  courseRefs(s.cat, c.MutuallyExclusive),
	}
	if at, ok := snap.Curriculum.Locate(c.ID); ok {
		key := at.Key()
		resp.ScheduledIn = &key
	}
	return resp, nil
}

func (s *catalogService) Integrity(_ context.Context) catalog.IntegrityReport {
	return catalog.Check(s.cat)
}

func (s *catalogService) summary(c *model.Course, completed, planned map[string]bool) dto.CourseSummary {
	return dto.CourseSummary{
		Course:    *c,
		Completed: completed[c.ID],
		Planned:   planned[c.ID],
		Available: len(s.cat.UnmetPrerequisites(c, completed)) == 0,
	}
}
