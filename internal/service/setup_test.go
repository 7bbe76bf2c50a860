package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"go.uber.org/zap"

	"uni-guide/backend/config"
	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/model"
	"uni-guide/backend/internal/planner"
)

// ── 测试辅助 ──

const testMajor = "计算机科学与技术"

func intPtr(n int) *int { return &n }

func testCatalog() *catalog.Catalog {
	courses := []model.Course{
		{ID: "cs101", Code: "CS101", Name: "程序设计基础", Credits: 3, Category: model.CategoryMajorRequired, Department: "计算机学院",
			Schedule: []model.TimeSlot{{Day: 0, StartHour: 9, EndHour: 11, Room: "A101"}}},
		{ID: "cs102", Code: "CS102", Name: "离散数学", Credits: 3, Category: model.CategoryMajorRequired, Department: "计算机学院"},
		{ID: "cs201", Code: "CS201", Name: "数据结构", Credits: 3, Category: model.CategoryMajorRequired, Department: "计算机学院",
			Prerequisites: []string{"cs101"},
			Schedule:      []model.TimeSlot{{Day: 0, StartHour: 10, EndHour: 12}}},
		{ID: "cs202", Code: "CS202", Name: "算法", Credits: 3, Category: model.CategoryMajorRequired, Department: "计算机学院",
			Prerequisites: []string{"cs201"}},
		{ID: "cs311", Code: "CS311", Name: "Web 开发", Credits: 3, Category: model.CategoryMajorElective, Department: "计算机学院",
			Prerequisites: []string{"cs201"}, CareerFit: intPtr(5)},
		{ID: "cs321", Code: "CS321", Name: "编译原理", Credits: 3, Category: model.CategoryMajorElective, Department: "计算机学院",
			MutuallyExclusive: []string{"cs322"}},
		{ID: "cs322", Code: "CS322", Name: "编译技术", Credits: 2, Category: model.CategoryMajorElective, Department: "计算机学院"},
		{ID: "ge101", Code: "GE101", Name: "哲学导论", Credits: 3, Category: model.CategoryUniversityRequired, Area: "humanities", Department: "人文学院",
			Schedule: []model.TimeSlot{{Day: 2, StartHour: 14, EndHour: 16}}},
		{ID: "big1", Code: "BIG1", Name: "大课一", Credits: 6, Category: model.CategoryDepartmentRequired},
		{ID: "big2", Code: "BIG2", Name: "大课二", Credits: 6, Category: model.CategoryDepartmentRequired},
		{ID: "big3", Code: "BIG3", Name: "大课三", Credits: 6, Category: model.CategoryDepartmentRequired},
	}
	rules := []model.RequirementRule{{
		EnrollmentYear: 2024,
		Major:          testMajor,
		TotalCredits:   40,
		Areas: []model.RequirementArea{
			{ID: "core", Name: "专业核心", Category: model.CategoryMajorRequired, RequiredCredits: 9, Courses: []string{"cs101", "cs201", "cs202"}},
			{ID: "elective", Name: "专业选修", Category: model.CategoryMajorElective, RequiredCredits: 6},
			{ID: "hum", Name: "通识·人文", Category: model.CategoryUniversityRequired, RequiredCredits: 3, Area: "humanities"},
			{ID: "dept", Name: "学院必修", Category: model.CategoryDepartmentRequired, RequiredCredits: 12},
		},
	}}
	return catalog.New(courses, rules)
}

func testConfig() *config.Config {
	return &config.Config{
		Planner: config.PlannerConfig{
			CreditLimit:         18,
			HistoryCapacity:     3,
			Years:               4,
			TermsPerYear:        2,
			LockedTerms:         3,
			RecommendationLimit: 5,
			PerAreaLimit:        2,
		},
		Wizard: config.WizardConfig{
			Delay:     0,
			MaxTerms:  10,
			WarnTerms: 8,
		},
	}
}

func newTestStore() *planner.Store {
	return planner.NewStore(nil, planner.Options{
		HistoryCapacity: 3,
		Years:           4,
		TermsPerYear:    2,
		LockedTerms:     3,
		Now:             func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC) },
	}, zap.NewNop())
}

func setupTestService() (*Service, *planner.Store) {
	store := newTestStore()
	return NewService(testConfig(), testCatalog(), store, zap.NewNop()), store
}

func onboardTestStudent(t *testing.T, svc *Service, completed ...string) {
	t.Helper()
	req := &dto.OnboardingRequest{EnrollmentYear: 2024, Major: testMajor}
	for _, id := range completed {
		req.CompletedCourses = append(req.CompletedCourses, dto.CompletedCourseInput{CourseID: id})
	}
	if _, err := svc.Profile.Onboard(context.Background(), req); err != nil {
		t.Fatalf("引导失败: %v", err)
	}
}

// ── Mock TranscriptParser ──

type mockTranscriptParser struct {
	entries []TranscriptEntry
	err     error
}

func (m *mockTranscriptParser) Parse(_ context.Context, r io.Reader) ([]TranscriptEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	_, _ = io.Copy(io.Discard, r)
	return m.entries, nil
}

var errParserBroken = errors.New("解析器故障")
