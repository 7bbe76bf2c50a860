package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/model"
)

func TestProfileService_Get_BeforeOnboarding(t *testing.T) {
	svc, _ := setupTestService()

	resp, err := svc.Profile.Get(context.Background())
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if resp.Profile != nil || resp.OnboardingCompleted {
		t.Error("引导前档案应为空")
	}
}

func TestProfileService_Onboard(t *testing.T) {
	svc, _ := setupTestService()

	resp, err := svc.Profile.Onboard(context.Background(), &dto.OnboardingRequest{
		EnrollmentYear: 2024,
		Major:          " " + testMajor + " ",
		CompletedCourses: []dto.CompletedCourseInput{
			{Code: "cs101"},
			{CourseID: "cs101"},
			{Code: "GE101", Semester: "2024-2", Grade: "A"},
		},
	})
	if err != nil {
		t.Fatalf("Onboard 失败: %v", err)
	}
	if resp.Profile.Major != testMajor {
		t.Errorf("期望专业去除空白，实际 %q", resp.Profile.Major)
	}
	if len(resp.Profile.CompletedCourses) != 2 {
		t.Fatalf("期望 2 门已修课程（重复已去除），实际 %d", len(resp.Profile.CompletedCourses))
	}
	if resp.Profile.CompletedCourses[0].Semester != defaultSemester {
		t.Errorf("期望默认学期 %s，实际 %s", defaultSemester, resp.Profile.CompletedCourses[0].Semester)
	}
	if resp.CompletedCredits != 6 {
		t.Errorf("期望已修 6 学分，实际 %d", resp.CompletedCredits)
	}
}

func TestProfileService_Onboard_UnknownCourse(t *testing.T) {
	svc, _ := setupTestService()

	_, err := svc.Profile.Onboard(context.Background(), &dto.OnboardingRequest{
		EnrollmentYear:   2024,
		Major:            testMajor,
		CompletedCourses: []dto.CompletedCourseInput{{Code: "XYZ999"}},
	})
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际: %v", err)
	}
}

func TestProfileService_AddCompletedByCode(t *testing.T) {
	svc, _ := setupTestService()
	ctx := context.Background()
	onboardTestStudent(t, svc)

	resp, err := svc.Profile.AddCompletedByCode(ctx, &dto.AddCompletedRequest{Code: "cs102"})
	if err != nil {
		t.Fatalf("AddCompletedByCode 失败: %v", err)
	}
	cc := resp.Profile.CompletedCourses[0]
	if cc.CourseID != "cs102" || cc.Credits != 3 {
		t.Errorf("期望按代码添加 cs102 且学分快照为 3，实际 %+v", cc)
	}

	if _, err := svc.Profile.AddCompletedByCode(ctx, &dto.AddCompletedRequest{Code: "CS102"}); !errors.Is(err, ErrCourseAlreadyDone) {
		t.Errorf("重复添加期望 ErrCourseAlreadyDone，实际: %v", err)
	}
	if _, err := svc.Profile.AddCompletedByCode(ctx, &dto.AddCompletedRequest{Code: "NOPE1"}); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("未知代码期望 ErrCourseNotFound，实际: %v", err)
	}
}

func TestProfileService_AddCompletedByCode_LockedGridCourse(t *testing.T) {
	svc, store := setupTestService()
	ctx := context.Background()
	onboardTestStudent(t, svc)

	first := model.TermKey{Year: 1, Term: 1}
	_, _ = store.ToggleLock(ctx, first)
	if _, err := store.Assign(ctx, first, "cs102"); err != nil {
		t.Fatalf("排课失败: %v", err)
	}
	_, _ = store.ToggleLock(ctx, first)

	_, err := svc.Profile.AddCompletedByCode(ctx, &dto.AddCompletedRequest{Code: "CS102"})
	if !errors.Is(err, ErrCourseAlreadyDone) {
		t.Errorf("锁定学期中的课程期望 ErrCourseAlreadyDone，实际: %v", err)
	}
}

func TestProfileService_RemoveAndUndo(t *testing.T) {
	svc, _ := setupTestService()
	ctx := context.Background()
	onboardTestStudent(t, svc, "cs101")

	resp, err := svc.Profile.RemoveCompleted(ctx, "cs101")
	if err != nil {
		t.Fatalf("RemoveCompleted 失败: %v", err)
	}
	if len(resp.Profile.CompletedCourses) != 0 || !resp.CanUndo {
		t.Errorf("期望移除后档案为空且可撤销，实际 %+v", resp)
	}

	resp, err = svc.Profile.Undo(ctx)
	if err != nil {
		t.Fatalf("Undo 失败: %v", err)
	}
	if !resp.Profile.HasCompleted("cs101") {
		t.Error("撤销后期望恢复 cs101")
	}

	if _, err := svc.Profile.RemoveCompleted(ctx, "cs999"); !errors.Is(err, ErrCourseNotCompleted) {
		t.Errorf("期望 ErrCourseNotCompleted，实际: %v", err)
	}
}

func TestProfileService_ImportTranscript_RequiresProfile(t *testing.T) {
	svc, _ := setupTestService()

	_, err := svc.Profile.ImportTranscript(context.Background(), strings.NewReader("pdf"))
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("期望 ErrProfileNotFound，实际: %v", err)
	}
}

func TestProfileService_ImportTranscript_SampleData(t *testing.T) {
	svc, _ := setupTestService()
	ctx := context.Background()
	onboardTestStudent(t, svc, "cs101")

	resp, err := svc.Profile.ImportTranscript(ctx, strings.NewReader("%PDF-1.4 ..."))
	if err != nil {
		t.Fatalf("ImportTranscript 失败: %v", err)
	}
	// 样例：CS101 已修，MATH101/ENG101/PHYS101 不在目录中，仅 CS201 导入
	if resp.Imported != 1 || len(resp.Courses) != 1 || resp.Courses[0].CourseID != "cs201" {
		t.Errorf("期望仅导入 cs201，实际 %+v", resp.Courses)
	}
	if len(resp.Skipped) != 4 {
		t.Errorf("期望跳过 4 条，实际 %v", resp.Skipped)
	}
	if resp.Courses[0].Semester != "2022-1" {
		t.Errorf("期望保留成绩单学期 2022-1，实际 %s", resp.Courses[0].Semester)
	}
	if !resp.Profile.CanUndo {
		t.Error("导入后期望可撤销")
	}
}

func TestProfileService_ImportTranscript_EmptyUpload(t *testing.T) {
	svc, _ := setupTestService()
	onboardTestStudent(t, svc)

	_, err := svc.Profile.ImportTranscript(context.Background(), strings.NewReader(""))
	if !errors.Is(err, ErrTranscriptEmpty) {
		t.Errorf("期望 ErrTranscriptEmpty，实际: %v", err)
	}
}

func TestProfileService_ImportTranscript_ParserError(t *testing.T) {
	_, store := setupTestService()
	cat := testCatalog()
	profile := NewProfileService(cat, store, &mockTranscriptParser{err: errParserBroken}, zap.NewNop())
	_, _ = profile.Onboard(context.Background(), &dto.OnboardingRequest{EnrollmentYear: 2024, Major: testMajor})

	_, err := profile.ImportTranscript(context.Background(), strings.NewReader("x"))
	if !errors.Is(err, errParserBroken) {
		t.Errorf("期望包装解析器错误，实际: %v", err)
	}
}

func TestProfileService_ImportTranscript_CreditsFallback(t *testing.T) {
	_, store := setupTestService()
	parser := &mockTranscriptParser{entries: []TranscriptEntry{{Code: "cs322", Semester: "2023-1"}}}
	profile := NewProfileService(testCatalog(), store, parser, zap.NewNop())
	_, _ = profile.Onboard(context.Background(), &dto.OnboardingRequest{EnrollmentYear: 2024, Major: testMajor})

	resp, err := profile.ImportTranscript(context.Background(), strings.NewReader("x"))
	if err != nil {
		t.Fatalf("ImportTranscript 失败: %v", err)
	}
	if resp.Courses[0].Credits != 2 {
		t.Errorf("成绩单未给出学分时期望使用目录学分 2，实际 %d", resp.Courses[0].Credits)
	}
}
