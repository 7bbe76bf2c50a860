package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/model"
	"uni-guide/backend/internal/service"
	"uni-guide/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock CatalogService ──

type mockCatalogService struct {
	listResult *dto.CourseListResponse
	listErr    error
	getResult  *dto.CourseDetailResponse
	getErr     error
	lastList   *dto.CourseListRequest
}

func (m *mockCatalogService) List(_ context.Context, req *dto.CourseListRequest) (*dto.CourseListResponse, error) {
	m.lastList = req
	return m.listResult, m.listErr
}
func (m *mockCatalogService) Get(_ context.Context, _ string) (*dto.CourseDetailResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockCatalogService) Integrity(_ context.Context) catalog.IntegrityReport {
	return catalog.IntegrityReport{Status: catalog.StatusPass}
}

// ── Mock ProfileService ──

type mockProfileService struct {
	result    *dto.ProfileResponse
	err       error
	importRes *dto.TranscriptImportResponse
	importErr error
	uploaded  string
}

func (m *mockProfileService) Get(_ context.Context) (*dto.ProfileResponse, error) {
	return m.result, m.err
}
func (m *mockProfileService) Onboard(_ context.Context, _ *dto.OnboardingRequest) (*dto.ProfileResponse, error) {
	return m.result, m.err
}
func (m *mockProfileService) AddCompletedByCode(_ context.Context, _ *dto.AddCompletedRequest) (*dto.ProfileResponse, error) {
	return m.result, m.err
}
func (m *mockProfileService) RemoveCompleted(_ context.Context, _ string) (*dto.ProfileResponse, error) {
	return m.result, m.err
}
func (m *mockProfileService) Undo(_ context.Context) (*dto.ProfileResponse, error) {
	return m.result, m.err
}
func (m *mockProfileService) ImportTranscript(_ context.Context, r io.Reader) (*dto.TranscriptImportResponse, error) {
	b, _ := io.ReadAll(r)
	m.uploaded = string(b)
	return m.importRes, m.importErr
}

// ── Mock PlanService ──

type mockPlanService struct {
	result         *dto.PlanResponse
	err            error
	validateResult *dto.PlanValidationResponse
	lastCourseID   string
}

func (m *mockPlanService) List(_ context.Context) ([]dto.PlanResponse, error) {
	if m.result == nil {
		return []dto.PlanResponse{}, m.err
	}
	return []dto.PlanResponse{*m.result}, m.err
}
func (m *mockPlanService) Create(_ context.Context, _ *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	return m.result, m.err
}
func (m *mockPlanService) Get(_ context.Context, _ string) (*dto.PlanResponse, error) {
	return m.result, m.err
}
func (m *mockPlanService) Update(_ context.Context, _ string, _ *dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	return m.result, m.err
}
func (m *mockPlanService) Delete(_ context.Context, _ string) error {
	return m.err
}
func (m *mockPlanService) SetCurrent(_ context.Context, _ string) (*dto.PlanResponse, error) {
	return m.result, m.err
}
func (m *mockPlanService) AddCourse(_ context.Context, _, courseID string) (*dto.PlanResponse, error) {
	m.lastCourseID = courseID
	return m.result, m.err
}
func (m *mockPlanService) RemoveCourse(_ context.Context, _, courseID string) (*dto.PlanResponse, error) {
	m.lastCourseID = courseID
	return m.result, m.err
}
func (m *mockPlanService) Validate(_ context.Context, _ string) (*dto.PlanValidationResponse, error) {
	return m.validateResult, m.err
}

// ── Mock CurriculumService ──

type mockCurriculumService struct {
	result   *dto.CurriculumResponse
	err      error
	issues   []model.ValidationIssue
	lastMove *dto.MoveRequest
}

func (m *mockCurriculumService) Get(_ context.Context) (*dto.CurriculumResponse, error) {
	return m.result, m.err
}
func (m *mockCurriculumService) Assign(_ context.Context, _ *dto.AssignRequest) (*dto.CurriculumResponse, error) {
	return m.result, m.err
}
func (m *mockCurriculumService) Unassign(_ context.Context, _ *dto.AssignRequest) (*dto.CurriculumResponse, error) {
	return m.result, m.err
}
func (m *mockCurriculumService) Move(_ context.Context, req *dto.MoveRequest) (*dto.CurriculumResponse, error) {
	m.lastMove = req
	return m.result, m.err
}
func (m *mockCurriculumService) ToggleLock(_ context.Context, _ *dto.TermRequest) (*dto.CurriculumResponse, error) {
	return m.result, m.err
}
func (m *mockCurriculumService) SetCurrent(_ context.Context, _ *dto.TermRequest) (*dto.CurriculumResponse, error) {
	return m.result, m.err
}
func (m *mockCurriculumService) AddSaved(_ context.Context, _ string) (*dto.CurriculumResponse, error) {
	return m.result, m.err
}
func (m *mockCurriculumService) RemoveSaved(_ context.Context, _ string) (*dto.CurriculumResponse, error) {
	return m.result, m.err
}
func (m *mockCurriculumService) Reset(_ context.Context) (*dto.CurriculumResponse, error) {
	return m.result, m.err
}
func (m *mockCurriculumService) Check(_ context.Context) ([]model.ValidationIssue, error) {
	return m.issues, m.err
}

// ── Mock WizardService ──

type mockWizardService struct {
	result      *dto.WizardResponse
	err         error
	applyResult *dto.CurriculumResponse
}

func (m *mockWizardService) State(_ context.Context) *dto.WizardResponse {
	return m.result
}
func (m *mockWizardService) SelectCareer(_ context.Context, _ string) (*dto.WizardResponse, error) {
	return m.result, m.err
}
func (m *mockWizardService) SelectMode(_ context.Context, _ string) (*dto.WizardResponse, error) {
	return m.result, m.err
}
func (m *mockWizardService) SelectCourses(_ context.Context, _ []string) (*dto.WizardResponse, error) {
	return m.result, m.err
}
func (m *mockWizardService) Apply(_ context.Context) (*dto.CurriculumResponse, error) {
	return m.applyResult, m.err
}
func (m *mockWizardService) Back(_ context.Context) (*dto.WizardResponse, error) {
	return m.result, m.err
}
func (m *mockWizardService) Reset(_ context.Context) *dto.WizardResponse {
	return m.result
}
func (m *mockWizardService) Close() {}

// ── Mock TimetableService ──

type mockTimetableService struct {
	weekly   *dto.TimetableResponse
	data     []byte
	filename string
	err      error
}

func (m *mockTimetableService) Weekly(_ context.Context, _ string) (*dto.TimetableResponse, error) {
	return m.weekly, m.err
}
func (m *mockTimetableService) ExportICS(_ context.Context, _ string, _ *dto.ExportICSRequest) ([]byte, string, error) {
	return m.data, m.filename, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportCurriculum(_ context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(method, routePath, target string, h gin.HandlerFunc, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r := gin.New()
	r.Handle(method, routePath, h)
	r.ServeHTTP(w, req)
	return w
}

func assertCode(t *testing.T, w *httptest.ResponseRecorder, status, code int) {
	t.Helper()
	if w.Code != status {
		t.Errorf("expected %d, got %d (body=%s)", status, w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp.Code != code {
		t.Errorf("expected error code %d, got %d", code, resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CatalogHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCatalogHandler_ListCourses_Page(t *testing.T) {
	mock := &mockCatalogService{listResult: &dto.CourseListResponse{
		Items:    []dto.CourseSummary{{}, {}},
		Total:    25,
		Page:     2,
		PageSize: 10,
	}}
	h := NewCatalogHandler(mock)

	w := serve("GET", "/courses", "/courses?q=data&term=1&page=2&page_size=10", h.ListCourses, nil)
	assertCode(t, w, http.StatusOK, 0)

	var body struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.TotalPages != 3 || body.Data.Pagination.Total != 25 {
		t.Errorf("分页信息错误: %+v", body.Data.Pagination)
	}
	if mock.lastList == nil || mock.lastList.Query != "data" || mock.lastList.Term != 1 {
		t.Errorf("查询参数未正确绑定: %+v", mock.lastList)
	}
}

func TestCatalogHandler_ListCourses_BadQuery(t *testing.T) {
	h := NewCatalogHandler(&mockCatalogService{})

	w := serve("GET", "/courses", "/courses?term=3", h.ListCourses, nil)
	assertCode(t, w, http.StatusBadRequest, 10001)
}

func TestCatalogHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"课程不存在", service.ErrCourseNotFound, http.StatusNotFound, 20001},
		{"未知类别", service.ErrInvalidCategory, http.StatusBadRequest, 20002},
		{"内部错误", errors.New("boom"), http.StatusInternalServerError, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCatalogHandler(&mockCatalogService{getErr: tt.err})
			w := serve("GET", "/courses/:id", "/courses/cs999", h.GetCourse, nil)
			assertCode(t, w, tt.status, tt.code)
		})
	}
}

func TestCatalogHandler_Integrity(t *testing.T) {
	h := NewCatalogHandler(&mockCatalogService{})
	w := serve("GET", "/integrity", "/integrity", h.Integrity, nil)
	assertCode(t, w, http.StatusOK, 0)
	if !strings.Contains(w.Body.String(), `"status":"pass"`) {
		t.Errorf("应返回完整性报告，实际 %s", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// ProfileHandler Tests
// ═══════════════════════════════════════════════════════════

func TestProfileHandler_Onboard_Created(t *testing.T) {
	mock := &mockProfileService{result: &dto.ProfileResponse{OnboardingCompleted: true}}
	h := NewProfileHandler(mock)

	w := serve("POST", "/onboarding", "/onboarding", h.Onboard, jsonBody(dto.OnboardingRequest{
		EnrollmentYear: 2024,
		Major:          "计算机科学与技术",
	}))
	assertCode(t, w, http.StatusCreated, 0)
}

func TestProfileHandler_Onboard_Validation(t *testing.T) {
	h := NewProfileHandler(&mockProfileService{})

	w := serve("POST", "/onboarding", "/onboarding", h.Onboard, jsonBody(map[string]interface{}{
		"enrollment_year": 1990,
		"major":           "计算机科学与技术",
	}))
	assertCode(t, w, http.StatusBadRequest, 10001)

	w = serve("POST", "/onboarding", "/onboarding", h.Onboard, strings.NewReader("invalid json"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestProfileHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"未完成引导", service.ErrProfileNotFound, http.StatusNotFound, 21001},
		{"已修", service.ErrCourseAlreadyDone, http.StatusConflict, 21003},
		{"无可撤销", service.ErrNothingToUndo, http.StatusBadRequest, 21006},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewProfileHandler(&mockProfileService{err: tt.err})
			w := serve("POST", "/undo", "/undo", h.Undo, nil)
			assertCode(t, w, tt.status, tt.code)
		})
	}
}

func TestProfileHandler_ImportTranscript(t *testing.T) {
	mock := &mockProfileService{importRes: &dto.TranscriptImportResponse{Imported: 1}}
	h := NewProfileHandler(mock)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "transcript.pdf")
	fw.Write([]byte("%PDF-1.4"))
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/transcript", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r := gin.New()
	r.POST("/transcript", h.ImportTranscript)
	r.ServeHTTP(w, req)

	assertCode(t, w, http.StatusOK, 0)
	if mock.uploaded != "%PDF-1.4" {
		t.Errorf("上传内容未传递给服务，实际 %q", mock.uploaded)
	}
}

func TestProfileHandler_ImportTranscript_MissingFile(t *testing.T) {
	h := NewProfileHandler(&mockProfileService{})
	w := serve("POST", "/transcript", "/transcript", h.ImportTranscript, nil)
	assertCode(t, w, http.StatusBadRequest, 21005)
}

// ═══════════════════════════════════════════════════════════
// PlanHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPlanHandler_Create(t *testing.T) {
	mock := &mockPlanService{result: &dto.PlanResponse{ID: "p1", Semester: "2025-1", IsCurrent: true}}
	h := NewPlanHandler(mock)

	w := serve("POST", "/plans", "/plans", h.CreatePlan, jsonBody(dto.CreatePlanRequest{Semester: "2025-1"}))
	assertCode(t, w, http.StatusCreated, 0)

	w = serve("POST", "/plans", "/plans", h.CreatePlan, jsonBody(map[string]string{}))
	assertCode(t, w, http.StatusBadRequest, 10001)
}

func TestPlanHandler_List(t *testing.T) {
	h := NewPlanHandler(&mockPlanService{})
	w := serve("GET", "/plans", "/plans", h.ListPlans, nil)
	assertCode(t, w, http.StatusOK, 0)
	if !strings.Contains(w.Body.String(), `"list":[]`) {
		t.Errorf("空列表应返回 []，实际 %s", w.Body.String())
	}
}

func TestPlanHandler_AddCourse(t *testing.T) {
	mock := &mockPlanService{result: &dto.PlanResponse{ID: "p1"}}
	h := NewPlanHandler(mock)

	w := serve("POST", "/plans/:id/courses", "/plans/p1/courses", h.AddCourse, jsonBody(dto.PlanCourseRequest{CourseID: "cs101"}))
	assertCode(t, w, http.StatusOK, 0)
	if mock.lastCourseID != "cs101" {
		t.Errorf("expected cs101, got %q", mock.lastCourseID)
	}

	mock.err = service.ErrCourseAlreadyInPlan
	w = serve("POST", "/plans/:id/courses", "/plans/p1/courses", h.AddCourse, jsonBody(dto.PlanCourseRequest{CourseID: "cs101"}))
	assertCode(t, w, http.StatusConflict, 22003)
}

func TestPlanHandler_NotFound(t *testing.T) {
	h := NewPlanHandler(&mockPlanService{err: service.ErrPlanNotFound})

	for _, tc := range []struct {
		method, route, target string
		fn                    gin.HandlerFunc
	}{
		{"GET", "/plans/:id", "/plans/nope", h.GetPlan},
		{"DELETE", "/plans/:id", "/plans/nope", h.DeletePlan},
		{"PUT", "/plans/:id/current", "/plans/nope/current", h.SetCurrentPlan},
		{"GET", "/plans/:id/validation", "/plans/nope/validation", h.ValidatePlan},
	} {
		w := serve(tc.method, tc.route, tc.target, tc.fn, nil)
		if w.Code != http.StatusNotFound || parseResponse(w).Code != 22001 {
			t.Errorf("%s %s: 期望 404/22001，实际 %d/%d", tc.method, tc.target, w.Code, parseResponse(w).Code)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// CurriculumHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCurriculumHandler_Assign(t *testing.T) {
	mock := &mockCurriculumService{result: &dto.CurriculumResponse{ID: "curriculum-default"}}
	h := NewCurriculumHandler(mock)

	body := map[string]interface{}{"year": 2, "term": 1, "course_id": "cs201"}
	w := serve("POST", "/assign", "/assign", h.Assign, jsonBody(body))
	assertCode(t, w, http.StatusOK, 0)

	// term 只能为 1 或 2
	body["term"] = 3
	w = serve("POST", "/assign", "/assign", h.Assign, jsonBody(body))
	assertCode(t, w, http.StatusBadRequest, 10001)
}

func TestCurriculumHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"学期已锁定", service.ErrSemesterLocked, http.StatusConflict, 23003},
		{"学期不存在", service.ErrSemesterNotFound, http.StatusNotFound, 23002},
		{"已排课", service.ErrCourseAlreadyScheduled, http.StatusConflict, 23004},
		{"目标冲突", service.ErrMoveConflict, http.StatusConflict, 23006},
		{"不在待排池", service.ErrCourseNotSaved, http.StatusNotFound, 23008},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCurriculumHandler(&mockCurriculumService{err: tt.err})
			body := map[string]interface{}{"course_id": "cs201", "to": map[string]int{"year": 3, "term": 1}}
			w := serve("POST", "/move", "/move", h.Move, jsonBody(body))
			assertCode(t, w, tt.status, tt.code)
		})
	}
}

func TestCurriculumHandler_MoveFromSaved(t *testing.T) {
	mock := &mockCurriculumService{result: &dto.CurriculumResponse{}}
	h := NewCurriculumHandler(mock)

	body := map[string]interface{}{"course_id": "cs201", "to": map[string]int{"year": 3, "term": 1}}
	w := serve("POST", "/move", "/move", h.Move, jsonBody(body))
	assertCode(t, w, http.StatusOK, 0)
	if mock.lastMove == nil || mock.lastMove.From != nil {
		t.Errorf("省略 from 时应表示从待排池移入，实际 %+v", mock.lastMove)
	}
}

func TestCurriculumHandler_Validate(t *testing.T) {
	mock := &mockCurriculumService{issues: []model.ValidationIssue{{CourseID: "cs201"}}}
	h := NewCurriculumHandler(mock)

	w := serve("GET", "/validation", "/validation", h.Validate, nil)
	assertCode(t, w, http.StatusOK, 0)
	if !strings.Contains(w.Body.String(), `"issues"`) {
		t.Errorf("应返回 issues 字段，实际 %s", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// WizardHandler Tests
// ═══════════════════════════════════════════════════════════

func TestWizardHandler_SelectMode_Accepted(t *testing.T) {
	mock := &mockWizardService{result: &dto.WizardResponse{Step: "loading-courses"}}
	h := NewWizardHandler(mock)

	w := serve("POST", "/mode", "/mode", h.SelectMode, jsonBody(dto.WizardModeRequest{Mode: "career-focused"}))
	assertCode(t, w, http.StatusAccepted, 0)

	w = serve("POST", "/mode", "/mode", h.SelectMode, jsonBody(dto.WizardModeRequest{Mode: "fastest"}))
	assertCode(t, w, http.StatusBadRequest, 10001)
}

func TestWizardHandler_Errors(t *testing.T) {
	h := NewWizardHandler(&mockWizardService{err: service.ErrWizardInvalidStep})
	w := serve("POST", "/career", "/career", h.SelectCareer, jsonBody(dto.WizardCareerRequest{Career: "backend"}))
	assertCode(t, w, http.StatusConflict, 25001)

	h = NewWizardHandler(&mockWizardService{err: service.ErrWizardEmptyResult})
	w = serve("POST", "/apply", "/apply", h.Apply, nil)
	assertCode(t, w, http.StatusBadRequest, 25003)
}

func TestWizardHandler_Apply(t *testing.T) {
	h := NewWizardHandler(&mockWizardService{applyResult: &dto.CurriculumResponse{ID: "curriculum-default"}})
	w := serve("POST", "/apply", "/apply", h.Apply, nil)
	assertCode(t, w, http.StatusOK, 0)
}

// ═══════════════════════════════════════════════════════════
// TimetableHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTimetableHandler_ExportICS(t *testing.T) {
	mock := &mockTimetableService{data: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), filename: "课表_2025-1.ics"}
	h := NewTimetableHandler(mock)

	w := serve("GET", "/plans/:id/timetable.ics", "/plans/p1/timetable.ics?start_date=2025-09-01&weeks=18", h.ExportICS, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "filename*=UTF-8''") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestTimetableHandler_ExportICS_Errors(t *testing.T) {
	h := NewTimetableHandler(&mockTimetableService{})
	w := serve("GET", "/plans/:id/timetable.ics", "/plans/p1/timetable.ics?start_date=09/01/2025", h.ExportICS, nil)
	assertCode(t, w, http.StatusBadRequest, 10001)

	w = serve("GET", "/plans/:id/timetable.ics", "/plans/p1/timetable.ics?weeks=99", h.ExportICS, nil)
	assertCode(t, w, http.StatusBadRequest, 10001)

	h = NewTimetableHandler(&mockTimetableService{err: service.ErrTimetableNoSlots})
	w = serve("GET", "/plans/:id/timetable.ics", "/plans/p1/timetable.ics", h.ExportICS, nil)
	assertCode(t, w, http.StatusBadRequest, 26003)
}

func TestTimetableHandler_GetWeekly_NotFound(t *testing.T) {
	h := NewTimetableHandler(&mockTimetableService{err: service.ErrPlanNotFound})
	w := serve("GET", "/plans/:id/timetable", "/plans/p1/timetable", h.GetWeekly, nil)
	assertCode(t, w, http.StatusNotFound, 26001)
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportCurriculum(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("PK"), filename: "课程规划_20250301.xlsx"}
	h := NewExportHandler(mock)

	w := serve("GET", "/export", "/export", h.ExportCurriculum, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if w.Body.String() != "PK" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestExportHandler_Empty(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportEmpty})
	w := serve("GET", "/export", "/export", h.ExportCurriculum, nil)
	assertCode(t, w, http.StatusBadRequest, 27001)
}

// ═══════════════════════════════════════════════════════════
// HealthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestHealthHandler_Disabled(t *testing.T) {
	h := NewHealthHandler(42, nil, nil)
	w := serve("GET", "/health", "/health", h.Health, nil)
	assertCode(t, w, http.StatusOK, 0)

	var body struct {
		Data dto.HealthResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Status != "ok" || body.Data.Database != "disabled" || body.Data.Redis != "disabled" || body.Data.Courses != 42 {
		t.Errorf("unexpected health %+v", body.Data)
	}
}
