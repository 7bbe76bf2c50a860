package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/dto"
	"uni-guide/backend/internal/engine"
	"uni-guide/backend/internal/planner"
)

// ── 周课表模块业务错误 ──

var (
	ErrTimetableNoStartDate = errors.New("无法从学期标签推算开学日期，请指定 start_date")
	ErrTimetableNoSlots     = errors.New("计划中的课程均无上课时段")
)

const (
	shanghaiTimezone = "Asia/Shanghai"
	icsProductID     = "-//uni-guide//course planner//CN"
)

// TimetableService 周课表业务接口
type TimetableService interface {
	// Weekly 学期计划的周课表，含时段冲突
	Weekly(ctx context.Context, planID string) (*dto.TimetableResponse, error)
	// ExportICS 将周课表导出为 iCalendar，返回内容与建议文件名
	ExportICS(ctx context.Context, planID string, req *dto.ExportICSRequest) ([]byte, string, error)
}

type timetableService struct {
	cat    *catalog.Catalog
	store  *planner.Store
	loc    *time.Location
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(cat *catalog.Catalog, store *planner.Store, logger *zap.Logger) TimetableService {
	loc, err := time.LoadLocation(shanghaiTimezone)
	if err != nil {
		loc = time.FixedZone("CST", 8*3600)
	}
	return &timetableService{cat: cat, store: store, loc: loc, logger: logger}
}

func (s *timetableService) Weekly(_ context.Context, planID string) (*dto.TimetableResponse, error) {
	snap := s.store.Snapshot()
	plan, ok := snap.Plan(planID)
	if !ok {
		return nil, ErrPlanNotFound
	}

	tt := engine.WeeklyTimetable(s.cat, plan.Courses)
	return &dto.TimetableResponse{
		PlanID:      plan.ID,
		Semester:    plan.Semester,
		Days:        engine.Weekdays,
		Entries:     tt.Entries,
		Conflicts:   tt.Conflicts,
		Unscheduled: courseRefs(s.cat, tt.Unscheduled),
	}, nil
}

// ════════════════════════════════════════════════════════════
// ExportICS 导出 iCalendar
// ════════════════════════════════════════════════════════════
//
// 每个上课时段生成一个每周重复的 VEVENT：
//   - DTSTART 为开学第一周对应星期的上课时间
//   - RRULE:FREQ=WEEKLY;COUNT=<周数>
//   - 开学日期取请求参数，缺省时由学期标签推算（"2025-1" → 2025 年 3 月第一周）

func (s *timetableService) ExportICS(_ context.Context, planID string, req *dto.ExportICSRequest) ([]byte, string, error) {
	snap := s.store.Snapshot()
	plan, ok := snap.Plan(planID)
	if !ok {
		return nil, "", ErrPlanNotFound
	}

	start, err := s.resolveStart(req.StartDate, plan.Semester)
	if err != nil {
		return nil, "", err
	}

	tt := engine.WeeklyTimetable(s.cat, plan.Courses)
	if len(tt.Entries) == 0 {
		return nil, "", ErrTimetableNoSlots
	}

	weeks := req.GetWeeks()
	stamp := time.Now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(fmt.Sprintf("%s 课表", plan.Semester))
	cal.SetXWRTimezone(shanghaiTimezone)

	for i, e := range tt.Entries {
		day := start.AddDate(0, 0, e.Day)
		begin := time.Date(day.Year(), day.Month(), day.Day(), e.StartHour, 0, 0, 0, s.loc)
		end := time.Date(day.Year(), day.Month(), day.Day(), e.EndHour, 0, 0, 0, s.loc)

		event := cal.AddEvent(fmt.Sprintf("%s-%s-%d@uni-guide", plan.ID, e.CourseID, i))
		event.SetDtStampTime(stamp)
		event.SetStartAt(begin)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s %s", e.CourseCode, e.CourseName))
		if e.Room != "" {
			event.SetLocation(e.Room)
		}
		event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", weeks))
	}

	s.logger.Info("导出 ICS 课表",
		zap.String("plan_id", plan.ID),
		zap.Int("events", len(tt.Entries)),
		zap.Int("weeks", weeks),
	)
	filename := fmt.Sprintf("课表_%s.ics", plan.Semester)
	return []byte(cal.Serialize()), filename, nil
}

// resolveStart 返回开学第一周的周一
func (s *timetableService) resolveStart(startDate, semester string) (time.Time, error) {
	var day time.Time
	if startDate != "" {
		t, err := time.ParseInLocation("2006-01-02", startDate, s.loc)
		if err != nil {
			return time.Time{}, ErrTimetableNoStartDate
		}
		day = t
	} else {
		t, ok := semesterStart(semester, s.loc)
		if !ok {
			return time.Time{}, ErrTimetableNoStartDate
		}
		day = t
	}
	return mondayOf(day), nil
}

// semesterStart 由 "YYYY-T" 推算开学日期：第 1 学期 3 月 1 日，第 2 学期 9 月 1 日
func semesterStart(label string, loc *time.Location) (time.Time, bool) {
	parts := strings.SplitN(strings.TrimSpace(label), "-", 2)
	if len(parts) != 2 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1900 {
		return time.Time{}, false
	}
	switch parts[1] {
	case "1":
		return time.Date(year, time.March, 1, 0, 0, 0, 0, loc), true
	case "2":
		return time.Date(year, time.September, 1, 0, 0, 0, 0, loc), true
	default:
		return time.Time{}, false
	}
}

// mondayOf 返回 t 所在周的周一 0 点
func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}
