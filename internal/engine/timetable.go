package engine

import (
	"sort"

	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/model"
)

// Weekdays 周一至周五
var Weekdays = []string{"周一", "周二", "周三", "周四", "周五"}

// TimetableEntry 课表中的一个上课时段
type TimetableEntry struct {
	CourseID   string `json:"course_id"`
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
	model.TimeSlot
}

// TimetableConflict 两门课程的上课时段重叠
type TimetableConflict struct {
	Day     int      `json:"day"`
	Courses []string `json:"courses"`
}

// Timetable 周课表
type Timetable struct {
	Entries     []TimetableEntry    `json:"entries"`
	Conflicts   []TimetableConflict `json:"conflicts"`
	Unscheduled []string            `json:"unscheduled"` // 没有排课信息的课程
}

// WeeklyTimetable 按课程的上课时段生成周课表，并标出时段冲突
func WeeklyTimetable(cat *catalog.Catalog, courseIDs []string) Timetable {
	tt := Timetable{Entries: []TimetableEntry{}, Conflicts: []TimetableConflict{}, Unscheduled: []string{}}

	for _, id := range courseIDs {
		c, ok := cat.Course(id)
		if !ok {
			continue
		}
		if len(c.Schedule) == 0 {
			tt.Unscheduled = append(tt.Unscheduled, c.ID)
			continue
		}
		for _, slot := range c.Schedule {
			tt.Entries = append(tt.Entries, TimetableEntry{
				CourseID:   c.ID,
				CourseCode: c.Code,
				CourseName: c.Name,
				TimeSlot:   slot,
			})
		}
	}

	sort.SliceStable(tt.Entries, func(i, j int) bool {
		a, b := tt.Entries[i], tt.Entries[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.StartHour < b.StartHour
	})

	for i := 0; i < len(tt.Entries); i++ {
		for j := i + 1; j < len(tt.Entries); j++ {
			a, b := tt.Entries[i], tt.Entries[j]
			if a.CourseID == b.CourseID || !a.Overlaps(b.TimeSlot) {
				continue
			}
			tt.Conflicts = append(tt.Conflicts, TimetableConflict{
				Day:     a.Day,
				Courses: []string{a.CourseID, b.CourseID},
			})
		}
	}
	return tt
}
