package model

// CompletedCourse 已修课程记录；学分为修读时的快照，不随目录变化
type CompletedCourse struct {
	CourseID string `json:"course_id"`
	Semester string `json:"semester"`
	Grade    string `json:"grade,omitempty"`
	Credits  int    `json:"credits"`
}

// UserProfile 学生档案
type UserProfile struct {
	EnrollmentYear   int               `json:"enrollment_year"`
	Major            string            `json:"major"`
	CompletedCourses []CompletedCourse `json:"completed_courses"`
}

// Clone 深拷贝档案
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.CompletedCourses = append([]CompletedCourse(nil), p.CompletedCourses...)
	return &cp
}

// CompletedIDs 返回已修课程 ID（保持原顺序）
func (p *UserProfile) CompletedIDs() []string {
	if p == nil {
		return nil
	}
	ids := make([]string, 0, len(p.CompletedCourses))
	for _, c := range p.CompletedCourses {
		ids = append(ids, c.CourseID)
	}
	return ids
}

// HasCompleted 档案中是否已记录该课程
func (p *UserProfile) HasCompleted(courseID string) bool {
	if p == nil {
		return false
	}
	for _, c := range p.CompletedCourses {
		if c.CourseID == courseID {
			return true
		}
	}
	return false
}
