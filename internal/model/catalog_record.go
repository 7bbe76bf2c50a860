package model

import "gorm.io/datatypes"

// CourseRecord 课程目录表 — 对应 courses
type CourseRecord struct {
	CourseID           string                        `gorm:"type:varchar(50);primaryKey"       json:"course_id"`
	Code               string                        `gorm:"type:varchar(50);not null;index"   json:"code"`
	Name               string                        `gorm:"type:varchar(200);not null"        json:"name"`
	Credits            int                           `gorm:"not null"                          json:"credits"`
	Category           string                        `gorm:"type:varchar(30);not null"         json:"category"`
	Department         string                        `gorm:"type:varchar(100)"                 json:"department"`
	Description        string                        `gorm:"type:text"                         json:"description"`
	OfferedIn          string                        `gorm:"type:varchar(10);not null"         json:"offered_in"`          // spring | fall | both
	RecommendedYear    int                           `gorm:"not null;default:0"                json:"recommended_year"`
	Area               string                        `gorm:"type:varchar(50)"                  json:"area"`
	Rating             *float64                      `json:"rating,omitempty"`
	Workload           string                        `gorm:"type:varchar(10)"                  json:"workload"`
	CareerFit          *int                          `json:"career_fit,omitempty"`
	Prerequisites      StringList                    `gorm:"type:text"                         json:"prerequisites"`
	RecommendedCourses StringList                    `gorm:"type:text"                         json:"recommended_courses"`
	Corequisites       StringList                    `gorm:"type:text"                         json:"corequisites"`
	Equivalents        StringList                    `gorm:"type:text"                         json:"equivalents"`
	MutuallyExclusive  StringList                    `gorm:"type:text"                         json:"mutually_exclusive"`
	Schedule           datatypes.JSONSlice[TimeSlot] `json:"schedule"`
	BaseModel
}

// TableName 指定表名
func (CourseRecord) TableName() string { return "courses" }

// ToCourse 转换为领域模型；类别取值经过旧版映射
func (r *CourseRecord) ToCourse() Course {
	category, ok := ParseCategory(r.Category)
	if !ok {
		category = Category(r.Category)
	}
	return Course{
		ID:                 r.CourseID,
		Code:               r.Code,
		Name:               r.Name,
		Credits:            r.Credits,
		Category:           category,
		Department:         r.Department,
		Description:        r.Description,
		OfferedIn:          Offering(r.OfferedIn),
		RecommendedYear:    r.RecommendedYear,
		Area:               r.Area,
		Rating:             r.Rating,
		Workload:           Workload(r.Workload),
		CareerFit:          r.CareerFit,
		Prerequisites:      append([]string(nil), r.Prerequisites...),
		RecommendedCourses: append([]string(nil), r.RecommendedCourses...),
		Corequisites:       append([]string(nil), r.Corequisites...),
		Equivalents:        append([]string(nil), r.Equivalents...),
		MutuallyExclusive:  append([]string(nil), r.MutuallyExclusive...),
		Schedule:           append([]TimeSlot(nil), r.Schedule...),
	}
}

// NewCourseRecord 由领域模型构建数据库记录
func NewCourseRecord(c Course) *CourseRecord {
	return &CourseRecord{
		CourseID:           c.ID,
		Code:               c.Code,
		Name:               c.Name,
		Credits:            c.Credits,
		Category:           string(c.Category),
		Department:         c.Department,
		Description:        c.Description,
		OfferedIn:          string(c.OfferedIn),
		RecommendedYear:    c.RecommendedYear,
		Area:               c.Area,
		Rating:             c.Rating,
		Workload:           string(c.Workload),
		CareerFit:          c.CareerFit,
		Prerequisites:      StringList(c.Prerequisites),
		RecommendedCourses: StringList(c.RecommendedCourses),
		Corequisites:       StringList(c.Corequisites),
		Equivalents:        StringList(c.Equivalents),
		MutuallyExclusive:  StringList(c.MutuallyExclusive),
		Schedule:           datatypes.JSONSlice[TimeSlot](c.Schedule),
	}
}

// RequirementRuleRecord 毕业要求规则表 — 对应 requirement_rules
type RequirementRuleRecord struct {
	RuleID         uint                    `gorm:"primaryKey;autoIncrement"                       json:"rule_id"`
	EnrollmentYear int                     `gorm:"not null;uniqueIndex:idx_rule_year_major"       json:"enrollment_year"`
	Major          string                  `gorm:"type:varchar(100);not null;uniqueIndex:idx_rule_year_major" json:"major"`
	TotalCredits   int                     `gorm:"not null"                                       json:"total_credits"`
	Areas          []RequirementAreaRecord `gorm:"foreignKey:RuleID;references:RuleID"            json:"areas,omitempty"`
	BaseModel
}

// TableName 指定表名
func (RequirementRuleRecord) TableName() string { return "requirement_rules" }

// RequirementAreaRecord 毕业要求区块表 — 对应 requirement_areas
type RequirementAreaRecord struct {
	RecordID        uint       `gorm:"primaryKey;autoIncrement"    json:"record_id"`
	RuleID          uint       `gorm:"not null;index"              json:"rule_id"`
	Position        int        `gorm:"not null"                    json:"position"`
	AreaID          string     `gorm:"type:varchar(50);not null"   json:"area_id"`
	Name            string     `gorm:"type:varchar(100);not null"  json:"name"`
	Category        string     `gorm:"type:varchar(30);not null"   json:"category"`
	RequiredCredits int        `gorm:"not null"                    json:"required_credits"`
	Courses         StringList `gorm:"type:text"                   json:"courses"`
	Area            string     `gorm:"type:varchar(50)"            json:"area"`
}

// TableName 指定表名
func (RequirementAreaRecord) TableName() string { return "requirement_areas" }

// ToRule 转换为领域模型（区块按 Position 排序后传入）
func (r *RequirementRuleRecord) ToRule() RequirementRule {
	rule := RequirementRule{
		EnrollmentYear: r.EnrollmentYear,
		Major:          r.Major,
		TotalCredits:   r.TotalCredits,
		Areas:          make([]RequirementArea, 0, len(r.Areas)),
	}
	for _, a := range r.Areas {
		category, ok := ParseCategory(a.Category)
		if !ok {
			category = Category(a.Category)
		}
		rule.Areas = append(rule.Areas, RequirementArea{
			ID:              a.AreaID,
			Name:            a.Name,
			Category:        category,
			RequiredCredits: a.RequiredCredits,
			Courses:         append([]string(nil), a.Courses...),
			Area:            a.Area,
		})
	}
	return rule
}

// NewRequirementRuleRecord 由领域模型构建数据库记录
func NewRequirementRuleRecord(rule RequirementRule) *RequirementRuleRecord {
	rec := &RequirementRuleRecord{
		EnrollmentYear: rule.EnrollmentYear,
		Major:          rule.Major,
		TotalCredits:   rule.TotalCredits,
		Areas:          make([]RequirementAreaRecord, 0, len(rule.Areas)),
	}
	for i, a := range rule.Areas {
		rec.Areas = append(rec.Areas, RequirementAreaRecord{
			Position:        i,
			AreaID:          a.ID,
			Name:            a.Name,
			Category:        string(a.Category),
			RequiredCredits: a.RequiredCredits,
			Courses:         StringList(a.Courses),
			Area:            a.Area,
		})
	}
	return rec
}
