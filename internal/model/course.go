package model

import (
	"slices"
	"strings"
)

// Category 课程类别（封闭枚举）
type Category string

const (
	CategoryMajorRequired      Category = "major-required"
	CategoryMajorElective      Category = "major-elective"
	CategoryUniversityRequired Category = "university-required"
	CategoryDepartmentRequired Category = "department-required"
)

// 旧版数据中的类别取值，仅在加载时映射，不作为合法类别保留
const (
	legacyGeneralRequired = "general-required"
	legacyGeneralElective = "general-elective"
)

// ParseCategory 解析类别字符串，旧版 general-* 映射到 university-required
func ParseCategory(s string) (Category, bool) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryMajorRequired, CategoryMajorElective, CategoryUniversityRequired, CategoryDepartmentRequired:
		return c, true
	case legacyGeneralRequired, legacyGeneralElective:
		return CategoryUniversityRequired, true
	default:
		return "", false
	}
}

// IsMajor 是否为专业类课程
func (c Category) IsMajor() bool {
	return c == CategoryMajorRequired || c == CategoryMajorElective
}

// Offering 开课学期
type Offering string

const (
	OfferingSpring Offering = "spring"
	OfferingFall   Offering = "fall"
	OfferingBoth   Offering = "both"
)

// Workload 课业负担档位
type Workload string

const (
	WorkloadLow    Workload = "low"
	WorkloadMedium Workload = "medium"
	WorkloadHigh   Workload = "high"
)

// Rank 负担排序值：low=1, medium=2, high=3；未知按 medium 处理
func (w Workload) Rank() int {
	switch w {
	case WorkloadLow:
		return 1
	case WorkloadHigh:
		return 3
	default:
		return 2
	}
}

// TimeSlot 课程每周上课时段
type TimeSlot struct {
	Day       int    `json:"day"        yaml:"day"`        // 0=周一 … 4=周五
	StartHour int    `json:"start_hour" yaml:"start_hour"` // 9-18
	EndHour   int    `json:"end_hour"   yaml:"end_hour"`
	Room      string `json:"room,omitempty" yaml:"room,omitempty"`
}

// Overlaps 两个时段是否在同一天且时间重叠
func (t TimeSlot) Overlaps(o TimeSlot) bool {
	return t.Day == o.Day && t.StartHour < o.EndHour && o.StartHour < t.EndHour
}

// Course 课程目录条目，会话期间只读
type Course struct {
	ID                 string     `json:"id"`
	Code               string     `json:"code"`
	Name               string     `json:"name"`
	Credits            int        `json:"credits"`
	Category           Category   `json:"category"`
	Department         string     `json:"department"`
	Description        string     `json:"description"`
	OfferedIn          Offering   `json:"offered_in"`
	RecommendedYear    int        `json:"recommended_year,omitempty"`
	Area               string     `json:"area,omitempty"`
	Rating             *float64   `json:"rating,omitempty"`
	Workload           Workload   `json:"workload,omitempty"`
	CareerFit          *int       `json:"career_fit,omitempty"`
	Prerequisites      []string   `json:"prerequisites"`
	RecommendedCourses []string   `json:"recommended_courses"`
	Corequisites       []string   `json:"corequisites"`
	Equivalents        []string   `json:"equivalents"`
	MutuallyExclusive  []string   `json:"mutually_exclusive"`
	Schedule           []TimeSlot `json:"schedule,omitempty"`
}

// Clone 深拷贝课程，切片与指针字段不再与原值共享
func (c Course) Clone() Course {
	c.Prerequisites = slices.Clone(c.Prerequisites)
	c.RecommendedCourses = slices.Clone(c.RecommendedCourses)
	c.Corequisites = slices.Clone(c.Corequisites)
	c.Equivalents = slices.Clone(c.Equivalents)
	c.MutuallyExclusive = slices.Clone(c.MutuallyExclusive)
	c.Schedule = slices.Clone(c.Schedule)
	if c.Rating != nil {
		r := *c.Rating
		c.Rating = &r
	}
	if c.CareerFit != nil {
		f := *c.CareerFit
		c.CareerFit = &f
	}
	return c
}

// OfferedInTerm 课程是否在指定学期（1=春, 2=秋）开设
func (c *Course) OfferedInTerm(term int) bool {
	switch c.OfferedIn {
	case OfferingSpring:
		return term == 1
	case OfferingFall:
		return term == 2
	default:
		return true
	}
}
