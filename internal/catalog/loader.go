package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"uni-guide/backend/internal/model"
	"uni-guide/backend/internal/repository"
)

// ── 目录加载业务错误 ──

var (
	ErrCatalogEmpty   = errors.New("课程目录为空")
	ErrCatalogInvalid = errors.New("课程目录格式错误")
)

//go:embed data/default_catalog.yaml
var defaultCatalogYAML []byte

// Loader 目录加载器：启动时调用一次，失败即终止会话
type Loader interface {
	Load(ctx context.Context) ([]model.Course, []model.RequirementRule, error)
}

// Load 使用加载器构建目录索引
func Load(ctx context.Context, l Loader) (*Catalog, error) {
	courses, rules, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, ErrCatalogEmpty
	}
	return New(courses, rules), nil
}

// ── YAML 文档结构 ──

type catalogDoc struct {
	Courses []courseDoc `yaml:"courses"`
	Rules   []ruleDoc   `yaml:"rules"`
}

type courseDoc struct {
	ID                 string           `yaml:"id"`
	Code               string           `yaml:"code"`
	Name               string           `yaml:"name"`
	Credits            int              `yaml:"credits"`
	Category           string           `yaml:"category"`
	Department         string           `yaml:"department"`
	Description        string           `yaml:"description"`
	OfferedIn          string           `yaml:"offered_in"`
	RecommendedYear    int              `yaml:"recommended_year"`
	Area               string           `yaml:"area"`
	Rating             *float64         `yaml:"rating"`
	Workload           string           `yaml:"workload"`
	CareerFit          *int             `yaml:"career_fit"`
	Prerequisites      []string         `yaml:"prerequisites"`
	RecommendedCourses []string         `yaml:"recommended_courses"`
	Corequisites       []string         `yaml:"corequisites"`
	Equivalents        []string         `yaml:"equivalents"`
	MutuallyExclusive  []string         `yaml:"mutually_exclusive"`
	Schedule           []model.TimeSlot `yaml:"schedule"`
}

type ruleDoc struct {
	EnrollmentYear int       `yaml:"enrollment_year"`
	Major          string    `yaml:"major"`
	TotalCredits   int       `yaml:"total_credits"`
	Areas          []areaDoc `yaml:"areas"`
}

type areaDoc struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Category        string   `yaml:"category"`
	RequiredCredits int      `yaml:"required_credits"`
	Courses         []string `yaml:"courses"`
	Area            string   `yaml:"area"`
}

// ParseYAML 解析 YAML 目录文档
// 旧版类别（general-required / general-elective）在此处映射为 university-required
func ParseYAML(r io.Reader) ([]model.Course, []model.RequirementRule, error) {
	var doc catalogDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCatalogInvalid, err)
	}

	courses := make([]model.Course, 0, len(doc.Courses))
	for _, d := range doc.Courses {
		category, ok := model.ParseCategory(d.Category)
		if !ok {
			return nil, nil, fmt.Errorf("%w: 课程 %s 的类别 %q 无法识别", ErrCatalogInvalid, d.ID, d.Category)
		}
		offered := model.Offering(d.OfferedIn)
		if offered == "" {
			offered = model.OfferingBoth
		}
		courses = append(courses, model.Course{
			ID:                 d.ID,
			Code:               d.Code,
			Name:               d.Name,
			Credits:            d.Credits,
			Category:           category,
			Department:         d.Department,
			Description:        d.Description,
			OfferedIn:          offered,
			RecommendedYear:    d.RecommendedYear,
			Area:               d.Area,
			Rating:             d.Rating,
			Workload:           model.Workload(d.Workload),
			CareerFit:          d.CareerFit,
			Prerequisites:      d.Prerequisites,
			RecommendedCourses: d.RecommendedCourses,
			Corequisites:       d.Corequisites,
			Equivalents:        d.Equivalents,
			MutuallyExclusive:  d.MutuallyExclusive,
			Schedule:           d.Schedule,
		})
	}

	rules := make([]model.RequirementRule, 0, len(doc.Rules))
	for _, d := range doc.Rules {
		rule := model.RequirementRule{
			EnrollmentYear: d.EnrollmentYear,
			Major:          d.Major,
			TotalCredits:   d.TotalCredits,
			Areas:          make([]model.RequirementArea, 0, len(d.Areas)),
		}
		for _, a := range d.Areas {
			category, ok := model.ParseCategory(a.Category)
			if !ok {
				return nil, nil, fmt.Errorf("%w: 要求区块 %s 的类别 %q 无法识别", ErrCatalogInvalid, a.ID, a.Category)
			}
			if a.RequiredCredits < 0 {
				return nil, nil, fmt.Errorf("%w: 要求区块 %s 的学分不能为负", ErrCatalogInvalid, a.ID)
			}
			rule.Areas = append(rule.Areas, model.RequirementArea{
				ID:              a.ID,
				Name:            a.Name,
				Category:        category,
				RequiredCredits: a.RequiredCredits,
				Courses:         a.Courses,
				Area:            a.Area,
			})
		}
		rules = append(rules, rule)
	}

	return courses, rules, nil
}

// ── 内置目录 ──

// EmbeddedLoader 加载随二进制分发的示例目录
type EmbeddedLoader struct{}

func (EmbeddedLoader) Load(_ context.Context) ([]model.Course, []model.RequirementRule, error) {
	return ParseYAML(bytes.NewReader(defaultCatalogYAML))
}

// ── 文件目录 ──

// FileLoader 从 YAML 文件加载目录
type FileLoader struct {
	Path string
}

func (l FileLoader) Load(_ context.Context) ([]model.Course, []model.RequirementRule, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("打开目录文件失败: %w", err)
	}
	defer f.Close()
	return ParseYAML(f)
}

// ── 数据库目录 ──

// DatabaseLoader 从 courses / requirement_rules 表加载目录
type DatabaseLoader struct {
	Courses repository.CourseRepository
	Rules   repository.RequirementRuleRepository
}

func (l DatabaseLoader) Load(ctx context.Context) ([]model.Course, []model.RequirementRule, error) {
	records, err := l.Courses.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("查询课程目录失败: %w", err)
	}
	courses := make([]model.Course, 0, len(records))
	for i := range records {
		courses = append(courses, records[i].ToCourse())
	}

	ruleRecords, err := l.Rules.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("查询毕业要求失败: %w", err)
	}
	rules := make([]model.RequirementRule, 0, len(ruleRecords))
	for i := range ruleRecords {
		rules = append(rules, ruleRecords[i].ToRule())
	}
	return courses, rules, nil
}

// Seed 数据库目录为空时写入给定目录；已有数据时不做任何修改
func Seed(ctx context.Context, courses repository.CourseRepository, rules repository.RequirementRuleRepository, cat *Catalog) (bool, error) {
	n, err := courses.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("统计课程数量失败: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	records := make([]*model.CourseRecord, 0, cat.Len())
	for _, c := range cat.Courses() {
		records = append(records, model.NewCourseRecord(c))
	}
	if err := courses.CreateBatch(ctx, records); err != nil {
		return false, fmt.Errorf("写入课程目录失败: %w", err)
	}
	for _, r := range cat.Rules() {
		if err := rules.Create(ctx, model.NewRequirementRuleRecord(r)); err != nil {
			return false, fmt.Errorf("写入毕业要求失败: %w", err)
		}
	}
	return true, nil
}
