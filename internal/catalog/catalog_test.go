package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"uni-guide/backend/internal/model"
	"uni-guide/backend/internal/repository"
)

func loadEmbedded(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Load(context.Background(), EmbeddedLoader{})
	if err != nil {
		t.Fatalf("加载内置目录失败: %v", err)
	}
	return cat
}

// ── 加载 ──

func TestEmbeddedLoader_LoadsSampleCatalog(t *testing.T) {
	cat := loadEmbedded(t)

	if cat.Len() == 0 {
		t.Fatal("期望内置目录非空")
	}
	if _, ok := cat.FindRule(2024, "计算机科学与技术"); !ok {
		t.Error("期望存在 2024 级计算机科学与技术的毕业要求")
	}
	if _, ok := cat.FindRule(2019, "计算机科学与技术"); ok {
		t.Error("期望 2019 级无匹配规则")
	}

	// 旧版 general-* 类别在加载时映射
	for _, c := range cat.Courses() {
		if _, ok := model.ParseCategory(string(c.Category)); !ok || strings.HasPrefix(string(c.Category), "general") {
			t.Errorf("课程 %s 的类别 %s 不是规范取值", c.ID, c.Category)
		}
	}
	if c, _ := cat.Course("ge-sci101"); c.Category != model.CategoryUniversityRequired {
		t.Errorf("期望 general-required 映射为 university-required, 实际 %s", c.Category)
	}

	report := Check(cat)
	if report.Status != StatusPass {
		t.Errorf("期望内置目录完整性检查通过, 实际 %+v", report.Checks)
	}
}

func TestParseYAML_UnknownCategory(t *testing.T) {
	doc := `
courses:
  - id: x1
    code: X1
    name: 未知
    credits: 3
    category: free-elective
`
	_, _, err := ParseYAML(strings.NewReader(doc))
	if !errors.Is(err, ErrCatalogInvalid) {
		t.Errorf("期望 ErrCatalogInvalid, 实际 %v", err)
	}
}

func TestParseYAML_UnknownField(t *testing.T) {
	doc := `
courses:
  - id: x1
    credit_hours: 3
`
	if _, _, err := ParseYAML(strings.NewReader(doc)); !errors.Is(err, ErrCatalogInvalid) {
		t.Errorf("期望未知字段被拒绝, 实际 %v", err)
	}
}

func TestLoad_Empty(t *testing.T) {
	_, err := Load(context.Background(), loaderFunc(func() ([]model.Course, []model.RequirementRule, error) {
		return nil, nil, nil
	}))
	if !errors.Is(err, ErrCatalogEmpty) {
		t.Errorf("期望 ErrCatalogEmpty, 实际 %v", err)
	}
}

func TestFileLoader_Missing(t *testing.T) {
	if _, _, err := (FileLoader{Path: filepath.Join(t.TempDir(), "none.yaml")}).Load(context.Background()); err == nil {
		t.Error("期望文件不存在时返回错误")
	}
}

type loaderFunc func() ([]model.Course, []model.RequirementRule, error)

func (f loaderFunc) Load(context.Context) ([]model.Course, []model.RequirementRule, error) {
	return f()
}

// ── 索引 ──

func TestCatalog_Lookups(t *testing.T) {
	cat := New([]model.Course{
		{ID: "cs101", Code: "CS101", Name: "程序设计基础", Credits: 3},
		{ID: "cs101", Code: "DUP", Name: "重复", Credits: 9},
		{ID: "", Code: "EMPTY"},
		{ID: "cs201", Code: "CS201", Name: "数据结构", Credits: 3, Prerequisites: []string{"cs101", "ghost"}},
	}, nil)

	if cat.Len() != 2 {
		t.Fatalf("期望 2 门课程, 实际 %d", cat.Len())
	}
	if c, ok := cat.ByCode(" cs101 "); !ok || c.ID != "cs101" {
		t.Error("期望课程代码查找不区分大小写")
	}
	if cat.Credits("cs101") != 3 {
		t.Errorf("期望保留首次出现的课程, 实际学分 %d", cat.Credits("cs101"))
	}
	if cat.Name("ghost") != "ghost" || cat.Credits("ghost") != 0 {
		t.Error("悬空 ID 应回退为原 ID 且学分为 0")
	}

	cs201, _ := cat.Course("cs201")
	unmet := cat.UnmetPrerequisites(cs201, map[string]bool{})
	if len(unmet) != 1 || unmet[0] != "cs101" {
		t.Errorf("期望仅 cs101 未满足（忽略悬空 ghost）, 实际 %v", unmet)
	}
}

func TestCatalog_CoursesReturnsCopy(t *testing.T) {
	cat := New([]model.Course{
		{ID: "cs101", Code: "CS101", Name: "程序设计基础", Credits: 3},
		{ID: "cs201", Code: "CS201", Name: "数据结构", Credits: 3,
			Prerequisites: []string{"cs101"}, MutuallyExclusive: []string{"cs202"}},
	}, nil)

	list := cat.Courses()
	list[0].Name = "已修改"
	list[1].Prerequisites[0] = "ghost"
	list[1].MutuallyExclusive = append(list[1].MutuallyExclusive[:0], "cs999")

	if cat.Name("cs101") != "程序设计基础" {
		t.Errorf("修改返回值不应影响目录, 实际名称 %s", cat.Name("cs101"))
	}
	cs201, _ := cat.Course("cs201")
	if cs201.Prerequisites[0] != "cs101" {
		t.Errorf("先修列表不应与返回值共享, 实际 %v", cs201.Prerequisites)
	}
	if cs201.MutuallyExclusive[0] != "cs202" {
		t.Errorf("互斥列表不应与返回值共享, 实际 %v", cs201.MutuallyExclusive)
	}
}

// ── 完整性 ──

func TestCheck_DetectsProblems(t *testing.T) {
	cat := New([]model.Course{
		{ID: "a", Credits: 3, Prerequisites: []string{"c"}},
		{ID: "b", Credits: 3, Prerequisites: []string{"a"}},
		{ID: "c", Credits: 3, Prerequisites: []string{"b"}},
		{ID: "d", Credits: 0, Prerequisites: []string{"d"}, MutuallyExclusive: []string{"zzz"}},
	}, []model.RequirementRule{{
		EnrollmentYear: 2024, Major: "m",
		Areas: []model.RequirementArea{{ID: "x", RequiredCredits: -1}, {ID: "x", Courses: []string{"nope"}}},
	}})

	report := Check(cat)
	if report.Status != StatusFail {
		t.Fatalf("期望检查失败")
	}
	byName := make(map[string]IntegrityCheck)
	for _, c := range report.Checks {
		byName[c.Name] = c
	}
	if byName["self_references"].Count != 1 {
		t.Errorf("期望 1 个自引用, 实际 %d", byName["self_references"].Count)
	}
	if byName["dangling_references"].Count != 2 {
		t.Errorf("期望 2 个悬空引用, 实际 %d", byName["dangling_references"].Count)
	}
	if byName["prerequisite_cycles"].Count != 1 {
		t.Errorf("期望检测到 1 个先修环, 实际 %d (%v)", byName["prerequisite_cycles"].Count, byName["prerequisite_cycles"].Sample)
	}
	if byName["non_positive_credits"].Count != 1 {
		t.Errorf("期望 1 门学分非法课程, 实际 %d", byName["non_positive_credits"].Count)
	}
	if byName["requirement_areas"].Count != 2 {
		t.Errorf("期望 2 个区块问题, 实际 %d", byName["requirement_areas"].Count)
	}
}

// ── 搜索 ──

func TestSearch_QueryAndFilters(t *testing.T) {
	cat := loadEmbedded(t)

	got := Search(cat, Filter{Query: "cs2"}, nil)
	for _, c := range got {
		if !strings.Contains(strings.ToLower(c.Code), "cs2") &&
			!strings.Contains(strings.ToLower(c.Name), "cs2") &&
			!strings.Contains(strings.ToLower(c.Description), "cs2") {
			t.Errorf("课程 %s 不匹配查询", c.ID)
		}
	}
	if len(got) == 0 {
		t.Fatal("期望按代码查询到课程")
	}

	available := Search(cat, Filter{OnlyAvailable: true}, map[string]bool{"cs101": true})
	ids := make(map[string]bool)
	for _, c := range available {
		ids[c.ID] = true
	}
	if !ids["cs201"] {
		t.Error("cs101 已修时 cs201 应可选")
	}
	if ids["cs202"] {
		t.Error("cs202 需要 cs201 与 cs102，不应可选")
	}

	spring := Search(cat, Filter{Term: 1, Categories: []model.Category{model.CategoryMajorRequired}}, nil)
	for _, c := range spring {
		if c.OfferedIn == model.OfferingFall || c.Category != model.CategoryMajorRequired {
			t.Errorf("课程 %s 不满足春季专业必修筛选", c.ID)
		}
	}

	excluded := Search(cat, Filter{ExcludeCompleted: true}, map[string]bool{"cs101": true})
	for _, c := range excluded {
		if c.ID == "cs101" {
			t.Error("期望排除已修课程")
		}
	}
}

func TestSearch_SortModes(t *testing.T) {
	r1, r2 := 3.0, 4.5
	f1, f2 := 2, 5
	cat := New([]model.Course{
		{ID: "a", Rating: &r1, Workload: model.WorkloadHigh, CareerFit: &f1},
		{ID: "b", Rating: &r2, Workload: model.WorkloadLow},
		{ID: "c", CareerFit: &f2},
	}, nil)

	byRating := Search(cat, Filter{SortBy: SortRating}, nil)
	if len(byRating) != 2 || byRating[0].ID != "b" {
		t.Errorf("评分排序错误: %v", courseIDs(byRating))
	}
	byWorkload := Search(cat, Filter{SortBy: SortWorkload}, nil)
	if len(byWorkload) != 2 || byWorkload[0].ID != "b" {
		t.Errorf("负担排序错误: %v", courseIDs(byWorkload))
	}
	byFit := Search(cat, Filter{SortBy: SortCareerFit}, nil)
	if len(byFit) != 2 || byFit[0].ID != "c" {
		t.Errorf("职业匹配排序错误: %v", courseIDs(byFit))
	}
	if _, ok := ParseSortBy("popularity"); ok {
		t.Error("期望未知排序方式解析失败")
	}
}

func courseIDs(courses []model.Course) []string {
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}

// ── 数据库目录 ──

func TestSeedAndDatabaseLoader(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开 SQLite 失败: %v", err)
	}
	if err := db.AutoMigrate(&model.CourseRecord{}, &model.RequirementRuleRecord{}, &model.RequirementAreaRecord{}); err != nil {
		t.Fatalf("AutoMigrate 失败: %v", err)
	}
	repo := repository.NewRepository(db)
	ctx := context.Background()
	embedded := loadEmbedded(t)

	seeded, err := Seed(ctx, repo.Course, repo.RequirementRule, embedded)
	if err != nil || !seeded {
		t.Fatalf("期望写入内置目录, seeded=%v err=%v", seeded, err)
	}
	seeded, err = Seed(ctx, repo.Course, repo.RequirementRule, embedded)
	if err != nil || seeded {
		t.Fatalf("期望已有数据时跳过, seeded=%v err=%v", seeded, err)
	}

	fromDB, err := Load(ctx, DatabaseLoader{Courses: repo.Course, Rules: repo.RequirementRule})
	if err != nil {
		t.Fatalf("从数据库加载失败: %v", err)
	}
	if fromDB.Len() != embedded.Len() {
		t.Errorf("期望 %d 门课程, 实际 %d", embedded.Len(), fromDB.Len())
	}
	if len(fromDB.Rules()) != len(embedded.Rules()) {
		t.Errorf("期望 %d 条规则, 实际 %d", len(embedded.Rules()), len(fromDB.Rules()))
	}
	rule, ok := fromDB.FindRule(2024, "计算机科学与技术")
	if !ok || rule.Areas[0].ID != "major-required" {
		t.Error("期望数据库目录保留区块顺序")
	}
}
