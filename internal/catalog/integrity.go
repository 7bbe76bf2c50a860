package catalog

import (
	"sort"
	"time"
)

// 完整性检查状态
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// sampleLimit 每项检查最多列出的样例
const sampleLimit = 10

// IntegrityCheck 单项完整性检查结果
type IntegrityCheck struct {
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Count  int      `json:"count"`
	Sample []string `json:"sample,omitempty"`
}

// IntegrityReport 目录完整性报告
// 目录数据问题不会导致启动失败：引擎对悬空引用按"不存在"处理
type IntegrityReport struct {
	Status    string           `json:"status"`
	CheckedAt time.Time        `json:"checked_at"`
	Courses   int              `json:"courses"`
	Rules     int              `json:"rules"`
	Checks    []IntegrityCheck `json:"checks"`
}

// Check 对目录执行完整性检查
func Check(cat *Catalog) IntegrityReport {
	report := IntegrityReport{
		Status:    StatusPass,
		CheckedAt: time.Now().UTC(),
		Courses:   cat.Len(),
		Rules:     len(cat.Rules()),
	}

	report.Checks = []IntegrityCheck{
		checkSelfReferences(cat),
		checkDanglingReferences(cat),
		checkPrerequisiteCycles(cat),
		checkCredits(cat),
		checkRuleAreas(cat),
	}
	for _, c := range report.Checks {
		if c.Status != StatusPass {
			report.Status = StatusFail
			break
		}
	}
	return report
}

func newCheck(name string, findings []string) IntegrityCheck {
	check := IntegrityCheck{Name: name, Status: StatusPass, Count: len(findings)}
	if len(findings) == 0 {
		return check
	}
	check.Status = StatusFail
	if len(findings) > sampleLimit {
		findings = findings[:sampleLimit]
	}
	check.Sample = findings
	return check
}

// checkSelfReferences 课程不得把自己列为先修或互斥课程
func checkSelfReferences(cat *Catalog) IntegrityCheck {
	var findings []string
	for _, c := range cat.Courses() {
		for _, id := range c.Prerequisites {
			if id == c.ID {
				findings = append(findings, c.ID+" -> prerequisites")
			}
		}
		for _, id := range c.MutuallyExclusive {
			if id == c.ID {
				findings = append(findings, c.ID+" -> mutually_exclusive")
			}
		}
	}
	return newCheck("self_references", findings)
}

func checkDanglingReferences(cat *Catalog) IntegrityCheck {
	var findings []string
	for _, c := range cat.Courses() {
		relations := []struct {
			name string
			ids  []string
		}{
			{"prerequisites", c.Prerequisites},
			{"recommended_courses", c.RecommendedCourses},
			{"corequisites", c.Corequisites},
			{"equivalents", c.Equivalents},
			{"mutually_exclusive", c.MutuallyExclusive},
		}
		for _, rel := range relations {
			for _, id := range rel.ids {
				if !cat.Has(id) {
					findings = append(findings, c.ID+"."+rel.name+" -> "+id)
				}
			}
		}
	}
	for _, r := range cat.Rules() {
		for _, a := range r.Areas {
			for _, id := range a.Courses {
				if !cat.Has(id) {
					findings = append(findings, a.ID+".courses -> "+id)
				}
			}
		}
	}
	return newCheck("dangling_references", findings)
}

// checkPrerequisiteCycles 三色 DFS 查找先修关系环
func checkPrerequisiteCycles(cat *Catalog) IntegrityCheck {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, cat.Len())
	var findings []string

	var visit func(id string, path []string)
	visit = func(id string, path []string) {
		color[id] = grey
		path = append(path, id)
		course, _ := cat.Course(id)
		for _, pre := range course.Prerequisites {
			if pre == id || !cat.Has(pre) {
				continue
			}
			switch color[pre] {
			case white:
				visit(pre, path)
			case grey:
				findings = append(findings, cycleString(path, pre))
			}
		}
		color[id] = black
	}

	ids := make([]string, 0, cat.Len())
	for _, c := range cat.Courses() {
		ids = append(ids, c.ID)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if color[id] == white {
			visit(id, nil)
		}
	}
	return newCheck("prerequisite_cycles", findings)
}

func cycleString(path []string, back string) string {
	start := 0
	for i, id := range path {
		if id == back {
			start = i
			break
		}
	}
	s := ""
	for _, id := range path[start:] {
		s += id + " -> "
	}
	return s + back
}

func checkCredits(cat *Catalog) IntegrityCheck {
	var findings []string
	for _, c := range cat.Courses() {
		if c.Credits <= 0 {
			findings = append(findings, c.ID)
		}
	}
	return newCheck("non_positive_credits", findings)
}

func checkRuleAreas(cat *Catalog) IntegrityCheck {
	var findings []string
	for _, r := range cat.Rules() {
		seen := make(map[string]bool, len(r.Areas))
		for _, a := range r.Areas {
			if a.RequiredCredits < 0 {
				findings = append(findings, a.ID+": negative required_credits")
			}
			if seen[a.ID] {
				findings = append(findings, a.ID+": duplicate area id")
			}
			seen[a.ID] = true
		}
	}
	return newCheck("requirement_areas", findings)
}
