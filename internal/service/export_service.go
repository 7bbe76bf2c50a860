package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/engine"
	"uni-guide/backend/internal/model"
	"uni-guide/backend/internal/planner"
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmpty        = errors.New("课程网格中没有课程")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportCurriculum 导出课程网格为 Excel
	ExportCurriculum(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	cat         *catalog.Catalog
	store       *planner.Store
	creditLimit int
	logger      *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cat *catalog.Catalog, store *planner.Store, creditLimit int, logger *zap.Logger) ExportService {
	if creditLimit <= 0 {
		creditLimit = engine.DefaultCreditLimit
	}
	return &exportService{cat: cat, store: store, creditLimit: creditLimit, logger: logger}
}

const (
	sheetCurriculum = "课程规划"
	sheetIssues     = "检查结果"
)

var categoryNames = map[model.Category]string{
	model.CategoryMajorRequired:      "专业必修",
	model.CategoryMajorElective:      "专业选修",
	model.CategoryUniversityRequired: "通识必修",
	model.CategoryDepartmentRequired: "学院必修",
}

// ═══════════════════════════════════════════════════════════
// ExportCurriculum 导出课程网格为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "课程规划"：每门课程一行，按学期顺序；每个学期末尾一行学分小计
//   - Sheet "检查结果"：学分超限与先修顺序问题
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportCurriculum(_ context.Context) (*bytes.Buffer, string, error) {
	snap := s.store.Snapshot()
	plan := snap.Curriculum

	total := 0
	for _, sem := range plan.Semesters {
		total += len(sem.Courses)
	}
	if total == 0 {
		return nil, "", ErrExportEmpty
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(sheetCurriculum)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetCurriculum, "A", "B", 8)
	f.SetColWidth(sheetCurriculum, "C", "C", 12)
	f.SetColWidth(sheetCurriculum, "D", "D", 28)
	f.SetColWidth(sheetCurriculum, "E", "E", 8)
	f.SetColWidth(sheetCurriculum, "F", "G", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	warnStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#C00000"},
	})

	// 标题行
	f.SetCellValue(sheetCurriculum, "A1", plan.Name)
	f.MergeCell(sheetCurriculum, "A1", "G1")
	f.SetCellStyle(sheetCurriculum, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"学年", "学期", "课程代码", "课程名称", "学分", "类别", "状态"}
	for i, h := range headers {
		f.SetCellValue(sheetCurriculum, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetCurriculum, "A2", "G2", headerStyle)

	// 数据行
	row := 3
	for _, sem := range plan.Semesters {
		if len(sem.Courses) == 0 {
			continue
		}
		status := ""
		switch {
		case sem.IsLocked:
			status = "已修"
		case sem.IsCurrentSemester:
			status = "本学期"
		}

		credits := 0
		for _, id := range sem.Courses {
			f.SetCellValue(sheetCurriculum, cell("A", row), sem.Year)
			f.SetCellValue(sheetCurriculum, cell("B", row), sem.Term)
			if c, ok := s.cat.Course(id); ok {
				f.SetCellValue(sheetCurriculum, cell("C", row), c.Code)
				f.SetCellValue(sheetCurriculum, cell("D", row), c.Name)
				f.SetCellValue(sheetCurriculum, cell("E", row), c.Credits)
				f.SetCellValue(sheetCurriculum, cell("F", row), categoryNames[c.Category])
				credits += c.Credits
			} else {
				f.SetCellValue(sheetCurriculum, cell("C", row), id)
				f.SetCellValue(sheetCurriculum, cell("D", row), "-")
			}
			f.SetCellValue(sheetCurriculum, cell("G", row), status)
			row++
		}

		f.SetCellValue(sheetCurriculum, cell("D", row), fmt.Sprintf("%d学年%d学期 小计", sem.Year, sem.Term))
		f.SetCellValue(sheetCurriculum, cell("E", row), credits)
		if credits > s.creditLimit {
			f.SetCellValue(sheetCurriculum, cell("G", row), "超出学分上限")
			f.SetCellStyle(sheetCurriculum, cell("D", row), cell("G", row), warnStyle)
		}
		row++
	}

	// 检查结果
	issues := engine.CheckCurriculum(s.cat, plan, s.creditLimit)
	f.NewSheet(sheetIssues)
	f.SetColWidth(sheetIssues, "A", "A", 18)
	f.SetColWidth(sheetIssues, "B", "B", 12)
	f.SetColWidth(sheetIssues, "C", "C", 60)
	for i, h := range []string{"类型", "课程", "说明"} {
		f.SetCellValue(sheetIssues, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetIssues, "A1", "C1", headerStyle)
	for i, issue := range issues {
		r := i + 2
		f.SetCellValue(sheetIssues, cell("A", r), string(issue.Type))
		f.SetCellValue(sheetIssues, cell("B", r), s.cat.Name(issue.CourseID))
		f.SetCellValue(sheetIssues, cell("C", r), issue.Message)
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("课程规划_%s.xlsx", snap.Curriculum.UpdatedAt.Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
