package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"uni-guide/backend/internal/dto"
)

func TestExportService_EmptyGrid(t *testing.T) {
	svc, _ := setupTestService()

	_, _, err := svc.Export.ExportCurriculum(context.Background())
	if !errors.Is(err, ErrExportEmpty) {
		t.Errorf("期望 ErrExportEmpty，实际: %v", err)
	}
}

func TestExportService_ExportCurriculum(t *testing.T) {
	svc, _ := setupTestService()
	ctx := context.Background()

	_, _ = svc.Curriculum.Assign(ctx, &dto.AssignRequest{TermRequest: term(2, 2), CourseID: "cs101"})
	_, _ = svc.Curriculum.Assign(ctx, &dto.AssignRequest{TermRequest: term(2, 2), CourseID: "cs201"})

	buf, filename, err := svc.Export.ExportCurriculum(ctx)
	if err != nil {
		t.Fatalf("ExportCurriculum 失败: %v", err)
	}
	if filename != "课程规划_20250301.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}
	// xlsx 为 zip 格式
	if b := buf.Bytes(); len(b) < 2 || b[0] != 'P' || b[1] != 'K' {
		t.Fatal("导出内容不是有效的 xlsx")
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("读取导出文件失败: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetCurriculum)
	if err != nil {
		t.Fatalf("读取 %s 失败: %v", sheetCurriculum, err)
	}
	if len(rows) != 5 {
		t.Fatalf("期望标题 + 表头 + 2 门课程 + 小计共 5 行，实际 %d", len(rows))
	}
	if rows[1][0] != "学年" || rows[1][6] != "状态" {
		t.Errorf("表头不符: %v", rows[1])
	}
	if rows[2][2] != "CS101" || rows[3][2] != "CS201" {
		t.Errorf("课程行不符: %v / %v", rows[2], rows[3])
	}
	if rows[4][4] != "6" {
		t.Errorf("期望小计 6 学分，实际 %v", rows[4])
	}

	issues, err := f.GetRows(sheetIssues)
	if err != nil {
		t.Fatalf("读取 %s 失败: %v", sheetIssues, err)
	}
	if len(issues) != 2 || issues[1][0] != "prerequisite-order" {
		t.Errorf("期望 1 条先修顺序问题，实际 %v", issues)
	}
}
