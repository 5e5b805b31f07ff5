package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportService 日报导出业务接口
type ExportService interface {
	ExportVisible(ctx context.Context, caller Caller) (*bytes.Buffer, string, error)
}

type exportService struct {
	reportSvc ReportService
	logger    *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(reportSvc ReportService, logger *zap.Logger) ExportService {
	return &exportService{reportSvc: reportSvc, logger: logger}
}

const exportSheet = "日报"

var exportHeaders = []string{"ID", "日期", "员工编号", "员工姓名", "标题", "内容", "更新时间"}

// ExportVisible 将调用方可见的日报导出为 Excel
func (s *exportService) ExportVisible(ctx context.Context, caller Caller) (*bytes.Buffer, string, error) {
	reports, err := s.reportSvc.ListVisible(ctx, caller)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, "", err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range exportHeaders {
		f.SetCellValue(exportSheet, cell(i, 1), h)
	}
	f.SetCellStyle(exportSheet, cell(0, 1), cell(len(exportHeaders)-1, 1), headerStyle)

	for i, r := range reports {
		row := i + 2
		f.SetCellValue(exportSheet, cell(0, row), r.ID)
		f.SetCellValue(exportSheet, cell(1, row), r.ReportDate)
		f.SetCellValue(exportSheet, cell(2, row), r.EmployeeCode)
		f.SetCellValue(exportSheet, cell(3, row), r.EmployeeName)
		f.SetCellValue(exportSheet, cell(4, row), r.Title)
		f.SetCellValue(exportSheet, cell(5, row), r.Content)
		f.SetCellValue(exportSheet, cell(6, row), r.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	f.SetColWidth(exportSheet, "E", "E", 30)
	f.SetColWidth(exportSheet, "F", "F", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("reports_%s.xlsx", caller.EmployeeCode)
	return buf, filename, nil
}

// cell 由 0 起始列号与 1 起始行号生成单元格坐标
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
