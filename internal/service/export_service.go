package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/repository"
)

const (
	// ExportSheetName is the only sheet of the export workbook.
	ExportSheetName = "Feedback"
	// ExportContentType is the MIME type of the workbook.
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// ExportFileName is suggested to browsers in Content-Disposition.
	ExportFileName = "feedback.xlsx"
	// UnknownDepartmentName labels feedback whose department was deleted.
	UnknownDepartmentName = "Unknown"

	exportDateLayout = "2006-01-02 15:04:05"
)

type exportColumn struct {
	header string
	width  float64
}

var exportColumns = []exportColumn{
	{header: "Department Name", width: 30},
	{header: "Rating", width: 16},
	{header: "Comment", width: 60},
	{header: "Submission Date", width: 22},
}

// ExportService renders the feedback collection as a spreadsheet.
type ExportService struct {
	departments repository.DepartmentRepository
	feedback    repository.FeedbackRepository
	location    *time.Location
}

// NewExportService constructs the service. Dates are rendered in loc.
func NewExportService(departments repository.DepartmentRepository, feedback repository.FeedbackRepository, loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportService{departments: departments, feedback: feedback, location: loc}
}

// Export renders the current collections.
func (s *ExportService) Export(ctx context.Context) ([]byte, error) {
	depts, items, err := loadSnapshot(ctx, s.departments, s.feedback)
	if err != nil {
		return nil, err
	}
	return RenderFeedbackWorkbook(items, depts, s.location)
}

// RenderFeedbackWorkbook writes one row per feedback in source order, joined
// to department names. An empty collection still produces one blank row.
func RenderFeedbackWorkbook(feedback []domain.Feedback, departments []domain.Department, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}
	names := make(map[int64]string, len(departments))
	for _, d := range departments {
		names[d.ID] = d.Name
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col.header
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(ExportSheetName, colName, colName, col.width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetSheetRow(ExportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(exportColumns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(ExportSheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	rows := make([][]interface{}, 0, len(feedback))
	for _, fb := range feedback {
		name, ok := names[fb.DepartmentID]
		if !ok {
			name = UnknownDepartmentName
		}
		rows = append(rows, []interface{}{
			name,
			string(fb.Rating),
			fb.Comment,
			fb.CreatedAt.In(loc).Format(exportDateLayout),
		})
	}
	if len(rows) == 0 {
		rows = append(rows, []interface{}{"", "", "", ""})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(ExportSheetName, cell, &rows[i]); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
