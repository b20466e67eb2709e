package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/feedback-portal/internal/domain"
)

func readWorkbook(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	assert.Equal(t, []string{ExportSheetName}, f.GetSheetList())
	rows, err := f.GetRows(ExportSheetName)
	require.NoError(t, err)
	return rows
}

func TestRenderFeedbackWorkbook(t *testing.T) {
	depts := []domain.Department{{ID: 1, Name: "Library"}}
	items := []domain.Feedback{
		{ID: 10, DepartmentID: 1, Rating: domain.RatingGood, Comment: "quiet", CreatedAt: time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)},
		{ID: 11, DepartmentID: 7, Rating: domain.RatingNeutral, Comment: "", CreatedAt: time.Date(2025, 3, 5, 8, 0, 5, 0, time.UTC)},
	}

	data, err := RenderFeedbackWorkbook(items, depts, time.UTC)
	require.NoError(t, err)

	rows := readWorkbook(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Department Name", "Rating", "Comment", "Submission Date"}, rows[0])
	assert.Equal(t, []string{"Library", "Good", "quiet", "2025-03-04 10:30:00"}, rows[1])
	assert.Equal(t, UnknownDepartmentName, rows[2][0])
	assert.Equal(t, "Neutral", rows[2][1])
	assert.Equal(t, "2025-03-05 08:00:05", rows[2][3])
}

func TestRenderFeedbackWorkbookTimeZone(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	items := []domain.Feedback{
		{ID: 1, DepartmentID: 1, Rating: domain.RatingExcellent, CreatedAt: time.Date(2025, 3, 4, 23, 30, 0, 0, time.UTC)},
	}

	data, err := RenderFeedbackWorkbook(items, []domain.Department{{ID: 1, Name: "A"}}, loc)
	require.NoError(t, err)

	rows := readWorkbook(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-05 00:30:00", rows[1][3])
}

func TestRenderFeedbackWorkbookEmpty(t *testing.T) {
	data, err := RenderFeedbackWorkbook(nil, nil, nil)
	require.NoError(t, err)

	rows := readWorkbook(t, data)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Department Name", rows[0][0])
	assert.LessOrEqual(t, len(rows), 2)
	for _, row := range rows[1:] {
		for _, cell := range row {
			assert.Empty(t, cell)
		}
	}
}

func TestRenderFeedbackWorkbookHeaderStyle(t *testing.T) {
	data, err := RenderFeedbackWorkbook(nil, nil, time.UTC)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	styleID, err := f.GetCellStyle(ExportSheetName, "D1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	width, err := f.GetColWidth(ExportSheetName, "C")
	require.NoError(t, err)
	assert.Equal(t, 60.0, width)
}

func TestExportServiceUsesCurrentCollections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lib := f.mustCreate(t, "Library")
	_, err := f.intake.Submit(ctx, SubmitFeedbackInput{DepartmentID: lib.ID, Rating: domain.RatingSatisfying, Comment: "ok"})
	require.NoError(t, err)
	require.NoError(t, f.registry.Delete(ctx, lib.ID))

	data, err := NewExportService(f.departments, f.feedback, time.UTC).Export(ctx)
	require.NoError(t, err)

	rows := readWorkbook(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{UnknownDepartmentName, "Satisfying", "ok"}, rows[1][:3])
}
