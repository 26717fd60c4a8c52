package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-engine/internal/models"
	"github.com/noah-isme/timetable-engine/pkg/export"
)

type stubTimetableReader struct {
	rows []models.TimetableRow
	err  error
}

func (s stubTimetableReader) ListByCohortVariant(ctx context.Context, cohortID string, variant int) ([]models.TimetableRow, error) {
	return s.rows, s.err
}

func TestTimetableExportServiceRenderPDF(t *testing.T) {
	reader := stubTimetableReader{rows: []models.TimetableRow{
		{SubjectID: "sub-1", InstructorID: "ins-1", Weekday: models.Monday, Hour: 8},
	}}
	svc := NewTimetableExportService(reader, export.NewPDFExporter(), zap.NewNop())

	payload, err := svc.RenderPDF(context.Background(), "cohort-1", 1)
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
}

func TestTimetableExportServiceRenderPDFNotFound(t *testing.T) {
	reader := stubTimetableReader{}
	svc := NewTimetableExportService(reader, export.NewPDFExporter(), zap.NewNop())

	_, err := svc.RenderPDF(context.Background(), "cohort-1", 1)
	require.Error(t, err)
}
