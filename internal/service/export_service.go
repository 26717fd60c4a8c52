package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-engine/internal/availability"
	"github.com/noah-isme/timetable-engine/internal/models"
	"github.com/noah-isme/timetable-engine/pkg/export"
	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
)

type timetableReader interface {
	ListByCohortVariant(ctx context.Context, cohortID string, variant int) ([]models.TimetableRow, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// TimetableExportService renders a cohort's persisted timetable variant
// as a PDF grid.
type TimetableExportService struct {
	timetables timetableReader
	pdf        pdfRenderer
	logger     *zap.Logger
}

// NewTimetableExportService constructs a TimetableExportService.
func NewTimetableExportService(timetables timetableReader, pdf pdfRenderer, logger *zap.Logger) *TimetableExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &TimetableExportService{timetables: timetables, pdf: pdf, logger: logger}
}

// RenderPDF builds a PDF of a cohort's timetable variant, one row per
// (weekday, hour) slot that carries an assignment.
func (s *TimetableExportService) RenderPDF(ctx context.Context, cohortID string, variant int) ([]byte, error) {
	rows, err := s.timetables.ListByCohortVariant(ctx, cohortID, variant)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCatalog.Code, appErrors.ErrCatalog.Status, "failed to load timetable")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found for cohort and variant")
	}

	dataset := export.Dataset{
		Headers: []string{"Weekday", "Hour", "Subject", "Instructor"},
		Rows:    make([]map[string]string, 0, len(rows)),
	}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Weekday":    availability.Label(row.Weekday),
			"Hour":       fmt.Sprintf("%02d:00", row.Hour),
			"Subject":    row.SubjectID,
			"Instructor": row.InstructorID,
		})
	}

	title := fmt.Sprintf("Timetable %s (variant %d)", cohortID, variant)
	payload, err := s.pdf.Render(dataset, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable pdf")
	}
	return payload, nil
}
