package service

import (
	"context"

	"github.com/noah-isme/timetable-engine/internal/availability"
	"github.com/noah-isme/timetable-engine/internal/dto"
	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
)

// TimetableQueryService serves a cohort's persisted timetable rows to
// the HTTP layer, translating the storage model into its wire view.
type TimetableQueryService struct {
	timetables timetableReader
}

// NewTimetableQueryService constructs a TimetableQueryService.
func NewTimetableQueryService(timetables timetableReader) *TimetableQueryService {
	return &TimetableQueryService{timetables: timetables}
}

// ListByCohortVariant returns a cohort variant's rows as the API's wire
// view, ordered the way the repository already orders them.
func (s *TimetableQueryService) ListByCohortVariant(ctx context.Context, cohortID string, variant int) ([]dto.TimetableRowView, error) {
	rows, err := s.timetables.ListByCohortVariant(ctx, cohortID, variant)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCatalog.Code, appErrors.ErrCatalog.Status, "failed to load timetable")
	}

	views := make([]dto.TimetableRowView, 0, len(rows))
	for _, row := range rows {
		views = append(views, dto.TimetableRowView{
			SubjectID:    row.SubjectID,
			InstructorID: row.InstructorID,
			Weekday:      availability.Label(row.Weekday),
			Hour:         row.Hour,
		})
	}
	return views, nil
}
