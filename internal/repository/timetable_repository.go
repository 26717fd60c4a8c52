package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-engine/internal/models"
)

// TimetableRepository persists the rows of a cohort's timetable
// variants. A variant's rows are always replaced as a unit: the
// generation orchestrator never updates individual rows.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository builds a timetable repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// ReplaceRows atomically replaces every row of one (cohort, variant)
// with rows, deleting the prior set first. An accepted solve with zero
// rows (every subject carrying zero weekly hours) still clears any
// stale rows from a previous run.
func (r *TimetableRepository) ReplaceRows(ctx context.Context, cohortID string, variant int, rows []models.TimetableRow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace timetable rows: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const deleteQuery = `DELETE FROM timetable_rows WHERE cohort_id = $1 AND variant = $2`
	if _, err := tx.ExecContext(ctx, deleteQuery, cohortID, variant); err != nil {
		return fmt.Errorf("delete timetable rows: %w", err)
	}

	const insertQuery = `
INSERT INTO timetable_rows (id, cohort_id, variant, subject_id, instructor_id, weekday, hour, created_at)
VALUES (:id, :cohort_id, :variant, :subject_id, :instructor_id, :weekday, :hour, :created_at)`

	now := time.Now().UTC()
	for i := range rows {
		row := &rows[i]
		row.CohortID = cohortID
		row.Variant = variant
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, tx, insertQuery, row); err != nil {
			return fmt.Errorf("insert timetable row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace timetable rows: %w", err)
	}
	return nil
}

// ListByCohortVariant returns a cohort variant's rows ordered by
// weekday then hour, the natural reading order for a weekly grid.
func (r *TimetableRepository) ListByCohortVariant(ctx context.Context, cohortID string, variant int) ([]models.TimetableRow, error) {
	const query = `SELECT id, cohort_id, variant, subject_id, instructor_id, weekday, hour, created_at
FROM timetable_rows WHERE cohort_id = $1 AND variant = $2 ORDER BY weekday ASC, hour ASC`

	var rows []models.TimetableRow
	if err := r.db.SelectContext(ctx, &rows, query, cohortID, variant); err != nil {
		return nil, fmt.Errorf("list timetable rows: %w", err)
	}
	return rows, nil
}
