package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-engine/internal/models"
)

func newTimetableRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimetableRepositoryReplaceRowsDeletesThenInserts(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_rows WHERE cohort_id = $1 AND variant = $2")).
		WithArgs("cohort-1", 1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_rows")).
		WithArgs(sqlmock.AnyArg(), "cohort-1", 1, "sub-1", "ins-1", models.Monday, 8, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rows := []models.TimetableRow{
		{SubjectID: "sub-1", InstructorID: "ins-1", Weekday: models.Monday, Hour: 8},
	}
	require.NoError(t, repo.ReplaceRows(context.Background(), "cohort-1", 1, rows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceRowsRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_rows")).
		WithArgs("cohort-1", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_rows")).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	rows := []models.TimetableRow{
		{SubjectID: "sub-1", InstructorID: "ins-1", Weekday: models.Monday, Hour: 8},
	}
	err := repo.ReplaceRows(context.Background(), "cohort-1", 1, rows)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListByCohortVariant(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := sqlmock.NewRows([]string{"id", "cohort_id", "variant", "subject_id", "instructor_id", "weekday", "hour", "created_at"}).
		AddRow("row-1", "cohort-1", 1, "sub-1", "ins-1", models.Monday, 8, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_rows WHERE cohort_id = $1 AND variant = $2")).
		WithArgs("cohort-1", 1).
		WillReturnRows(rows)

	result, err := repo.ListByCohortVariant(context.Background(), "cohort-1", 1)
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, models.Monday, result[0].Weekday)
	assert.NoError(t, mock.ExpectationsWereMet())
}
