package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCatalogRepositoryCohortsFiltersByTerm(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{"id", "program_id", "name", "term", "created_at", "updated_at"}).
		AddRow("cohort-1", "prog-1", "Cohort A", 1, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE program_id = $1")).
		WithArgs("prog-1", 1).
		WillReturnRows(rows)

	term := 1
	cohorts, err := repo.Cohorts(context.Background(), "prog-1", &term)
	require.NoError(t, err)
	assert.Len(t, cohorts, 1)
	assert.Equal(t, "cohort-1", cohorts[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryCohortsWithoutTerm(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{"id", "program_id", "name", "term", "created_at", "updated_at"}).
		AddRow("cohort-1", "prog-1", "Cohort A", 1, time.Now(), time.Now()).
		AddRow("cohort-2", "prog-1", "Cohort B", 2, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE program_id = $1")).
		WithArgs("prog-1").
		WillReturnRows(rows)

	cohorts, err := repo.Cohorts(context.Background(), "prog-1", nil)
	require.NoError(t, err)
	assert.Len(t, cohorts, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositorySubjects(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{"id", "program_id", "name", "term", "weekly_hours", "created_at", "updated_at"}).
		AddRow("sub-1", "prog-1", "Algorithms", 1, 4, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM subjects WHERE program_id = $1 AND term = $2")).
		WithArgs("prog-1", 1).
		WillReturnRows(rows)

	subjects, err := repo.Subjects(context.Background(), "prog-1", 1)
	require.NoError(t, err)
	assert.Len(t, subjects, 1)
	assert.Equal(t, 4, subjects[0].WeeklyHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryInstructors(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{"id", "program_id", "name", "employment_type", "availability", "created_at", "updated_at"}).
		AddRow("ins-1", "prog-1", "Ada Lovelace", "FULL_TIME", []byte(`{}`), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM instructors WHERE program_id = $1")).
		WithArgs("prog-1").
		WillReturnRows(rows)

	instructors, err := repo.Instructors(context.Background(), "prog-1")
	require.NoError(t, err)
	assert.Len(t, instructors, 1)
	assert.True(t, instructors[0].IsFullTime())
	assert.NoError(t, mock.ExpectationsWereMet())
}
