package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-engine/internal/models"
)

// CatalogRepository reads the cohorts, subjects and instructors a
// generation run needs for a program, optionally scoped to one term.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository builds a catalog repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Cohorts returns every cohort in a program, optionally restricted to
// one term, ordered by name for deterministic processing.
func (r *CatalogRepository) Cohorts(ctx context.Context, programID string, term *int) ([]models.Cohort, error) {
	query := `SELECT id, program_id, name, term, created_at, updated_at FROM cohorts WHERE program_id = $1`
	args := []interface{}{programID}
	if term != nil {
		query += ` AND term = $2`
		args = append(args, *term)
	}
	query += ` ORDER BY name ASC`

	var cohorts []models.Cohort
	if err := r.db.SelectContext(ctx, &cohorts, query, args...); err != nil {
		return nil, fmt.Errorf("list cohorts: %w", err)
	}
	return cohorts, nil
}

// Subjects returns the subjects taught in a program's given term.
func (r *CatalogRepository) Subjects(ctx context.Context, programID string, term int) ([]models.Subject, error) {
	const query = `SELECT id, program_id, name, term, weekly_hours, created_at, updated_at
FROM subjects WHERE program_id = $1 AND term = $2 ORDER BY id ASC`

	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, programID, term); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// Instructors returns every instructor assigned to a program, with
// their raw availability JSON.
func (r *CatalogRepository) Instructors(ctx context.Context, programID string) ([]models.Instructor, error) {
	const query = `SELECT id, program_id, name, employment_type, availability, created_at, updated_at
FROM instructors WHERE program_id = $1 ORDER BY id ASC`

	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, programID); err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return instructors, nil
}
