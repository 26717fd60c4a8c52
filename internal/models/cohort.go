package models

import "time"

// Cohort is a student group within a program, scoped to one academic
// term. A cohort is the unit the generator produces one timetable per.
type Cohort struct {
	ID        string    `db:"id" json:"id"`
	ProgramID string    `db:"program_id" json:"program_id"`
	Name      string    `db:"name" json:"name"`
	Term      int       `db:"term" json:"term"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
