package models

import "time"

// Subject is a course taught a fixed number of hours per week within a
// given program's term.
type Subject struct {
	ID          string    `db:"id" json:"id"`
	ProgramID   string    `db:"program_id" json:"program_id"`
	Name        string    `db:"name" json:"name"`
	Term        int       `db:"term" json:"term"`
	WeeklyHours int       `db:"weekly_hours" json:"weekly_hours"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
