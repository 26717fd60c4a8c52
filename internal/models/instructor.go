package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// EmploymentType distinguishes full-time instructors, whose weekly load
// is bounded, from adjuncts, who carry no load bound.
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "FULL_TIME"
	EmploymentAdjunct  EmploymentType = "ADJUNCT"
)

// FullTimeMinWeeklyHours and FullTimeMaxWeeklyHours bound the total
// weekly load assigned to a full-time instructor across every subject
// they teach within one cohort's timetable variant; loads across
// different cohorts are not summed.
const (
	FullTimeMinWeeklyHours = 20
	FullTimeMaxWeeklyHours = 40
)

// Instructor is a subject teacher scoped to one program. Availability is
// stored as raw JSON (weekday label to a list of "HH:MM-HH:MM" ranges)
// and parsed on demand by the availability package.
type Instructor struct {
	ID           string         `db:"id" json:"id"`
	ProgramID    string         `db:"program_id" json:"program_id"`
	Name         string         `db:"name" json:"name"`
	Employment   EmploymentType `db:"employment_type" json:"employment_type"`
	Availability types.JSONText `db:"availability" json:"availability"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// IsFullTime reports whether the instructor's weekly load is subject to
// the full-time bounds.
func (i Instructor) IsFullTime() bool {
	return i.Employment == EmploymentFullTime
}
