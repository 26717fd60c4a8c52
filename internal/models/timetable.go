package models

import "time"

// TimetableRow is one accepted (subject, instructor, weekday, hour)
// assignment for a cohort's timetable variant. Rows are written and
// replaced as a unit per (cohort, variant) — never individually.
type TimetableRow struct {
	ID           string    `db:"id" json:"id"`
	CohortID     string    `db:"cohort_id" json:"cohort_id"`
	Variant      int       `db:"variant" json:"variant"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	InstructorID string    `db:"instructor_id" json:"instructor_id"`
	Weekday      Weekday   `db:"weekday" json:"weekday"`
	Hour         int       `db:"hour" json:"hour"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SolverOutcome is the status the scheduler's solver reported for one
// (cohort, variant) solve attempt.
type SolverOutcome string

const (
	OutcomeOptimal               SolverOutcome = "OPTIMAL"
	OutcomeFeasible              SolverOutcome = "FEASIBLE"
	OutcomeInfeasible            SolverOutcome = "INFEASIBLE"
	OutcomeUnknown               SolverOutcome = "UNKNOWN"
	OutcomeEmptyInput            SolverOutcome = "EMPTY_INPUT"
	OutcomeMalformedAvailability SolverOutcome = "MALFORMED_AVAILABILITY"
)

// Succeeded reports whether the outcome placed a timetable.
func (o SolverOutcome) Succeeded() bool {
	return o == OutcomeOptimal || o == OutcomeFeasible
}
