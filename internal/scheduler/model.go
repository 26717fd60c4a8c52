// Package scheduler builds and solves the boolean CSP model behind one
// cohort's timetable: a decision variable per (subject, instructor,
// weekday, hour) combination, subject to the hard constraints described
// in the generation engine's design notes. The solver itself is a
// hand-rolled backtracking search with bounds-consistency propagation
// (see solver.go) — no third-party constraint solver is used; every
// variable in this package's model is plain stdlib data, not a library
// handle, which is what keeps the solver swappable.
package scheduler

import (
	"sort"

	"github.com/noah-isme/timetable-engine/internal/availability"
	"github.com/noah-isme/timetable-engine/internal/models"
)

// HourSlots are the hour-slots the institution schedules classes in,
// ascending. 7 through 20 covers a 7am-9pm teaching day.
var HourSlots = buildHourSlots()

func buildHourSlots() []int {
	hours := make([]int, 0, 14)
	for h := 7; h < 21; h++ {
		hours = append(hours, h)
	}
	return hours
}

// VarKey identifies one (subject, instructor, weekday, hour) decision
// variable.
type VarKey struct {
	SubjectID    string
	InstructorID string
	Weekday      models.Weekday
	Hour         int
}

// linearConstraint bounds the number of true variables among varIdx to
// [lb, ub]. Every hard constraint in this package reduces to one of
// these.
type linearConstraint struct {
	varIdx []int
	lb, ub int64
}

// Model is the CSP model for one cohort's timetable variant, plus the
// bookkeeping the backtracking solver needs to search and read a
// solution back out.
type Model struct {
	// Vars maps a decision variable's key to its index in Order/forced.
	Vars map[VarKey]int
	// Order lists every decision variable in creation order; index i
	// here is variable i everywhere else in the model.
	Order []VarKey

	constraints   []linearConstraint
	constraintsOf [][]int // constraintsOf[i] = constraints touching variable i
	// forced holds a variable's value when a single-variable equality
	// constraint pins it outright (most availability constraints do);
	// -1 means the solver must branch on it.
	forced []int8
}

// Build constructs the decision variables and the five hard-constraint
// families for one cohort: weekly-hours-per-subject, instructor
// non-overlap, cohort non-overlap, instructor availability, and
// full-time load bounds. Subjects and instructors must both be
// non-empty — callers are expected to treat that case as empty input
// before calling Build, per the edge case this mirrors from the system
// this engine continues.
func Build(subjects []models.Subject, instructors []models.Instructor, weeks map[string]availability.Week) *Model {
	subjects = sortedSubjects(subjects)
	instructors = sortedInstructors(instructors)

	count := len(subjects) * len(instructors) * len(models.Weekdays) * len(HourSlots)
	m := &Model{
		Vars:   make(map[VarKey]int, count),
		Order:  make([]VarKey, 0, count),
		forced: make([]int8, 0, count),
	}

	for _, subject := range subjects {
		for _, instructor := range instructors {
			for _, day := range models.Weekdays {
				for _, hour := range HourSlots {
					key := VarKey{subject.ID, instructor.ID, day, hour}
					idx := len(m.Order)
					m.Vars[key] = idx
					m.Order = append(m.Order, key)
					m.forced = append(m.forced, -1)
				}
			}
		}
	}
	m.constraintsOf = make([][]int, len(m.Order))

	addWeeklyHoursConstraints(m, subjects)
	addInstructorNonOverlapConstraints(m, instructors)
	addCohortNonOverlapConstraints(m)
	addAvailabilityConstraints(m, subjects, instructors, weeks)
	addFullTimeLoadConstraints(m, instructors)

	return m
}

// addConstraint bounds the number of true variables among keys to
// [lb, ub]. A single-variable equality (lb == ub, one key) is folded
// straight into forced rather than kept as a constraint the solver
// must re-check at every node — this is what makes availability
// constraints (overwhelmingly of this shape) free at search time.
func (m *Model) addConstraint(keys []VarKey, lb, ub int64) {
	idxs := make([]int, 0, len(keys))
	for _, k := range keys {
		if idx, ok := m.Vars[k]; ok {
			idxs = append(idxs, idx)
		}
	}
	if len(idxs) == 0 {
		return
	}

	if len(idxs) == 1 && lb == ub && (lb == 0 || lb == 1) {
		idx := idxs[0]
		v := int8(lb)
		if m.forced[idx] == -1 || m.forced[idx] == v {
			m.forced[idx] = v
		} else {
			// Two single-variable constraints disagree; pin a
			// constraint that can never be satisfied so the solver
			// reports infeasible instead of silently picking one.
			m.constraints = append(m.constraints, linearConstraint{varIdx: idxs, lb: 1, ub: 0})
			ci := len(m.constraints) - 1
			m.constraintsOf[idx] = append(m.constraintsOf[idx], ci)
		}
		return
	}

	ci := len(m.constraints)
	m.constraints = append(m.constraints, linearConstraint{varIdx: idxs, lb: lb, ub: ub})
	for _, idx := range idxs {
		m.constraintsOf[idx] = append(m.constraintsOf[idx], ci)
	}
}

// keysFor returns every decision-variable key matching the predicate,
// in the model's deterministic creation order.
func (m *Model) keysFor(match func(VarKey) bool) []VarKey {
	keys := make([]VarKey, 0)
	for _, key := range m.Order {
		if match(key) {
			keys = append(keys, key)
		}
	}
	return keys
}

func addWeeklyHoursConstraints(m *Model, subjects []models.Subject) {
	for _, subject := range subjects {
		keys := m.keysFor(func(k VarKey) bool { return k.SubjectID == subject.ID })
		hours := int64(subject.WeeklyHours)
		m.addConstraint(keys, hours, hours)
	}
}

func addInstructorNonOverlapConstraints(m *Model, instructors []models.Instructor) {
	for _, instructor := range instructors {
		for _, day := range models.Weekdays {
			for _, hour := range HourSlots {
				keys := m.keysFor(func(k VarKey) bool {
					return k.InstructorID == instructor.ID && k.Weekday == day && k.Hour == hour
				})
				if len(keys) > 1 {
					m.addConstraint(keys, 0, 1)
				}
			}
		}
	}
}

func addCohortNonOverlapConstraints(m *Model) {
	for _, day := range models.Weekdays {
		for _, hour := range HourSlots {
			keys := m.keysFor(func(k VarKey) bool { return k.Weekday == day && k.Hour == hour })
			if len(keys) > 1 {
				m.addConstraint(keys, 0, 1)
			}
		}
	}
}

// addAvailabilityConstraints forces the variable to zero for every
// (instructor, weekday, hour) the instructor is not available in. A
// weekday absent from the instructor's parsed availability closes every
// hour on that day, including when the instructor's availability is
// empty altogether.
func addAvailabilityConstraints(m *Model, subjects []models.Subject, instructors []models.Instructor, weeks map[string]availability.Week) {
	for _, instructor := range instructors {
		week := weeks[instructor.ID]
		for _, day := range models.Weekdays {
			for _, hour := range HourSlots {
				if week.Available(day, hour) {
					continue
				}
				for _, subject := range subjects {
					key := VarKey{subject.ID, instructor.ID, day, hour}
					m.addConstraint([]VarKey{key}, 0, 0)
				}
			}
		}
	}
}

func addFullTimeLoadConstraints(m *Model, instructors []models.Instructor) {
	for _, instructor := range instructors {
		if !instructor.IsFullTime() {
			continue
		}
		keys := m.keysFor(func(k VarKey) bool { return k.InstructorID == instructor.ID })
		m.addConstraint(keys, models.FullTimeMinWeeklyHours, models.FullTimeMaxWeeklyHours)
	}
}

func sortedSubjects(subjects []models.Subject) []models.Subject {
	out := make([]models.Subject, len(subjects))
	copy(out, subjects)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedInstructors(instructors []models.Instructor) []models.Instructor {
	out := make([]models.Instructor, len(instructors))
	copy(out, instructors)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
