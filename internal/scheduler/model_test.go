package scheduler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-engine/internal/availability"
	"github.com/noah-isme/timetable-engine/internal/models"
)

func TestBuild_CreatesOneVariablePerCombination(t *testing.T) {
	subjects := []models.Subject{{ID: "sub-1", WeeklyHours: 4}, {ID: "sub-2", WeeklyHours: 2}}
	instructors := []models.Instructor{{ID: "ins-1"}, {ID: "ins-2"}}

	m := Build(subjects, instructors, map[string]availability.Week{})

	assert.Len(t, m.Order, len(subjects)*len(instructors)*len(models.Weekdays)*len(HourSlots))
	assert.Len(t, m.Vars, len(m.Order))
}

func TestSolve_SatisfiesWeeklyHoursAndAvailability(t *testing.T) {
	raw, err := json.Marshal(map[string][]string{"Lunes": {"08:00-12:00"}, "Martes": {"08:00-12:00"}})
	require.NoError(t, err)
	week, err := availability.ParseWeek(raw)
	require.NoError(t, err)

	subjects := []models.Subject{{ID: "sub-1", WeeklyHours: 4}}
	instructors := []models.Instructor{{ID: "ins-1", Employment: models.EmploymentAdjunct}}
	weeks := map[string]availability.Week{"ins-1": week}

	m := Build(subjects, instructors, weeks)
	solver := NewSolver(5 * time.Second)
	solution := solver.Solve(m, 1)

	require.True(t, solution.Accepted())
	assert.Len(t, solution.Assignments, 4)
	for _, key := range solution.Assignments {
		assert.True(t, week.Available(key.Weekday, key.Hour))
	}
}

func TestSolve_InfeasibleWhenAvailabilityTooNarrow(t *testing.T) {
	raw, err := json.Marshal(map[string][]string{"Lunes": {"08:00-09:00"}})
	require.NoError(t, err)
	week, err := availability.ParseWeek(raw)
	require.NoError(t, err)

	subjects := []models.Subject{{ID: "sub-1", WeeklyHours: 4}}
	instructors := []models.Instructor{{ID: "ins-1", Employment: models.EmploymentAdjunct}}
	weeks := map[string]availability.Week{"ins-1": week}

	m := Build(subjects, instructors, weeks)
	solver := NewSolver(5 * time.Second)
	solution := solver.Solve(m, 1)

	assert.Equal(t, StatusInfeasible, solution.Status)
}

func TestAddDiversificationCut_ForcesADifferentSolution(t *testing.T) {
	raw, err := json.Marshal(map[string][]string{
		"Lunes": {"08:00-12:00"}, "Martes": {"08:00-12:00"}, "Miércoles": {"08:00-12:00"},
	})
	require.NoError(t, err)
	week, err := availability.ParseWeek(raw)
	require.NoError(t, err)

	subjects := []models.Subject{{ID: "sub-1", WeeklyHours: 4}}
	instructors := []models.Instructor{{ID: "ins-1", Employment: models.EmploymentAdjunct}}
	weeks := map[string]availability.Week{"ins-1": week}

	firstModel := Build(subjects, instructors, weeks)
	solver := NewSolver(5 * time.Second)
	first := solver.Solve(firstModel, 1)
	require.True(t, first.Accepted())

	secondModel := Build(subjects, instructors, weeks)
	AddDiversificationCut(secondModel, first.Assignments, 1)
	second := solver.Solve(secondModel, 2)

	if second.Accepted() {
		assert.NotEqual(t, toSet(first.Assignments), toSet(second.Assignments))
	}
}

func toSet(keys []VarKey) map[VarKey]struct{} {
	set := make(map[VarKey]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
