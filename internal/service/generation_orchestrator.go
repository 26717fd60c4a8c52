package service

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-engine/internal/availability"
	"github.com/noah-isme/timetable-engine/internal/dto"
	"github.com/noah-isme/timetable-engine/internal/models"
	"github.com/noah-isme/timetable-engine/internal/scheduler"
	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
)

// variantsPerCohort is the number of distinct timetable variants the
// orchestrator generates for every cohort.
const variantsPerCohort = 2

// diversificationMinDifferent is the minimum number of previously-true
// decision variables the second variant's model forbids from repeating.
const diversificationMinDifferent = 1

type catalogReader interface {
	Cohorts(ctx context.Context, programID string, term *int) ([]models.Cohort, error)
	Subjects(ctx context.Context, programID string, term int) ([]models.Subject, error)
	Instructors(ctx context.Context, programID string) ([]models.Instructor, error)
}

type timetableWriter interface {
	ReplaceRows(ctx context.Context, cohortID string, variant int, rows []models.TimetableRow) error
}

// GenerationOrchestrator drives the generation engine end to end: it
// reads a program's catalog, builds and solves a CSP model per
// cohort and variant, and persists accepted solutions. Concurrent
// requests for the same program are serialized, whatever term they
// name, so two runs never race writing the same cohorts' rows.
type GenerationOrchestrator struct {
	catalog    catalogReader
	timetables timetableWriter
	solver     *scheduler.Solver
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	locksMu    sync.Mutex
	locks      map[string]*sync.Mutex
}

// NewGenerationOrchestrator wires a generation orchestrator.
func NewGenerationOrchestrator(catalog catalogReader, timetables timetableWriter, solveTimeout time.Duration, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *GenerationOrchestrator {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if solveTimeout <= 0 {
		solveTimeout = 30 * time.Second
	}
	return &GenerationOrchestrator{
		catalog:    catalog,
		timetables: timetables,
		solver:     scheduler.NewSolver(solveTimeout),
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (o *GenerationOrchestrator) lockFor(programID string) *sync.Mutex {
	key := programID
	o.locksMu.Lock()
	defer o.locksMu.Unlock()
	l, ok := o.locks[key]
	if !ok {
		l = &sync.Mutex{}
		o.locks[key] = l
	}
	return l
}

// Generate runs the full pipeline for every cohort in req.ProgramID
// (optionally restricted to req.Term), returning a per-cohort outcome
// breakdown alongside the flat list of cohorts with at least one placed
// variant.
func (o *GenerationOrchestrator) Generate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
	if err := o.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}

	lock := o.lockFor(req.ProgramID)
	lock.Lock()
	defer lock.Unlock()

	cohorts, err := o.catalog.Cohorts(ctx, req.ProgramID, req.Term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCatalog.Code, appErrors.ErrCatalog.Status, "failed to list cohorts")
	}

	instructors, err := o.catalog.Instructors(ctx, req.ProgramID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCatalog.Code, appErrors.ErrCatalog.Status, "failed to list instructors")
	}

	resp := &dto.GenerateResponse{Success: true, Generated: make([]string, 0, len(cohorts)), Cohorts: make([]dto.CohortOutcome, 0, len(cohorts))}

	for _, cohort := range cohorts {
		outcome, err := o.generateCohort(ctx, cohort, instructors)
		if err != nil {
			o.logger.Error("cohort generation failed", zap.String("cohort_id", cohort.ID), zap.Error(err))
			resp.Success = false
			resp.Cohorts = append(resp.Cohorts, dto.CohortOutcome{CohortID: cohort.ID, Variants: []dto.VariantOutcome{{Variant: 1, Status: string(models.OutcomeUnknown)}}})
			continue
		}
		resp.Cohorts = append(resp.Cohorts, outcome)
		if anyVariantPlaced(outcome) {
			resp.Generated = append(resp.Generated, cohort.ID)
		}
	}

	resp.Message = fmt.Sprintf("generated %d of %d cohort timetables", len(resp.Generated), len(cohorts))
	return resp, nil
}

func anyVariantPlaced(outcome dto.CohortOutcome) bool {
	for _, v := range outcome.Variants {
		status := models.SolverOutcome(v.Status)
		if status.Succeeded() {
			return true
		}
	}
	return false
}

func (o *GenerationOrchestrator) generateCohort(ctx context.Context, cohort models.Cohort, instructors []models.Instructor) (dto.CohortOutcome, error) {
	outcome := dto.CohortOutcome{CohortID: cohort.ID}

	subjects, err := o.catalog.Subjects(ctx, cohort.ProgramID, cohort.Term)
	if err != nil {
		return outcome, appErrors.Wrap(err, appErrors.ErrCatalog.Code, appErrors.ErrCatalog.Status, "failed to list subjects")
	}

	if len(subjects) == 0 || len(instructors) == 0 {
		outcome.Variants = append(outcome.Variants, dto.VariantOutcome{Variant: 1, Status: string(models.OutcomeEmptyInput)})
		return outcome, nil
	}

	weeks, err := parseAvailabilities(instructors)
	if err != nil {
		outcome.Variants = append(outcome.Variants, dto.VariantOutcome{Variant: 1, Status: string(models.OutcomeMalformedAvailability)})
		return outcome, nil
	}

	var firstAssignments []scheduler.VarKey
	for variant := 1; variant <= variantsPerCohort; variant++ {
		model := scheduler.Build(subjects, instructors, weeks)
		if variant == 2 && len(firstAssignments) > 0 {
			scheduler.AddDiversificationCut(model, firstAssignments, diversificationMinDifferent)
		}

		seed := seedFor(cohort.ID, variant)
		start := time.Now()
		solution := o.solver.Solve(model, seed)
		o.metrics.ObserveSolve(string(solution.Status), time.Since(start))

		status := solverOutcome(solution.Status)
		outcome.Variants = append(outcome.Variants, dto.VariantOutcome{Variant: variant, Status: string(status)})

		if !solution.Accepted() {
			continue
		}
		if variant == 1 {
			firstAssignments = solution.Assignments
		}

		rows := toRows(solution.Assignments)
		if err := o.timetables.ReplaceRows(ctx, cohort.ID, variant, rows); err != nil {
			return outcome, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to persist timetable")
		}
	}

	return outcome, nil
}

func parseAvailabilities(instructors []models.Instructor) (map[string]availability.Week, error) {
	weeks := make(map[string]availability.Week, len(instructors))
	for _, instructor := range instructors {
		week, err := availability.ParseWeek(json.RawMessage(instructor.Availability))
		if err != nil {
			return nil, fmt.Errorf("instructor %s: %w", instructor.ID, err)
		}
		weeks[instructor.ID] = week
	}
	return weeks, nil
}

func toRows(keys []scheduler.VarKey) []models.TimetableRow {
	rows := make([]models.TimetableRow, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, models.TimetableRow{
			SubjectID:    key.SubjectID,
			InstructorID: key.InstructorID,
			Weekday:      key.Weekday,
			Hour:         key.Hour,
		})
	}
	return rows
}

func solverOutcome(status scheduler.Status) models.SolverOutcome {
	switch status {
	case scheduler.StatusOptimal:
		return models.OutcomeOptimal
	case scheduler.StatusFeasible:
		return models.OutcomeFeasible
	case scheduler.StatusInfeasible:
		return models.OutcomeInfeasible
	default:
		return models.OutcomeUnknown
	}
}

// seedFor derives a stable, distinct random seed per (cohort, variant)
// so repeated requests for the same cohort are reproducible while the
// two variants of one run still diverge.
func seedFor(cohortID string, variant int) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(cohortID))
	_, _ = h.Write([]byte{byte(variant)})
	return int64(h.Sum64() >> 1)
}
