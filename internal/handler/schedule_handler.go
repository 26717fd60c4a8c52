package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-engine/internal/dto"
	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
	"github.com/noah-isme/timetable-engine/pkg/response"
)

// Orchestrator runs the generation engine for a program.
type Orchestrator interface {
	Generate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error)
}

// TimetableReader serves a cohort's persisted timetable rows.
type TimetableReader interface {
	ListByCohortVariant(ctx context.Context, cohortID string, variant int) ([]dto.TimetableRowView, error)
}

// TimetableExporter renders a cohort's timetable variant as a PDF.
type TimetableExporter interface {
	RenderPDF(ctx context.Context, cohortID string, variant int) ([]byte, error)
}

// ScheduleHandler exposes the generation engine's HTTP surface:
// triggering a run, and reading a cohort's resulting timetable as JSON
// or PDF.
type ScheduleHandler struct {
	orchestrator Orchestrator
	timetables   TimetableReader
	export       TimetableExporter
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(orchestrator Orchestrator, timetables TimetableReader, exporter TimetableExporter) *ScheduleHandler {
	return &ScheduleHandler{orchestrator: orchestrator, timetables: timetables, export: exporter}
}

// Generate godoc
// @Summary Generate timetables for every cohort in a program
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateRequest true "Generation request"
// @Success 200 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}

	result, err := h.orchestrator.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Timetable godoc
// @Summary Read a cohort's persisted timetable
// @Tags Schedules
// @Produce json
// @Param cohortId path string true "Cohort ID"
// @Param variant query int false "Variant (default 1)"
// @Success 200 {object} response.Envelope
// @Router /schedules/{cohortId}/timetable [get]
func (h *ScheduleHandler) Timetable(c *gin.Context) {
	cohortID := c.Param("cohortId")
	variant, err := parseVariant(c.DefaultQuery("variant", "1"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "variant must be a positive integer"))
		return
	}

	rows, err := h.timetables.ListByCohortVariant(c.Request.Context(), cohortID, variant)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(rows) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "timetable not found for cohort and variant"))
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// TimetablePDF godoc
// @Summary Download a cohort's persisted timetable as a PDF
// @Tags Schedules
// @Produce application/pdf
// @Param cohortId path string true "Cohort ID"
// @Param variant query int false "Variant (default 1)"
// @Success 200 {file} binary
// @Router /schedules/{cohortId}/timetable.pdf [get]
func (h *ScheduleHandler) TimetablePDF(c *gin.Context) {
	cohortID := c.Param("cohortId")
	variant, err := parseVariant(c.DefaultQuery("variant", "1"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "variant must be a positive integer"))
		return
	}

	payload, err := h.export.RenderPDF(c.Request.Context(), cohortID, variant)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/pdf", payload)
}

func parseVariant(raw string) (int, error) {
	variant, err := strconv.Atoi(raw)
	if err != nil || variant < 1 {
		return 0, appErrors.ErrValidation
	}
	return variant, nil
}
