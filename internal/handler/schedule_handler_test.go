package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-engine/internal/dto"
)

type orchestratorMock struct {
	resp *dto.GenerateResponse
	err  error
}

func (m *orchestratorMock) Generate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
	return m.resp, m.err
}

type timetableReaderMock struct {
	rows []dto.TimetableRowView
	err  error
}

func (m *timetableReaderMock) ListByCohortVariant(ctx context.Context, cohortID string, variant int) ([]dto.TimetableRowView, error) {
	return m.rows, m.err
}

type timetableExporterMock struct {
	payload []byte
	err     error
}

func (m *timetableExporterMock) RenderPDF(ctx context.Context, cohortID string, variant int) ([]byte, error) {
	return m.payload, m.err
}

func TestScheduleHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &orchestratorMock{resp: &dto.GenerateResponse{Success: true, Generated: []string{"cohort-1"}}}
	handler := NewScheduleHandler(mock, &timetableReaderMock{}, &timetableExporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewBufferString(`{"programId":"prog-1"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Generate(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestScheduleHandlerGenerateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&orchestratorMock{}, &timetableReaderMock{}, &timetableExporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewBufferString(`{"programId":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Generate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerTimetable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &timetableReaderMock{rows: []dto.TimetableRowView{{SubjectID: "sub-1", InstructorID: "ins-1", Weekday: "Lunes", Hour: 8}}}
	handler := NewScheduleHandler(&orchestratorMock{}, mock, &timetableExporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedules/cohort-1/timetable", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "cohortId", Value: "cohort-1"}}

	handler.Timetable(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestScheduleHandlerTimetableNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&orchestratorMock{}, &timetableReaderMock{}, &timetableExporterMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedules/cohort-1/timetable", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "cohortId", Value: "cohort-1"}}

	handler.Timetable(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlerTimetablePDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &timetableExporterMock{payload: []byte("%PDF-1.4")}
	handler := NewScheduleHandler(&orchestratorMock{}, &timetableReaderMock{}, mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schedules/cohort-1/timetable.pdf", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "cohortId", Value: "cohort-1"}}

	handler.TimetablePDF(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}
