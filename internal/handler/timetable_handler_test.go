package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/handler"
	"github.com/noah-isme/student-portal-api/internal/service"
)

type stubTimetableService struct {
	timetable  dto.TimetableResponse
	today      dto.TodayScheduleResponse
	err        error
	lastUpsert dto.TimetableUpsertRequest
}

func (s *stubTimetableService) Get(context.Context, uint) (dto.TimetableResponse, error) {
	return s.timetable, s.err
}

func (s *stubTimetableService) Today(context.Context, uint) (dto.TodayScheduleResponse, error) {
	return s.today, s.err
}

func (s *stubTimetableService) Upsert(_ context.Context, payload dto.TimetableUpsertRequest) (dto.TimetableResponse, error) {
	s.lastUpsert = payload
	return dto.TimetableResponse{ID: 2, Department: payload.Department, Semester: payload.Semester}, s.err
}

func newTimetableApp(svc service.TimetableService) *fiber.App {
	h := handler.NewTimetableHandler(svc, zerolog.Nop())
	return newApp(33, "student", func(router fiber.Router) {
		h.Register(router.Group("/timetable"))
		h.RegisterAdmin(router.Group("/admin/timetable"))
	})
}

func TestTimetableHandlerTodayWithoutClasses(t *testing.T) {
	svc := &stubTimetableService{today: dto.TodayScheduleResponse{
		Day:     "Sunday",
		Periods: []dto.PeriodResponse{},
		Message: service.NoClassesMessage,
	}}

	resp, payload := doJSON(t, newTimetableApp(svc), http.MethodGet, "/api/v1/timetable/today", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, service.NoClassesMessage, payload.Message)

	var data dto.TodayScheduleResponse
	decodeData(t, payload, &data)
	require.Equal(t, "Sunday", data.Day)
	require.Empty(t, data.Periods)
}

func TestTimetableHandlerNotFound(t *testing.T) {
	svc := &stubTimetableService{err: service.ErrTimetableNotFound}

	resp, _ := doJSON(t, newTimetableApp(svc), http.MethodGet, "/api/v1/timetable", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTimetableHandlerUpsert(t *testing.T) {
	svc := &stubTimetableService{}

	resp, payload := doJSON(t, newTimetableApp(svc), http.MethodPut, "/api/v1/admin/timetable", map[string]interface{}{
		"department":    "Computer Science",
		"semester":      3,
		"academic_year": "2024-25",
		"schedule": []map[string]interface{}{
			{"day": "Monday", "periods": []map[string]interface{}{
				{"period_number": 1, "subject": "Algorithms", "teacher": "Dr. Rao", "start_time": "09:00", "end_time": "10:00", "room": "B12"},
			}},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "timetable saved", payload.Message)
	require.Len(t, svc.lastUpsert.Schedule, 1)
	require.Equal(t, "Algorithms", svc.lastUpsert.Schedule[0].Periods[0].Subject)
}
