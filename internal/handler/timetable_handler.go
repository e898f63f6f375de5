package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/service"
	"github.com/noah-isme/student-portal-api/internal/utils"
)

// TimetableHandler exposes the weekly class schedule.
type TimetableHandler struct {
	service service.TimetableService
	logger  zerolog.Logger
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(service service.TimetableService, logger zerolog.Logger) *TimetableHandler {
	return &TimetableHandler{
		service: service,
		logger:  logger.With().Str("component", "timetable_handler").Logger(),
	}
}

// Register attaches student timetable routes.
func (h *TimetableHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Get("/today", h.today)
}

// RegisterAdmin attaches timetable maintenance.
func (h *TimetableHandler) RegisterAdmin(router fiber.Router) {
	router.Put("", h.upsert)
}

func (h *TimetableHandler) get(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	timetable, err := h.service.Get(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "timetable retrieved", timetable)
}

func (h *TimetableHandler) today(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	schedule, err := h.service.Today(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	message := "today's schedule retrieved"
	if schedule.Message != "" {
		message = schedule.Message
	}
	return utils.SendSuccess(c, message, schedule)
}

func (h *TimetableHandler) upsert(c *fiber.Ctx) error {
	var payload dto.TimetableUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	timetable, err := h.service.Upsert(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "timetable saved", timetable)
}

func (h *TimetableHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return validationFailed(c, err)
	case errors.Is(err, service.ErrTimetableNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "timetable not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	default:
		return internalError(h.logger, c, err)
	}
}
