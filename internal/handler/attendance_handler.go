package handler

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/service"
	"github.com/noah-isme/student-portal-api/internal/utils"
)

// AttendanceHandler exposes attendance summaries and staff recording.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches student attendance routes.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Get("", h.overview)
	router.Get("/:subject", h.bySubject)
}

// RegisterAdmin attaches staff attendance routes.
func (h *AttendanceHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.record)
}

func (h *AttendanceHandler) overview(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	overview, err := h.service.Overview(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance retrieved", overview)
}

func (h *AttendanceHandler) bySubject(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	subject, err := url.PathUnescape(c.Params("subject"))
	if err != nil || strings.TrimSpace(subject) == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid subject")
	}

	attendance, err := h.service.BySubject(c.Context(), studentID, subject)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance retrieved", attendance)
}

func (h *AttendanceHandler) record(c *fiber.Ctx) error {
	var payload dto.AttendanceCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}
	if strings.TrimSpace(payload.MarkedBy) == "" {
		payload.MarkedBy = staffIdentity(c)
	}

	record, err := h.service.Record(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attendance recorded", record)
}

func (h *AttendanceHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return validationFailed(c, err)
	case errors.Is(err, service.ErrInvalidDate):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid date")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	default:
		return internalError(h.logger, c, err)
	}
}
