package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/service"
	"github.com/noah-isme/student-portal-api/internal/utils"
)

// DashboardHandler serves the student home screen aggregate.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard route.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("", h.get)
}

func (h *DashboardHandler) get(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, "unauthorized", nil)
	}

	dashboard, cacheHit, err := h.service.Get(c.Context(), studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "student not found", nil)
		}
		return internalError(h.logger, c, err)
	}

	requestLogger(h.logger, c).Debug().Uint("student_id", studentID).Bool("cache_hit", cacheHit).Msg("dashboard served")
	return utils.OK(c, dashboard, "dashboard retrieved", fiber.Map{"cache_hit": cacheHit})
}
