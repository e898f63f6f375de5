package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/middleware"
	"github.com/noah-isme/student-portal-api/internal/service"
	"github.com/noah-isme/student-portal-api/internal/utils"
)

// AuthHandler exposes sign-in and session endpoints.
type AuthHandler struct {
	auth     service.AuthService
	students service.StudentService
	limiter  fiber.Handler
	logger   zerolog.Logger
}

// NewAuthHandler constructs the handler. limiter guards the login route and may be nil.
func NewAuthHandler(auth service.AuthService, students service.StudentService, limiter fiber.Handler, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		students: students,
		limiter:  limiter,
		logger:   logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the auth routes. protect must resolve the caller's token.
func (h *AuthHandler) Register(router fiber.Router, protect fiber.Handler) {
	if h.limiter != nil {
		router.Post("/login", h.limiter, h.login)
	} else {
		router.Post("/login", h.login)
	}

	studentOnly := middleware.AuthOptions{Role: middleware.AuthRoleStudent, RequireUser: true}
	router.Get("/me", protect, middleware.WithAuth(h.me, studentOnly))
	router.Post("/change-password", protect, middleware.WithAuth(h.changePassword, studentOnly))
	router.Post("/logout", protect, h.logout)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	result, err := h.auth.Login(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	requestLogger(h.logger, c).Info().Uint("student_id", result.Student.ID).Msg("student signed in")
	return utils.SendSuccess(c, "login successful", result)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	profile, err := h.students.GetProfile(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *AuthHandler) changePassword(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var payload dto.ChangePasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	if err := h.auth.ChangePassword(c.Context(), studentID, payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "password changed", nil)
}

// logout is an acknowledgement only; tokens expire on their own.
func (h *AuthHandler) logout(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return validationFailed(c, err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrAccountDisabled):
		return utils.SendError(c, fiber.StatusForbidden, "account is deactivated")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	default:
		return internalError(h.logger, c, err)
	}
}
