package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/ledger"
	"github.com/noah-isme/student-portal-api/internal/repository"
	"github.com/noah-isme/student-portal-api/internal/service"
	"github.com/noah-isme/student-portal-api/internal/utils"
)

// FeeHandler exposes fee accounts and payments.
type FeeHandler struct {
	service service.FeeService
	limiter fiber.Handler
	logger  zerolog.Logger
}

// NewFeeHandler constructs the handler. limiter guards the payment route and may be nil.
func NewFeeHandler(service service.FeeService, limiter fiber.Handler, logger zerolog.Logger) *FeeHandler {
	return &FeeHandler{
		service: service,
		limiter: limiter,
		logger:  logger.With().Str("component", "fee_handler").Logger(),
	}
}

// Register attaches student fee routes.
func (h *FeeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/semester/:semester", h.bySemester)
	if h.limiter != nil {
		router.Post("/:id/pay", h.limiter, h.pay)
		return
	}
	router.Post("/:id/pay", h.pay)
}

// RegisterAdmin attaches staff fee routes.
func (h *FeeHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.create)
}

func (h *FeeHandler) list(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fees, err := h.service.List(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "fees retrieved", fees)
}

func (h *FeeHandler) bySemester(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	semester, err := parseSemesterParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	fees, err := h.service.BySemester(c.Context(), studentID, semester)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "fees retrieved", fees)
}

func (h *FeeHandler) pay(c *fiber.Ctx) error {
	studentID, err := extractUserID(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	feeID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.PaymentRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	receipt, err := h.service.Pay(c.Context(), studentID, feeID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "payment recorded", receipt)
}

func (h *FeeHandler) create(c *fiber.Ctx) error {
	var payload dto.FeeAccountCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	account, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "fee account created", account)
}

func (h *FeeHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return validationFailed(c, err)
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidPaymentMethod), errors.Is(err, service.ErrInvalidDate):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		return utils.SendError(c, fiber.StatusForbidden, "fee record belongs to another student")
	case errors.Is(err, service.ErrFeeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "fee record not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, repository.ErrVersionConflict):
		return utils.SendError(c, fiber.StatusConflict, "fee record was modified concurrently, please retry")
	default:
		return internalError(h.logger, c, err)
	}
}
